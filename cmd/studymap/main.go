package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studymap/internal/config"
	"studymap/internal/diagram"
	"studymap/internal/history"
	"studymap/internal/latex"
	"studymap/internal/llm"
	"studymap/internal/plan"
	"studymap/internal/server"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	rootCmd = &cobra.Command{
		Use:   "studymap",
		Short: "AI-assisted learning plan builder",
	}
	configPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(historyCmd)
}

// initStore opens the configured history backend.
func initStore(cfg *config.Config) (history.Store, error) {
	switch cfg.History.Backend {
	case "sqlite":
		return history.NewSQLiteStore(cfg.History.Path)
	case "json", "":
		return history.NewFileStore(cfg.History.Path)
	default:
		return nil, fmt.Errorf("unknown history backend %q (want json or sqlite)", cfg.History.Backend)
	}
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the studymap web server",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		logger, err := zap.NewProduction()
		if err != nil {
			log.Fatalf("Failed to create logger: %v", err)
		}
		defer logger.Sync()

		ctx := context.Background()

		tutor, err := llm.NewTutor(ctx, llm.TutorOptions{
			Provider: cfg.AI.Provider,
			APIKey:   cfg.AI.APIKey,
			Model:    cfg.AI.Model,
			BaseURL:  cfg.AI.BaseURL,
		})
		if err != nil {
			log.Fatalf("Failed to create tutor client: %v", err)
		}

		store, err := initStore(cfg)
		if err != nil {
			log.Fatalf("Failed to open history store: %v", err)
		}
		defer store.Close()

		compiler := &latex.Compiler{Binary: cfg.Latex.Binary}
		handler := server.NewHandler(tutor, store, compiler, logger, cfg.Diagram.Source == "llm")
		srv := server.New(cfg.Server.Addr, handler, logger)

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			if err != nil {
				log.Fatalf("Server failed: %v", err)
			}
		case <-stop:
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Fatalf("Shutdown failed: %v", err)
			}
		}
	},
}

var renderCmd = &cobra.Command{
	Use:   "render [plan.txt]",
	Short: "Render a learning plan file as an SVG diagram on stdout",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		text, err := os.ReadFile(args[0])
		if err != nil {
			log.Fatalf("Failed to read plan file: %v", err)
		}

		g := plan.Convert(string(text))
		fmt.Print(diagram.Render(g))
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the stored topic history",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		store, err := initStore(cfg)
		if err != nil {
			log.Fatalf("Failed to open history store: %v", err)
		}
		defer store.Close()

		entries, err := store.Load(context.Background())
		if err != nil {
			log.Fatalf("Failed to load history: %v", err)
		}

		if len(entries) == 0 {
			fmt.Println("No history yet.")
			return
		}

		for _, e := range entries {
			fmt.Printf("%s  %s  %s\n", e.CreatedAt.Format(time.RFC3339), e.ID, e.Prompt)
		}
	},
}
