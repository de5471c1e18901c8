// Package latex compiles LLM-transcribed math into a PDF by shelling out to
// a LaTeX toolchain.
package latex

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const documentPreamble = `\documentclass{article}
\usepackage{amsmath}
\usepackage{amssymb}
\pagestyle{empty}
\begin{document}
`

const documentClosing = `
\end{document}
`

// Compiler runs a pdflatex-compatible binary.
type Compiler struct {
	Binary string // defaults to "pdflatex"
}

// WrapDocument surrounds an align block with the standalone document
// boiler plate expected by the compiler.
func WrapDocument(body string) string {
	return documentPreamble + strings.TrimSpace(body) + documentClosing
}

// Compile writes the document into a fresh temp directory, runs the LaTeX
// binary there, and returns the produced PDF bytes. Using a per-call
// directory keeps concurrent compilations from clobbering each other's
// intermediate files.
func (c *Compiler) Compile(ctx context.Context, document string) ([]byte, error) {
	binary := c.Binary
	if binary == "" {
		binary = "pdflatex"
	}

	dir, err := os.MkdirTemp("", "studymap-latex-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	texPath := filepath.Join(dir, "document.tex")
	if err := os.WriteFile(texPath, []byte(document), 0o644); err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, binary,
		"-interaction=nonstopmode", "-halt-on-error", "-output-directory", dir, texPath)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%s failed: %w: %s", binary, err, lastLines(string(out), 5))
	}

	pdf, err := os.ReadFile(filepath.Join(dir, "document.pdf"))
	if err != nil {
		return nil, fmt.Errorf("compiler produced no pdf: %w", err)
	}
	return pdf, nil
}

// lastLines keeps error output readable; pdflatex logs are enormous.
func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
