package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OpenAITutor talks to an OpenAI-compatible chat-completions endpoint.
type OpenAITutor struct {
	client        *http.Client
	apiKey        string
	model         string
	endpoint      string
	promptBuilder *PromptBuilder
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// chatMessage content is either a plain string or a list of typed parts for
// multimodal requests.
type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type imagePart struct {
	Type     string   `json:"type"`
	ImageURL imageURL `json:"image_url"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewOpenAITutor builds a tutor against the given endpoint; an empty baseURL
// targets the public OpenAI API.
func NewOpenAITutor(apiKey, model, baseURL string) *OpenAITutor {
	endpoint := strings.TrimSpace(baseURL)
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1/chat/completions"
	} else {
		endpoint = strings.TrimRight(endpoint, "/")
		if !strings.HasSuffix(endpoint, "/chat/completions") {
			if strings.HasSuffix(endpoint, "/v1") {
				endpoint += "/chat/completions"
			} else {
				endpoint += "/v1/chat/completions"
			}
		}
	}
	return &OpenAITutor{
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		apiKey:        apiKey,
		model:         model,
		endpoint:      endpoint,
		promptBuilder: &PromptBuilder{},
	}
}

func (t *OpenAITutor) GenerateQuestions(ctx context.Context, topic string) ([]string, error) {
	system, user := t.promptBuilder.BuildQuestionsPrompt(topic)
	raw, err := t.generate(ctx, "questions", system, user, 0.7)
	if err != nil {
		return nil, err
	}
	return DecodeQuestions(raw)
}

func (t *OpenAITutor) CountTopics(ctx context.Context, topic string) (int, error) {
	system, user := t.promptBuilder.BuildTopicCountPrompt(topic)
	raw, err := t.generate(ctx, "topic-count", system, user, 0.3)
	if err != nil {
		return 0, err
	}
	return ParseTopicCount(raw)
}

func (t *OpenAITutor) GeneratePlan(ctx context.Context, topic string, questions, answers []string, sections int) (string, error) {
	system, user := t.promptBuilder.BuildPlanPrompt(topic, questions, answers, sections)
	raw, err := t.generate(ctx, "plan", system, user, 0.7)
	if err != nil {
		return "", err
	}
	plan := cleanFencedOutput(raw)
	if plan == "" {
		return "", parseErr("plan", "empty plan response")
	}
	return plan, nil
}

func (t *OpenAITutor) GenerateDiagram(ctx context.Context, plan string) (string, error) {
	system, user := t.promptBuilder.BuildDiagramPrompt(plan)
	raw, err := t.generate(ctx, "diagram", system, user, 0.7)
	if err != nil {
		return "", err
	}
	return ExtractSVG(raw)
}

func (t *OpenAITutor) GenerateLatex(ctx context.Context, imageBase64, imageType string) (string, error) {
	messages := []chatMessage{
		{Role: "user", Content: t.promptBuilder.BuildLatexPrompt()},
		{Role: "user", Content: []imagePart{{
			Type: "image_url",
			ImageURL: imageURL{
				URL: fmt.Sprintf("data:image/%s;base64,%s", imageType, imageBase64),
			},
		}}},
	}
	raw, err := t.send(ctx, "latex", chatRequest{
		Model:     t.model,
		Messages:  messages,
		MaxTokens: 1024,
	})
	if err != nil {
		return "", err
	}
	return ExtractAlignBlock(raw)
}

func (t *OpenAITutor) generate(ctx context.Context, op, system, user string, temperature float64) (string, error) {
	return t.send(ctx, op, chatRequest{
		Model: t.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
	})
}

func (t *OpenAITutor) send(ctx context.Context, op string, reqBody chatRequest) (string, error) {
	if strings.TrimSpace(t.apiKey) == "" {
		return "", requestErr(op, fmt.Errorf("openai api key is required"))
	}
	if strings.TrimSpace(t.model) == "" {
		return "", requestErr(op, fmt.Errorf("openai model is required"))
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", requestErr(op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", requestErr(op, err)
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", requestErr(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", requestErr(op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", statusErr(op, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", parseErr(op, "response is not valid JSON: %v", err)
	}
	if len(parsed.Choices) == 0 {
		return "", parseErr(op, "response has no choices")
	}
	text := parsed.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", parseErr(op, "response text is empty")
	}
	return text, nil
}
