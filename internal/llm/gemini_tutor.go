package llm

import (
	"context"
	"encoding/base64"
	"fmt"

	"google.golang.org/genai"
)

// GeminiTutor implements Tutor using Gemini text generation.
type GeminiTutor struct {
	client        *genai.Client
	model         string
	promptBuilder *PromptBuilder
}

func NewGeminiTutor(ctx context.Context, apiKey, modelName string) (*GeminiTutor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiTutor{
		client:        client,
		model:         modelName,
		promptBuilder: &PromptBuilder{},
	}, nil
}

func (t *GeminiTutor) GenerateQuestions(ctx context.Context, topic string) ([]string, error) {
	system, user := t.promptBuilder.BuildQuestionsPrompt(topic)
	raw, err := t.generate(ctx, "questions", system+"\n\n"+user)
	if err != nil {
		return nil, err
	}
	return DecodeQuestions(raw)
}

func (t *GeminiTutor) CountTopics(ctx context.Context, topic string) (int, error) {
	system, user := t.promptBuilder.BuildTopicCountPrompt(topic)
	raw, err := t.generate(ctx, "topic-count", system+"\n\n"+user)
	if err != nil {
		return 0, err
	}
	return ParseTopicCount(raw)
}

func (t *GeminiTutor) GeneratePlan(ctx context.Context, topic string, questions, answers []string, sections int) (string, error) {
	system, user := t.promptBuilder.BuildPlanPrompt(topic, questions, answers, sections)
	raw, err := t.generate(ctx, "plan", system+"\n\n"+user)
	if err != nil {
		return "", err
	}
	plan := cleanFencedOutput(raw)
	if plan == "" {
		return "", parseErr("plan", "empty plan response")
	}
	return plan, nil
}

func (t *GeminiTutor) GenerateDiagram(ctx context.Context, plan string) (string, error) {
	system, user := t.promptBuilder.BuildDiagramPrompt(plan)
	raw, err := t.generate(ctx, "diagram", system+"\n\n"+user)
	if err != nil {
		return "", err
	}
	return ExtractSVG(raw)
}

func (t *GeminiTutor) GenerateLatex(ctx context.Context, imageBase64, imageType string) (string, error) {
	img, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		return "", parseErr("latex", "image is not valid base64: %v", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(t.promptBuilder.BuildLatexPrompt()),
			genai.NewPartFromBytes(img, "image/"+imageType),
		}, genai.RoleUser),
	}

	resp, err := t.client.Models.GenerateContent(ctx, t.model, contents, nil)
	if err != nil {
		return "", requestErr("latex", err)
	}
	text := resp.Text()
	if text == "" {
		return "", parseErr("latex", "response text is empty")
	}
	return ExtractAlignBlock(text)
}

func (t *GeminiTutor) generate(ctx context.Context, op, prompt string) (string, error) {
	contents := genai.Text(prompt)
	resp, err := t.client.Models.GenerateContent(ctx, t.model, contents, nil)
	if err != nil {
		return "", requestErr(op, err)
	}
	text := resp.Text()
	if text == "" {
		return "", parseErr(op, "response text is empty")
	}
	return text, nil
}
