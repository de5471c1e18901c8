package llm

import (
	"context"
)

// Tutor is the boundary to the external chat-completion API. Every method
// sends a fixed prompt template and post-processes the text response; any
// failure comes back as an *Error with a distinguishable kind.
type Tutor interface {
	// GenerateQuestions asks for 3-4 clarifying questions about a topic,
	// returned by the model as a JSON array of strings.
	GenerateQuestions(ctx context.Context, topic string) ([]string, error)

	// CountTopics asks how many sub-topics an explanation should use,
	// expecting a bare number in the range 1..5.
	CountTopics(ctx context.Context, topic string) (int, error)

	// GeneratePlan synthesizes a structured learning plan from the topic and
	// the user's answers to the clarifying questions. A positive sections
	// value asks the model for that many plan sections; zero leaves the
	// choice to the model.
	GeneratePlan(ctx context.Context, topic string, questions, answers []string, sections int) (string, error)

	// GenerateDiagram asks for a single SVG document visualizing the plan.
	GenerateDiagram(ctx context.Context, plan string) (string, error)

	// GenerateLatex converts a base64-encoded image of mathematical notation
	// into a LaTeX align block.
	GenerateLatex(ctx context.Context, imageBase64, imageType string) (string, error)
}
