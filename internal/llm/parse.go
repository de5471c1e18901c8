package llm

import (
	"encoding/json"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// questionsSchema validates the clarifying-question response: a non-empty
// JSON array of non-empty strings.
const questionsSchemaJSON = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "array",
	"items": {"type": "string", "minLength": 1},
	"minItems": 1,
	"maxItems": 10
}`

var questionsSchema = jsonschema.MustCompileString("questions.schema.json", questionsSchemaJSON)

// cleanFencedOutput strips a surrounding markdown code fence, which chat
// models add even when told not to.
func cleanFencedOutput(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	// Drop the language tag on the opening fence, if any.
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		if tag := strings.TrimSpace(text[:i]); tag != "" && !strings.ContainsAny(tag, " \t{[<") {
			text = text[i+1:]
		}
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// DecodeQuestions parses and validates a question-array response.
func DecodeQuestions(raw string) ([]string, error) {
	cleaned := cleanFencedOutput(raw)

	var v any
	if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
		return nil, parseErr("questions", "response is not JSON: %v", err)
	}
	if err := questionsSchema.Validate(v); err != nil {
		return nil, parseErr("questions", "response does not match question schema: %v", err)
	}

	items := v.([]any)
	questions := make([]string, 0, len(items))
	for _, item := range items {
		questions = append(questions, strings.TrimSpace(item.(string)))
	}
	return questions, nil
}

// ParseTopicCount extracts the topic count from a response that should be a
// bare number in 1..5. Leading/trailing chatter is tolerated; out-of-range
// values are not.
func ParseTopicCount(raw string) (int, error) {
	for _, token := range strings.Fields(cleanFencedOutput(raw)) {
		token = strings.Trim(token, ".,:;")
		n, err := strconv.Atoi(token)
		if err != nil {
			continue
		}
		if n < 1 || n > 5 {
			return 0, parseErr("topic-count", "count %d outside range 1..5", n)
		}
		return n, nil
	}
	return 0, parseErr("topic-count", "no number in response: %s", strings.TrimSpace(raw))
}

// ExtractSVG cuts the SVG document out of a diagram response. Anything
// without both delimiters is rejected rather than rendered.
func ExtractSVG(raw string) (string, error) {
	cleaned := cleanFencedOutput(raw)

	start := strings.Index(cleaned, "<svg")
	if start < 0 {
		return "", parseErr("diagram", "response has no <svg opening tag")
	}
	end := strings.LastIndex(cleaned, "</svg>")
	if end < start {
		return "", parseErr("diagram", "response has no closing </svg> tag")
	}
	return cleaned[start : end+len("</svg>")], nil
}

// ExtractAlignBlock slices the \begin{align}..\end{align} environment out of
// a LaTeX transcription response.
func ExtractAlignBlock(raw string) (string, error) {
	cleaned := cleanFencedOutput(raw)

	const startToken = `\begin{align}`
	const endToken = `\end{align}`

	start := strings.Index(cleaned, startToken)
	if start < 0 {
		return "", parseErr("latex", "response has no align environment")
	}
	end := strings.Index(cleaned[start:], endToken)
	if end < 0 {
		return "", parseErr("latex", "align environment is not closed")
	}
	return cleaned[start : start+end+len(endToken)], nil
}
