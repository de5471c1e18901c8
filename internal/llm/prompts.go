package llm

import (
	"fmt"
	"strings"
)

// PromptBuilder constructs the fixed prompt templates sent to the completion
// API. Each method returns a system instruction and the user content.
type PromptBuilder struct{}

func (pb *PromptBuilder) BuildQuestionsPrompt(topic string) (system, user string) {
	system = "You are an expert teacher who helps break down complex topics.\n" +
		"Generate 3-4 specific questions that will help clarify what aspects of the topic the user wants to understand.\n" +
		"Format your response as a JSON array of strings, containing only the questions."
	user = fmt.Sprintf("Generate clarifying questions for someone wanting to learn about: %s", topic)
	return system, user
}

func (pb *PromptBuilder) BuildTopicCountPrompt(topic string) (system, user string) {
	system = "You are to decide how many topics should be used to make up the explanation. " +
		"You may choose a number in the range {1, 2, 3, 4, 5} and no other. " +
		"You should respond with only a number and not any other characters."
	user = fmt.Sprintf("Read this description of the topic that the user would like to learn more about:\n%s", topic)
	return system, user
}

func (pb *PromptBuilder) BuildPlanPrompt(topic string, questions, answers []string, sections int) (system, user string) {
	system = "You are an expert teacher who creates detailed learning plans.\n" +
		"Based on the user's topic and their responses to the clarifying questions,\n" +
		"create a structured learning plan that includes:\n\n" +
		"1. Core Concepts: List the fundamental concepts they need to understand\n" +
		"2. Learning Path: Break down the topic into sequential learning steps\n" +
		"3. Key Relationships: Identify important connections between concepts\n" +
		"4. Practical Applications: Real-world examples or applications\n" +
		"5. Common Challenges: Potential stumbling blocks and how to overcome them\n\n" +
		"Separate each section with a blank line and start it with a 'Heading:' label followed by bullet points."

	var sb strings.Builder
	fmt.Fprintf(&sb, "Topic: %s\n\nClarifying Questions and Answers:\n", topic)
	for i, q := range questions {
		answer := ""
		if i < len(answers) {
			answer = answers[i]
		}
		fmt.Fprintf(&sb, "Q: %s\nA: %s\n", q, answer)
	}
	sb.WriteString("\nPlease create a detailed learning plan based on these responses.")
	if sections > 0 {
		fmt.Fprintf(&sb, "\nStructure the plan into %d sections.", sections)
	}
	return system, sb.String()
}

func (pb *PromptBuilder) BuildDiagramPrompt(plan string) (system, user string) {
	system = "Create a detailed SVG diagram that visualizes this learning plan.\n" +
		"Consider using color coding, hierarchical structures, and clear visual relationships.\n" +
		"Include annotations and brief explanations where relevant.\n" +
		"Respond only with raw SVG code without formatting."
	user = fmt.Sprintf("Create a comprehensive diagram based on this learning plan:\n%s", plan)
	return system, user
}

func (pb *PromptBuilder) BuildLatexPrompt() (system string) {
	return "You will be shown an image containing mathematical expressions. " +
		"Transcribe the mathematics into LaTeX inside a single \\begin{align} ... \\end{align} environment. " +
		"Respond only with the LaTeX code and no additional commentary."
}
