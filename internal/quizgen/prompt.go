package quizgen

import (
	"github.com/tmc/langchaingo/prompts"
)

// questionTemplate is the instruction text for one question-generation
// request: a role line naming the topic, four enumerated steps, the
// format instructions, and the retrieved context block.
const questionTemplate = `You are a subject matter expert on the topic: {{.topic}}

Follow the instructions to create a quiz question:
1. Generate a question based on the topic provided and context as key "question"
2. Provide 4 multiple choice answers to the question as a list of key-value pairs "choices"
3. Provide the correct answer for the question from the list of answers as key "answer"
4. Provide an explanation as to why the answer is correct as key "explanation"

{{.format_instructions}}

Context: {{.context}}`

// NewQuestionPrompt builds the prompt template with the format
// instructions bound as a partial variable.
func NewQuestionPrompt() prompts.PromptTemplate {
	return prompts.PromptTemplate{
		Template:       questionTemplate,
		InputVariables: []string{"topic", "context"},
		TemplateFormat: prompts.TemplateFormatGoTemplate,
		PartialVariables: map[string]any{
			"format_instructions": FormatInstructions(),
		},
	}
}
