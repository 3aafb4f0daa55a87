package quizgen

import (
	"encoding/json"
	"fmt"
	"strings"

	"quizify/internal/domain"
)

// formatInstructions steers the model toward emitting a JSON object the
// parser can round-trip into a domain.Question.
const formatInstructions = `The output should be a single JSON object with the following keys:
- "question": the text of the question (string)
- "choices": a list of exactly 4 choices, each an object with a "key" (one of "A", "B", "C", "D") and a "value" (the text of the choice)
- "answer": the key of the correct answer from the choices list
- "explanation": an explanation as to why the answer is correct

Example:
{
  "question": "What is the capital of France?",
  "choices": [
    {"key": "A", "value": "Berlin"},
    {"key": "B", "value": "Madrid"},
    {"key": "C", "value": "Paris"},
    {"key": "D", "value": "Rome"}
  ],
  "answer": "C",
  "explanation": "Paris is the capital of France."
}

Do not output anything other than the JSON object.`

// FormatInstructions returns the output-shape description embedded into
// every generation prompt.
func FormatInstructions() string {
	return formatInstructions
}

// questionPayload mirrors the JSON shape the model is instructed to emit.
type questionPayload struct {
	Question    string          `json:"question"`
	Choices     []domain.Choice `json:"choices"`
	Answer      string          `json:"answer"`
	Explanation string          `json:"explanation"`
}

// ParseQuestion converts raw model output into a validated Question.
// Models wrap JSON in code fences, reasoning tags or prose often enough
// that the payload is located by brace scanning before unmarshalling.
// All failures come back as schema errors so the caller can treat them
// as a spent generation attempt.
func ParseQuestion(raw string) (*domain.Question, error) {
	cleaned := strings.TrimSpace(raw)

	if thinkStart := strings.Index(cleaned, "<think>"); thinkStart != -1 {
		if thinkEnd := strings.Index(cleaned, "</think>"); thinkEnd != -1 && thinkEnd > thinkStart {
			cleaned = cleaned[:thinkStart] + cleaned[thinkEnd+len("</think>"):]
			cleaned = strings.TrimSpace(cleaned)
		}
	}

	jsonStart := strings.Index(cleaned, "{")
	jsonEnd := strings.LastIndex(cleaned, "}")
	if jsonStart == -1 || jsonEnd == -1 || jsonEnd <= jsonStart {
		return nil, domain.NewSchemaError("no JSON object found in model response", fmt.Errorf("response: %s", truncate(cleaned, 200)))
	}

	var payload questionPayload
	if err := json.Unmarshal([]byte(cleaned[jsonStart:jsonEnd+1]), &payload); err != nil {
		return nil, domain.NewSchemaError("failed to unmarshal model response", err)
	}

	question, err := domain.NewQuestion(payload.Question, payload.Choices, payload.Answer, payload.Explanation)
	if err != nil {
		return nil, domain.NewSchemaError("model response violates question shape", err)
	}
	return question, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
