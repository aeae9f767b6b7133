package prompt

import (
	"fmt"
	"strings"

	"github.com/edukits/ragtutor/internal/model"
)

// SystemInstructions is the fixed opening block of every prompt. The model
// is told to refuse when the context does not cover the question, which is
// what keeps a zero-context prompt well-behaved.
const SystemInstructions = `You are an educational assistant for Indian Class 12 NCERT subjects (Physics, Biology, Mathematics). Always base answers strictly on the provided context. If the answer is not in context, say you don't have enough textbook information.

Please provide detailed, well-structured answers following these guidelines:
1. Start with a clear introduction to the concept
2. Use bullet points or numbered lists to organize key information
3. Include relevant formulas, definitions, and examples
4. Highlight important terms or concepts in bold when appropriate
5. For mathematics, clearly show step-by-step solutions
6. For physics and biology, explain underlying principles and applications
7. Structure longer answers with appropriate subheadings
8. End with a brief summary of the main points

Make sure to format mathematical equations properly. Your goal is to provide comprehensive, exam-ready answers.`

// Build assembles the final prompt in fixed order: system instructions,
// numbered [Source N] context blocks, strategy payload, then the literal
// question and the answer cue. The block order and source labeling are a
// content contract; do not reorder.
func Build(question string, retrieved []model.RetrievedResult, payload string) string {
	blocks := make([]string, 0, len(retrieved))
	for i, doc := range retrieved {
		blocks = append(blocks, fmt.Sprintf("[Source %d]\n%s", i+1, doc.Text))
	}
	var b strings.Builder
	b.WriteString(SystemInstructions)
	b.WriteString("\n\nContext:\n")
	b.WriteString(strings.Join(blocks, "\n\n"))
	if payload != "" {
		b.WriteString("\n\n")
		b.WriteString(payload)
	}
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\nAnswer:")
	return b.String()
}
