package providers

import (
	"fmt"
	"strings"
)

// NotInMaterial is the fixed reply when the context does not answer a question.
const NotInMaterial = "The answer is not available in the provided PDF."

const askPromptTemplate = `You are an AI assistant answering questions strictly based on the provided PDF content.

Rules you MUST follow:
1. Use ONLY the information present in the given context.
2. DO NOT use any external knowledge.
3. DO NOT guess or assume missing information.
4. If the answer is NOT present in the context, reply exactly:
   "%s"

Context:
%s

Question:
%s

Answer (from PDF only):`

const summaryPromptTemplate = `Based on the following content from a PDF document, provide a comprehensive summary.
The summary should capture the main topics, key points, and important details.
Keep the summary under %d words.

Content:
%s

Summary:`

func BuildPrompt(req GenerateRequest) string {
	context := strings.Join(req.Context, "\n\n")
	switch req.Operation {
	case OpSummary:
		words := req.MaxWords
		if words <= 0 {
			words = 500
		}
		return fmt.Sprintf(summaryPromptTemplate, words, context)
	default:
		return fmt.Sprintf(askPromptTemplate, NotInMaterial, context, strings.TrimSpace(req.Prompt))
	}
}
