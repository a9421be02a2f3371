package solver

import "fmt"

const solutionTemplate = `
You are an expert %[1]s programmer.

Given the problem: "%[2]s", write:

1. A complete and runnable **recursive solution**.
2. A complete and runnable **iterative solution**.

Respond with exactly two code blocks, each labeled inside markdown with triple backticks.
Only code should be inside the blocks.
`

const explanationTemplate = "\n" +
	"You are a programming tutor. Please explain the two code snippets below to a beginner in a structured and easy-to-understand format.\n" +
	"\n" +
	"Format your explanation with these sections:\n" +
	"\n" +
	"### 🌀 Recursive Version Explanation\n" +
	"- What it does\n" +
	"- Step-by-step logic\n" +
	"- Example with values\n" +
	"- Pros and cons\n" +
	"\n" +
	"### 🔁 Iterative Version Explanation\n" +
	"- What it does\n" +
	"- Step-by-step logic\n" +
	"- Example with values\n" +
	"- Pros and cons\n" +
	"\n" +
	"### ⚔️ Recursion vs Iteration\n" +
	"- Key differences\n" +
	"- When to use which\n" +
	"\n" +
	"Here are the two code snippets:\n" +
	"\n" +
	"#### Recursive Version:\n" +
	"```%[1]s```\n" +
	"\n" +
	"#### Iterative Version:\n" +
	"```%[2]s```\n"

// BuildSolutionPrompt embeds problem and language verbatim; nothing is escaped.
func BuildSolutionPrompt(problem, language string) string {
	return fmt.Sprintf(solutionTemplate, language, problem)
}

func BuildExplanationPrompt(recursiveCode, iterativeCode string) string {
	return fmt.Sprintf(explanationTemplate, recursiveCode, iterativeCode)
}
