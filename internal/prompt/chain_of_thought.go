package prompt

// Chain-of-thought preambles keyed by exact subject name. They instruct the
// model to show intermediate reasoning; the question itself is appended by
// the assembler, never embedded here.
var chainOfThoughtTemplates = map[string]string{
	"Math": `When answering this math question, use a step-by-step Chain of Thought approach:

1. Break down the problem into clearly defined steps
2. Show all your work and intermediate calculations
3. Explain the reasoning behind each step
4. Identify the formulas or principles you are using
5. Verify your answer at the end

This step-by-step approach ensures accuracy and makes the solution process educational and transparent.`,

	"Physics": `For this physics problem, use a Chain of Thought approach to show the complete solution process:

1. First, identify the relevant physics principles and equations
2. Then, list all given information and the variables to find
3. Next, work through each step of the solution with clear reasoning
4. Include all calculations, showing each mathematical step
5. Finally, verify the answer and confirm the units are correct`,

	"Chemistry": `To solve this chemistry problem thoroughly, use a Chain of Thought approach:

1. First, identify the key chemical concepts involved
2. Then, outline the relevant equations or principles
3. Next, work systematically through each step of the solution
4. Explain your reasoning at each step
5. Finally, verify the answer makes scientific sense`,

	"Biology": `For this biology question, provide a Chain of Thought explanation:

1. First, identify the key biological concepts involved
2. Then, break down the process or mechanism into its component parts
3. Next, explain each component in sequence with clear reasoning
4. Connect the steps to show how they form a complete process
5. Finally, summarize the full explanation`,
}

var chainOfThoughtDefault = `To answer this question thoroughly, use a Chain of Thought approach:

1. First, break down the key components of the question
2. Then, identify the relevant principles or concepts
3. Next, work through your reasoning step by step
4. Make any intermediate conclusions explicit
5. Finally, arrive at a complete answer`

func chainOfThoughtTemplate(subject string) string {
	if tpl, ok := chainOfThoughtTemplates[subject]; ok {
		return tpl
	}
	return chainOfThoughtDefault
}
