package prompt

// Structured-response scaffolds for the dynamic strategy, one per question
// type. These prescribe the sections of the answer, they contain no worked
// examples.
var dynamicTemplates = map[QuestionType]string{
	QuestionDefinition: `This is a definition question. Structure your answer as follows:
1. Start with a precise, textbook-accurate definition
2. Explain each key term used in the definition
3. Give a relevant formula, diagram description, or example
4. State the significance of the concept and where it is used
5. Close with a one-sentence restatement of the definition`,

	QuestionComparison: `This is a comparison question. Structure your answer as follows:
1. Briefly introduce both items being compared
2. List the key similarities as bullet points
3. List the key differences, pairing each aspect side by side
4. Mention situations where each applies
5. Conclude with the single most important distinction`,

	QuestionProcess: `This is a process question. Structure your answer as follows:
1. State what the process achieves and where it occurs
2. Identify what initiates the process
3. Describe each stage in strict sequence, numbering the steps
4. Name the intermediates or conditions at each stage
5. Conclude with the final outcome and its importance`,

	QuestionProblemSolving: `This is a problem-solving question. Structure your answer as follows:
1. List the given data and what must be found
2. Select the applicable formulas or principles and justify them
3. Show the working step by step, keeping units explicit
4. Verify the result by checking limits, signs, or units
5. State the final answer clearly with correct units`,

	QuestionApplication: `This is an application question. Structure your answer as follows:
1. Recap the underlying concept in one or two sentences
2. List the practical applications as numbered points
3. For each application, explain how the concept makes it work
4. Give at least one concrete real-world example
5. Summarize why the concept matters in practice`,
}
