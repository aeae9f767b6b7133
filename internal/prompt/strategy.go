package prompt

import (
	"regexp"
	"strings"
)

// Strategy is the few-shot/reasoning mode applied to one request.
type Strategy int

const (
	StrategyZeroShot Strategy = iota
	StrategyOneShot
	StrategyMultiShot
	StrategyDynamic
	StrategyChainOfThought
)

func (s Strategy) String() string {
	switch s {
	case StrategyOneShot:
		return "one_shot"
	case StrategyMultiShot:
		return "multi_shot"
	case StrategyDynamic:
		return "dynamic"
	case StrategyChainOfThought:
		return "chain_of_thought"
	default:
		return "zero_shot"
	}
}

// Flags are the raw per-request strategy switches.
type Flags struct {
	ZeroShot       bool
	OneShot        bool
	MultiShot      bool
	Dynamic        bool
	ChainOfThought bool
}

// Resolve picks exactly one base strategy with precedence
// Dynamic > MultiShot > OneShot > ZeroShot; lower flags are overridden, not
// combined. Chain-of-thought is orthogonal: when set, its preamble is
// layered onto whichever base strategy wins, and it only becomes the
// reported strategy when no other flag claims the request.
func Resolve(f Flags) (base Strategy, chainOfThought bool) {
	switch {
	case f.Dynamic:
		base = StrategyDynamic
	case f.MultiShot:
		base = StrategyMultiShot
	case f.OneShot:
		base = StrategyOneShot
	default:
		base = StrategyZeroShot
	}
	if f.ChainOfThought && base == StrategyZeroShot && !f.ZeroShot {
		base = StrategyChainOfThought
	}
	return base, f.ChainOfThought
}

// QuestionType is the dynamic-strategy classification of a question.
type QuestionType string

const (
	QuestionDefinition     QuestionType = "definition"
	QuestionComparison     QuestionType = "comparison"
	QuestionProcess        QuestionType = "process"
	QuestionProblemSolving QuestionType = "problem_solving"
	QuestionApplication    QuestionType = "application"
)

// Classification patterns are tried in this exact order; the first match
// wins and an unmatched question defaults to definition. Order matters:
// "explain the process of X" is a definition question here because the
// definition family is tested first.
var questionPatterns = []struct {
	qtype   QuestionType
	pattern *regexp.Regexp
}{
	{QuestionDefinition, regexp.MustCompile(`(?i)\b(what is|define|explain)\b`)},
	{QuestionComparison, regexp.MustCompile(`(?i)\b(compare|contrast|difference between|differences between|distinguish between)\b`)},
	{QuestionProcess, regexp.MustCompile(`(?i)\b(process of|steps in|steps of|how does|how do)\b`)},
	{QuestionProblemSolving, regexp.MustCompile(`(?i)\b(solve|calculate|find|determine|evaluate|compute)\b`)},
	{QuestionApplication, regexp.MustCompile(`(?i)\b(applications? of|apply|practical use|uses of)\b`)},
}

func ClassifyQuestion(question string) QuestionType {
	q := strings.TrimSpace(question)
	for _, entry := range questionPatterns {
		if entry.pattern.MatchString(q) {
			return entry.qtype
		}
	}
	return QuestionDefinition
}

// BuildPayload renders the strategy material inserted between the retrieved
// context and the question. The returned question type is empty unless the
// dynamic strategy fired.
func BuildPayload(base Strategy, chainOfThought bool, subject, question string) (string, QuestionType) {
	var parts []string
	if chainOfThought {
		parts = append(parts, chainOfThoughtTemplate(subject))
	}
	var qtype QuestionType
	switch base {
	case StrategyOneShot:
		parts = append(parts, renderExamples(subject, 1))
	case StrategyMultiShot:
		parts = append(parts, renderExamples(subject, 3))
	case StrategyDynamic:
		qtype = ClassifyQuestion(question)
		parts = append(parts, dynamicTemplates[qtype])
	}
	return strings.Join(parts, "\n\n"), qtype
}
