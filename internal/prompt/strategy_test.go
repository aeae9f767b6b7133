package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePrecedence(t *testing.T) {
	cases := []struct {
		name  string
		flags Flags
		want  Strategy
	}{
		{"default", Flags{}, StrategyZeroShot},
		{"zero shot explicit", Flags{ZeroShot: true}, StrategyZeroShot},
		{"one shot", Flags{OneShot: true}, StrategyOneShot},
		{"multi beats one", Flags{OneShot: true, MultiShot: true}, StrategyMultiShot},
		{"dynamic beats all", Flags{ZeroShot: true, OneShot: true, MultiShot: true, Dynamic: true}, StrategyDynamic},
		{"one beats zero", Flags{ZeroShot: true, OneShot: true}, StrategyOneShot},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			base, _ := Resolve(tc.flags)
			require.Equal(t, tc.want, base)
		})
	}
}

func TestResolveChainOfThought(t *testing.T) {
	base, cot := Resolve(Flags{ChainOfThought: true})
	require.Equal(t, StrategyChainOfThought, base)
	require.True(t, cot)

	// An explicit zero-shot request keeps its label even with reasoning on.
	base, cot = Resolve(Flags{ZeroShot: true, ChainOfThought: true})
	require.Equal(t, StrategyZeroShot, base)
	require.True(t, cot)

	base, cot = Resolve(Flags{Dynamic: true, ChainOfThought: true})
	require.Equal(t, StrategyDynamic, base)
	require.True(t, cot)

	base, cot = Resolve(Flags{MultiShot: true, ChainOfThought: true})
	require.Equal(t, StrategyMultiShot, base)
	require.True(t, cot)
}

func TestStrategyString(t *testing.T) {
	require.Equal(t, "zero_shot", StrategyZeroShot.String())
	require.Equal(t, "one_shot", StrategyOneShot.String())
	require.Equal(t, "multi_shot", StrategyMultiShot.String())
	require.Equal(t, "dynamic", StrategyDynamic.String())
	require.Equal(t, "chain_of_thought", StrategyChainOfThought.String())
}

func TestClassifyQuestion(t *testing.T) {
	cases := []struct {
		question string
		want     QuestionType
	}{
		{"What is a p-n junction?", QuestionDefinition},
		{"Define electric flux.", QuestionDefinition},
		{"Compare mitosis and meiosis.", QuestionComparison},
		{"State the difference between speed and velocity.", QuestionComparison},
		{"Describe the steps in DNA replication.", QuestionProcess},
		{"How does a transformer work?", QuestionProcess},
		{"Calculate the integral of x^2 from 0 to 1.", QuestionProblemSolving},
		{"Find the determinant of the matrix.", QuestionProblemSolving},
		{"List the applications of integrals in economics.", QuestionApplication},
		{"What are the practical applications of logarithms?", QuestionApplication},
		{"Photosynthesis", QuestionDefinition},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ClassifyQuestion(tc.question), tc.question)
	}
}

// The definition family is matched before the process family, so an "explain
// the process of" phrasing classifies as definition.
func TestClassifyQuestionOrderMatters(t *testing.T) {
	require.Equal(t, QuestionDefinition, ClassifyQuestion("Explain the process of photosynthesis."))
}

func TestBuildPayloadZeroShotIsEmpty(t *testing.T) {
	payload, qtype := BuildPayload(StrategyZeroShot, false, "Physics", "What is torque?")
	require.Empty(t, payload)
	require.Empty(t, string(qtype))
}

func TestBuildPayloadMultiShotIncludesExamples(t *testing.T) {
	payload, qtype := BuildPayload(StrategyMultiShot, false, "Physics", "What is torque?")
	require.Contains(t, payload, "Here are examples of well-structured answers:")
	require.Equal(t, 3, strings.Count(payload, "Example Question:"))
	require.Empty(t, string(qtype))
}

func TestBuildPayloadOneShotSingleExample(t *testing.T) {
	payload, _ := BuildPayload(StrategyOneShot, false, "Biology", "What is DNA?")
	require.Contains(t, payload, "Here is an example of a well-structured answer:")
	require.Equal(t, 1, strings.Count(payload, "Example Question:"))
}

func TestBuildPayloadDynamicClassifies(t *testing.T) {
	payload, qtype := BuildPayload(StrategyDynamic, false, "Math", "Calculate the area under the curve.")
	require.Equal(t, QuestionProblemSolving, qtype)
	require.Contains(t, payload, "problem-solving question")
}

func TestBuildPayloadChainOfThoughtComesFirst(t *testing.T) {
	payload, _ := BuildPayload(StrategyMultiShot, true, "Chemistry", "What is a mole?")
	cotAt := strings.Index(payload, "Chain of Thought")
	examplesAt := strings.Index(payload, "Example Question:")
	require.GreaterOrEqual(t, cotAt, 0)
	require.Greater(t, examplesAt, cotAt)
}
