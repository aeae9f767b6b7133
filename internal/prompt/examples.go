package prompt

import (
	"fmt"
	"strings"
)

type example struct {
	Question string
	Answer   string
}

// Worked examples embedded verbatim into one-shot and multi-shot prompts.
// They demonstrate the expected format and depth, they are not retrieved
// content. One-shot uses the first entry of the subject's set.
var subjectExamples = map[string][]example{
	"Physics": {
		{
			Question: "State Newton's second law of motion and explain how F = ma follows from it.",
			Answer: `**Newton's Second Law** states that the rate of change of momentum of a body is directly proportional to the applied force and takes place in the direction of the force.

- Momentum is p = mv, so dp/dt = m(dv/dt) when mass is constant.
- Since dv/dt is acceleration a, the law gives F = k·ma; in SI units k = 1.
- Therefore **F = ma**, with force in newtons (N), mass in kg and acceleration in m/s².

**Example**: a 2 kg block accelerating at 3 m/s² experiences a net force of F = 2 × 3 = 6 N.

**Summary**: force equals the time rate of change of momentum, which for constant mass reduces to the familiar F = ma.`,
		},
		{
			Question: "What is the principle of conservation of linear momentum?",
			Answer: `**Conservation of linear momentum**: when no external force acts on a system, its total momentum remains constant.

- For two colliding bodies: m₁u₁ + m₂u₂ = m₁v₁ + m₂v₂.
- It follows directly from Newton's second and third laws.
- Applications include recoil of a gun and rocket propulsion.

**Summary**: internal forces cannot change the total momentum of an isolated system.`,
		},
		{
			Question: "Define electric field intensity and state its SI unit.",
			Answer: `**Electric field intensity** at a point is the force experienced per unit positive test charge placed at that point: E = F/q₀.

- It is a vector quantity directed along the force on a positive charge.
- For a point charge Q at distance r: E = kQ/r².
- **SI unit**: newton per coulomb (N/C), equivalently volt per metre (V/m).

**Summary**: E describes the strength and direction of the electric field independent of the test charge.`,
		},
	},
	"Biology": {
		{
			Question: "Describe the double-helix structure of DNA.",
			Answer: `**DNA structure** (Watson and Crick model):

- Two antiparallel polynucleotide strands coiled into a right-handed double helix.
- The sugar-phosphate backbones face outward; nitrogenous bases point inward.
- **Complementary base pairing**: adenine pairs with thymine (2 hydrogen bonds), guanine with cytosine (3 hydrogen bonds).
- One helical turn spans about 3.4 nm and contains roughly 10 base pairs.

**Significance**: complementary pairing allows semi-conservative replication and faithful transmission of genetic information.

**Summary**: DNA is a base-paired, antiparallel double helix whose structure directly supports its function of information storage and copying.`,
		},
		{
			Question: "What is photosynthesis? Outline the light reactions.",
			Answer: `**Photosynthesis** is the process by which green plants convert light energy into chemical energy, producing glucose and oxygen from carbon dioxide and water.

The **light reactions** (thylakoid membrane):
1. Chlorophyll absorbs light and excites electrons.
2. Water is split (photolysis), releasing O₂, protons and electrons.
3. Electron transport drives proton pumping and ATP synthesis (photophosphorylation).
4. NADP⁺ is reduced to NADPH.

**Summary**: the light reactions trap solar energy as ATP and NADPH, which power the Calvin cycle.`,
		},
		{
			Question: "Explain Mendel's law of segregation.",
			Answer: `**Law of segregation**: the two alleles of a gene separate during gamete formation, so each gamete carries only one allele of a pair.

- A heterozygote Tt produces gametes T and t in equal proportion.
- Fusion at fertilization restores the allele pair, giving the 3:1 phenotypic ratio in the F₂ of a monohybrid cross.
- The physical basis is the separation of homologous chromosomes in meiosis I.

**Summary**: allele pairs segregate cleanly into gametes, explaining the reappearance of recessive traits in the F₂ generation.`,
		},
	},
	"Math": {
		{
			Question: "Differentiate f(x) = x² sin x.",
			Answer: `We apply the **product rule**: (uv)' = u'v + uv'.

1. Let u = x² and v = sin x.
2. Then u' = 2x and v' = cos x.
3. f'(x) = u'v + uv' = 2x sin x + x² cos x.

**Final answer**: f'(x) = 2x sin x + x² cos x.

**Summary**: a product of two differentiable functions is differentiated term by term with the product rule.`,
		},
		{
			Question: "Evaluate the definite integral of (2x + 3) from 0 to 1.",
			Answer: `**Step-by-step solution**:

1. Find the antiderivative: ∫(2x + 3) dx = x² + 3x + C.
2. Apply the limits: [x² + 3x]₀¹ = (1 + 3) − (0 + 0) = 4.

**Final answer**: 4.

**Summary**: evaluate the antiderivative at the upper and lower limits and subtract.`,
		},
		{
			Question: "Find the inverse of the matrix A = [[2, 1], [1, 1]].",
			Answer: `For a 2×2 matrix A = [[a, b], [c, d]], A⁻¹ = (1/det A) [[d, −b], [−c, a]].

1. det A = (2)(1) − (1)(1) = 1.
2. Since det A ≠ 0, the inverse exists.
3. A⁻¹ = (1/1) [[1, −1], [−1, 2]] = [[1, −1], [−1, 2]].

**Verification**: A·A⁻¹ = [[1, 0], [0, 1]] ✓.

**Summary**: compute the determinant, check it is non-zero, then apply the adjugate formula.`,
		},
	},
}

// NormalizeSubject maps a free-text subject to an example-set key:
// case-insensitive substring match, Math as the default.
func NormalizeSubject(subject string) string {
	lower := strings.ToLower(subject)
	switch {
	case strings.Contains(lower, "physics"):
		return "Physics"
	case strings.Contains(lower, "bio"):
		return "Biology"
	default:
		return "Math"
	}
}

func renderExamples(subject string, n int) string {
	set := subjectExamples[NormalizeSubject(subject)]
	if n > len(set) {
		n = len(set)
	}
	var b strings.Builder
	if n == 1 {
		b.WriteString("Here is an example of a well-structured answer:\n\n")
	} else {
		b.WriteString("Here are examples of well-structured answers:\n\n")
	}
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Example Question: %s\nExample Answer: %s", set[i].Question, set[i].Answer)
	}
	b.WriteString("\n\nNow answer the new question in the same style and depth.")
	return b.String()
}
