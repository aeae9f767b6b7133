package model

// AskRequest carries one question through the answer pipeline. Optional
// fields fall back to configured defaults when unset.
type AskRequest struct {
	Question          string   `json:"question"`
	Subject           string   `json:"subject"`
	K                 int      `json:"k"`
	Temperature       *float32 `json:"temperature"`
	UseZeroShot       bool     `json:"use_zero_shot"`
	UseOneShot        bool     `json:"use_one_shot"`
	UseMultiShot      bool     `json:"use_multi_shot"`
	UseDynamic        bool     `json:"use_dynamic"`
	UseChainOfThought bool     `json:"use_chain_of_thought"`
}

// SourceRef is the caller-visible provenance of one context block.
type SourceRef struct {
	Subject string `json:"subject"`
	Source  string `json:"source"`
	Page    int    `json:"page"`
}

type AskResult struct {
	Answer             string      `json:"answer"`
	UsedK              int         `json:"used_k"`
	Temperature        float32     `json:"temperature"`
	Strategy           string      `json:"strategy"`
	UsedZeroShot       bool        `json:"used_zero_shot"`
	UsedOneShot        bool        `json:"used_one_shot"`
	UsedMultiShot      bool        `json:"used_multi_shot"`
	UsedDynamic        bool        `json:"used_dynamic"`
	UsedChainOfThought bool        `json:"used_chain_of_thought"`
	QuestionType       string      `json:"question_type,omitempty"`
	Sources            []SourceRef `json:"sources,omitempty"`
}
