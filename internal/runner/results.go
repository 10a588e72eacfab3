package runner

import "time"

// TokenUsage records token counts for one model invocation.
type TokenUsage struct {
	Input     int `json:"input"`
	Output    int `json:"output"`
	Reasoning int `json:"reasoning,omitempty"`
	Total     int `json:"total"`
}

// Add returns the element-wise sum of two usages.
func (u TokenUsage) Add(other TokenUsage) TokenUsage {
	return TokenUsage{
		Input:     u.Input + other.Input,
		Output:    u.Output + other.Output,
		Reasoning: u.Reasoning + other.Reasoning,
		Total:     u.Total + other.Total,
	}
}

// RunResult is the terminal outcome of one work item. It is created exactly
// once per item, after the execution path (success or failure) terminates, and
// is immutable from then on. Failed items carry the same schema as successful
// ones: judgeOutput is simply omitted and token usage is zero.
type RunResult struct {
	TestName    string     `json:"testName"`
	ModelName   string     `json:"modelName"`
	RunIndex    int        `json:"runIndex"`
	Timestamp   time.Time  `json:"timestamp"`
	Success     bool       `json:"success"`
	Reason      string     `json:"reason"`
	DurationMs  int64      `json:"durationMs"`
	TokenUsage  TokenUsage `json:"tokenUsage"`
	RawOutput   string     `json:"rawOutput"`
	JudgeOutput string     `json:"judgeOutput,omitempty"`
}
