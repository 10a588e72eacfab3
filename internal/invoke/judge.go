package invoke

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// judgePromptTemplate instructs the judge model to end its reply with a
// verdict tag so the harness can parse it deterministically.
const judgePromptTemplate = `You are grading a model's answer to a test question.

Question:
%s

%sModel answer:
%s

Explain briefly whether the answer is correct, then end your reply with exactly
one of <verdict>pass</verdict> or <verdict>fail</verdict> as the final line.`

// ErrMissingVerdict indicates the judge reply had no trailing verdict tag.
var ErrMissingVerdict = errors.New("missing <verdict> tag")

// JudgeEvaluator scores text-test responses by asking a judge model for a
// verdict. It implements Judge.
type JudgeEvaluator struct {
	invoker Invoker
	model   string
}

// NewJudgeEvaluator builds a judge backed by the given invoker and model.
func NewJudgeEvaluator(invoker Invoker, model string) *JudgeEvaluator {
	return &JudgeEvaluator{invoker: invoker, model: model}
}

// Evaluate asks the judge model for a verdict. Any failure of the judge call
// itself, including an unparsable reply, becomes a deterministic failed
// judgement rather than an error.
func (j *JudgeEvaluator) Evaluate(ctx context.Context, prompt, expectedAnswer, response string) Judgement {
	expectedSection := ""
	if strings.TrimSpace(expectedAnswer) != "" {
		expectedSection = fmt.Sprintf("Expected answer:\n%s\n\n", expectedAnswer)
	}
	judgePrompt := fmt.Sprintf(judgePromptTemplate, prompt, expectedSection, response)

	res, err := j.invoker.Invoke(ctx, Request{Model: j.model, Prompt: judgePrompt})
	if err != nil {
		return Judgement{Success: false, Reason: fmt.Sprintf("judge call failed: %v", err)}
	}
	pass, reason, err := ParseVerdict(res.Output)
	if err != nil {
		return Judgement{
			Success:   false,
			Reason:    fmt.Sprintf("judge reply unparsable: %v", err),
			RawOutput: res.Output,
			Usage:     res.Usage,
		}
	}
	return Judgement{Success: pass, Reason: reason, RawOutput: res.Output, Usage: res.Usage}
}

// ParseVerdict extracts the trailing verdict tag from a judge reply. The
// reason is the explanation preceding the tag.
func ParseVerdict(output string) (bool, string, error) {
	trimmed := strings.TrimSpace(output)
	const closing = "</verdict>"
	if !strings.HasSuffix(trimmed, closing) {
		return false, "", ErrMissingVerdict
	}
	body := trimmed[:len(trimmed)-len(closing)]
	open := strings.LastIndex(body, "<verdict>")
	if open == -1 {
		return false, "", ErrMissingVerdict
	}
	verdict := strings.ToLower(strings.TrimSpace(body[open+len("<verdict>"):]))
	reason := strings.TrimSpace(body[:open])
	switch verdict {
	case "pass":
		return true, reason, nil
	case "fail":
		return false, reason, nil
	default:
		return false, "", fmt.Errorf("unknown verdict %q", verdict)
	}
}
