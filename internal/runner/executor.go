package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gauntlet/internal/invoke"
	"gauntlet/internal/matrix"
	"gauntlet/internal/spec"
)

// Executor turns work items into terminal results by invoking the model under
// test and, for text tests, asking the judge for a verdict.
type Executor struct {
	invoker invoke.Invoker
	judge   invoke.Judge
	tests   map[string]spec.TestCase
	now     func() time.Time
}

// NewExecutor builds an Executor over the given test cases. judge may be nil
// when no text tests are present.
func NewExecutor(invoker invoke.Invoker, judge invoke.Judge, tests []spec.TestCase) *Executor {
	byName := make(map[string]spec.TestCase, len(tests))
	for _, test := range tests {
		byName[test.Name] = test
	}
	return &Executor{invoker: invoker, judge: judge, tests: byName, now: time.Now}
}

// Execute runs one work item. Model invocation errors are returned to the
// scheduler, which synthesizes the failed result; a completed invocation
// always yields a result, whether the test passed or not.
func (e *Executor) Execute(ctx context.Context, item matrix.WorkItem) (RunResult, error) {
	test, ok := e.tests[item.Test]
	if !ok {
		return RunResult{}, fmt.Errorf("unknown test %q", item.Test)
	}

	startedAt := e.now()
	req := invoke.Request{
		Model:     item.Model,
		Prompt:    test.Prompt,
		MaxTokens: test.MaxTokens,
	}
	if test.Type == spec.TestTypeStructured {
		req.Schema = test.Schema
	}
	res, err := e.invoker.Invoke(ctx, req)
	if err != nil {
		return RunResult{}, fmt.Errorf("invoke %s: %w", item.Model, err)
	}

	result := RunResult{
		TestName:   item.Test,
		ModelName:  item.Model,
		RunIndex:   item.RunIndex,
		Timestamp:  startedAt,
		RawOutput:  res.Output,
		TokenUsage: usageOf(res.Usage),
	}
	switch test.Type {
	case spec.TestTypeStructured:
		result.Success, result.Reason = checkStructured(res.Output)
	default:
		judgement := e.judgeResponse(ctx, test, res.Output)
		result.Success = judgement.Success
		result.Reason = judgement.Reason
		result.JudgeOutput = judgement.RawOutput
		result.TokenUsage = result.TokenUsage.Add(usageOf(judgement.Usage))
	}
	result.DurationMs = e.now().Sub(startedAt).Milliseconds()
	return result, nil
}

// judgeResponse scores a text-test response, treating a missing judge as a
// deterministic failure.
func (e *Executor) judgeResponse(ctx context.Context, test spec.TestCase, output string) invoke.Judgement {
	if e.judge == nil {
		return invoke.Judgement{Success: false, Reason: "no judge configured for text test"}
	}
	return e.judge.Evaluate(ctx, test.Prompt, test.ExpectedAnswer, output)
}

// checkStructured verifies a structured-test response parses as a JSON object
// or array. Schema conformance is enforced upstream through the provider's
// response_format; a reply that is not even JSON still fails here.
func checkStructured(output string) (bool, string) {
	if !json.Valid([]byte(output)) {
		return false, "output is not valid JSON"
	}
	return true, "output is valid JSON"
}

// usageOf converts boundary token usage into the persisted form.
func usageOf(u invoke.Usage) TokenUsage {
	return TokenUsage{Input: u.Input, Output: u.Output, Reasoning: u.Reasoning, Total: u.Total}
}
