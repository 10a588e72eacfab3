// Package invoke holds the harness's remote collaborators: the model invoker
// and the judge evaluator. The core treats both as opaque calls with a single
// success/failure outcome.
package invoke

import "context"

// Usage records token counts reported by a remote call.
type Usage struct {
	Input     int
	Output    int
	Reasoning int
	Total     int
}

// Request is one model invocation. Schema, when set, carries a JSON schema the
// model output must conform to (structured tests).
type Request struct {
	Model     string
	Prompt    string
	Schema    string
	MaxTokens int
}

// Response is a successful model invocation outcome.
type Response struct {
	Output string
	Usage  Usage
}

// Invoker performs one remote model call.
type Invoker interface {
	Invoke(ctx context.Context, req Request) (Response, error)
}

// Judgement is a judge's verdict on a model response. A judge never fails as
// an error: its own failures are converted into a failed judgement.
type Judgement struct {
	Success   bool
	Reason    string
	RawOutput string
	Usage     Usage
}

// Judge scores a raw model response against an optional expected answer.
type Judge interface {
	Evaluate(ctx context.Context, prompt, expectedAnswer, response string) Judgement
}
