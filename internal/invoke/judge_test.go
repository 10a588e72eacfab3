package invoke

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type scriptedInvoker struct {
	lastReq Request
	res     Response
	err     error
}

func (s *scriptedInvoker) Invoke(_ context.Context, req Request) (Response, error) {
	s.lastReq = req
	return s.res, s.err
}

func TestParseVerdict(t *testing.T) {
	cases := []struct {
		name    string
		output  string
		pass    bool
		reason  string
		wantErr bool
	}{
		{name: "pass", output: "Correct answer.\n<verdict>pass</verdict>", pass: true, reason: "Correct answer."},
		{name: "fail", output: "Wrong units.\n<verdict>fail</verdict>", pass: false, reason: "Wrong units."},
		{name: "trailing whitespace", output: "<verdict>pass</verdict>\n  ", pass: true},
		{name: "case insensitive verdict", output: "<verdict>PASS</verdict>", pass: true},
		{name: "missing tag", output: "Looks fine to me.", wantErr: true},
		{name: "tag not trailing", output: "<verdict>pass</verdict> and more text", wantErr: true},
		{name: "unknown verdict", output: "<verdict>maybe</verdict>", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pass, reason, err := ParseVerdict(tc.output)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got pass=%v", pass)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseVerdict: %v", err)
			}
			if pass != tc.pass {
				t.Fatalf("pass = %v, want %v", pass, tc.pass)
			}
			if reason != tc.reason {
				t.Fatalf("reason = %q, want %q", reason, tc.reason)
			}
		})
	}
}

func TestJudgeEvaluatePass(t *testing.T) {
	inv := &scriptedInvoker{res: Response{
		Output: "Matches the expected value.\n<verdict>pass</verdict>",
		Usage:  Usage{Input: 5, Output: 7, Total: 12},
	}}
	judge := NewJudgeEvaluator(inv, "judge-model")
	j := judge.Evaluate(context.Background(), "What is 2+2?", "4", "4")
	if !j.Success {
		t.Fatalf("judgement failed: %+v", j)
	}
	if j.Reason != "Matches the expected value." {
		t.Fatalf("reason = %q", j.Reason)
	}
	if j.Usage.Total != 12 {
		t.Fatalf("usage = %+v", j.Usage)
	}
	if inv.lastReq.Model != "judge-model" {
		t.Fatalf("judge model = %q", inv.lastReq.Model)
	}
	if !strings.Contains(inv.lastReq.Prompt, "Expected answer:\n4") {
		t.Fatalf("prompt missing expected answer:\n%s", inv.lastReq.Prompt)
	}
}

func TestJudgeEvaluateOmitsEmptyExpectedAnswer(t *testing.T) {
	inv := &scriptedInvoker{res: Response{Output: "<verdict>pass</verdict>"}}
	judge := NewJudgeEvaluator(inv, "judge-model")
	judge.Evaluate(context.Background(), "q", "   ", "a")
	if strings.Contains(inv.lastReq.Prompt, "Expected answer:") {
		t.Fatalf("prompt should omit expected answer section:\n%s", inv.lastReq.Prompt)
	}
}

func TestJudgeEvaluateInvokeFailure(t *testing.T) {
	inv := &scriptedInvoker{err: errors.New("connection refused")}
	judge := NewJudgeEvaluator(inv, "judge-model")
	j := judge.Evaluate(context.Background(), "q", "", "a")
	if j.Success {
		t.Fatal("judgement should fail when the judge call fails")
	}
	if !strings.Contains(j.Reason, "judge call failed") || !strings.Contains(j.Reason, "connection refused") {
		t.Fatalf("reason = %q", j.Reason)
	}
}

func TestJudgeEvaluateUnparsableReply(t *testing.T) {
	inv := &scriptedInvoker{res: Response{Output: "I think it is probably correct."}}
	judge := NewJudgeEvaluator(inv, "judge-model")
	j := judge.Evaluate(context.Background(), "q", "", "a")
	if j.Success {
		t.Fatal("judgement should fail when no verdict tag is present")
	}
	if !strings.Contains(j.Reason, "judge reply unparsable") {
		t.Fatalf("reason = %q", j.Reason)
	}
	if j.RawOutput != "I think it is probably correct." {
		t.Fatalf("raw output = %q", j.RawOutput)
	}
}
