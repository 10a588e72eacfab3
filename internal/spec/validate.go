package spec

import (
	"fmt"
	"strings"
)

// Defaults applied by Normalize when a field is unset.
const (
	DefaultRunsPerTest    = 1
	DefaultConcurrency    = 4
	DefaultTimeoutSeconds = 300
	DefaultRunsDir        = "runs"
	DefaultResultsDir     = "results"
)

// Issue captures a validation problem with a definition field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates definition validation issues. It is the only
// error class that prevents a batch from starting at all.
type ValidationError struct {
	Issues []Issue
}

// Error renders validation issues as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "definition validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

// Normalize fills unset fields with defaults.
func Normalize(def *Definition) {
	if def.RunsPerTest == 0 {
		def.RunsPerTest = DefaultRunsPerTest
	}
	if def.Concurrency == 0 {
		def.Concurrency = DefaultConcurrency
	}
	if def.Timeout.PerItemSeconds == 0 {
		def.Timeout.PerItemSeconds = DefaultTimeoutSeconds
	}
	if strings.TrimSpace(def.Output.RunsDir) == "" {
		def.Output.RunsDir = DefaultRunsDir
	}
	if strings.TrimSpace(def.Output.ResultsDir) == "" {
		def.Output.ResultsDir = DefaultResultsDir
	}
	for i := range def.Tests {
		if def.Tests[i].Type == "" {
			def.Tests[i].Type = TestTypeText
		}
	}
}

// Validate checks a definition for correctness before any work is dispatched.
func Validate(def *Definition) error {
	var issues []Issue
	add := func(field, message string) {
		issues = append(issues, Issue{Field: field, Message: message})
	}

	if def.Version == 0 {
		add("version", "is required")
	} else if def.Version != 1 {
		add("version", fmt.Sprintf("unsupported version %d", def.Version))
	}
	if strings.TrimSpace(def.Name) == "" {
		add("name", "is required")
	}
	if len(def.Models) == 0 {
		add("models", "at least one model is required")
	}
	modelSeen := map[string]struct{}{}
	for i, model := range def.Models {
		if strings.TrimSpace(model) == "" {
			add(fmt.Sprintf("models[%d]", i), "is empty")
			continue
		}
		if _, dup := modelSeen[model]; dup {
			add("models", fmt.Sprintf("duplicate model %q", model))
		}
		modelSeen[model] = struct{}{}
	}

	if len(def.Tests) == 0 {
		add("tests", "at least one test is required")
	}
	testSeen := map[string]struct{}{}
	judgeNeeded := false
	for i, test := range def.Tests {
		fieldPrefix := fmt.Sprintf("tests[%d]", i)
		name := strings.TrimSpace(test.Name)
		if name == "" {
			add(fieldPrefix+".name", "is required")
		} else if _, dup := testSeen[name]; dup {
			add("tests.name", fmt.Sprintf("duplicate name %q", name))
		} else {
			testSeen[name] = struct{}{}
		}
		switch test.Type {
		case TestTypeText:
			judgeNeeded = true
		case TestTypeStructured:
			if strings.TrimSpace(test.Schema) == "" {
				add(fieldPrefix+".schema", "is required for structured tests")
			}
		default:
			add(fieldPrefix+".type", fmt.Sprintf("unsupported type %q", test.Type))
		}
		if strings.TrimSpace(test.Prompt) == "" {
			add(fieldPrefix+".prompt", "is required")
		}
		if test.MaxTokens < 0 {
			add(fieldPrefix+".max_tokens", "must be >= 0")
		}
	}

	if def.RunsPerTest < 1 {
		add("runs_per_test", "must be >= 1")
	}
	if def.Concurrency < 1 {
		add("concurrency", "must be >= 1")
	}
	if def.Timeout.PerItemSeconds < 1 {
		add("timeout.per_item_seconds", "must be >= 1")
	}
	if judgeNeeded && strings.TrimSpace(def.Judge.Model) == "" {
		add("judge.model", "is required when text tests are present")
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
