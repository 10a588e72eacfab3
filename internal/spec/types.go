package spec

// Definition is a fully-resolved benchmark: the models to exercise, the test
// list, and execution settings. The CLI layer loads and validates it; the
// runner consumes it as plain data.
type Definition struct {
	Version     int           `yaml:"version"`
	Name        string        `yaml:"name"`
	Models      []string      `yaml:"models"`
	Tests       []TestCase    `yaml:"tests"`
	RunsPerTest int           `yaml:"runs_per_test"`
	Concurrency int           `yaml:"concurrency"`
	Timeout     TimeoutConfig `yaml:"timeout"`
	Judge       JudgeConfig   `yaml:"judge"`
	Output      OutputConfig  `yaml:"output"`
}

// TestCase is a single authored test. Text tests are scored by the judge
// against the expected answer; structured tests are scored by schema checks on
// the raw model output.
type TestCase struct {
	Name           string `yaml:"name"`
	Type           string `yaml:"type"`
	Prompt         string `yaml:"prompt"`
	ExpectedAnswer string `yaml:"expected_answer"`
	Schema         string `yaml:"schema"`
	MaxTokens      int    `yaml:"max_tokens"`
}

// TimeoutConfig bounds a single model call with an absolute deadline.
type TimeoutConfig struct {
	PerItemSeconds int `yaml:"per_item_seconds"`
}

// JudgeConfig selects the judge model used for text tests.
type JudgeConfig struct {
	Model string `yaml:"model"`
}

// OutputConfig locates run and summary artifacts on disk.
type OutputConfig struct {
	RunsDir    string `yaml:"runs_dir"`
	ResultsDir string `yaml:"results_dir"`
}

// Test case types supported by the harness.
const (
	TestTypeText       = "text"
	TestTypeStructured = "structured"
)

// TestNames returns the ordered test names of the definition.
func (d Definition) TestNames() []string {
	names := make([]string, 0, len(d.Tests))
	for _, test := range d.Tests {
		names = append(names, test.Name)
	}
	return names
}

// TestByName returns a lookup map from test name to test case.
func (d Definition) TestByName() map[string]TestCase {
	byName := make(map[string]TestCase, len(d.Tests))
	for _, test := range d.Tests {
		byName[test.Name] = test
	}
	return byName
}
