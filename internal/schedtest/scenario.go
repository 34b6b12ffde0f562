package schedtest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted timing sequence executed against a
// ManualScheduler: arm a construct, advance the clock, check whether it
// fired. Scenarios live in testdata as YAML.
type Scenario struct {
	// Name identifies the scenario in test output.
	Name string `yaml:"name"`

	// Steps are executed in order.
	Steps []Step `yaml:"steps"`
}

// Step is one action in a scenario. Exactly one action field is set;
// Arm and Advance are pointers so a zero duration is distinguishable
// from an absent field.
type Step struct {
	// Arm arms (or re-arms) the construct under test with this duration.
	Arm *Duration `yaml:"arm,omitempty"`

	// Advance moves the manual clock forward by this duration.
	Advance *Duration `yaml:"advance,omitempty"`

	// Expect checks the construct's observable state: "fired" or "pending".
	Expect string `yaml:"expect,omitempty"`

	// Stop discards the construct under test.
	Stop bool `yaml:"stop,omitempty"`
}

// Duration is a time.Duration that unmarshals from YAML strings like
// "150ms" or "2s".
type Duration time.Duration

// UnmarshalYAML parses the duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// LoadError describes a scenario file that could not be loaded.
type LoadError struct {
	File    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.File != "" {
		msg = e.File + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// ParseScenarios parses scenarios from YAML bytes.
func ParseScenarios(data []byte) ([]Scenario, error) {
	var scenarios []Scenario
	if err := yaml.Unmarshal(data, &scenarios); err != nil {
		return nil, &LoadError{Message: "failed to parse YAML", Cause: err}
	}

	for i, sc := range scenarios {
		if sc.Name == "" {
			return nil, &LoadError{Message: fmt.Sprintf("scenario %d: name is required", i)}
		}
		if len(sc.Steps) == 0 {
			return nil, &LoadError{Message: fmt.Sprintf("scenario %q: at least one step is required", sc.Name)}
		}
		for j, step := range sc.Steps {
			if step.Expect != "" && step.Expect != "fired" && step.Expect != "pending" {
				return nil, &LoadError{Message: fmt.Sprintf(
					"scenario %q step %d: expect must be \"fired\" or \"pending\", got %q",
					sc.Name, j, step.Expect)}
			}

			actions := 0
			if step.Arm != nil {
				actions++
			}
			if step.Advance != nil {
				actions++
			}
			if step.Expect != "" {
				actions++
			}
			if step.Stop {
				actions++
			}
			if actions != 1 {
				return nil, &LoadError{Message: fmt.Sprintf(
					"scenario %q step %d: exactly one of arm/advance/expect/stop is required",
					sc.Name, j)}
			}
		}
	}
	return scenarios, nil
}

// LoadScenarios loads scenarios from a YAML file.
func LoadScenarios(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{File: path, Message: "failed to read file", Cause: err}
	}

	scenarios, err := ParseScenarios(data)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.File = path
			return nil, le
		}
		return nil, &LoadError{File: path, Message: err.Error()}
	}
	return scenarios, nil
}

// LoadScenarioDir loads every .yaml/.yml file in dir, concatenating
// their scenarios in file name order.
func LoadScenarioDir(dir string) ([]Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &LoadError{File: dir, Message: "failed to read directory", Cause: err}
	}

	var all []Scenario
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		scenarios, err := LoadScenarios(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		all = append(all, scenarios...)
	}
	return all, nil
}
