package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of engine operations plus assertions on
// the resulting trace and stored state.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Setup steps establish initial state. Each must succeed.
	Setup []Step `yaml:"setup,omitempty"`

	// Flow steps are the operations under test.
	Flow []Step `yaml:"flow"`

	// Assertions validate the final trace and state.
	Assertions []Assertion `yaml:"assertions"`
}

// Step invokes one engine operation.
type Step struct {
	// Op names the operation, e.g. "register" or "crush".
	Op string `yaml:"op"`

	// As is the acting user's username. Empty acts anonymously.
	As string `yaml:"as,omitempty"`

	// Ref names the record this step creates, for use by later steps.
	Ref string `yaml:"ref,omitempty"`

	// Args holds operation arguments. Users and refs are given by name.
	Args map[string]any `yaml:"args,omitempty"`

	// Expect checks the step outcome. Nil requires success.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect describes the expected outcome of a step.
type Expect struct {
	// Error is the expected engine error code. Empty expects success.
	Error string `yaml:"error,omitempty"`

	// Result is a subset match against the step's result fields.
	Result map[string]any `yaml:"result,omitempty"`
}

// Assertion validates the trace or final state.
type Assertion struct {
	Type string `yaml:"type"`

	// Op is used by trace_count.
	Op string `yaml:"op,omitempty"`

	// Ops is used by trace_order.
	Ops []string `yaml:"ops,omitempty"`

	// Outcome optionally filters trace_count.
	Outcome string `yaml:"outcome,omitempty"`

	// User is used by notification_count and user_field.
	User string `yaml:"user,omitempty"`

	// Users optionally restricts match_count to one pair.
	Users []string `yaml:"users,omitempty"`

	// NotificationType optionally filters notification_count.
	NotificationType string `yaml:"notification_type,omitempty"`

	// Field and Equals are used by user_field.
	Field  string `yaml:"field,omitempty"`
	Equals any    `yaml:"equals,omitempty"`

	// Collection is used by collection_count, e.g. "crushes".
	Collection string `yaml:"collection,omitempty"`

	// Count is the expected number for the counting assertions.
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceCount        = "trace_count"
	AssertTraceOrder        = "trace_order"
	AssertMatchCount        = "match_count"
	AssertNotificationCount = "notification_count"
	AssertUserField         = "user_field"
	AssertCollectionCount   = "collection_count"
	AssertAuditClean        = "audit_clean"
)

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Setup {
		if err := validateStep(fmt.Sprintf("setup[%d]", i), step); err != nil {
			return err
		}
		if step.Expect != nil && step.Expect.Error != "" {
			return fmt.Errorf("setup[%d]: setup steps cannot expect an error", i)
		}
	}
	for i, step := range s.Flow {
		if err := validateStep(fmt.Sprintf("flow[%d]", i), step); err != nil {
			return err
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(where string, step Step) error {
	if step.Op == "" {
		return fmt.Errorf("%s: op is required", where)
	}
	if _, ok := ops[step.Op]; !ok {
		return fmt.Errorf("%s: unknown op %q", where, step.Op)
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceCount:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_count", index)
		}
	case AssertTraceOrder:
		if len(a.Ops) == 0 {
			return fmt.Errorf("assertions[%d]: ops list is required for trace_order", index)
		}
	case AssertMatchCount:
		if len(a.Users) != 0 && len(a.Users) != 2 {
			return fmt.Errorf("assertions[%d]: match_count users must name exactly two users", index)
		}
	case AssertNotificationCount:
		if a.User == "" {
			return fmt.Errorf("assertions[%d]: user is required for notification_count", index)
		}
	case AssertUserField:
		if a.User == "" || a.Field == "" {
			return fmt.Errorf("assertions[%d]: user and field are required for user_field", index)
		}
	case AssertCollectionCount:
		if a.Collection == "" {
			return fmt.Errorf("assertions[%d]: collection is required for collection_count", index)
		}
	case AssertAuditClean:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	if a.Count < 0 {
		return fmt.Errorf("assertions[%d]: count must be non-negative", index)
	}
	return nil
}
