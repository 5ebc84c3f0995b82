package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/roach88/gildedrose/internal/item"
)

// Scenario defines one simulation run and what it must produce.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Catalog is an optional path to a CUE catalog loaded first.
	// Relative paths are resolved against the scenario file's directory.
	Catalog string `yaml:"catalog,omitempty"`

	// Items are added after the catalog, in order.
	Items []ItemSpec `yaml:"items,omitempty"`

	// Days is how many ticks to run. Zero only records the starting stock.
	Days int `yaml:"days"`

	// Assertions validate the recorded days.
	Assertions []Assertion `yaml:"assertions"`
}

// ItemSpec is an inline stock line.
type ItemSpec struct {
	// ID names the item in assertions. Defaults to item-<position>.
	ID string `yaml:"id,omitempty"`

	Name    string `yaml:"name"`
	SellIn  int    `yaml:"sell_in"`
	Quality int    `yaml:"quality"`
}

// Item converts the stock line to a classified item.
func (s ItemSpec) Item() item.Item {
	return item.New(s.Name, s.SellIn, s.Quality)
}

// State is an expected (sell_in, quality) pair. Nil fields are not checked.
type State struct {
	SellIn  *int `yaml:"sell_in,omitempty"`
	Quality *int `yaml:"quality,omitempty"`
}

// Assertion validates the recorded days.
type Assertion struct {
	// Type specifies the assertion type:
	// - "final_state": item state after the last day
	// - "state_at": item state at the end of Day
	// - "quality_bounds": all non-legendary qualities in range
	// - "item_count": number of items held
	// - "unchanged": item identical on every day
	Type string `yaml:"type"`

	// Item is the item ID (final_state, state_at, unchanged; optional for quality_bounds).
	Item string `yaml:"item,omitempty"`

	// Day is the day to inspect (state_at).
	Day *int64 `yaml:"day,omitempty"`

	// Expect is the expected state (final_state, state_at).
	Expect *State `yaml:"expect,omitempty"`

	// Count is the expected number of items (item_count).
	Count *int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertFinalState    = "final_state"
	AssertStateAt       = "state_at"
	AssertQualityBounds = "quality_bounds"
	AssertItemCount     = "item_count"
	AssertUnchanged     = "unchanged"
)

// LoadScenario reads and parses a scenario YAML file.
// A relative catalog path is resolved against the scenario file's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving a relative catalog path against basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	// Resolve the catalog path BEFORE validation
	if scenario.Catalog != "" && !filepath.IsAbs(scenario.Catalog) && basePath != "" {
		scenario.Catalog = filepath.Join(basePath, scenario.Catalog)
	}

	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return scenario, nil
}

// ParseScenario decodes scenario YAML without validating it.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &scenario, nil
}

// positionalID matches the IDs handed to items that do not declare one.
var positionalID = regexp.MustCompile(`^item-[0-9]+$`)

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Days < 0 {
		return fmt.Errorf("days must be non-negative, got %d", s.Days)
	}

	if s.Catalog == "" && len(s.Items) == 0 {
		return fmt.Errorf("catalog or items is required")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if s.Catalog != "" {
		if _, err := os.Stat(s.Catalog); os.IsNotExist(err) {
			return fmt.Errorf("catalog not found: %s", s.Catalog)
		}
	}

	seen := make(map[string]int)
	for i, it := range s.Items {
		if it.ID == "" {
			continue
		}
		if positionalID.MatchString(it.ID) {
			return fmt.Errorf("items[%d]: id %q is reserved for items without an id", i, it.ID)
		}
		if prev, dup := seen[it.ID]; dup {
			return fmt.Errorf("items[%d]: id %q already used by items[%d]", i, it.ID, prev)
		}
		seen[it.ID] = i
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion, s.Days); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, days int) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertFinalState:
		if a.Item == "" {
			return fmt.Errorf("assertions[%d]: item is required for final_state", index)
		}
		if !a.Expect.hasFields() {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	case AssertStateAt:
		if a.Item == "" {
			return fmt.Errorf("assertions[%d]: item is required for state_at", index)
		}
		if a.Day == nil {
			return fmt.Errorf("assertions[%d]: day is required for state_at", index)
		}
		if *a.Day < 0 || *a.Day > int64(days) {
			return fmt.Errorf("assertions[%d]: day %d outside simulated range 0..%d", index, *a.Day, days)
		}
		if !a.Expect.hasFields() {
			return fmt.Errorf("assertions[%d]: expect is required for state_at", index)
		}
	case AssertQualityBounds:
	case AssertItemCount:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for item_count", index)
		}
		if *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for item_count", index)
		}
	case AssertUnchanged:
		if a.Item == "" {
			return fmt.Errorf("assertions[%d]: item is required for unchanged", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

func (s *State) hasFields() bool {
	return s != nil && (s.SellIn != nil || s.Quality != nil)
}
