package config

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed actions.yaml
var actionsFS embed.FS

// DefaultActionsFile is the embedded action set used when no file is given.
const DefaultActionsFile = "actions.yaml"

const (
	KindButton  = "button"
	KindAxis    = "axis"
	KindVector2 = "vector2"
)

const (
	CompositeAxisPath = "composite/axis"
	PartNegative      = "negative"
	PartPositive      = "positive"
)

// ActionSet describes every action of a game and how the rebind menu
// presents them.
type ActionSet struct {
	Cancel     BindingRef   `yaml:"cancel"`
	Actions    []ActionSpec `yaml:"actions"`
	RebindRows []RebindRow  `yaml:"rebind_rows"`
}

// BindingRef points at one binding of an action.
type BindingRef struct {
	Action string `yaml:"action"`
	Index  int    `yaml:"index"`
}

type ActionSpec struct {
	ID   string `yaml:"id"`
	Kind string `yaml:"kind"`
	// Listen registers the action for started/performed/cancelled events.
	Listen bool `yaml:"listen"`
	// Disabled actions are registered without being enabled.
	Disabled   bool          `yaml:"disabled"`
	Rebindable bool          `yaml:"rebindable"`
	Bindings   []BindingSpec `yaml:"bindings"`
}

type BindingSpec struct {
	Path   string `yaml:"path"`
	Group  string `yaml:"group"`
	Part   string `yaml:"part"`
	Invert bool   `yaml:"invert"`
}

// IsComposite reports whether the binding is a composite header.
func (b BindingSpec) IsComposite() bool {
	return b.Path == CompositeAxisPath
}

// RebindRow is one line of the rebind menu: a label and the binding indices
// shown per scheme.
type RebindRow struct {
	Label    string `yaml:"label"`
	Action   string `yaml:"action"`
	Keyboard []int  `yaml:"keyboard"`
	Gamepad  []int  `yaml:"gamepad"`
}

// LoadActionSet reads an action set. An empty name loads the embedded
// default. Other names are read from disk first and fall back to an embedded
// file of the same base name.
func LoadActionSet(name string) (*ActionSet, error) {
	if name == "" {
		name = DefaultActionsFile
	}
	data, err := os.ReadFile(name)
	if err != nil {
		var embedErr error
		data, embedErr = actionsFS.ReadFile(filepath.Base(name))
		if embedErr != nil {
			return nil, fmt.Errorf("config: load %s: %w", name, err)
		}
	}
	return ParseActionSet(data)
}

func ParseActionSet(data []byte) (*ActionSet, error) {
	var set ActionSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("config: unmarshal action set: %w", err)
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return &set, nil
}

// Action returns the spec with the given id.
func (s *ActionSet) Action(id string) (*ActionSpec, bool) {
	for i := range s.Actions {
		if s.Actions[i].ID == id {
			return &s.Actions[i], true
		}
	}
	return nil, false
}

func (s *ActionSet) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(s.Actions))
	for _, a := range s.Actions {
		if a.ID == "" {
			errs = append(errs, errors.New("config: action without id"))
			continue
		}
		if seen[a.ID] {
			errs = append(errs, fmt.Errorf("config: duplicate action %q", a.ID))
		}
		seen[a.ID] = true

		switch a.Kind {
		case KindButton, KindAxis, KindVector2:
		default:
			errs = append(errs, fmt.Errorf("config: action %q: unknown kind %q", a.ID, a.Kind))
		}

		inComposite := false
		for i, b := range a.Bindings {
			switch {
			case b.IsComposite():
				if a.Kind != KindAxis {
					errs = append(errs, fmt.Errorf("config: action %q binding %d: composites need kind axis", a.ID, i))
				}
				inComposite = true
			case b.Part == PartNegative || b.Part == PartPositive:
				if !inComposite {
					errs = append(errs, fmt.Errorf("config: action %q binding %d: part outside a composite", a.ID, i))
				}
			case b.Part != "":
				errs = append(errs, fmt.Errorf("config: action %q binding %d: unknown part %q", a.ID, i, b.Part))
			default:
				inComposite = false
			}
		}
	}

	if s.Cancel.Action != "" {
		a, ok := s.Action(s.Cancel.Action)
		if !ok {
			errs = append(errs, fmt.Errorf("config: cancel action %q is not defined", s.Cancel.Action))
		} else if s.Cancel.Index < 0 || s.Cancel.Index >= len(a.Bindings) {
			errs = append(errs, fmt.Errorf("config: cancel binding %d out of range", s.Cancel.Index))
		}
	}

	for _, row := range s.RebindRows {
		a, ok := s.Action(row.Action)
		if !ok {
			errs = append(errs, fmt.Errorf("config: rebind row %q: unknown action %q", row.Label, row.Action))
			continue
		}
		for _, idx := range append(append([]int{}, row.Keyboard...), row.Gamepad...) {
			if idx < 0 || idx >= len(a.Bindings) || a.Bindings[idx].IsComposite() {
				errs = append(errs, fmt.Errorf("config: rebind row %q: binding %d is not rebindable", row.Label, idx))
			}
		}
	}
	return errors.Join(errs...)
}
