package ebinput

import (
	"fmt"

	"github.com/milk9111/rebind/bindings"
	"github.com/milk9111/rebind/config"
	"github.com/milk9111/rebind/input"
)

// Install creates every action of set on the backend and registers it with
// reg. Listen actions get phase events; the rest are value only. Bindings of
// rebindable actions are recorded as store defaults when store is not nil.
// The returned path is the one that aborts interactive rebinds.
func (b *Backend) Install(set *config.ActionSet, reg *input.Registry, store *bindings.Store) (string, error) {
	for _, spec := range set.Actions {
		kind, err := ParseKind(spec.Kind)
		if err != nil {
			return "", err
		}
		defs := make([]BindingDef, 0, len(spec.Bindings))
		for _, bs := range spec.Bindings {
			part, err := ParsePart(bs.Part)
			if err != nil {
				return "", fmt.Errorf("ebinput: action %s: %w", spec.ID, err)
			}
			defs = append(defs, BindingDef{Path: bs.Path, Group: bs.Group, Part: part, Invert: bs.Invert})
		}

		a, err := b.NewAction(spec.ID, kind, defs)
		if err != nil {
			return "", err
		}
		if spec.Listen {
			reg.RegisterAction(spec.ID, a, !spec.Disabled)
		} else {
			reg.RegisterValue(spec.ID, a, !spec.Disabled)
		}

		if spec.Rebindable && store != nil {
			for i, bs := range spec.Bindings {
				if bs.IsComposite() {
					continue
				}
				path, _ := a.BindingPath(i)
				store.RegisterDefault(bindings.Key{Action: spec.ID, Index: i}, path)
			}
		}
	}

	if set.Cancel.Action == "" {
		return "", nil
	}
	path, ok := reg.BindingPath(set.Cancel.Action, set.Cancel.Index)
	if !ok {
		return "", fmt.Errorf("%w: cancel binding %s:%d", input.ErrInvalidBindingIndex, set.Cancel.Action, set.Cancel.Index)
	}
	return path, nil
}
