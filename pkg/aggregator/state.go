package aggregator

import (
	"fmt"

	"github.com/goliatone/go-catalogform/pkg/plugin"
	"github.com/goliatone/go-catalogform/pkg/schema"
)

// State is the published outcome of a pass. A state that is not ready carries
// no plugins and no form data.
type State struct {
	Ready    bool
	Plugins  []plugin.Plugin
	FormData map[string]any
	Epoch    uint64
	PassID   string
}

// ToOutData runs every plugin's ExitData in order and shallow-merges the
// results. A later plugin's key replaces an earlier one.
func (s *State) ToOutData(formData map[string]any) (map[string]any, error) {
	if s == nil || !s.Ready {
		return nil, ErrNotReady
	}
	out := map[string]any{}
	for _, p := range s.Plugins {
		part, err := p.ExitData(formData)
		if err != nil {
			return nil, fmt.Errorf("aggregator: exit data %s: %w", p.Name(), err)
		}
		for key, value := range part {
			out[key] = value
		}
	}
	return out, nil
}

// Schema returns the union of the plugins' schemas for the form snapshot.
func (s *State) Schema(snapshot any) (*schema.Field, error) {
	if s == nil || !s.Ready {
		return nil, ErrNotReady
	}
	return plugin.UnionSchema(s.Plugins, snapshot)
}

// WatchFields lists the form fields whose change requires a schema
// recompute, deduplicated in plugin order.
func (s *State) WatchFields() []string {
	if s == nil || !s.Ready {
		return nil
	}
	var out []string
	seen := map[string]struct{}{}
	for _, p := range s.Plugins {
		for _, field := range plugin.WatchFields(p) {
			if _, dup := seen[field]; dup {
				continue
			}
			seen[field] = struct{}{}
			out = append(out, field)
		}
	}
	return out
}
