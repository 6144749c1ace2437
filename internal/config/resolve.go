package config

import (
	"strings"

	"github.com/dotcommander/scout/internal/errs"
)

// Selection is a resolved backend/model pair.
type Selection struct {
	Backend Backend
	Model   string
}

// Resolve picks the backend and model for a run.
//
// The model argument may be empty (defaults apply), "backend:model", a model
// name, or an alias declared under any configured backend. Alias and model
// lookups search the default backend first, then the rest in declaration
// order.
func (c Config) Resolve(model string) (Selection, error) {
	backendName := c.Settings.Backend
	if b, m, ok := strings.Cut(model, ":"); ok && b != "" {
		backendName = b
		model = m
	}
	if model == "" {
		model = c.Settings.Model
	}

	backend, ok := c.lookupBackend(backendName)
	if !ok {
		return Selection{}, errs.UserErrorf(
			"Backend %q is not configured; run 'scout --settings' to add it.",
			backendName,
		)
	}

	// A declared model or alias may redirect to another backend.
	if owner, name, ok := c.lookupModel(backend, model); ok {
		return Selection{Backend: owner, Model: name}, nil
	}

	// Unknown names pass through untouched so new models work without a
	// settings update.
	return Selection{Backend: backend, Model: model}, nil
}

func (c Config) lookupBackend(name string) (Backend, bool) {
	for _, b := range c.Backends {
		if b.Name == name {
			return b, true
		}
	}
	return Backend{}, false
}

func (c Config) lookupModel(preferred Backend, model string) (Backend, string, bool) {
	ordered := append(Backends{preferred}, c.Backends...)
	for _, b := range ordered {
		for name, m := range b.Models {
			if name == model {
				return b, name, true
			}
			for _, alias := range m.Aliases {
				if alias == model {
					return b, name, true
				}
			}
		}
	}
	return Backend{}, "", false
}
