// Package tools holds the research tools handed to the agent.
//
// Every tool is a stub: it returns curated, deterministic data so demo runs
// behave the same on every machine without touching a search backend.
package tools

import (
	"fmt"

	"github.com/nlpodyssey/openai-agents-go/agents"
)

// Descriptor describes one registered tool.
type Descriptor struct {
	Name        string
	Description string
	Tool        agents.Tool
}

// Registry is the ordered set of tools available to the agent.
type Registry struct {
	descriptors []Descriptor
	byName      map[string]Descriptor
}

// NewRegistry builds the default registry. Registration order is the order
// tools are listed to the user and offered to the model.
func NewRegistry() *Registry {
	r := &Registry{byName: map[string]Descriptor{}}
	r.register(companyInfoDescriptor())
	r.register(marketTrendsDescriptor())
	r.register(competitorAnalysisDescriptor())
	r.register(latestNewsDescriptor())
	r.register(marketReportDescriptor())
	r.register(emailReportDescriptor())
	return r
}

func (r *Registry) register(d Descriptor) {
	if _, ok := r.byName[d.Name]; ok {
		panic(fmt.Sprintf("tools: duplicate registration of %q", d.Name))
	}
	r.byName[d.Name] = d
	r.descriptors = append(r.descriptors, d)
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		names = append(names, d.Name)
	}
	return names
}

// Descriptors returns the registered tools in registration order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}

// Tools returns the framework tools in registration order.
func (r *Registry) Tools() []agents.Tool {
	out := make([]agents.Tool, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		out = append(out, d.Tool)
	}
	return out
}

// Lookup returns the descriptor for a tool name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}
