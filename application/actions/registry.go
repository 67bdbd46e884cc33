// Package actions routes context-menu selections to the enricher/flow
// collaborator. Resolution (which actions apply to which entity type) is
// pure and testable without I/O; execution happens behind the ActionRunner
// port and is fire-and-forget.
package actions

import (
	"fmt"

	pkgerrors "caseboard/pkg/errors"
)

// Action kinds mirror the two job families the server runs.
const (
	KindEnricher = "enricher"
	KindFlow     = "flow"
)

// TypeAny marks an action as applicable to every entity type.
const TypeAny = "*"

// Action is one invocable enricher or flow
type Action struct {
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	Label       string   `json:"label"`
	EntityTypes []string `json:"entity_types"`
}

// AppliesTo reports whether the action is offered for an entity type
func (a Action) AppliesTo(entityType string) bool {
	for _, t := range a.EntityTypes {
		if t == TypeAny || t == entityType {
			return true
		}
	}
	return false
}

// Registry holds the available actions in registration order
type Registry struct {
	actions []Action
}

// NewRegistry creates a registry over the given actions
func NewRegistry(actions ...Action) *Registry {
	return &Registry{actions: actions}
}

// DefaultRegistry lists the server-side jobs the dashboard exposes
func DefaultRegistry() *Registry {
	return NewRegistry(
		Action{Name: "domain-expand", Kind: KindEnricher, Label: "Expand domain records", EntityTypes: []string{"domain"}},
		Action{Name: "ip-whois", Kind: KindEnricher, Label: "WHOIS lookup", EntityTypes: []string{"ip", "domain"}},
		Action{Name: "email-breaches", Kind: KindEnricher, Label: "Find breach records", EntityTypes: []string{"email"}},
		Action{Name: "social-profiles", Kind: KindEnricher, Label: "Find social profiles", EntityTypes: []string{"person", "email"}},
		Action{Name: "company-officers", Kind: KindEnricher, Label: "List company officers", EntityTypes: []string{"organization"}},
		Action{Name: "merge-duplicates", Kind: KindFlow, Label: "Merge duplicate entities", EntityTypes: []string{TypeAny}},
		Action{Name: "export-subgraph", Kind: KindFlow, Label: "Export selection", EntityTypes: []string{TypeAny}},
	)
}

// ResolveForType returns the actions offered for one entity type, in
// registration order
func (r *Registry) ResolveForType(entityType string) []Action {
	var resolved []Action
	for _, a := range r.actions {
		if a.AppliesTo(entityType) {
			resolved = append(resolved, a)
		}
	}
	return resolved
}

// Lookup finds an action by name within the resolved list for a type. The
// action existing globally is not enough; it must apply to the target type.
func (r *Registry) Lookup(entityType, name string) (Action, error) {
	for _, a := range r.ResolveForType(entityType) {
		if a.Name == name {
			return a, nil
		}
	}
	return Action{}, pkgerrors.NewNotFoundError(fmt.Sprintf("action %q for entity type %q", name, entityType))
}
