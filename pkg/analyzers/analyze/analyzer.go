// Package analyze defines the analyzer capability contract and the registry
// that composes registered analyzers into a single issue list per file.
package analyze

import (
	"fmt"

	"github.com/KuaaMU/codesage/pkg/review"
)

// Analyzer is the capability contract for rule producers. Implementations
// must be safe for concurrent use: the orchestrator invokes one registry
// from many workers.
type Analyzer interface {
	// Name returns the stable analyzer identifier.
	Name() string

	// Analyze inspects the per-file context and returns derived issues.
	Analyze(ctx *review.Context) ([]review.Issue, error)
}

// Registry holds an ordered, open-ended collection of analyzers. New
// analyzer kinds plug in without modifying dispatch logic.
type Registry struct {
	analyzers []Analyzer
}

// NewRegistry creates a registry seeded with the given analyzers, preserving
// registration order.
func NewRegistry(analyzers ...Analyzer) *Registry {
	r := &Registry{}

	for _, a := range analyzers {
		r.Register(a)
	}

	return r
}

// Register appends an analyzer to the end of the run order.
func (r *Registry) Register(a Analyzer) {
	r.analyzers = append(r.analyzers, a)
}

// Names returns the analyzer identifiers in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.analyzers))

	for _, a := range r.analyzers {
		names = append(names, a.Name())
	}

	return names
}

// Len returns the number of registered analyzers.
func (r *Registry) Len() int {
	return len(r.analyzers)
}

// AnalyzeAll runs every registered analyzer against ctx in registration
// order and concatenates their issues. The first analyzer error aborts the
// whole call; per-analyzer isolation was considered and deliberately not
// adopted, so batch callers must treat a failure as a per-file failure.
func (r *Registry) AnalyzeAll(ctx *review.Context) ([]review.Issue, error) {
	var all []review.Issue

	for _, a := range r.analyzers {
		issues, err := a.Analyze(ctx)
		if err != nil {
			return nil, fmt.Errorf("analyzer %s: %w", a.Name(), err)
		}

		all = append(all, issues...)
	}

	return all, nil
}
