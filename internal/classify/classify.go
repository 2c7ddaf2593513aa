// Package classify provides the content classifier collaborators of the
// enrichment pipeline. The pipeline only sees the Classifier interface; the
// built-in implementation matches keyword rules with an Aho-Corasick
// automaton, and a remote implementation delegates to an ML sidecar.
package classify

import (
	"context"

	"github.com/jonesrussell/north-cloud/enrichment/internal/domain"
)

// Classifier maps a message text to a classification per context. Results
// always contain an entry for every context in domain.Contexts; contexts
// with no applicable category carry domain.CategoryNone.
type Classifier interface {
	Classify(ctx context.Context, text string) (domain.ClassifierResult, error)
}

// emptyResult returns a result with the none sentinel in every context.
func emptyResult() domain.ClassifierResult {
	r := make(domain.ClassifierResult, len(domain.Contexts))
	for _, c := range domain.Contexts {
		r[c] = domain.Classification{Category: domain.CategoryNone}
	}
	return r
}
