package harness

import (
	"github.com/roach88/deepclone/internal/clone"
	"github.com/roach88/deepclone/internal/value"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Name is the scenario name.
	Name string `json:"name"`

	// Pass indicates overall success: the clone ran and every assertion held.
	Pass bool `json:"pass"`

	// Mode is the clone mode used.
	Mode string `json:"mode"`

	// CallID is the correlation id the clone call logged under.
	CallID string `json:"call_id"`

	// Stats reports what the clone call did.
	Stats clone.Stats `json:"stats"`

	// SourceFingerprint and CloneFingerprint identify the two graphs.
	SourceFingerprint string `json:"source_fingerprint"`
	CloneFingerprint  string `json:"clone_fingerprint"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Source and Clone are the graphs the assertions ran against.
	Source value.Value `json:"-"`
	Clone  value.Value `json:"-"`
}

// NewResult creates a new passing result.
func NewResult(name string) *Result {
	return &Result{
		Name:   name,
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
