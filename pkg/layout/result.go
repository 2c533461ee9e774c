package layout

import (
	stderrors "errors"
	"fmt"

	"github.com/matzehuels/tablistplus/pkg/errors"
)

// Infeasible records a List whose children did not fit at their minimum
// sizes.
type Infeasible struct {
	Node   Handle
	Needed int // slots the children need at minimum
	Size   int // slots granted to the list
}

// Error implements the error interface.
func (i Infeasible) Error() string {
	return fmt.Sprintf("minimum size the layout needs is %d but only %d slots are available", i.Needed, i.Size)
}

// Result reports the outcome of Update2ndStep.
type Result struct {
	Failures []Infeasible
}

// OK reports whether every List was laid out.
func (r Result) OK() bool { return len(r.Failures) == 0 }

// Err returns nil if r is OK, otherwise an error with code
// errors.ErrCodeLayoutInfeasible.
func (r Result) Err() error {
	switch len(r.Failures) {
	case 0:
		return nil
	case 1:
		return errors.Wrap(errors.ErrCodeLayoutInfeasible, r.Failures[0], "node %d", r.Failures[0].Node)
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Wrap(errors.ErrCodeLayoutInfeasible, stderrors.Join(errs...), "%d lists could not be laid out", len(r.Failures))
}
