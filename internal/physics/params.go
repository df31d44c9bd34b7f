package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/odelab/internal/dynamo"
)

// reader pulls named values out of untyped Params, remembering the first
// failure so constructors can decode every field before checking.
type reader struct {
	p   dynamo.Params
	err error
}

func newReader(p dynamo.Params) *reader {
	return &reader{p: p}
}

func (r *reader) get(name string) float64 {
	if r.err != nil {
		return 0
	}
	v, err := r.p.Get(name)
	if err != nil {
		r.err = err
		return 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		r.err = fmt.Errorf("%w: parameter %q is not finite (%v)", dynamo.ErrInvalidConfiguration, name, v)
		return 0
	}
	return v
}

func (r *reader) getOr(name string, def float64) float64 {
	if _, ok := r.p[name]; !ok {
		return def
	}
	return r.get(name)
}

func finite(name string, vs ...float64) error {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s parameters must be finite", dynamo.ErrInvalidConfiguration, name)
		}
	}
	return nil
}

func positive(family, name string, v float64) error {
	if !(v > 0) {
		return fmt.Errorf("%w: %s requires %s > 0, got %v", dynamo.ErrInvalidConfiguration, family, name, v)
	}
	return nil
}
