package traverse

import "github.com/roach88/hypermatch/internal/atom"

// PairVisitor is called with corresponding members of two outgoing sets.
type PairVisitor func(a, b atom.Handle) (stop bool, err error)

// Pairs walks two outgoing sets side by side.
//
// When the sets differ in length, the shorter side is padded with
// atom.Undefined so the visitor sees every member of the longer set.
func Pairs(as, bs []atom.Handle, fn PairVisitor) (bool, error) {
	n := max(len(as), len(bs))
	for i := range n {
		a, b := atom.Undefined, atom.Undefined
		if i < len(as) {
			a = as[i]
		}
		if i < len(bs) {
			b = bs[i]
		}
		stop, err := fn(a, b)
		if err != nil || stop {
			return stop, err
		}
	}
	return false, nil
}
