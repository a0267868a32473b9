package traverse

import (
	"context"

	"github.com/roach88/hypermatch/internal/atom"
)

// Visitor is called for each handle. Returning stop=true ends the walk.
type Visitor func(h atom.Handle) (stop bool, err error)

// ForEachOutgoing visits the outgoing set of h in order.
// Nodes have an empty outgoing set, so the visitor is never called for them.
func ForEachOutgoing(ctx context.Context, r atom.Reader, h atom.Handle, fn Visitor) (bool, error) {
	out, err := r.Outgoing(ctx, h)
	if err != nil {
		return false, err
	}
	return each(out, fn)
}

// ForEachIncoming visits every link that contains h.
func ForEachIncoming(ctx context.Context, r atom.Reader, h atom.Handle, fn Visitor) (bool, error) {
	in, err := r.Incoming(ctx, h)
	if err != nil {
		return false, err
	}
	return each(in, fn)
}

func each(hs []atom.Handle, fn Visitor) (bool, error) {
	for _, h := range hs {
		stop, err := fn(h)
		if err != nil || stop {
			return stop, err
		}
	}
	return false, nil
}
