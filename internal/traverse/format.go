package traverse

import (
	"context"
	"strconv"
	"strings"

	"github.com/roach88/hypermatch/internal/atom"
)

// Sprint renders the atom and everything below it as an s-expression:
//
//	(InheritanceLink (ConceptNode "dog") (ConceptNode "animal"))
func Sprint(ctx context.Context, r atom.Reader, h atom.Handle) (string, error) {
	var b strings.Builder
	if err := write(ctx, r, h, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

func write(ctx context.Context, r atom.Reader, h atom.Handle, b *strings.Builder) error {
	v, err := r.View(ctx, h)
	if err != nil {
		return err
	}
	b.WriteByte('(')
	b.WriteString(string(v.Type))
	if v.IsNode() {
		b.WriteByte(' ')
		b.WriteString(strconv.Quote(v.Name))
		b.WriteByte(')')
		return nil
	}
	for _, child := range v.Outgoing {
		b.WriteByte(' ')
		if err := write(ctx, r, child, b); err != nil {
			return err
		}
	}
	b.WriteByte(')')
	return nil
}
