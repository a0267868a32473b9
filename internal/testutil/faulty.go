package testutil

import (
	"context"
	"errors"
	"iter"
	"sync"

	"github.com/roach88/hypermatch/internal/atom"
)

// ErrInjected is returned by FaultyReader for every failing handle.
var ErrInjected = errors.New("injected store failure")

// FaultyReader wraps a Reader and fails every View, Outgoing and Incoming
// call on selected handles. Candidates is passed through unchanged.
//
// Thread-safety: safe for concurrent use if the wrapped Reader is.
type FaultyReader struct {
	atom.Reader

	mu   sync.Mutex
	fail map[atom.Handle]bool
}

// NewFaultyReader wraps r so that reads of the given handles fail.
func NewFaultyReader(r atom.Reader, failing ...atom.Handle) *FaultyReader {
	f := &FaultyReader{Reader: r, fail: make(map[atom.Handle]bool)}
	for _, h := range failing {
		f.fail[h] = true
	}
	return f
}

func (f *FaultyReader) failing(h atom.Handle) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fail[h]
}

// View implements atom.Reader.
func (f *FaultyReader) View(ctx context.Context, h atom.Handle) (atom.View, error) {
	if f.failing(h) {
		return atom.View{}, ErrInjected
	}
	return f.Reader.View(ctx, h)
}

// Outgoing implements atom.Reader.
func (f *FaultyReader) Outgoing(ctx context.Context, h atom.Handle) ([]atom.Handle, error) {
	if f.failing(h) {
		return nil, ErrInjected
	}
	return f.Reader.Outgoing(ctx, h)
}

// Incoming implements atom.Reader.
func (f *FaultyReader) Incoming(ctx context.Context, h atom.Handle) ([]atom.Handle, error) {
	if f.failing(h) {
		return nil, ErrInjected
	}
	return f.Reader.Incoming(ctx, h)
}

// Candidates implements atom.Reader.
func (f *FaultyReader) Candidates(ctx context.Context, t atom.Type) iter.Seq2[atom.Handle, error] {
	return f.Reader.Candidates(ctx, t)
}
