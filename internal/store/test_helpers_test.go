package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/hypermatch/internal/atom"
)

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustNode(t *testing.T, s *Store, typ atom.Type, name string) atom.Handle {
	t.Helper()
	h, err := s.AddNode(context.Background(), typ, name)
	require.NoError(t, err)
	return h
}

func mustLink(t *testing.T, s *Store, typ atom.Type, out ...atom.Handle) atom.Handle {
	t.Helper()
	h, err := s.AddLink(context.Background(), typ, out...)
	require.NoError(t, err)
	return h
}
