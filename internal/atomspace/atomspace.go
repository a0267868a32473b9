package atomspace

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/roach88/hypermatch/internal/atom"
)

// entry is the store-owned record for one atom.
type entry struct {
	typ      atom.Type
	kind     atom.Kind
	name     string
	outgoing []atom.Handle
	incoming []atom.Handle
}

// AtomSpace is an in-memory hypergraph store.
type AtomSpace struct {
	mu       sync.RWMutex
	atoms    []entry // atoms[h-1] holds handle h
	nodes    map[string]atom.Handle
	links    map[string][]atom.Handle
	byType   map[atom.Type][]atom.Handle
	targeted map[atom.Type][]atom.Handle
}

var _ atom.Store = (*AtomSpace)(nil)

// New creates an empty AtomSpace.
func New() *AtomSpace {
	return &AtomSpace{
		nodes:    make(map[string]atom.Handle),
		links:    make(map[string][]atom.Handle),
		byType:   make(map[atom.Type][]atom.Handle),
		targeted: make(map[atom.Type][]atom.Handle),
	}
}

// AddNode returns the node of type t with the given name, creating it if
// needed. The name is NFC normalized.
func (s *AtomSpace) AddNode(ctx context.Context, t atom.Type, name string) (atom.Handle, error) {
	if err := ctx.Err(); err != nil {
		return atom.Undefined, err
	}
	name = atom.NormalizeName(name)
	key, err := atom.NodeKey(t, name)
	if err != nil {
		return atom.Undefined, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if h, ok := s.nodes[key]; ok {
		return h, nil
	}
	h := s.insert(entry{typ: t, kind: atom.KindNode, name: name})
	s.nodes[key] = h
	return h, nil
}

// AddLink creates a new link of type t over the given outgoing set.
// Every member must already exist in this AtomSpace.
func (s *AtomSpace) AddLink(ctx context.Context, t atom.Type, outgoing ...atom.Handle) (atom.Handle, error) {
	if err := ctx.Err(); err != nil {
		return atom.Undefined, err
	}
	key, err := atom.LinkKey(t, outgoing)
	if err != nil {
		return atom.Undefined, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range outgoing {
		if !s.valid(m) {
			return atom.Undefined, fmt.Errorf("AddLink %s: %w", t, atom.NoSuchAtom(m))
		}
	}

	h := s.insert(entry{typ: t, kind: atom.KindLink, outgoing: slices.Clone(outgoing)})
	s.links[key] = append(s.links[key], h)

	// Incoming sets and the target-type index list each link at most once,
	// even when a member or a member type repeats.
	seenAtom := make(map[atom.Handle]bool, len(outgoing))
	seenType := make(map[atom.Type]bool, len(outgoing))
	for _, m := range outgoing {
		if !seenAtom[m] {
			seenAtom[m] = true
			e := &s.atoms[m-1]
			e.incoming = append(e.incoming, h)
		}
		mt := s.atoms[m-1].typ
		if !seenType[mt] {
			seenType[mt] = true
			s.targeted[mt] = append(s.targeted[mt], h)
		}
	}
	return h, nil
}

// FindLink returns the oldest link of type t with exactly this outgoing set.
func (s *AtomSpace) FindLink(ctx context.Context, t atom.Type, outgoing ...atom.Handle) (atom.Handle, bool, error) {
	if err := ctx.Err(); err != nil {
		return atom.Undefined, false, err
	}
	key, err := atom.LinkKey(t, outgoing)
	if err != nil {
		return atom.Undefined, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if hs := s.links[key]; len(hs) > 0 {
		return hs[0], true, nil
	}
	return atom.Undefined, false, nil
}

// View returns a snapshot of the atom.
func (s *AtomSpace) View(ctx context.Context, h atom.Handle) (atom.View, error) {
	if err := ctx.Err(); err != nil {
		return atom.View{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.valid(h) {
		return atom.View{}, atom.NoSuchAtom(h)
	}
	e := s.atoms[h-1]
	return atom.View{
		Handle:   h,
		Type:     e.typ,
		Kind:     e.kind,
		Name:     e.name,
		Outgoing: slices.Clone(e.outgoing),
	}, nil
}

// Outgoing returns a copy of the outgoing set of h.
func (s *AtomSpace) Outgoing(ctx context.Context, h atom.Handle) ([]atom.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.valid(h) {
		return nil, atom.NoSuchAtom(h)
	}
	return slices.Clone(s.atoms[h-1].outgoing), nil
}

// Incoming returns a copy of the incoming set of h.
func (s *AtomSpace) Incoming(ctx context.Context, h atom.Handle) ([]atom.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.valid(h) {
		return nil, atom.NoSuchAtom(h)
	}
	return slices.Clone(s.atoms[h-1].incoming), nil
}

// Candidates enumerates every atom of exactly type t in handle order.
// The set is captured when iteration starts; atoms added later are not seen.
func (s *AtomSpace) Candidates(ctx context.Context, t atom.Type) iter.Seq2[atom.Handle, error] {
	return func(yield func(atom.Handle, error) bool) {
		s.mu.RLock()
		hs := slices.Clone(s.byType[t])
		s.mu.RUnlock()

		for _, h := range hs {
			if err := ctx.Err(); err != nil {
				yield(atom.Undefined, err)
				return
			}
			if !yield(h, nil) {
				return
			}
		}
	}
}

// LinksTargeting returns the links whose outgoing set contains at least
// one atom of type t, each link once, in handle order.
func (s *AtomSpace) LinksTargeting(t atom.Type) []atom.Handle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.targeted[t])
}

// Handles returns every handle in creation order. Members always precede
// the links that contain them.
func (s *AtomSpace) Handles() []atom.Handle {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hs := make([]atom.Handle, len(s.atoms))
	for i := range s.atoms {
		hs[i] = atom.Handle(i + 1)
	}
	return hs
}

// Types returns every type present, sorted by name.
func (s *AtomSpace) Types() []atom.Type {
	s.mu.RLock()
	defer s.mu.RUnlock()

	types := make([]atom.Type, 0, len(s.byType))
	for t := range s.byType {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// Size returns the number of atoms.
func (s *AtomSpace) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.atoms)
}

// insert appends e and returns its handle. Caller holds the write lock.
func (s *AtomSpace) insert(e entry) atom.Handle {
	s.atoms = append(s.atoms, e)
	h := atom.Handle(len(s.atoms))
	s.byType[e.typ] = append(s.byType[e.typ], h)
	return h
}

// valid reports whether h was issued by this AtomSpace. Caller holds a lock.
func (s *AtomSpace) valid(h atom.Handle) bool {
	return h != atom.Undefined && uint64(h) <= uint64(len(s.atoms))
}
