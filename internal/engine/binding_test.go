package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/hypermatch/internal/atom"
)

func TestGrounding_UndoRestoresOverwrites(t *testing.T) {
	g := newGrounding()
	g.bind(1, 10)

	mark := g.mark()
	g.bind(1, 11)
	g.bind(2, 20)
	g.bind(2, 21)

	v, _ := g.get(1)
	assert.Equal(t, atom.Handle(11), v)

	g.undo(mark)
	v, ok := g.get(1)
	assert.True(t, ok)
	assert.Equal(t, atom.Handle(10), v)
	_, ok = g.get(2)
	assert.False(t, ok)
	assert.Equal(t, mark, g.mark())
}

func TestGrounding_VariablesOnly(t *testing.T) {
	g := newGrounding()
	g.bind(1, 10)
	g.bind(2, 20)
	g.bind(3, 30)

	b := g.variables(map[atom.Handle]struct{}{1: {}, 3: {}, 4: {}})
	assert.Equal(t, Binding{1: 10, 3: 30}, b)

	g.reset()
	assert.Empty(t, g.variables(map[atom.Handle]struct{}{1: {}}))
	assert.Equal(t, 0, g.mark())
}
