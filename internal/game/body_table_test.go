package game_test

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/plus3/tileproto/ecs"
	"github.com/plus3/tileproto/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBodyTable(t *testing.T) {
	table := game.NewBodyTable()
	refs := []*ecs.EntityRef{{Id: 1}, {Id: 2}, {Id: 3}}

	var handles []game.BodyHandle
	for _, ref := range refs {
		body := cp.NewStaticBody()
		handles = append(handles, table.Insert(ref, body, cp.NewBox(body, 1, 1, 0), cp.Vector{}))
	}
	require.Equal(t, 3, table.Len())

	h, ok := table.HandleFor(refs[1])
	require.True(t, ok)
	assert.Equal(t, handles[1], h)

	table.Remove(handles[1])
	assert.Equal(t, 2, table.Len())
	_, ok = table.HandleFor(refs[1])
	assert.False(t, ok)
	_, ok = table.Get(handles[1])
	assert.False(t, ok)

	var order []game.BodyHandle
	table.Each(func(b *game.Body) { order = append(order, b.Handle) })
	assert.Equal(t, []game.BodyHandle{handles[0], handles[2]}, order)

	// removing twice is harmless
	table.Remove(handles[1])
	assert.Equal(t, 2, table.Len())
}

func TestForces(t *testing.T) {
	forces := game.NewForces()
	forces.Add(7, 1, 0)
	forces.Add(3, 0, 2)
	forces.Add(7, -4, 1)

	var ids []ecs.EntityId
	forces.Each(func(id ecs.EntityId, impulse game.Impulse) { ids = append(ids, id) })
	assert.Equal(t, []ecs.EntityId{7, 3}, ids)

	impulse, ok := forces.Get(7)
	require.True(t, ok)
	assert.Equal(t, game.Impulse{X: -3, Y: 1}, impulse)

	forces.Clear()
	assert.Equal(t, 0, forces.Len())
	_, ok = forces.Get(7)
	assert.False(t, ok)

	var zero game.Forces
	zero.Add(1, 1, 1)
	assert.Equal(t, 1, zero.Len())
}
