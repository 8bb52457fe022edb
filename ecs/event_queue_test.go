package ecs_test

import (
	"testing"

	"github.com/plus3/tileproto/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventQueueFIFO(t *testing.T) {
	var q ecs.EventQueue[string]
	q.Push("left")
	q.Push("up")
	q.Push("right")
	require.Equal(t, 3, q.Len())

	for _, want := range []string{"left", "up", "right"} {
		got, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 0, q.Len())
}

func TestEventQueueEmpty(t *testing.T) {
	var q ecs.EventQueue[int]

	v, ok := q.Pop()
	assert.False(t, ok)
	assert.Zero(t, v)

	v, ok = q.Peek()
	assert.False(t, ok)
	assert.Zero(t, v)
	assert.Equal(t, 0, q.Len())
}

func TestEventQueuePeekDoesNotConsume(t *testing.T) {
	var q ecs.EventQueue[int]
	q.Push(4)
	q.Push(5)

	for range 3 {
		v, ok := q.Peek()
		require.True(t, ok)
		assert.Equal(t, 4, v)
	}
	assert.Equal(t, 2, q.Len())
}

func TestEventQueueInterleaved(t *testing.T) {
	var q ecs.EventQueue[int]
	var expected []int
	for i := range 200 {
		q.Push(i)
		q.Push(i + 1000)
		expected = append(expected, i, i+1000)

		v, ok := q.Pop()
		require.True(t, ok)
		require.Equal(t, expected[0], v)
		expected = expected[1:]
	}
	assert.Equal(t, len(expected), q.Len())

	q.Clear()
	assert.Equal(t, 0, q.Len())
	_, ok := q.Pop()
	assert.False(t, ok)
}

func TestEventQueueOrderSurvivesReclaim(t *testing.T) {
	var q ecs.EventQueue[int]
	for i := range 100 {
		q.Push(i)
	}
	for i := range 60 {
		v, _ := q.Pop()
		require.Equal(t, i, v)
	}
	q.Push(100)
	for i := 60; i <= 100; i++ {
		v, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
}
