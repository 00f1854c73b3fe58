package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	q := NewQueue()
	q.now = func() time.Time { return now }

	a := q.Push("Plan created", "Python in 30 days", KindSuccess)
	now = now.Add(3 * time.Second)
	b := q.Push("Heads up", "Session still running", "")
	assert.Equal(t, KindInfo, b.Kind)
	require.Equal(t, 2, q.Len())
	assert.NotEqual(t, a.ID, b.ID)

	q.Expire(now.Add(2 * time.Second))
	items := q.Items()
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].ID)

	assert.False(t, q.Remove(a.ID), "already expired")
	assert.True(t, q.Remove(b.ID))
	assert.Zero(t, q.Len())
}

func TestDismissNewest(t *testing.T) {
	q := NewQueue()
	assert.False(t, q.DismissNewest())

	first := q.Push("one", "", KindWarning)
	q.Push("two", "", KindError)
	assert.True(t, q.DismissNewest())
	require.Equal(t, 1, q.Len())
	assert.Equal(t, first.ID, q.Items()[0].ID)
}
