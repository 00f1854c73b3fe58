package leaderboard

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studybuddy/internal/store"
)

var day = time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)

func TestInsert_SortedAndCapped(t *testing.T) {
	var board []Entry
	scores := []int{300, 1250, 150, 800, 800, 50, 990}
	for i, s := range scores {
		board = Insert(board, Entry{Topic: string(rune('a' + i)), Score: s, Date: day})
		assert.LessOrEqual(t, len(board), Size)
		for j := 1; j < len(board); j++ {
			assert.GreaterOrEqual(t, board[j-1].Score, board[j].Score)
		}
	}

	require.Len(t, board, 5)
	assert.Equal(t, []int{1250, 990, 800, 800, 300}, []int{board[0].Score, board[1].Score, board[2].Score, board[3].Score, board[4].Score})
	assert.Equal(t, "d", board[2].Topic, "ties keep the earlier run first")
	assert.Equal(t, "e", board[3].Topic)
}

func TestInsert_LowScoreDropped(t *testing.T) {
	board := []Entry{{Score: 500}, {Score: 400}, {Score: 300}, {Score: 200}, {Score: 100}}
	got := Insert(board, Entry{Topic: "history", Score: 50})
	assert.Len(t, got, 5)
	for _, e := range got {
		assert.NotEqual(t, "history", e.Topic)
	}
	assert.Equal(t, 100, board[4].Score, "input is not modified")
}

func TestBoard_Persists(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer st.Close()
	ctx := context.Background()

	b := New(st.KV())
	top, err := b.Top(ctx)
	require.NoError(t, err)
	assert.Empty(t, top)

	_, err = b.Record(ctx, Entry{Topic: "python", Score: 1250, Date: day})
	require.NoError(t, err)
	updated, err := b.Record(ctx, Entry{Topic: "react", Score: 600, Date: day})
	require.NoError(t, err)
	assert.Len(t, updated, 2)

	top, err = New(st.KV()).Top(ctx)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "python", top[0].Topic)
	assert.True(t, top[0].Date.Equal(day))

	require.NoError(t, b.Clear(ctx))
	top, err = b.Top(ctx)
	require.NoError(t, err)
	assert.Empty(t, top)
}
