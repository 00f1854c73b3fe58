package flashcards

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studybuddy/internal/api"
	"github.com/abhisek/studybuddy/internal/spacedrep"
)

var cards = []api.Flashcard{
	{Front: "What is photosynthesis?", Back: "Converting light into chemical energy."},
	{Front: "Chlorophyll", Back: "The green pigment that absorbs light."},
	{Front: "Stomata", Back: "Pores for gas exchange."},
}

func TestDeck_LoadAndNavigate(t *testing.T) {
	d := NewDeck(nil)
	assert.True(t, d.Empty())
	assert.Nil(t, d.Current())
	assert.False(t, d.Prev())
	assert.False(t, d.Next())

	require.NoError(t, d.Load(" biology ", cards))
	assert.Equal(t, "biology", d.Topic)
	assert.Equal(t, cards[0].Front, d.Current().Front)

	d.Flip()
	assert.True(t, d.Flipped)
	assert.False(t, d.Prev(), "prev on first card is a no-op")
	assert.True(t, d.Flipped, "no-op keeps flip state")

	assert.True(t, d.Next())
	assert.False(t, d.Flipped, "moving resets flip")
	assert.True(t, d.Next())
	assert.False(t, d.Next(), "next on last card is a no-op")
	assert.Equal(t, 2, d.Index)

	assert.True(t, d.Prev())
	assert.Equal(t, 1, d.Index)

	d.Flip()
	require.NoError(t, d.Load("chemistry", cards[:1]))
	assert.Zero(t, d.Index)
	assert.False(t, d.Flipped)
}

func TestDeck_LoadEmpty(t *testing.T) {
	d := NewDeck(nil)
	require.NoError(t, d.Load("biology", cards))

	err := d.Load("biology", nil)
	assert.ErrorIs(t, err, ErrNoCards)
	assert.Equal(t, MsgNoCards, Message(err))
	assert.Len(t, d.Cards, 3, "failed load keeps the old deck")

	assert.Equal(t, MsgGenerateFailed, Message(assert.AnError))
}

func TestDeck_RateAndDue(t *testing.T) {
	now := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	d := NewDeck(spacedrep.NewScheduler(nil))
	require.NoError(t, d.Load("biology", cards))

	assert.Equal(t, 3, d.DueCount(now))
	assert.Nil(t, d.Review())

	rs := d.Rate(spacedrep.RatingEasy, now)
	require.NotNil(t, rs)
	assert.Equal(t, 3, rs.Interval)
	assert.Equal(t, 2, d.DueCount(now))
	assert.Same(t, rs, d.Review())

	d.Next()
	d.Rate(spacedrep.RatingHard, now)
	assert.Equal(t, 1, d.DueCount(now))
	assert.Equal(t, 2, d.DueCount(now.AddDate(0, 0, 1)))
	assert.Equal(t, 3, d.DueCount(now.AddDate(0, 0, 3)))
}

func TestCardID_StableAcrossCase(t *testing.T) {
	assert.Equal(t, CardID("Biology", cards[0]), CardID(" biology", cards[0]))
	assert.NotEqual(t, CardID("biology", cards[0]), CardID("biology", cards[1]))
}
