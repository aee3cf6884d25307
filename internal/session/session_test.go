package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"codeberg.org/snonux/wordcard/internal/wordstore"
)

func TestWorkingListDedupesByLowercase(t *testing.T) {
	var l WorkingList

	added := l.Add(wordstore.Record{Word: "Ambition"}, wordstore.Record{Word: "extremely"})
	assert.Equal(t, 2, added)

	added = l.Add(wordstore.Record{Word: "ambition"}, wordstore.Record{Word: ""}, wordstore.Record{Word: "new"})
	assert.Equal(t, 1, added)
	assert.Equal(t, []string{"Ambition", "extremely", "new"}, l.Words())
	assert.True(t, l.Contains("AMBITION"))

	l.Clear()
	assert.Zero(t, l.Len())
	assert.Empty(t, l.Records())
}

func TestSessionFlashIsOneShot(t *testing.T) {
	sess := NewSession("id")
	sess.SetFlash("hello")
	assert.Equal(t, "hello", sess.Flash())
	assert.Equal(t, "", sess.Flash())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "input-pending", InputPending.String())
	assert.Equal(t, "resolving", Resolving.String())
	assert.Equal(t, "ready", Ready.String())
	assert.Equal(t, "unknown", State(42).String())
}
