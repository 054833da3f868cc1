package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeginToggle_FlipsAndAdjustsCount(t *testing.T) {
	tog := BeginToggle(ToggleState{Active: false, Count: 3})
	assert.Equal(t, ToggleState{Active: true, Count: 4}, tog.State())
	assert.Equal(t, PhasePending, tog.Phase())

	tog = BeginToggle(ToggleState{Active: true, Count: 3})
	assert.Equal(t, ToggleState{Active: false, Count: 2}, tog.State())
}

func TestBeginToggle_CountNeverGoesNegative(t *testing.T) {
	tog := BeginToggle(ToggleState{Active: true, Count: 0})
	assert.Equal(t, ToggleState{Active: false, Count: 0}, tog.State())
}

func TestConfirm_ServerStateWins(t *testing.T) {
	tog := BeginToggle(ToggleState{Active: false, Count: 3})

	// Another session toggled concurrently, so the server count differs
	// from the local guess.
	settled := tog.Confirm(ToggleState{Active: true, Count: 7})
	assert.Equal(t, ToggleState{Active: true, Count: 7}, settled)
	assert.Equal(t, PhaseConfirmed, tog.Phase())
}

func TestRevert_RestoresSnapshot(t *testing.T) {
	start := ToggleState{Active: true, Count: 5}
	tog := BeginToggle(start)

	assert.Equal(t, start, tog.Revert())
	assert.Equal(t, PhaseReverted, tog.Phase())
}

func TestConfirmAfterRevert_IsIgnored(t *testing.T) {
	tog := BeginToggle(ToggleState{Active: false, Count: 1})
	tog.Revert()

	settled := tog.Confirm(ToggleState{Active: true, Count: 9})
	assert.Equal(t, ToggleState{Active: false, Count: 1}, settled)
	assert.Equal(t, PhaseReverted, tog.Phase())
}

func TestToggleLikeOptimistic_ConfirmsOnSuccess(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"liked":true,"likeCount":6}}`))
	})

	var seen []ToggleState
	tog, err := c.ToggleLikeOptimistic(context.Background(), "p1", ToggleState{Active: false, Count: 5}, func(s ToggleState) {
		seen = append(seen, s)
	})
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Equal(t, ToggleState{Active: true, Count: 6}, seen[0])
	assert.Equal(t, ToggleState{Active: true, Count: 6}, seen[1])
	assert.Equal(t, PhaseConfirmed, tog.Phase())
}

func TestToggleLikeOptimistic_RevertsOnFailure(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"error":"Post not found"}`))
	})

	start := ToggleState{Active: false, Count: 5}
	var seen []ToggleState
	tog, err := c.ToggleLikeOptimistic(context.Background(), "p1", start, func(s ToggleState) {
		seen = append(seen, s)
	})
	require.Error(t, err)

	require.Len(t, seen, 2)
	assert.Equal(t, ToggleState{Active: true, Count: 6}, seen[0])
	assert.Equal(t, start, seen[1])
	assert.Equal(t, PhaseReverted, tog.Phase())
}

func TestToggleBookmarkOptimistic_ConfirmsOnSuccess(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"bookmarked":false,"bookmarkCount":2}}`))
	})

	tog, err := c.ToggleBookmarkOptimistic(context.Background(), "p1", ToggleState{Active: true, Count: 3}, func(ToggleState) {})
	require.NoError(t, err)
	assert.Equal(t, ToggleState{Active: false, Count: 2}, tog.State())
	assert.Equal(t, PhaseConfirmed, tog.Phase())
}
