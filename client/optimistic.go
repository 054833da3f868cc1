package client

import "context"

// The web UI flipped like/bookmark state locally before the server
// answered. Here that behavior is an explicit two-phase transition:
// pending → confirmed | reverted, with the revert restoring the snapshot
// taken before the local flip.

type TogglePhase int

const (
	PhasePending TogglePhase = iota + 1
	PhaseConfirmed
	PhaseReverted
)

func (p TogglePhase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseConfirmed:
		return "confirmed"
	case PhaseReverted:
		return "reverted"
	default:
		return "unknown"
	}
}

// ToggleState is the displayed state of one toggle association.
type ToggleState struct {
	Active bool
	Count  int64
}

// OptimisticToggle tracks a single in-flight toggle.
type OptimisticToggle struct {
	snapshot ToggleState
	current  ToggleState
	phase    TogglePhase
}

// BeginToggle snapshots the current state and applies the local flip.
func BeginToggle(s ToggleState) *OptimisticToggle {
	flipped := ToggleState{Active: !s.Active}
	if flipped.Active {
		flipped.Count = s.Count + 1
	} else if s.Count > 0 {
		flipped.Count = s.Count - 1
	}
	return &OptimisticToggle{snapshot: s, current: flipped, phase: PhasePending}
}

func (t *OptimisticToggle) State() ToggleState { return t.current }
func (t *OptimisticToggle) Phase() TogglePhase { return t.phase }

// Confirm adopts the server's answer as the settled state. The server
// wins over the local guess, so a concurrent toggle elsewhere cannot
// leave the display drifted.
func (t *OptimisticToggle) Confirm(server ToggleState) ToggleState {
	if t.phase == PhasePending {
		t.current = server
		t.phase = PhaseConfirmed
	}
	return t.current
}

// Revert restores the pre-flip snapshot. Deterministic: the result
// depends only on the snapshot, not on what happened since.
func (t *OptimisticToggle) Revert() ToggleState {
	if t.phase == PhasePending {
		t.current = t.snapshot
		t.phase = PhaseReverted
	}
	return t.current
}

// ToggleLikeOptimistic flips the local state through apply immediately,
// then either confirms with the server's state or reverts on failure.
func (c *Client) ToggleLikeOptimistic(ctx context.Context, postID string, local ToggleState, apply func(ToggleState)) (*OptimisticToggle, error) {
	t := BeginToggle(local)
	apply(t.State())

	status, err := c.ToggleLike(ctx, postID)
	if err != nil {
		apply(t.Revert())
		return t, err
	}

	apply(t.Confirm(ToggleState{Active: status.Liked, Count: status.LikeCount}))
	return t, nil
}

// ToggleBookmarkOptimistic is the bookmark counterpart.
func (c *Client) ToggleBookmarkOptimistic(ctx context.Context, postID string, local ToggleState, apply func(ToggleState)) (*OptimisticToggle, error) {
	t := BeginToggle(local)
	apply(t.State())

	status, err := c.ToggleBookmark(ctx, postID)
	if err != nil {
		apply(t.Revert())
		return t, err
	}

	apply(t.Confirm(ToggleState{Active: status.Bookmarked, Count: status.BookmarkCount}))
	return t, nil
}
