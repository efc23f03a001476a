//go:generate go run go.uber.org/mock/mockgen -source=toggle.go -destination=../mocks/mock_toggle.go -package=mocks
// Package toggle applies like and follow toggles optimistically and reconciles
// them with the authority, allowing at most one toggle in flight per
// (actor, subject, kind).
package toggle

import (
	"context"
	"fmt"
	"log/slog"
	"social-lab/domain"
	"social-lab/errors"
	"social-lab/observability"
	"sync"
)

// Authority performs the real mutation and returns the authoritative count.
type Authority interface {
	Follow(ctx context.Context, actorID, targetID string) (domain.Ack, error)
	Unfollow(ctx context.Context, actorID, targetID string) (domain.Ack, error)
	Like(ctx context.Context, actorID, postID string) (domain.Ack, error)
	Unlike(ctx context.Context, actorID, postID string) (domain.Ack, error)
}

// Overlay is the optimistic layer of the actor's cached view.
type Overlay interface {
	BeginOptimistic(subjectID string) (bool, error)
	Commit(subjectID string, ack domain.Ack) error
	Rollback(subjectID string)
	Observes(subjectID string) bool
}

type key struct {
	actorID   string
	subjectID string
	kind      domain.ToggleKind
}

// Outcome describes how a toggle ended.
type Outcome struct {
	State domain.ToggleState
	// Flag is the follow or like flag after the toggle.
	Flag bool
	Ack  domain.Ack
	// Discarded is set when the subject stopped being observed before the
	// authority answered.
	Discarded bool
}

type Coordinator struct {
	mu        sync.Mutex
	states    map[key]domain.ToggleState
	authority Authority
	overlay   Overlay
	log       *slog.Logger
}

func NewCoordinator(authority Authority, overlay Overlay, log *slog.Logger) *Coordinator {
	return &Coordinator{
		states:    make(map[key]domain.ToggleState),
		authority: authority,
		overlay:   overlay,
		log:       log,
	}
}

// Toggle flips the like or follow state of actorID on subjectID.
// It returns ErrToggleInFlight while a previous toggle of the same triple is pending.
func (c *Coordinator) Toggle(ctx context.Context, actorID, subjectID string, kind domain.ToggleKind) (Outcome, error) {
	if kind != domain.ToggleLike && kind != domain.ToggleFollow {
		return Outcome{}, fmt.Errorf("%w: %s", errors.ErrInvalidToggleKind, kind)
	}
	k := key{actorID: actorID, subjectID: subjectID, kind: kind}
	if !c.begin(k) {
		return Outcome{State: domain.Pending}, errors.ErrToggleInFlight
	}
	defer c.end(k)

	next, err := c.overlay.BeginOptimistic(subjectID)
	if err != nil {
		return Outcome{State: domain.Idle}, err
	}

	ack, err := c.call(ctx, actorID, subjectID, kind, next)

	// The view no longer holds the subject: nothing to reconcile, but a failed
	// mutation is still reported to the caller
	if !c.overlay.Observes(subjectID) {
		c.log.Debug("Discarding toggle result for unobserved subject",
			"actor_id", actorID, "subject_id", subjectID, "kind", kind, "error", err)
		observability.ToggleOutcomes.WithLabelValues(string(kind), "DISCARDED").Inc()
		return Outcome{State: domain.Idle, Discarded: true}, err
	}

	if err != nil {
		c.overlay.Rollback(subjectID)
		c.set(k, domain.RolledBack)
		observability.ToggleOutcomes.WithLabelValues(string(kind), string(domain.RolledBack)).Inc()
		c.log.Debug("Toggle rolled back",
			"actor_id", actorID, "subject_id", subjectID, "kind", kind, "error", err)
		return Outcome{State: domain.RolledBack, Flag: !next}, err
	}

	if err = c.overlay.Commit(subjectID, ack); err != nil {
		c.log.Debug("Toggle committed on an untracked subject", "subject_id", subjectID, "error", err)
	}
	c.set(k, domain.Committed)
	observability.ToggleOutcomes.WithLabelValues(string(kind), string(domain.Committed)).Inc()
	return Outcome{State: domain.Committed, Flag: next, Ack: ack}, nil
}

// State returns the current state of the triple, Idle when nothing is in flight.
func (c *Coordinator) State(actorID, subjectID string, kind domain.ToggleKind) domain.ToggleState {
	c.mu.Lock()
	defer c.mu.Unlock()
	state, ok := c.states[key{actorID: actorID, subjectID: subjectID, kind: kind}]
	if !ok {
		return domain.Idle
	}
	return state
}

func (c *Coordinator) call(ctx context.Context, actorID, subjectID string, kind domain.ToggleKind, next bool) (domain.Ack, error) {
	switch {
	case kind == domain.ToggleFollow && next:
		return c.authority.Follow(ctx, actorID, subjectID)
	case kind == domain.ToggleFollow:
		return c.authority.Unfollow(ctx, actorID, subjectID)
	case next:
		return c.authority.Like(ctx, actorID, subjectID)
	default:
		return c.authority.Unlike(ctx, actorID, subjectID)
	}
}

func (c *Coordinator) begin(k key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.states[k] == domain.Pending {
		return false
	}
	c.states[k] = domain.Pending
	return true
}

func (c *Coordinator) set(k key, state domain.ToggleState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states[k] = state
}

// end returns the triple to Idle.
func (c *Coordinator) end(k key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.states, k)
}
