package services

import (
	"context"
	"fmt"
	"log/slog"
	"social-lab/contract"
	"social-lab/domain"
	"social-lab/errors"
	"social-lab/graph"
	"social-lab/repositories"
	"sync"
)

var _ contract.IChangeSink = (*ChangeFeed)(nil)

// ChangeFeed fans committed writes out to its sinks. A nil feed records nothing.
type ChangeFeed struct {
	mu    sync.RWMutex
	sinks []contract.IChangeSink
}

func NewChangeFeed(sinks ...contract.IChangeSink) *ChangeFeed {
	return &ChangeFeed{sinks: sinks}
}

func (f *ChangeFeed) Add(sink contract.IChangeSink) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sinks = append(f.sinks, sink)
}

func (f *ChangeFeed) Record(ctx context.Context, change domain.Change) {
	if f == nil {
		return
	}
	f.mu.RLock()
	sinks := append([]contract.IChangeSink(nil), f.sinks...)
	f.mu.RUnlock()
	for _, sink := range sinks {
		sink.Record(ctx, change)
	}
}

// Replica applies changes committed on other nodes to the local store and
// graph. Every applied change is passed on to the local sinks, which never
// include the replication publisher.
type Replica struct {
	accounts repositories.IAccountRepository
	posts    repositories.IPostRepository
	graph    *graph.Graph
	local    contract.IChangeSink
	log      *slog.Logger
}

func NewReplica(
	accounts repositories.IAccountRepository,
	posts repositories.IPostRepository,
	graph *graph.Graph,
	local contract.IChangeSink,
	log *slog.Logger,
) *Replica {
	return &Replica{accounts: accounts, posts: posts, graph: graph, local: local, log: log}
}

func (r *Replica) Apply(ctx context.Context, change domain.Change) error {
	if change.Local() {
		return fmt.Errorf("%w: replicated change without origin node", errors.ErrInvalidChange)
	}
	var err error
	switch change.Kind {
	case domain.ChangeAccount:
		if change.Account == nil {
			return fmt.Errorf("%w: account change without account", errors.ErrInvalidChange)
		}
		err = r.accounts.ImportAccount(*change.Account)
	case domain.ChangeProfile:
		if change.Profile == nil {
			return fmt.Errorf("%w: profile change without profile", errors.ErrInvalidChange)
		}
		var account domain.Account
		account, err = r.accounts.UpdateProfile(change.SubjectID, *change.Profile)
		change.Account = &account
	case domain.ChangePost:
		if change.Post == nil {
			return fmt.Errorf("%w: post change without post", errors.ErrInvalidChange)
		}
		err = r.posts.StorePost(*change.Post)
	default:
		err = r.graph.Replay(ctx, change)
	}
	if err != nil {
		return fmt.Errorf("apply %s from %s: %w", change.Kind, change.Node, err)
	}
	r.log.Debug("Replicated change applied", "kind", change.Kind, "subject_id", change.SubjectID, "node", change.Node)
	if r.local != nil {
		r.local.Record(ctx, change)
	}
	return nil
}
