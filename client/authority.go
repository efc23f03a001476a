package client

import (
	"context"
	"social-lab/domain"
	"social-lab/protocol"
	"social-lab/toggle"
)

var _ toggle.Authority = (*remoteAuthority)(nil)

// remoteAuthority performs toggles on the server through the session.
type remoteAuthority struct {
	session *Session
}

func (a *remoteAuthority) Follow(ctx context.Context, _, targetID string) (domain.Ack, error) {
	return a.mutate(ctx, protocol.OpFollow, targetID)
}

func (a *remoteAuthority) Unfollow(ctx context.Context, _, targetID string) (domain.Ack, error) {
	return a.mutate(ctx, protocol.OpUnfollow, targetID)
}

func (a *remoteAuthority) Like(ctx context.Context, _, postID string) (domain.Ack, error) {
	return a.mutate(ctx, protocol.OpLike, postID)
}

func (a *remoteAuthority) Unlike(ctx context.Context, _, postID string) (domain.Ack, error) {
	return a.mutate(ctx, protocol.OpUnlike, postID)
}

func (a *remoteAuthority) mutate(ctx context.Context, op protocol.Op, subjectID string) (domain.Ack, error) {
	var ack domain.Ack
	err := a.session.call(ctx, protocol.Request{Op: op, SubjectID: subjectID}, into(&ack))
	return ack, err
}
