package nats

import (
	"context"
	"log/slog"
	"social-lab/contract"
	"social-lab/domain"
	"social-lab/observability"

	"github.com/nats-io/nats.go"
)

// Applier writes a change committed on another node to the local store.
type Applier interface {
	Apply(ctx context.Context, change domain.Change) error
}

var _ contract.Worker = (*Subscriber)(nil)

// Subscriber is a supervised worker applying the changes of other nodes.
type Subscriber struct {
	conn    Conn
	prefix  string
	node    string
	applier Applier
	log     *slog.Logger
}

func NewSubscriber(conn Conn, prefix, node string, applier Applier, log *slog.Logger) *Subscriber {
	return &Subscriber{conn: conn, prefix: prefix, node: node, applier: applier, log: log}
}

func (s *Subscriber) Run(ctx context.Context) error {
	sub, err := s.conn.Subscribe(s.prefix+".>", func(msg *nats.Msg) { s.Handle(ctx, msg) })
	if err != nil {
		return err
	}
	s.log.Info("Listening for replicated changes", "subject", s.prefix+".>")
	<-ctx.Done()
	if err = sub.Unsubscribe(); err != nil {
		s.log.Debug("Failed to unsubscribe", "error", err)
	}
	return nil
}

// Handle decodes one message and applies it unless this node committed it.
func (s *Subscriber) Handle(ctx context.Context, msg *nats.Msg) {
	if msg.Header != nil && msg.Header.Get(nodeHeader) == s.node {
		return
	}
	change, err := Decode(msg.Data)
	if err != nil {
		s.log.Error("Dropping replicated message", "error", err, "subject", msg.Subject)
		observability.ReplicatedChanges.WithLabelValues("in", "invalid").Inc()
		return
	}
	if change.Node == s.node {
		return
	}
	if err = s.applier.Apply(ctx, change); err != nil {
		s.log.Warn("Failed to apply replicated change", "error", err, "kind", change.Kind, "node", change.Node)
		observability.ReplicatedChanges.WithLabelValues("in", "failed").Inc()
		return
	}
	observability.ReplicatedChanges.WithLabelValues("in", "ok").Inc()
}
