package nats

import (
	"context"
	"log/slog"
	"social-lab/contract"
	"social-lab/domain"
	"social-lab/observability"

	"github.com/nats-io/nats.go"
)

// Conn is the part of *nats.Conn the replication needs.
type Conn interface {
	PublishMsg(m *nats.Msg) error
	Subscribe(subj string, cb nats.MsgHandler) (*nats.Subscription, error)
}

var _ contract.IChangeSink = (*Replicator)(nil)

// Replicator ships the writes committed on this node to the other nodes.
type Replicator struct {
	conn   Conn
	prefix string
	node   string
	log    *slog.Logger
}

func NewReplicator(conn Conn, prefix, node string, log *slog.Logger) *Replicator {
	return &Replicator{conn: conn, prefix: prefix, node: node, log: log}
}

func (r *Replicator) Record(_ context.Context, change domain.Change) {
	// Changes applied from other nodes are not sent back
	if !change.Local() {
		return
	}
	change.Node = r.node
	data, err := Encode(change)
	if err != nil {
		r.log.Error("Failed to encode change", "error", err, "kind", change.Kind)
		return
	}
	msg := &nats.Msg{
		Subject: Subject(r.prefix, change.Kind),
		Data:    data,
		Header:  nats.Header{},
	}
	msg.Header.Set(nodeHeader, r.node)
	if err = r.conn.PublishMsg(msg); err != nil {
		r.log.Warn("Failed to replicate change", "error", err, "kind", change.Kind, "subject_id", change.SubjectID)
		observability.ReplicatedChanges.WithLabelValues("out", "failed").Inc()
		return
	}
	observability.ReplicatedChanges.WithLabelValues("out", "ok").Inc()
}
