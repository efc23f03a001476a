// Package nats replicates committed writes between nodes. Every node owns its
// own store: a write committed locally is published on "<prefix>.<kind>" and
// each other node applies it to its store and graph, numbering the subject
// sequences itself. Delivery is NATS core, at most once.
package nats

import (
	"encoding/json"
	"fmt"
	"social-lab/domain"
	"strings"
)

const nodeHeader = "Social-Node"

// Subject returns the NATS subject a change is published on.
func Subject(prefix string, kind domain.ChangeKind) string {
	return prefix + "." + strings.ToLower(string(kind))
}

func Encode(change domain.Change) ([]byte, error) {
	data, err := json.Marshal(change)
	if err != nil {
		return nil, fmt.Errorf("marshalling error: %w", err)
	}
	return data, nil
}

func Decode(data []byte) (domain.Change, error) {
	var change domain.Change
	if err := json.Unmarshal(data, &change); err != nil {
		return domain.Change{}, fmt.Errorf("invalid change format: %w", err)
	}
	if change.Kind == "" || change.Node == "" || change.SubjectID == "" {
		return domain.Change{}, fmt.Errorf("invalid change format: missing kind, node or subject")
	}
	return change, nil
}
