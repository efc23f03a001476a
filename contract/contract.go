//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"
	"social-lab/domain"
	"social-lab/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink receives events from the fan-out. Implementations must not block
// beyond the context deadline handed to them.
type EventSink interface {
	Consume(ctx context.Context, e event.Event) error
}

// IPublisher is the emitter side of the bus. Publishing is fire-and-forget.
type IPublisher interface {
	Publish(e event.Event)
}

// IRegistry maps subjects to the sinks of the subscribers observing them.
// A subscriber is one connected session, a viewer may own several.
type IRegistry interface {
	GetSinksForSubject(subjectID string) []EventSink
	Subscribe(subscriberID, subjectID string, sink EventSink)
	Unsubscribe(subscriberID, subjectID string)
	Disconnect(subscriberID string)
	IsSubscribed(subscriberID, subjectID string) bool
}

// IAccountDirectory resolves account summaries for lists and feeds.
type IAccountDirectory interface {
	Summary(ctx context.Context, accountID string) (domain.AccountSummary, error)
	Placeholder(accountID string) domain.AccountSummary
}

// IChangeSink is told about every committed write of the system of record.
// Record must not fail the write: sinks log and count their own errors.
type IChangeSink interface {
	Record(ctx context.Context, change domain.Change)
}
