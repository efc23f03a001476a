package runtime

import (
	"social-lab/contract"
	"sync"
)

type Set map[string]struct{}

var _ contract.IRegistry = (*Registry)(nil)

type Registry struct {
	mu                 sync.RWMutex
	Sessions           map[string]contract.EventSink // subscriber -> sink
	SubjectSubscribers map[string]Set                // subject -> subscribers
	Subscriptions      map[string]Set                // subscriber -> subjects
}

func NewRegistry() *Registry {
	return &Registry{
		Sessions:           make(map[string]contract.EventSink),
		SubjectSubscribers: make(map[string]Set),
		Subscriptions:      make(map[string]Set),
	}
}

// GetSinksForSubject resolves the sinks of every subscriber observing subjectID.
// A subscriber observing several subjects owns a single sink, so the session
// directory is the only place connections live.
// Returns nil if nobody observes the subject.
func (r *Registry) GetSinksForSubject(subjectID string) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subscribers, ok := r.SubjectSubscribers[subjectID]
	if !ok {
		return nil
	}
	activeSinks := make([]contract.EventSink, 0, len(subscribers))
	for subscriberID := range subscribers {
		if sink, exists := r.Sessions[subscriberID]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}

// Subscribe registers the subscriber's sink and adds subjectID to what it observes.
// Subscribing twice to the same subject is a no-op.
func (r *Registry) Subscribe(subscriberID, subjectID string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Sessions[subscriberID] = sink

	if _, ok := r.SubjectSubscribers[subjectID]; !ok {
		r.SubjectSubscribers[subjectID] = make(Set)
	}
	r.SubjectSubscribers[subjectID][subscriberID] = struct{}{}

	if _, ok := r.Subscriptions[subscriberID]; !ok {
		r.Subscriptions[subscriberID] = make(Set)
	}
	r.Subscriptions[subscriberID][subjectID] = struct{}{}
}

// Unsubscribe stops delivering subjectID to the subscriber. Empty sets are removed
// and the session is dropped once it observes nothing.
func (r *Registry) Unsubscribe(subscriberID, subjectID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unsubscribeLocked(subscriberID, subjectID)
}

// Disconnect removes every subscription of the subscriber and its session.
func (r *Registry) Disconnect(subscriberID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for subjectID := range r.Subscriptions[subscriberID] {
		r.unsubscribeLocked(subscriberID, subjectID)
	}
	delete(r.Sessions, subscriberID)
}

func (r *Registry) IsSubscribed(subscriberID, subjectID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.SubjectSubscribers[subjectID][subscriberID]
	return ok
}

func (r *Registry) unsubscribeLocked(subscriberID, subjectID string) {
	if subscribers, ok := r.SubjectSubscribers[subjectID]; ok {
		delete(subscribers, subscriberID)
		if len(subscribers) == 0 {
			delete(r.SubjectSubscribers, subjectID)
		}
	}
	if subjects, ok := r.Subscriptions[subscriberID]; ok {
		delete(subjects, subjectID)
		if len(subjects) == 0 {
			delete(r.Subscriptions, subscriberID)
			delete(r.Sessions, subscriberID)
		}
	}
}
