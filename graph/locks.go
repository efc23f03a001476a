package graph

import (
	"sort"
	"sync"
)

// subjectLocks hands out one mutex per subject id. Entries are removed once no
// goroutine holds or waits for them.
type subjectLocks struct {
	mu    sync.Mutex
	locks map[string]*subjectLock
}

type subjectLock struct {
	mu   sync.Mutex
	refs int
}

func newSubjectLocks() *subjectLocks {
	return &subjectLocks{locks: make(map[string]*subjectLock)}
}

// Lock acquires the locks of every given subject in sorted order and returns
// the function releasing them.
func (s *subjectLocks) Lock(subjectIDs ...string) func() {
	ids := make([]string, 0, len(subjectIDs))
	seen := make(map[string]struct{}, len(subjectIDs))
	for _, id := range subjectIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	held := make([]*subjectLock, 0, len(ids))
	for _, id := range ids {
		l := s.acquire(id)
		l.mu.Lock()
		held = append(held, l)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].mu.Unlock()
			s.release(ids[i])
		}
	}
}

func (s *subjectLocks) acquire(id string) *subjectLock {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &subjectLock{}
		s.locks[id] = l
	}
	l.refs++
	return l
}

func (s *subjectLocks) release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		return
	}
	l.refs--
	if l.refs == 0 {
		delete(s.locks, id)
	}
}

func (s *subjectLocks) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locks)
}
