// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session tracks which user action is current and which resource
// URIs have been found broken. Concurrent fetches started for an earlier
// action check their epoch before publishing results, so a newer search
// silently supersedes an older one that is still in flight.
package session

import "sync"

// Session is safe for concurrent use by the fetch goroutines and the
// action loop.
type Session struct {
	mu       sync.Mutex
	current  uint64
	excluded map[string]bool
}

func New() *Session {
	return &Session{excluded: make(map[string]bool)}
}

// Begin starts a new action and returns its epoch token. Any goroutine
// still holding an older token becomes stale.
func (s *Session) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current++
	return s.current
}

// Epoch returns the current action token without starting a new one.
func (s *Session) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Apply runs fn only if epoch is still current, holding the lock so a
// concurrent Begin cannot interleave with the publication. It reports
// whether fn ran.
func (s *Session) Apply(epoch uint64, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.current {
		return false
	}
	fn()
	return true
}

// Exclude marks a resource URI as broken for the rest of the session.
func (s *Session) Exclude(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.excluded[uri] = true
}

// Excluded reports whether uri has been marked broken.
func (s *Session) Excluded(uri string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.excluded[uri]
}
