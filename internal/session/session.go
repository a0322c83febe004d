// Package session holds the client-local state of one front-end instance: the
// cached name lists and the weekly meal plan. Nothing here is persisted.
package session

import "sync"

// Session owns the state shared by the views of a single user interface.
// Front ends create one per TUI run or per chat and pass it by pointer.
type Session struct {
	Cache NameCache
	Plan  WeeklyMealPlan

	mu   sync.RWMutex
	user string
}

// New returns a session with empty caches and an empty plan.
func New() *Session {
	return &Session{}
}

// SetUser records the e-mail of the signed-in user.
func (s *Session) SetUser(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = email
}

// User returns the signed-in e-mail, or "" when nobody logged in.
func (s *Session) User() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}
