// Package session holds per-user conversation state. Sessions live only in
// process memory: an interrupted flow is lost on restart, by design.
package session

import (
	"sync"

	"github.com/safestay/shelter-bot/internal/models"
)

// Step is the current position in a conversation flow.
type Step int

const (
	StepIdle Step = iota
	StepName
	StepPhone
	StepArea
	StepCity
	StepCapacity
	StepDate
	StepEditField
	StepEditValue
)

var stepNames = map[Step]string{
	StepIdle:      "idle",
	StepName:      "name",
	StepPhone:     "phone",
	StepArea:      "area",
	StepCity:      "city",
	StepCapacity:  "capacity",
	StepDate:      "date",
	StepEditField: "edit_field",
	StepEditValue: "edit_value",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// Draft accumulates the fields of a not-yet-published ad.
type Draft struct {
	Name          string
	Phone         string
	Area          models.Area
	City          string
	Capacity      int
	DateAvailable string
}

// Session is one user's transient conversation state. The zero value is an
// idle session.
type Session struct {
	Step      Step
	Draft     Draft
	EditAdID  int64
	EditField models.Field
}

// Store keeps sessions keyed by user id. Entering a new flow overwrites any
// stale session for that user; entries are never shared between users.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[int64]Session)}
}

// Get returns the user's session, or an idle zero session if none exists.
func (s *Store) Get(userID int64) Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[userID]
}

// Put replaces the user's session wholesale.
func (s *Store) Put(userID int64, sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = sess
}

// Clear drops the user's session, returning them to idle.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
