// Package viewstate holds each visitor's board state. Every mutation goes
// through a named transition so the modal and selection lifecycle can be
// tested without rendering.
package viewstate

import (
	"errors"
	"strings"
	"sync"

	"github.com/codr1/pickupgames/internal/gamesapi"
	"github.com/codr1/pickupgames/internal/schedule"
)

var (
	ErrUnknownDay           = errors.New("unknown day")
	ErrNoRegistrationTarget = errors.New("no game selected for registration")
)

// State is one visitor's view. It is safe for concurrent use; HTMX may issue
// overlapping requests for the same visitor.
type State struct {
	mu sync.Mutex

	games       []gamesapi.Game
	selectedDay string

	registrationOpen  bool
	registeringGameID *int64
	registeringTitle  string
	fieldErrors       map[string]string

	rosterOpen   bool
	rosterGameID int64
	rosterTitle  string

	fetchSeq   uint64
	appliedSeq uint64

	notices []Notice
}

// Snapshot is an immutable copy of State for rendering.
type Snapshot struct {
	Games             []gamesapi.Game
	SelectedDay       string
	RegistrationOpen  bool
	RegisteringGameID *int64
	RegisteringTitle  string
	FieldErrors       map[string]string
	RosterOpen        bool
	RosterGameID      int64
	RosterTitle       string
}

// ScrollLocked is true while any modal is open.
func (s Snapshot) ScrollLocked() bool {
	return s.RegistrationOpen || s.RosterOpen
}

func New() *State {
	return &State{
		games:       []gamesapi.Game{},
		selectedDay: schedule.DefaultDay,
		fieldErrors: make(map[string]string),
	}
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Games:            append([]gamesapi.Game(nil), s.games...),
		SelectedDay:      s.selectedDay,
		RegistrationOpen: s.registrationOpen,
		RegisteringTitle: s.registeringTitle,
		FieldErrors:      make(map[string]string, len(s.fieldErrors)),
		RosterOpen:       s.rosterOpen,
		RosterGameID:     s.rosterGameID,
		RosterTitle:      s.rosterTitle,
	}
	if s.registeringGameID != nil {
		id := *s.registeringGameID
		snap.RegisteringGameID = &id
	}
	for field, msg := range s.fieldErrors {
		snap.FieldErrors[field] = msg
	}
	return snap
}

func (s *State) SelectedDay() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedDay
}

// SelectDay changes the visible day. It never touches the game list.
func (s *State) SelectDay(day string) error {
	day = strings.ToLower(strings.TrimSpace(day))
	if !schedule.IsDay(day) {
		return ErrUnknownDay
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedDay = day
	return nil
}

// BeginFetch numbers a games fetch. Pass the number to ApplyFetch.
func (s *State) BeginFetch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchSeq++
	return s.fetchSeq
}

// ApplyFetch replaces the game list wholesale unless a newer fetch has
// already been applied. It reports whether games were replaced. The selected
// day is left alone so a late response cannot undo a newer selection.
func (s *State) ApplyFetch(seq uint64, games []gamesapi.Game) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.appliedSeq {
		return false
	}
	s.appliedSeq = seq
	if games == nil {
		games = []gamesapi.Game{}
	}
	s.games = append([]gamesapi.Game(nil), games...)
	return true
}

// OpenRegistration targets gameID and opens the registration modal with an
// empty, error-free form.
func (s *State) OpenRegistration(gameID int64, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := gameID
	s.registeringGameID = &id
	s.registeringTitle = title
	s.registrationOpen = true
	s.fieldErrors = make(map[string]string)
}

// CloseRegistration closes the modal and always clears the target and every
// field error, whatever state the modal was in.
func (s *State) CloseRegistration() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registrationOpen = false
	s.registeringGameID = nil
	s.registeringTitle = ""
	s.fieldErrors = make(map[string]string)
}

// RegistrationTarget returns the game being joined. Submitting is only valid
// while ok is true.
func (s *State) RegistrationTarget() (gameID int64, title string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.registeringGameID == nil {
		return 0, "", false
	}
	return *s.registeringGameID, s.registeringTitle, true
}

func (s *State) SetFieldError(field, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fieldErrors[field] = message
}

func (s *State) ClearFieldError(field string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.fieldErrors, field)
}

func (s *State) ClearFieldErrors() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fieldErrors = make(map[string]string)
}

// FieldError returns the message currently shown for field.
func (s *State) FieldError(field string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, ok := s.fieldErrors[field]
	return msg, ok
}

func (s *State) OpenRoster(gameID int64, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rosterOpen = true
	s.rosterGameID = gameID
	s.rosterTitle = title
}

func (s *State) CloseRoster() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rosterOpen = false
	s.rosterGameID = 0
	s.rosterTitle = ""
}

// FindGame looks a game up in the last applied fetch.
func (s *State) FindGame(gameID int64) (gamesapi.Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, game := range s.games {
		if game.ID == gameID {
			return game, true
		}
	}
	return gamesapi.Game{}, false
}
