package session

import (
	"sync"
	"time"
)

// Phase is the externally visible lifecycle phase of a call.
type Phase int

const (
	PhaseNew Phase = iota
	PhaseStreaming
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseNew:
		return "new"
	case PhaseStreaming:
		return "streaming"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Role identifies who spoke a turn.
type Role string

const (
	RoleCaller    Role = "caller"
	RoleAssistant Role = "assistant"
)

// Turn is one utterance in a call. Turns are never modified after append.
type Turn struct {
	Seq  int
	Role Role
	Text string
}

// Session is the conversational state of a single call.
type Session struct {
	id  string
	now func() time.Time

	mu           sync.Mutex
	phase        Phase
	turns        []Turn
	inFlight     bool
	setupDone    chan struct{} // non-nil while call setup runs
	callerNumber string
	lastActivity time.Time
}

func newSession(id string, now func() time.Time) *Session {
	ts := now()
	return &Session{
		id:           id,
		now:          now,
		phase:        PhaseNew,
		lastActivity: ts,
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// SetPhase moves the session to p. An ended session stays ended.
func (s *Session) SetPhase(p Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseEnded {
		return
	}
	s.phase = p
	s.lastActivity = s.now()
}

func (s *Session) Ended() bool {
	return s.Phase() == PhaseEnded
}

func (s *Session) CallerNumber() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.callerNumber
}

func (s *Session) SetCallerNumber(number string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if number != "" {
		s.callerNumber = number
	}
}

// BeginSetup claims answer and stream setup for the call. It returns true
// when the caller now owns setup and must call EndSetup. Otherwise pending is
// closed when a setup already running finishes, or nil when no setup is
// running.
func (s *Session) BeginSetup() (claimed bool, pending <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setupDone != nil {
		return false, s.setupDone
	}
	if s.phase != PhaseNew {
		return false, nil
	}
	s.setupDone = make(chan struct{})
	s.lastActivity = s.now()
	return true, nil
}

// EndSetup releases the setup claim. On success the session moves to
// PhaseStreaming unless it has already ended.
func (s *Session) EndSetup(ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setupDone == nil {
		return
	}
	if ok && s.phase != PhaseEnded {
		s.phase = PhaseStreaming
	}
	close(s.setupDone)
	s.setupDone = nil
	s.lastActivity = s.now()
}

// TryBeginTurn atomically claims the session for one turn. It returns false
// if a turn is already in flight or the session has ended.
func (s *Session) TryBeginTurn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight || s.phase == PhaseEnded {
		return false
	}
	s.inFlight = true
	s.lastActivity = s.now()
	return true
}

// EndTurn releases the claim taken by TryBeginTurn.
func (s *Session) EndTurn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	s.lastActivity = s.now()
}

func (s *Session) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// AppendTurn appends a single turn and returns it.
func (s *Session) AppendTurn(role Role, text string) Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(role, text)
}

// AppendExchange appends a caller turn followed by the assistant reply as one
// step, so no reader ever observes the caller turn alone.
func (s *Session) AppendExchange(callerText, assistantText string) (Turn, Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	caller := s.appendLocked(RoleCaller, callerText)
	assistant := s.appendLocked(RoleAssistant, assistantText)
	return caller, assistant
}

func (s *Session) appendLocked(role Role, text string) Turn {
	t := Turn{Seq: len(s.turns), Role: role, Text: text}
	s.turns = append(s.turns, t)
	s.lastActivity = s.now()
	return t
}

// Turns returns a copy of the turn sequence, oldest first.
func (s *Session) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Touch records activity on the session.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActivity = s.now()
}

// endIfIdle ends the session when it has been idle since cutoff with no turn
// or setup running. The check and the end happen under one lock, so a turn
// claimed concurrently either wins or fails.
func (s *Session) endIfIdle(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseEnded || s.inFlight || s.setupDone != nil || !s.lastActivity.Before(cutoff) {
		return false
	}
	s.phase = PhaseEnded
	return true
}

func (s *Session) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseEnded
}
