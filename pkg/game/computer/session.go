package computer

import (
	"github.com/google/uuid"
	"github.com/leonelquinteros/gotext"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"darkterminal/pkg/obs"
)

// translate looks up catalog-provided strings; kept as a variable so vet does not
// flag the non-constant msgids.
var translate = gotext.Get

// SessionState is a state of the terminal session machine
type SessionState int

const (
	StateIdle SessionState = iota
	StatePresenting
	StateAwaitingSelection
	StateAuthenticating
	StateExecuting
	StateTerminated
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePresenting:
		return "presenting"
	case StateAwaitingSelection:
		return "awaiting_selection"
	case StateAuthenticating:
		return "authenticating"
	case StateExecuting:
		return "executing"
	case StateTerminated:
		return "terminated"
	}
	return "unknown"
}

// Controller runs interactive sessions on terminals
type Controller struct {
	access     *AccessControl
	dispatcher *Dispatcher
	console    Console
	logger     zerolog.Logger
}

// NewController wires a session controller. All collaborators are required.
func NewController(access *AccessControl, dispatcher *Dispatcher, console Console, logger zerolog.Logger) (*Controller, error) {
	switch {
	case access == nil:
		return nil, errors.Wrap(ErrMissingDependency, "access control")
	case dispatcher == nil:
		return nil, errors.Wrap(ErrMissingDependency, "dispatcher")
	case console == nil:
		return nil, errors.Wrap(ErrMissingDependency, "console")
	}
	return &Controller{
		access:     access,
		dispatcher: dispatcher,
		console:    console,
		logger:     logger.With().Str("component", "session").Logger(),
	}, nil
}

// Use runs a full session for actor on c and returns once it terminates
func (ctl *Controller) Use(c *Computer, actor Actor) error {
	s, err := ctl.Begin(c, actor)
	if err != nil {
		return err
	}
	for s.Step() {
	}
	return nil
}

// Begin claims c for a new session without running it. The session must be
// stepped until Step returns false to release the terminal.
func (ctl *Controller) Begin(c *Computer, actor Actor) (*Session, error) {
	if !c.session.TryLock() {
		return nil, errors.Wrapf(ErrSessionActive, "%q", c.Name)
	}
	return &Session{
		ID:       uuid.NewString(),
		ctl:      ctl,
		computer: c,
		actor:    actor,
		state:    StateIdle,
		logger:   ctl.logger.With().Str("terminal", c.Name).Logger(),
	}, nil
}

// Session is one use of a terminal, from login to shutdown
type Session struct {
	ID string

	ctl      *Controller
	computer *Computer
	actor    Actor
	state    SessionState
	logger   zerolog.Logger

	clearance int     // Highest security proven this session
	pending   *Option // Option awaiting auth or execution; nil at the login gate
	notice    string  // Line shown under the next menu
	noticeErr bool
}

// State returns the current state
func (s *Session) State() SessionState {
	return s.state
}

// Clearance returns the highest security level proven this session
func (s *Session) Clearance() int {
	return s.clearance
}

// Step runs the current state and moves to the next. It returns false once the
// session has terminated.
func (s *Session) Step() bool {
	if s.state == StateTerminated {
		return false
	}

	prev := s.state
	switch s.state {
	case StateIdle:
		s.state = s.start()
	case StatePresenting:
		s.state = s.present()
	case StateAwaitingSelection:
		s.state = s.awaitSelection()
	case StateAuthenticating:
		s.state = s.authenticate()
	case StateExecuting:
		s.state = s.execute()
	}

	s.logger.Debug().
		Str("session", s.ID).
		Stringer("from", prev).
		Stringer("to", s.state).
		Msg("Session transition")

	if s.state == StateTerminated {
		s.terminate()
		return false
	}
	return true
}

func (s *Session) start() SessionState {
	obs.SessionStarted()
	s.logger.Info().Str("session", s.ID).Msg("Terminal session started")

	c := s.computer
	if c.security <= 0 {
		return StatePresenting
	}

	con := s.ctl.console
	con.Reset()
	con.Print(c.Name)
	con.PrintError(translate(c.accessDenied))
	if !con.AwaitYesNo(gotext.Get("Bypass security?")) {
		con.Print(gotext.Get("Shutting down... press any key."))
		con.AwaitAny("")
		return StateTerminated
	}
	s.pending = nil
	return StateAuthenticating
}

func (s *Session) present() SessionState {
	con := s.ctl.console
	con.Reset()
	con.RenderMenu(s.computer.Name, s.computer.Options())
	if s.notice != "" {
		if s.noticeErr {
			con.PrintError(s.notice)
		} else {
			con.Print(s.notice)
		}
		s.notice, s.noticeErr = "", false
	}
	return StateAwaitingSelection
}

func (s *Session) awaitSelection() SessionState {
	con := s.ctl.console
	choice := con.AwaitChoice()
	if choice.Quit {
		return StateTerminated
	}

	opt, err := s.computer.SelectOption(choice.Name)
	if err != nil {
		s.logger.Debug().Err(err).Str("session", s.ID).Msg("Unknown selection")
		s.setNotice(gotext.Get("Invalid selection."), true)
		return StatePresenting
	}

	required := s.computer.RequiredSecurity(opt)
	if required <= 0 || required <= s.clearance {
		s.pending = &opt
		return StateExecuting
	}

	con.PrintError(gotext.Get("Password required."))
	if !con.AwaitYesNo(gotext.Get("Hack into system?")) {
		return StatePresenting
	}
	s.pending = &opt
	return StateAuthenticating
}

func (s *Session) authenticate() SessionState {
	c := s.computer
	con := s.ctl.console

	target := c.security
	if s.pending != nil {
		target = c.RequiredSecurity(*s.pending)
	}

	res := s.ctl.access.AttemptLogin(c, s.actor, target)
	if res.Outcome == Granted {
		if res.Clearance > s.clearance {
			s.clearance = res.Clearance
		}
		if s.pending == nil {
			s.setNotice(gotext.Get("Login successful."), false)
			return StatePresenting
		}
		return StateExecuting
	}

	atGate := s.pending == nil
	s.pending = nil
	if res.LockedOut {
		con.PrintError(gotext.Get("Access is temporarily blocked for security purposes."))
		con.AwaitAny(gotext.Get("Please contact the system administrator."))
		return StateTerminated
	}

	if !res.Fired {
		con.PrintError(translate(c.accessDenied))
		con.AwaitAny(gotext.Get("Press any key..."))
		return StateTerminated
	}

	info := res.Failure.Info()
	if res.Failure == FailureGarbled {
		for i := 0; i < 3; i++ {
			con.PrintGibberish()
		}
	}
	// Only an option hack may fall back to the menu; a failed login never opens it.
	if !info.Terminates && !atGate {
		s.setNotice(translate(info.Message), true)
		return StatePresenting
	}
	con.PrintError(translate(info.Message))
	con.AwaitAny(gotext.Get("Press any key..."))
	return StateTerminated
}

func (s *Session) execute() SessionState {
	c := s.computer
	con := s.ctl.console
	opt := *s.pending
	s.pending = nil

	ctx := &ActionContext{Computer: c, Actor: s.actor, Clearance: s.clearance}
	effect, err := s.ctl.dispatcher.Invoke(ctx, opt.Action, c.RequiredSecurity(opt))
	if err != nil {
		s.logger.Error().Err(err).Str("session", s.ID).Str("option", opt.Name).Msg("Action refused")
		s.setNotice(gotext.Get("Unable to complete request."), true)
		return StatePresenting
	}

	s.logger.Info().
		Str("session", s.ID).
		Str("option", opt.Name).
		Str("action", opt.Action.String()).
		Msg("Terminal action executed")

	if effect.Consume {
		c.RemoveOption(opt.Action)
	}
	if effect.EndSession {
		if effect.Message != "" {
			con.Print(translate(effect.Message))
		}
		con.AwaitAny("")
		return StateTerminated
	}
	s.setNotice(translate(effect.Message), false)
	return StatePresenting
}

func (s *Session) terminate() {
	s.ctl.console.Shutdown()
	s.logger.Info().
		Str("session", s.ID).
		Int("clearance", s.clearance).
		Msg("Terminal session ended")
	c := s.computer
	s.computer = nil
	s.pending = nil
	c.session.Unlock()
}

func (s *Session) setNotice(msg string, isErr bool) {
	s.notice = msg
	s.noticeErr = isErr
}
