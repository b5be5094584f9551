// Package computer implements secured station terminals: a menu of gated actions,
// skill-based hacking with a lockout cooldown, and failure consequences.
//
// A Computer is the persistent per-terminal aggregate. The stateless services in this
// package (AccessControl, ConsequenceEngine, Dispatcher) act on it, and a Controller
// drives one interactive session at a time through a Console.
package computer

import (
	"sync"

	"github.com/pkg/errors"

	"darkterminal/pkg/engine/world"
)

// UseBaseSecurity as an option's security means "the terminal's base security"
const UseBaseSecurity = -1

// DefaultAccessDeniedMessage is shown when a login fails and no failure overrides it
const DefaultAccessDeniedMessage = "ERROR! Access denied! Your login attempt has been recorded. Please contact the system administrator."

// Option is a menu entry on a terminal
type Option struct {
	Name     string
	Action   ActionKind
	Security int // UseBaseSecurity or >= 0
}

// Failure is a consequence a terminal can fire after a failed hack
type Failure struct {
	Kind FailureKind
}

// Computer is the mutable state of one terminal placed in the world
type Computer struct {
	Name string // e.g. "Lab 6E77-B Terminal Omega"

	security     int
	options      []Option
	failures     []Failure
	accessDenied string
	nextAttempt  world.Time

	missionLink int
	hasMission  bool

	session sync.Mutex // held for the duration of a Use
	login   sync.Mutex // guards nextAttempt across concurrent login attempts
}

// New creates a terminal with no options or failures
func New(name string, security int) (*Computer, error) {
	if security < 0 {
		return nil, errors.Wrapf(ErrNegativeSecurity, "terminal %q: %d", name, security)
	}
	return &Computer{
		Name:         name,
		security:     security,
		accessDenied: DefaultAccessDeniedMessage,
	}, nil
}

// Security returns the base security level. Zero means no login gate.
func (c *Computer) Security() int {
	return c.security
}

// SetSecurity changes the base security level
func (c *Computer) SetSecurity(security int) error {
	if security < 0 {
		return errors.Wrapf(ErrNegativeSecurity, "terminal %q: %d", c.Name, security)
	}
	c.security = security
	return nil
}

// AddOption appends a menu option after validating it
func (c *Computer) AddOption(opt Option) error {
	if opt.Name == "" {
		return errors.Wrapf(ErrInvalidOption, "terminal %q: empty option name", c.Name)
	}
	if !opt.Action.Valid() {
		return errors.Wrapf(ErrUnknownAction, "terminal %q option %q: %d", c.Name, opt.Name, int(opt.Action))
	}
	if opt.Security < UseBaseSecurity {
		return errors.Wrapf(ErrInvalidOption, "terminal %q option %q: security %d", c.Name, opt.Name, opt.Security)
	}
	c.options = append(c.options, opt)
	return nil
}

// AddFailure appends a failure consequence after validating its kind
func (c *Computer) AddFailure(kind FailureKind) error {
	if !kind.Valid() {
		return errors.Wrapf(ErrUnknownFailure, "terminal %q: %d", c.Name, int(kind))
	}
	c.failures = append(c.failures, Failure{Kind: kind})
	return nil
}

// RemoveOption deletes every option bound to action and returns how many were removed
func (c *Computer) RemoveOption(action ActionKind) int {
	kept := c.options[:0]
	removed := 0
	for _, opt := range c.options {
		if opt.Action == action {
			removed++
			continue
		}
		kept = append(kept, opt)
	}
	if len(kept) == 0 {
		kept = nil
	}
	c.options = kept
	return removed
}

// SelectOption finds an option by exact, case-sensitive name
func (c *Computer) SelectOption(name string) (Option, error) {
	for _, opt := range c.options {
		if opt.Name == name {
			return opt, nil
		}
	}
	return Option{}, errors.Wrapf(ErrOptionNotFound, "%q", name)
}

// RequiredSecurity resolves an option's security against the base level
func (c *Computer) RequiredSecurity(opt Option) int {
	if opt.Security == UseBaseSecurity {
		return c.security
	}
	return opt.Security
}

// Options returns a copy of the menu options in order
func (c *Computer) Options() []Option {
	return append([]Option(nil), c.options...)
}

// Failures returns a copy of the failure list in order
func (c *Computer) Failures() []Failure {
	return append([]Failure(nil), c.failures...)
}

// AccessDeniedMessage returns the generic login failure message
func (c *Computer) AccessDeniedMessage() string {
	return c.accessDenied
}

// SetAccessDeniedMessage replaces the generic login failure message
func (c *Computer) SetAccessDeniedMessage(msg string) {
	c.accessDenied = msg
}

// NextAttempt returns the earliest time a new login roll is allowed
func (c *Computer) NextAttempt() world.Time {
	c.login.Lock()
	defer c.login.Unlock()
	return c.nextAttempt
}

// LockedOut reports whether logins are still blocked at now
func (c *Computer) LockedOut(now world.Time) bool {
	c.login.Lock()
	defer c.login.Unlock()
	return c.lockedOut(now)
}

// lockedOut and lockUntil expect c.login to be held.
func (c *Computer) lockedOut(now world.Time) bool {
	return now.Before(c.nextAttempt)
}

// lockUntil moves the lockout forward to t; it never moves it back.
func (c *Computer) lockUntil(t world.Time) {
	if t > c.nextAttempt {
		c.nextAttempt = t
	}
}

// ResetLockout clears any pending lockout. Administrative use only.
func (c *Computer) ResetLockout() {
	c.login.Lock()
	defer c.login.Unlock()
	c.nextAttempt = 0
}

// MissionLink returns the linked mission id, if any
func (c *Computer) MissionLink() (int, bool) {
	return c.missionLink, c.hasMission
}

// SetMissionLink links the terminal to a mission id
func (c *Computer) SetMissionLink(id int) {
	c.missionLink = id
	c.hasMission = true
}

// ClearMissionLink removes the mission link
func (c *Computer) ClearMissionLink() {
	c.missionLink = 0
	c.hasMission = false
}
