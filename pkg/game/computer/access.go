package computer

import (
	"math"
	"time"

	"github.com/rs/zerolog"

	"darkterminal/pkg/obs"
)

// DefaultCooldown is how long a terminal stays locked after a failed hack
const DefaultCooldown = 30 * time.Minute

// Outcome is the result of a login attempt
type Outcome int

const (
	Denied Outcome = iota
	Granted
)

func (o Outcome) String() string {
	if o == Granted {
		return "granted"
	}
	return "denied"
}

// LoginResult describes one call to AttemptLogin
type LoginResult struct {
	Outcome   Outcome
	Clearance int         // Proven security level when granted
	LockedOut bool        // Denied by an active lockout, no roll was made
	Failure   FailureKind // Failure fired on a rolled denial, valid when Fired
	Fired     bool
}

// Policy maps actor skill and target security to a success chance.
// Chance must not decrease with skill and must not increase with security.
type Policy interface {
	Chance(skill, security int) float64
}

// LogisticPolicy gives p = 1 / (1 + Base^(security-skill)). Security 0 always
// succeeds. With Base 2, a skill two levels above the security succeeds 80% of the time.
type LogisticPolicy struct {
	Base float64
}

// DefaultPolicy is the standard hacking curve
var DefaultPolicy = LogisticPolicy{Base: 2}

// Chance implements Policy
func (p LogisticPolicy) Chance(skill, security int) float64 {
	if security <= 0 {
		return 1
	}
	base := p.Base
	if base <= 1 {
		base = DefaultPolicy.Base
	}
	return 1 / (1 + math.Pow(base, float64(security-skill)))
}

// AccessControl rolls login attempts against a terminal's security
type AccessControl struct {
	clock        Clock
	rand         Rand
	policy       Policy
	cooldown     time.Duration
	skill        string
	consequences *ConsequenceEngine
	logger       zerolog.Logger
}

// AccessOption configures an AccessControl
type AccessOption func(*AccessControl)

// WithPolicy replaces the success curve
func WithPolicy(p Policy) AccessOption {
	return func(a *AccessControl) {
		a.policy = p
	}
}

// WithCooldown replaces the lockout interval
func WithCooldown(d time.Duration) AccessOption {
	return func(a *AccessControl) {
		a.cooldown = d
	}
}

// WithSkill changes which actor skill is rolled against security
func WithSkill(skill string) AccessOption {
	return func(a *AccessControl) {
		a.skill = skill
	}
}

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) AccessOption {
	return func(a *AccessControl) {
		a.logger = l
	}
}

// NewAccessControl creates an access controller. Denied rolls are passed to consequences.
func NewAccessControl(clock Clock, rnd Rand, consequences *ConsequenceEngine, opts ...AccessOption) *AccessControl {
	a := &AccessControl{
		clock:        clock,
		rand:         rnd,
		policy:       DefaultPolicy,
		cooldown:     DefaultCooldown,
		skill:        SkillComputer,
		consequences: consequences,
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With().Str("component", "access").Logger()
	return a
}

// Cooldown returns the lockout interval
func (a *AccessControl) Cooldown() time.Duration {
	return a.cooldown
}

// SuccessChance returns the clamped chance that skill beats security
func (a *AccessControl) SuccessChance(skill, security int) float64 {
	p := a.policy.Chance(skill, security)
	switch {
	case math.IsNaN(p) || p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// AttemptLogin tries to log the actor into c. override >= 0 replaces the base
// security. A denied roll locks the terminal for the cooldown and fires exactly one
// failure when any are configured; a lockout denial changes nothing.
//
// Attempts on the same terminal are serialized, so concurrent callers outside a
// Session still see each other's lockouts: at most one of them gets to roll.
func (a *AccessControl) AttemptLogin(c *Computer, actor Actor, override int) LoginResult {
	security := c.security
	if override >= 0 {
		security = override
	}

	c.login.Lock()
	defer c.login.Unlock()

	now := a.clock.Now()
	if c.lockedOut(now) {
		a.logger.Debug().
			Str("terminal", c.Name).
			Int64("now", int64(now)).
			Int64("next_attempt", int64(c.nextAttempt)).
			Msg("Login refused, terminal locked out")
		obs.LoginAttempt(obs.OutcomeLockedOut)
		return LoginResult{Outcome: Denied, LockedOut: true}
	}

	skill := 0
	if actor != nil {
		skill = actor.SkillLevel(a.skill)
		if p, ok := actor.(Practicer); ok {
			p.Practice(a.skill, 5+2*security)
		}
	}

	p := a.SuccessChance(skill, security)
	r := a.rand.Float64()
	log := a.logger.Debug().
		Str("terminal", c.Name).
		Int("skill", skill).
		Int("security", security).
		Float64("chance", p).
		Float64("roll", r)

	if r < p {
		log.Msg("Login granted")
		obs.LoginAttempt(obs.OutcomeGranted)
		return LoginResult{Outcome: Granted, Clearance: security}
	}

	c.lockUntil(now.Add(a.cooldown))
	log.Msg("Login denied")
	obs.LoginAttempt(obs.OutcomeDenied)

	result := LoginResult{Outcome: Denied}
	if a.consequences != nil {
		result.Failure, result.Fired = a.consequences.ApplyRandom(c, actor)
	}
	return result
}
