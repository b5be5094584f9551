// Package catalog loads terminal definitions from YAML.
package catalog

import (
	"bytes"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/zyedidia/generic/mapset"
	"gopkg.in/yaml.v3"

	"darkterminal/pkg/game/computer"
)

var (
	ErrInvalidCatalog    = errors.New("invalid catalog")
	ErrDuplicateTerminal = errors.New("duplicate terminal name")
	ErrTerminalNotFound  = errors.New("terminal not found")
)

// validate is a package-level singleton, validators are expensive to build.
var validate = validator.New()

// Catalog is the root of a catalog file
type Catalog struct {
	Settings  Settings   `yaml:"settings"`
	Terminals []Terminal `yaml:"terminals" validate:"dive"`
}

// Settings tune access control for every terminal in the catalog
type Settings struct {
	Cooldown   time.Duration `yaml:"cooldown" validate:"gte=0"`
	PolicyBase float64       `yaml:"policy_base" validate:"omitempty,gt=1"`
	Skill      string        `yaml:"skill"`
}

// Terminal describes one computer
type Terminal struct {
	Name         string         `yaml:"name" validate:"required"`
	Security     int            `yaml:"security" validate:"gte=0"`
	AccessDenied string         `yaml:"access_denied"`
	Mission      *int           `yaml:"mission"`
	Options      []OptionConfig `yaml:"options" validate:"dive"`
	Failures     []string       `yaml:"failures" validate:"dive,required"`
}

// OptionConfig describes one menu entry. A missing security means the
// terminal's base security.
type OptionConfig struct {
	Name     string `yaml:"name" validate:"required"`
	Action   string `yaml:"action" validate:"required"`
	Security *int   `yaml:"security" validate:"omitempty,gte=-1"`
}

// LoadFromFile reads a YAML catalog file
func LoadFromFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read catalog file")
	}

	return LoadFromBytes(data)
}

// LoadFromBytes parses and validates YAML catalog bytes. Unknown keys are rejected.
func LoadFromBytes(data []byte) (*Catalog, error) {
	var cat Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cat); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrapf(ErrInvalidCatalog, "failed to parse catalog YAML: %v", err)
	}

	if err := validate.Struct(&cat); err != nil {
		return nil, errors.Wrapf(ErrInvalidCatalog, "catalog validation failed: %v", err)
	}

	seen := mapset.New[string]()
	for _, t := range cat.Terminals {
		if seen.Has(t.Name) {
			return nil, errors.Wrapf(ErrDuplicateTerminal, "%q", t.Name)
		}
		seen.Put(t.Name)
	}

	return &cat, nil
}

// SkillName returns the actor skill consulted for hacking
func (s Settings) SkillName() string {
	if s.Skill == "" {
		return computer.SkillComputer
	}
	return s.Skill
}

// AccessOptions turns the settings into access control options
func (s Settings) AccessOptions() []computer.AccessOption {
	var opts []computer.AccessOption
	if s.Skill != "" {
		opts = append(opts, computer.WithSkill(s.Skill))
	}
	if s.Cooldown > 0 {
		opts = append(opts, computer.WithCooldown(s.Cooldown))
	}
	if s.PolicyBase > 1 {
		opts = append(opts, computer.WithPolicy(computer.LogisticPolicy{Base: s.PolicyBase}))
	}
	return opts
}

// Find returns the terminal definition with the given name
func (c *Catalog) Find(name string) (*Terminal, error) {
	for i := range c.Terminals {
		if c.Terminals[i].Name == name {
			return &c.Terminals[i], nil
		}
	}
	return nil, errors.Wrapf(ErrTerminalNotFound, "%q", name)
}

// Names lists the terminals in file order
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Terminals))
	for _, t := range c.Terminals {
		names = append(names, t.Name)
	}
	return names
}

// BuildAll builds every terminal, stopping at the first error
func (c *Catalog) BuildAll(logger zerolog.Logger) ([]*computer.Computer, error) {
	computers := make([]*computer.Computer, 0, len(c.Terminals))
	for i := range c.Terminals {
		comp, err := c.Terminals[i].Build(logger)
		if err != nil {
			return nil, err
		}
		computers = append(computers, comp)
	}
	return computers, nil
}

// Build converts the definition into a computer. Unknown action and failure
// tokens abort the build.
func (t *Terminal) Build(logger zerolog.Logger) (*computer.Computer, error) {
	c, err := computer.New(t.Name, t.Security)
	if err != nil {
		return nil, errors.Wrapf(err, "terminal %q", t.Name)
	}
	if t.AccessDenied != "" {
		c.SetAccessDeniedMessage(t.AccessDenied)
	}
	if t.Mission != nil {
		c.SetMissionLink(*t.Mission)
	}

	names := mapset.New[string]()
	for _, o := range t.Options {
		action, err := computer.ParseActionKind(strings.TrimSpace(o.Action))
		if err != nil {
			return nil, errors.Wrapf(err, "terminal %q option %q", t.Name, o.Name)
		}
		security := computer.UseBaseSecurity
		if o.Security != nil {
			security = *o.Security
		}
		if err := c.AddOption(computer.Option{Name: o.Name, Action: action, Security: security}); err != nil {
			return nil, errors.Wrapf(err, "terminal %q option %q", t.Name, o.Name)
		}
		if names.Has(o.Name) {
			logger.Warn().
				Str("terminal", t.Name).
				Str("option", o.Name).
				Msg("Duplicate option name, only the first can be selected")
		}
		names.Put(o.Name)
	}

	for _, f := range t.Failures {
		kind, err := computer.ParseFailureKind(strings.TrimSpace(f))
		if err != nil {
			return nil, errors.Wrapf(err, "terminal %q", t.Name)
		}
		if err := c.AddFailure(kind); err != nil {
			return nil, errors.Wrapf(err, "terminal %q", t.Name)
		}
	}

	return c, nil
}
