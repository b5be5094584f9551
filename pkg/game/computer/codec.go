package computer

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"darkterminal/pkg/engine/world"
)

// noMission marks an absent mission link in a saved record
const noMission = "-"

// Encode writes the persistent state of c as a single-line record:
//
//	"name" security mission next_attempt n_opts ("name" action security)* n_fail failure* "access_denied"
//
// Strings are Go quoted literals; mission is "-" when unlinked.
func Encode(c *Computer) string {
	var b strings.Builder
	w := func(tok string) {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tok)
	}

	w(strconv.Quote(c.Name))
	w(strconv.Itoa(c.security))
	if id, ok := c.MissionLink(); ok {
		w(strconv.Itoa(id))
	} else {
		w(noMission)
	}
	w(strconv.FormatInt(int64(c.NextAttempt()), 10))

	w(strconv.Itoa(len(c.options)))
	for _, opt := range c.options {
		w(strconv.Quote(opt.Name))
		w(opt.Action.String())
		w(strconv.Itoa(opt.Security))
	}

	w(strconv.Itoa(len(c.failures)))
	for _, f := range c.failures {
		w(f.Kind.String())
	}

	w(strconv.Quote(c.accessDenied))
	return b.String()
}

// Decode rebuilds a terminal from a record written by Encode. Any defect in the
// record fails the whole decode with an error wrapping ErrParse.
func Decode(data string) (*Computer, error) {
	r := &recordReader{data: data}

	name, err := r.quoted("name")
	if err != nil {
		return nil, err
	}
	security, err := r.readInt("security")
	if err != nil {
		return nil, err
	}
	if security < 0 {
		return nil, errors.Wrapf(ErrParse, "negative security %d", security)
	}
	c := &Computer{Name: name, security: security}

	mission, err := r.token("mission")
	if err != nil {
		return nil, err
	}
	if mission != noMission {
		id, err := strconv.Atoi(mission)
		if err != nil {
			return nil, errors.Wrapf(ErrParse, "mission %q", mission)
		}
		c.SetMissionLink(id)
	}

	next, err := r.readInt64("next_attempt")
	if err != nil {
		return nil, err
	}
	c.nextAttempt = world.Time(next)

	nOpts, err := r.count("option count")
	if err != nil {
		return nil, err
	}
	for i := 0; i < nOpts; i++ {
		optName, err := r.quoted("option name")
		if err != nil {
			return nil, err
		}
		tok, err := r.token("option action")
		if err != nil {
			return nil, err
		}
		action, err := ParseActionKind(tok)
		if err != nil {
			return nil, errors.Wrapf(ErrParse, "option %d: %v", i, err)
		}
		optSecurity, err := r.readInt("option security")
		if err != nil {
			return nil, err
		}
		opt := Option{Name: optName, Action: action, Security: optSecurity}
		if err := c.AddOption(opt); err != nil {
			return nil, errors.Wrapf(ErrParse, "option %d: %v", i, err)
		}
	}

	nFail, err := r.count("failure count")
	if err != nil {
		return nil, err
	}
	for i := 0; i < nFail; i++ {
		tok, err := r.token("failure")
		if err != nil {
			return nil, err
		}
		kind, err := ParseFailureKind(tok)
		if err != nil {
			return nil, errors.Wrapf(ErrParse, "failure %d: %v", i, err)
		}
		c.failures = append(c.failures, Failure{Kind: kind})
	}

	c.accessDenied, err = r.quoted("access denied message")
	if err != nil {
		return nil, err
	}
	if !r.done() {
		return nil, errors.Wrapf(ErrParse, "trailing data at offset %d", r.pos)
	}
	return c, nil
}

// recordReader splits a saved record into space separated tokens
type recordReader struct {
	data string
	pos  int
}

func (r *recordReader) skipSpace() {
	for r.pos < len(r.data) && r.data[r.pos] == ' ' {
		r.pos++
	}
}

func (r *recordReader) done() bool {
	r.skipSpace()
	return r.pos >= len(r.data)
}

func (r *recordReader) token(field string) (string, error) {
	if r.done() {
		return "", errors.Wrapf(ErrParse, "truncated before %s", field)
	}
	start := r.pos
	for r.pos < len(r.data) && r.data[r.pos] != ' ' {
		r.pos++
	}
	return r.data[start:r.pos], nil
}

func (r *recordReader) quoted(field string) (string, error) {
	if r.done() {
		return "", errors.Wrapf(ErrParse, "truncated before %s", field)
	}
	lit, err := strconv.QuotedPrefix(r.data[r.pos:])
	if err != nil {
		return "", errors.Wrapf(ErrParse, "%s at offset %d", field, r.pos)
	}
	r.pos += len(lit)
	s, err := strconv.Unquote(lit)
	if err != nil {
		return "", errors.Wrapf(ErrParse, "%s at offset %d", field, r.pos)
	}
	return s, nil
}

func (r *recordReader) readInt64(field string) (int64, error) {
	tok, err := r.token(field)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrParse, "%s %q", field, tok)
	}
	return n, nil
}

func (r *recordReader) readInt(field string) (int, error) {
	n, err := r.readInt64(field)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// count reads a list length, bounded by the bytes left so a corrupt count
// cannot drive a huge loop
func (r *recordReader) count(field string) (int, error) {
	n, err := r.readInt(field)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > len(r.data)-r.pos {
		return 0, errors.Wrapf(ErrParse, "%s %d", field, n)
	}
	return n, nil
}
