package savestore

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"strings"

	"github.com/pkg/errors"

	"darkterminal/pkg/game/computer"
)

// FileStore keeps one encoded terminal per line in a plain file
type FileStore struct {
	path string
}

var _ Repository = (*FileStore)(nil)

// NewFileStore uses path, which need not exist yet
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) readAll() ([]*computer.Computer, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "cannot read save file")
	}

	var out []*computer.Computer
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		c, err := computer.Decode(text)
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%d", f.path, line)
		}
		out = append(out, c)
	}
	return out, errors.Wrap(sc.Err(), "cannot read save file")
}

func (f *FileStore) writeAll(computers []*computer.Computer) error {
	var sb strings.Builder
	for _, c := range computers {
		sb.WriteString(computer.Encode(c))
		sb.WriteByte('\n')
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(sb.String()), 0o644); err != nil {
		return errors.Wrap(err, "cannot write save file")
	}
	return errors.Wrap(os.Rename(tmp, f.path), "cannot replace save file")
}

// LoadAll returns every stored terminal in file order
func (f *FileStore) LoadAll(ctx context.Context) ([]*computer.Computer, error) {
	return f.readAll()
}

// Save replaces the record with the same name or appends a new one
func (f *FileStore) Save(ctx context.Context, c *computer.Computer) error {
	all, err := f.readAll()
	if err != nil {
		return err
	}
	replaced := false
	for i, existing := range all {
		if existing.Name == c.Name {
			all[i] = c
			replaced = true
			break
		}
	}
	if !replaced {
		all = append(all, c)
	}
	return f.writeAll(all)
}

// Load restores a terminal by name
func (f *FileStore) Load(ctx context.Context, name string) (*computer.Computer, error) {
	all, err := f.readAll()
	if err != nil {
		return nil, err
	}
	for _, c := range all {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, errors.Wrapf(ErrNotFound, "%q", name)
}

// Delete removes a terminal record
func (f *FileStore) Delete(ctx context.Context, name string) error {
	all, err := f.readAll()
	if err != nil {
		return err
	}
	for i, c := range all {
		if c.Name == name {
			return f.writeAll(append(all[:i], all[i+1:]...))
		}
	}
	return errors.Wrapf(ErrNotFound, "%q", name)
}
