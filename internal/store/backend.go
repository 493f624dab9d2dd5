package store

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/muurk/envmatch/internal/fsutil"
)

// Backend is the path-addressed storage the Store persists records through.
// Paths are slash-separated and relative to the backend root. Read returns an
// error satisfying errors.Is(err, fs.ErrNotExist) for missing records, and
// Write must replace a record atomically.
type Backend interface {
	Read(name string) ([]byte, error)
	Write(name string, data []byte) error
	Exists(name string) (bool, error)
	List(dir string) ([]string, error)
	Delete(name string) error
	MkdirAll(dir string) error
	Location() string
}

// FSBackend stores records as files below a root directory.
type FSBackend struct {
	root string
}

// NewFSBackend returns a backend rooted at dir. The directory is created
// lazily by MkdirAll.
func NewFSBackend(dir string) *FSBackend {
	return &FSBackend{root: dir}
}

func (b *FSBackend) abs(name string) string {
	return filepath.Join(b.root, filepath.FromSlash(name))
}

// Location returns the root directory
func (b *FSBackend) Location() string {
	return b.root
}

// Read returns the content of a record
func (b *FSBackend) Read(name string) ([]byte, error) {
	return os.ReadFile(b.abs(name))
}

// Write atomically replaces a record with user-only permissions
func (b *FSBackend) Write(name string, data []byte) error {
	return fsutil.WriteFileAtomic(b.abs(name), data, 0600)
}

// Exists reports whether a record or directory exists
func (b *FSBackend) Exists(name string) (bool, error) {
	_, err := os.Stat(b.abs(name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// List returns the sorted names of regular files in dir. A missing directory
// lists as empty.
func (b *FSBackend) List(dir string) ([]string, error) {
	entries, err := os.ReadDir(b.abs(dir))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a record
func (b *FSBackend) Delete(name string) error {
	return os.Remove(b.abs(name))
}

// MkdirAll creates dir and its parents with user-only permissions
func (b *FSBackend) MkdirAll(dir string) error {
	return os.MkdirAll(b.abs(dir), 0700)
}

// MemoryBackend keeps records in memory. FailWrite, when set, is consulted
// before every Write and Delete; a non-nil result aborts the operation and
// leaves the record untouched.
type MemoryBackend struct {
	mu        sync.Mutex
	files     map[string][]byte
	dirs      map[string]bool
	FailWrite func(name string) error
}

// NewMemoryBackend returns an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

// Location returns a descriptive placeholder
func (b *MemoryBackend) Location() string {
	return "memory"
}

// Read returns a copy of a record
func (b *MemoryBackend) Read(name string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	data, ok := b.files[path.Clean(name)]
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

// Write stores a copy of data
func (b *MemoryBackend) Write(name string, data []byte) error {
	if b.FailWrite != nil {
		if err := b.FailWrite(name); err != nil {
			return err
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	name = path.Clean(name)
	if dir := path.Dir(name); dir != "." && !b.dirs[dir] {
		return &fs.PathError{Op: "write", Path: name, Err: fs.ErrNotExist}
	}
	b.files[name] = append([]byte(nil), data...)
	return nil
}

// Exists reports whether a record or directory exists
func (b *MemoryBackend) Exists(name string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	name = path.Clean(name)
	if name == "." {
		return len(b.dirs) > 0 || len(b.files) > 0, nil
	}
	_, ok := b.files[name]
	return ok || b.dirs[name], nil
}

// List returns the sorted names of records directly inside dir
func (b *MemoryBackend) List(dir string) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	prefix := path.Clean(dir) + "/"
	var names []string
	for name := range b.files {
		if rest, ok := strings.CutPrefix(name, prefix); ok && !strings.Contains(rest, "/") {
			names = append(names, rest)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a record
func (b *MemoryBackend) Delete(name string) error {
	if b.FailWrite != nil {
		if err := b.FailWrite(name); err != nil {
			return err
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	name = path.Clean(name)
	if _, ok := b.files[name]; !ok {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrNotExist}
	}
	delete(b.files, name)
	return nil
}

// MkdirAll records dir and its parents
func (b *MemoryBackend) MkdirAll(dir string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for d := path.Clean(dir); d != "." && d != "/"; d = path.Dir(d) {
		b.dirs[d] = true
	}
	return nil
}
