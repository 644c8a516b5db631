package profiles

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/mmcdole/profilekeeper/pkg/filelock"
	"github.com/mmcdole/profilekeeper/pkg/logging"
)

// FileSource implements Source using a single JSON file
type FileSource struct {
	fs      afero.Fs
	path    string
	locking bool
}

// FileSourceOption configures a FileSource
type FileSourceOption func(*FileSource)

// WithFs sets the filesystem the collection file lives on
func WithFs(fs afero.Fs) FileSourceOption {
	return func(s *FileSource) {
		s.fs = fs
	}
}

// WithLocking guards every load and save with an advisory lock on
// <path>.lock. Only meaningful on the OS filesystem.
func WithLocking() FileSourceOption {
	return func(s *FileSource) {
		s.locking = true
	}
}

// NewFileSource creates a new FileSource for the collection at path
func NewFileSource(path string, opts ...FileSourceOption) *FileSource {
	s := &FileSource{
		fs:   afero.NewOsFs(),
		path: path,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location implements Source
func (s *FileSource) Location() string {
	return s.path
}

func (s *FileSource) lock(exclusive bool) (*filelock.Lock, error) {
	if !s.locking {
		return nil, nil
	}
	return filelock.Acquire(s.path+".lock", exclusive)
}

// Load implements Source
func (s *FileSource) Load() (map[string]*Record, error) {
	l, err := s.lock(false)
	if err != nil {
		return nil, fmt.Errorf("locking profile file: %w", err)
	}
	defer l.Release()

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.App.Debug("Profile file not found", "path", s.path)
			return nil, fmt.Errorf("%w: %s", ErrNoCollection, s.path)
		}
		return nil, fmt.Errorf("reading profile file: %w", err)
	}

	records, err := DecodeCollection(data)
	if err != nil {
		logging.App.Debug("Error parsing profile file", "path", s.path, "error", err)
		return nil, err
	}

	logging.App.Debug("Loaded profile file", "path", s.path, "profiles", len(records))
	return records, nil
}

// Save implements Source. The file is truncated and rewritten in place.
func (s *FileSource) Save(records map[string]*Record) error {
	data, err := EncodeCollection(records)
	if err != nil {
		return err
	}

	l, err := s.lock(true)
	if err != nil {
		return fmt.Errorf("locking profile file: %w", err)
	}
	defer l.Release()

	if dir := filepath.Dir(s.path); dir != "" {
		if err := s.fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating profile directory: %w", err)
		}
	}
	if err := afero.WriteFile(s.fs, s.path, data, 0644); err != nil {
		return fmt.Errorf("writing profile file: %w", err)
	}

	logging.App.Debug("Wrote profile file", "path", s.path, "profiles", len(records), "bytes", len(data))
	return nil
}
