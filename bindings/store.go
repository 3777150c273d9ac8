package bindings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultFileName  = "controls"
	DefaultExtension = "yaml"
)

// Applier re-asserts a binding path on a live action.
type Applier interface {
	ApplyBindingOverride(action string, index int, path string) error
}

// Store holds the current and default binding maps and the file they are
// saved to.
type Store struct {
	path     string
	current  Map
	defaults Map
	log      zerolog.Logger
}

type Option func(*Store)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// NewStore returns a store saving to {dir}/{name}.{ext}. Empty name and ext
// fall back to DefaultFileName and DefaultExtension.
func NewStore(dir, name, ext string, opts ...Option) *Store {
	if name == "" {
		name = DefaultFileName
	}
	if ext == "" {
		ext = DefaultExtension
	}
	s := &Store{
		path:     filepath.Join(dir, name+"."+ext),
		current:  make(Map),
		defaults: make(Map),
		log:      log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("component", "bindings").Logger()
	return s
}

func (s *Store) Path() string {
	return s.path
}

// RegisterDefault records the factory path of a slot. The current map takes
// the same value.
func (s *Store) RegisterDefault(k Key, path string) {
	s.defaults[k] = path
	s.current[k] = path
}

func (s *Store) Set(k Key, path string) {
	s.current[k] = path
}

func (s *Store) Get(k Key) (string, bool) {
	path, ok := s.current[k]
	return path, ok
}

// Default returns the factory path of a slot.
func (s *Store) Default(k Key) (string, bool) {
	path, ok := s.defaults[k]
	return path, ok
}

func (s *Store) Current() Map {
	return s.current.Clone()
}

func (s *Store) Defaults() Map {
	return s.defaults.Clone()
}

// Save writes m to the store file, replacing any previous content.
func (s *Store) Save(m Map) error {
	data, err := Encode(m)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("%w: save %s: %w", ErrStorageUnavailable, s.path, err)
	}
	s.log.Debug().Str("path", s.path).Int("bindings", len(m)).Msg("saved bindings")
	return nil
}

// SaveCurrent saves the current map.
func (s *Store) SaveCurrent() error {
	return s.Save(s.current)
}

// Load reads the store file. A missing file yields an empty map and no error;
// any other failure yields an empty map and an ErrStorageUnavailable error.
func (s *Store) Load() (Map, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(Map), nil
	}
	if err != nil {
		return make(Map), fmt.Errorf("%w: load %s: %w", ErrStorageUnavailable, s.path, err)
	}
	m, err := Decode(data)
	if err != nil {
		return make(Map), fmt.Errorf("%w: load %s: %w", ErrStorageUnavailable, s.path, err)
	}
	return m, nil
}

// LoadAndApply loads the store file over the defaults and applies every
// current binding through a. Slots missing from the file keep their default.
func (s *Store) LoadAndApply(a Applier) error {
	loaded, loadErr := s.Load()
	if loadErr != nil {
		s.log.Error().Err(loadErr).Msg("falling back to default bindings")
	}

	current := s.defaults.Clone()
	for k, path := range loaded {
		current[k] = path
	}
	s.current = current

	return errors.Join(loadErr, s.apply(a))
}

// ResetToDefault restores the default snapshot, applies it and saves it.
func (s *Store) ResetToDefault(a Applier) error {
	s.current = s.defaults.Clone()
	applyErr := s.apply(a)
	return errors.Join(applyErr, s.SaveCurrent())
}

func (s *Store) apply(a Applier) error {
	if a == nil {
		return nil
	}
	var errs []error
	for _, k := range s.current.Keys() {
		if err := a.ApplyBindingOverride(k.Action, k.Index, s.current[k]); err != nil {
			s.log.Warn().Err(err).Stringer("key", k).Msg("cannot apply binding")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
