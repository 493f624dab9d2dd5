package store

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/muurk/envmatch/internal/logging"
)

// Storage layout below the store root
const (
	DirName         = ".envmatch"
	configFile      = "config.yaml"
	environmentsDir = "environments"
	recordExt       = ".yaml"
)

// Store is the only reader and writer of persisted configuration. Every
// operation re-reads the records it needs; nothing is cached between calls.
type Store struct {
	backend Backend
}

// New returns a Store persisting through backend
func New(backend Backend) *Store {
	return &Store{backend: backend}
}

// Open returns a Store for the project rooted at projectDir
func Open(projectDir string) *Store {
	return New(NewFSBackend(filepath.Join(projectDir, DirName)))
}

// Location describes where the store keeps its records
func (s *Store) Location() string {
	return s.backend.Location()
}

func environmentPath(name string) string {
	return environmentsDir + "/" + name + recordExt
}

// IsInitialized reports whether a config record exists
func (s *Store) IsInitialized() bool {
	ok, err := s.backend.Exists(configFile)
	return err == nil && ok
}

// Init creates the storage root with initial as the current environment.
// An empty initial selects DefaultEnvironment.
func (s *Store) Init(initial string) error {
	if initial == "" {
		initial = DefaultEnvironment
	}
	if err := ValidateEnvironmentName(initial); err != nil {
		return err
	}

	data, err := s.backend.Read(configFile)
	switch {
	case err == nil:
		if _, decodeErr := decodeGlobalConfig(data); decodeErr != nil {
			return errCorrupt(configFile, decodeErr)
		}
		return errAlreadyInitialized()
	case !errors.Is(err, fs.ErrNotExist):
		return errStorage(configFile, err)
	}

	if err := s.backend.MkdirAll(environmentsDir); err != nil {
		return errStorage(environmentsDir, err)
	}

	exists, err := s.backend.Exists(environmentPath(initial))
	if err != nil {
		return errStorage(environmentPath(initial), err)
	}
	if !exists {
		if err := s.saveEnvironment(initial, &EnvironmentVariables{Variables: make(Variables)}); err != nil {
			return err
		}
	}

	// The config record is written last: its presence marks the store as initialized
	if err := s.saveConfig(&GlobalConfig{CurrentEnvironment: initial}); err != nil {
		return err
	}

	logging.Info("Store initialized",
		zap.String("location", s.backend.Location()),
		zap.String("environment", initial),
	)
	return nil
}

// Current returns the name of the active environment
func (s *Store) Current() (string, error) {
	cfg, err := s.loadConfig()
	if err != nil {
		return "", err
	}
	return cfg.CurrentEnvironment, nil
}

// Set upserts key=value into env (empty env means the current environment),
// creating the environment record if it does not exist yet.
func (s *Store) Set(env, key, value string) error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	name := resolveName(cfg, env)
	if err := ValidateEnvironmentName(name); err != nil {
		return err
	}
	if err := ValidateKey(key); err != nil {
		return err
	}

	record, _, err := s.loadEnvironment(name)
	if err != nil {
		return err
	}
	record.Variables[key] = value

	if err := s.saveEnvironment(name, record); err != nil {
		return err
	}

	logging.Debug("Variable set",
		zap.String("environment", name),
		zap.String("key", key),
	)
	return nil
}

// Get returns the value of key in env
func (s *Store) Get(env, key string) (string, error) {
	name, record, err := s.readEnvironment(env)
	if err != nil {
		return "", err
	}
	value, ok := record.Variables[key]
	if !ok {
		return "", errKeyNotFound(name, key)
	}
	return value, nil
}

// Unset removes key from env
func (s *Store) Unset(env, key string) error {
	name, record, err := s.readEnvironment(env)
	if err != nil {
		return err
	}
	if _, ok := record.Variables[key]; !ok {
		return errKeyNotFound(name, key)
	}
	delete(record.Variables, key)

	if err := s.saveEnvironment(name, record); err != nil {
		return err
	}

	logging.Debug("Variable removed",
		zap.String("environment", name),
		zap.String("key", key),
	)
	return nil
}

// Switch makes env the current environment. env must have a record or be
// the default environment.
func (s *Store) Switch(env string) error {
	if err := ValidateEnvironmentName(env); err != nil {
		return err
	}
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	if cfg.CurrentEnvironment == env {
		return nil
	}

	if env != DefaultEnvironment {
		exists, err := s.environmentExists(env)
		if err != nil {
			return err
		}
		if !exists {
			return errEnvironmentNotFound(env)
		}
	}

	previous := cfg.CurrentEnvironment
	cfg.CurrentEnvironment = env
	if err := s.saveConfig(cfg); err != nil {
		return err
	}

	logging.Info("Switched environment",
		zap.String("from", previous),
		zap.String("to", env),
	)
	return nil
}

// ListEnvironments returns every known environment: each stored record plus
// the current environment even if it has no record. The current environment
// comes first, the rest are sorted by name.
func (s *Store) ListEnvironments() ([]EnvironmentInfo, error) {
	cfg, err := s.loadConfig()
	if err != nil {
		return nil, err
	}

	files, err := s.backend.List(environmentsDir)
	if err != nil {
		return nil, errStorage(environmentsDir, err)
	}

	current := EnvironmentInfo{Name: cfg.CurrentEnvironment, Current: true}
	var others []EnvironmentInfo
	for _, file := range files {
		name, ok := strings.CutSuffix(file, recordExt)
		if !ok || ValidateEnvironmentName(name) != nil {
			logging.Debug("Skipping unrecognized environment file", zap.String("file", file))
			continue
		}
		if name == cfg.CurrentEnvironment {
			current.Exists = true
			continue
		}
		others = append(others, EnvironmentInfo{Name: name, Exists: true})
	}

	return append([]EnvironmentInfo{current}, others...), nil
}

// ListVariables returns all variables of env. An environment without
// variables yields an empty map.
func (s *Store) ListVariables(env string) (string, Variables, error) {
	name, record, err := s.readEnvironment(env)
	if err != nil {
		return "", nil, err
	}
	return name, record.Variables, nil
}

// Validate returns the keys from required that are missing in env, in the
// order given. Blank and repeated keys are ignored.
func (s *Store) Validate(env string, required []string) (string, []string, error) {
	name, record, err := s.readEnvironment(env)
	if err != nil {
		return "", nil, err
	}

	var missing []string
	seen := make(map[string]bool, len(required))
	for _, key := range required {
		if strings.TrimSpace(key) == "" || seen[key] {
			continue
		}
		seen[key] = true
		if _, ok := record.Variables[key]; !ok {
			missing = append(missing, key)
		}
	}
	return name, missing, nil
}

// CreateEnvironment creates an empty record for env
func (s *Store) CreateEnvironment(env string) error {
	if err := ValidateEnvironmentName(env); err != nil {
		return err
	}
	if _, err := s.loadConfig(); err != nil {
		return err
	}

	exists, err := s.environmentExists(env)
	if err != nil {
		return err
	}
	if exists {
		return errEnvironmentExists(env)
	}

	if err := s.saveEnvironment(env, &EnvironmentVariables{Variables: make(Variables)}); err != nil {
		return err
	}

	logging.Info("Environment created", zap.String("environment", env))
	return nil
}

// DeleteEnvironment removes the record for env. The current environment
// cannot be deleted.
func (s *Store) DeleteEnvironment(env string) error {
	if err := ValidateEnvironmentName(env); err != nil {
		return err
	}
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	if cfg.CurrentEnvironment == env {
		return errCannotDeleteCurrent(env)
	}

	exists, err := s.environmentExists(env)
	if err != nil {
		return err
	}
	if !exists {
		return errEnvironmentNotFound(env)
	}

	if err := s.backend.Delete(environmentPath(env)); err != nil {
		return errStorage(environmentPath(env), err)
	}

	logging.Info("Environment deleted", zap.String("environment", env))
	return nil
}

// readEnvironment resolves env for a read-only operation. An explicitly named
// environment must exist; the current environment reads as empty when it has
// no record yet.
func (s *Store) readEnvironment(env string) (string, *EnvironmentVariables, error) {
	cfg, err := s.loadConfig()
	if err != nil {
		return "", nil, err
	}
	name := resolveName(cfg, env)
	if err := ValidateEnvironmentName(name); err != nil {
		return "", nil, err
	}

	record, exists, err := s.loadEnvironment(name)
	if err != nil {
		return "", nil, err
	}
	if !exists && name != cfg.CurrentEnvironment {
		return "", nil, errEnvironmentNotFound(name)
	}
	return name, record, nil
}

func resolveName(cfg *GlobalConfig, env string) string {
	if env == "" {
		return cfg.CurrentEnvironment
	}
	return env
}

func (s *Store) loadConfig() (*GlobalConfig, error) {
	data, err := s.backend.Read(configFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errNotInitialized()
	}
	if err != nil {
		return nil, errStorage(configFile, err)
	}

	cfg, err := decodeGlobalConfig(data)
	if err != nil {
		return nil, errCorrupt(configFile, err)
	}
	return cfg, nil
}

func (s *Store) saveConfig(cfg *GlobalConfig) error {
	data, err := encodeRecord(cfg)
	if err != nil {
		return errCorrupt(configFile, err)
	}
	if err := s.backend.Write(configFile, data); err != nil {
		return errStorage(configFile, err)
	}
	return nil
}

// loadEnvironment returns the record for name, or an empty record and false
// when none exists.
func (s *Store) loadEnvironment(name string) (*EnvironmentVariables, bool, error) {
	path := environmentPath(name)
	data, err := s.backend.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &EnvironmentVariables{Variables: make(Variables)}, false, nil
	}
	if err != nil {
		return nil, false, errStorage(path, err)
	}

	record, err := decodeEnvironment(data)
	if err != nil {
		return nil, false, errCorrupt(path, err)
	}
	return record, true, nil
}

func (s *Store) saveEnvironment(name string, record *EnvironmentVariables) error {
	path := environmentPath(name)
	data, err := encodeRecord(record)
	if err != nil {
		return errCorrupt(path, err)
	}
	if err := s.backend.MkdirAll(environmentsDir); err != nil {
		return errStorage(environmentsDir, err)
	}
	if err := s.backend.Write(path, data); err != nil {
		return errStorage(path, err)
	}
	return nil
}

func (s *Store) environmentExists(name string) (bool, error) {
	exists, err := s.backend.Exists(environmentPath(name))
	if err != nil {
		return false, errStorage(environmentPath(name), err)
	}
	return exists, nil
}
