// Package settings persists the user-editable preferences: model, theme,
// max_tokens and temperature.
//
// A Settings value is plain data. Store reads and writes it as YAML at
// $XDG_CONFIG_HOME/devos-ai/config.yaml (or ~/.config/devos-ai/config.yaml)
// and never writes on its own; callers call Save after a successful change.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/quocvuong92/devos-ai/internal/apperr"
	"github.com/quocvuong92/devos-ai/internal/constants"
)

// FileName is the name of the settings file
const FileName = "config.yaml"

// Key names accepted by !config set
const (
	KeyModel       = "model"
	KeyTheme       = "theme"
	KeyMaxTokens   = "max_tokens"
	KeyTemperature = "temperature"
)

// Keys lists the settable keys in display order.
var Keys = []string{KeyModel, KeyTheme, KeyMaxTokens, KeyTemperature}

// Temperature bounds accepted by the completion API.
const (
	MinTemperature = 0.0
	MaxTemperature = 2.0
)

// Settings represents the persisted preferences
type Settings struct {
	Model       string  `yaml:"model"`
	Theme       string  `yaml:"theme"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// Default returns the first-run settings. model falls back to the given
// override when non-empty.
func Default(model string) Settings {
	if model == "" {
		model = constants.DefaultModel
	}
	return Settings{
		Model:       model,
		Theme:       constants.DefaultTheme,
		MaxTokens:   constants.DefaultMaxTokens,
		Temperature: constants.DefaultTemperature,
	}
}

// IsValidKey reports whether key is one of Keys.
func IsValidKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// ParseValue converts the raw text of !config set into the typed value for
// key: string for model and theme, int for max_tokens, float64 for
// temperature.
func ParseValue(key, raw string) (any, error) {
	switch key {
	case KeyModel, KeyTheme:
		if raw == "" {
			return nil, apperr.Errorf(apperr.InvalidArgument, "%s must not be empty", key)
		}
		return raw, nil
	case KeyMaxTokens:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, apperr.Errorf(apperr.InvalidArgument, "Invalid value for %s: %q is not an integer", key, raw)
		}
		return n, nil
	case KeyTemperature:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, apperr.Errorf(apperr.InvalidArgument, "Invalid value for %s: %q is not a number", key, raw)
		}
		return f, nil
	default:
		return nil, apperr.Errorf(apperr.InvalidArgument, "Invalid config key: %s", key)
	}
}

// With returns a copy of s with key set to value. The value must have the
// type ParseValue produces for key and lie in range.
func (s Settings) With(key string, value any) (Settings, error) {
	switch key {
	case KeyModel, KeyTheme:
		v, ok := value.(string)
		if !ok || strings.TrimSpace(v) == "" {
			return s, apperr.Errorf(apperr.InvalidArgument, "%s must be a non-empty string", key)
		}
		if key == KeyModel {
			s.Model = v
		} else {
			s.Theme = v
		}
	case KeyMaxTokens:
		v, ok := value.(int)
		if !ok || v <= 0 {
			return s, apperr.Errorf(apperr.InvalidArgument, "%s must be a positive integer", key)
		}
		s.MaxTokens = v
	case KeyTemperature:
		v, ok := value.(float64)
		if !ok || !inTemperatureRange(v) {
			return s, apperr.Errorf(apperr.InvalidArgument, "%s must be a number between %g and %g", key, MinTemperature, MaxTemperature)
		}
		s.Temperature = v
	default:
		return s, apperr.Errorf(apperr.InvalidArgument, "Invalid config key: %s", key)
	}
	return s, nil
}

// inTemperatureRange is false for NaN.
func inTemperatureRange(v float64) bool {
	return v >= MinTemperature && v <= MaxTemperature
}

// Get returns the display value of key.
func (s Settings) Get(key string) (string, bool) {
	switch key {
	case KeyModel:
		return s.Model, true
	case KeyTheme:
		return s.Theme, true
	case KeyMaxTokens:
		return strconv.Itoa(s.MaxTokens), true
	case KeyTemperature:
		return strconv.FormatFloat(s.Temperature, 'g', -1, 64), true
	}
	return "", false
}

// AsMap returns every key with its display value.
func (s Settings) AsMap() map[string]string {
	out := make(map[string]string, len(Keys))
	for _, k := range Keys {
		out[k], _ = s.Get(k)
	}
	return out
}

// normalize fills zero fields from defaults, so a partially written file
// still yields a usable value.
func (s Settings) normalize(model string) Settings {
	def := Default(model)
	if s.Model == "" {
		s.Model = def.Model
	}
	if s.Theme == "" {
		s.Theme = def.Theme
	}
	if s.MaxTokens <= 0 {
		s.MaxTokens = def.MaxTokens
	}
	if !inTemperatureRange(s.Temperature) {
		s.Temperature = def.Temperature
	}
	return s
}

// Store reads and writes Settings at a fixed path.
type Store struct {
	path string
	// defaultModel seeds a newly created file.
	defaultModel string
}

// NewStore creates a store at the standard per-user location.
func NewStore(defaultModel string) (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, apperr.New(apperr.Config, "resolve settings path", err)
	}
	return &Store{path: path, defaultModel: defaultModel}, nil
}

// NewStoreAt creates a store backed by an explicit file.
func NewStoreAt(path, defaultModel string) *Store {
	return &Store{path: path, defaultModel: defaultModel}
}

// DefaultPath returns $XDG_CONFIG_HOME/devos-ai/config.yaml, or
// ~/.config/devos-ai/config.yaml when XDG_CONFIG_HOME is unset.
func DefaultPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, constants.AppName, FileName), nil
}

// Path returns the backing file path.
func (st *Store) Path() string {
	return st.path
}

// Load reads the settings file. When it does not exist, defaults are
// written and returned.
func (st *Store) Load() (Settings, error) {
	data, err := os.ReadFile(st.path)
	if errors.Is(err, fs.ErrNotExist) {
		s := Default(st.defaultModel)
		if err := st.Save(s); err != nil {
			return s, err
		}
		return s, nil
	}
	if err != nil {
		return Settings{}, apperr.New(apperr.Config, "read settings", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, apperr.New(apperr.Config, "parse settings",
			fmt.Errorf("%s: %w", st.path, err))
	}
	return s.normalize(st.defaultModel), nil
}

// Save writes s to the settings file, creating parent directories.
func (st *Store) Save(s Settings) error {
	if err := os.MkdirAll(filepath.Dir(st.path), 0755); err != nil {
		return apperr.New(apperr.Config, "create settings directory", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return apperr.New(apperr.Config, "encode settings", err)
	}
	if err := os.WriteFile(st.path, data, 0644); err != nil {
		return apperr.New(apperr.Config, "write settings", err)
	}
	return nil
}
