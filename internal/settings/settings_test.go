package settings

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quocvuong92/devos-ai/internal/apperr"
	"github.com/quocvuong92/devos-ai/internal/constants"
)

func TestDefault(t *testing.T) {
	s := Default("")
	assert.Equal(t, Settings{
		Model:       "anthropic/claude-3-haiku",
		Theme:       "monokai",
		MaxTokens:   2000,
		Temperature: 0.7,
	}, s)

	assert.Equal(t, "openai/gpt-4o", Default("openai/gpt-4o").Model)
}

func TestDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, constants.AppName, FileName), path)
}

func TestStore_LoadCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	st := NewStoreAt(path, "")

	s, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, Default(""), s)

	_, err = os.Stat(path)
	assert.NoError(t, err, "settings file should be created on first load")
}

func TestStore_RoundTrip(t *testing.T) {
	st := NewStoreAt(filepath.Join(t.TempDir(), FileName), "")
	want := Settings{Model: "openai/gpt-4o", Theme: "dracula", MaxTokens: 512, Temperature: 0.25}

	require.NoError(t, st.Save(want))
	got, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	data, err := os.ReadFile(st.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "max_tokens: 512")
	assert.Contains(t, string(data), "temperature: 0.25")
}

func TestStore_LoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("theme: github\n"), 0644))

	s, err := NewStoreAt(path, "").Load()
	require.NoError(t, err)
	assert.Equal(t, "github", s.Theme)
	assert.Equal(t, constants.DefaultModel, s.Model)
	assert.Equal(t, constants.DefaultMaxTokens, s.MaxTokens)
}

func TestStore_LoadNaNTemperature(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("temperature: .nan\n"), 0644))

	s, err := NewStoreAt(path, "").Load()
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultTemperature, s.Temperature)
}

func TestStore_LoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("model: [unclosed\n"), 0644))

	_, err := NewStoreAt(path, "").Load()
	require.Error(t, err)
	assert.Equal(t, apperr.Config, apperr.KindOf(err))
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		key     string
		raw     string
		want    any
		wantErr bool
	}{
		{KeyModel, "openai/gpt-4o", "openai/gpt-4o", false},
		{KeyTheme, "dracula", "dracula", false},
		{KeyMaxTokens, "1000", 1000, false},
		{KeyMaxTokens, "lots", nil, true},
		{KeyTemperature, "0.9", 0.9, false},
		{KeyTemperature, "abc", nil, true},
		{KeyTemperature, "NaN", nil, true},
		{KeyTemperature, "+Inf", nil, true},
		{"colour", "red", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.raw, func(t *testing.T) {
			got, err := ParseValue(tt.key, tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperr.InvalidArgument, apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseValue_InvalidKeyMessage(t *testing.T) {
	_, err := ParseValue("colour", "red")
	assert.EqualError(t, err, "Invalid config key: colour")
}

func TestSettings_With(t *testing.T) {
	base := Default("")

	tests := []struct {
		name    string
		key     string
		value   any
		check   func(t *testing.T, s Settings)
		wantErr bool
	}{
		{name: "model", key: KeyModel, value: "x/y", check: func(t *testing.T, s Settings) { assert.Equal(t, "x/y", s.Model) }},
		{name: "theme", key: KeyTheme, value: "github", check: func(t *testing.T, s Settings) { assert.Equal(t, "github", s.Theme) }},
		{name: "max tokens", key: KeyMaxTokens, value: 10, check: func(t *testing.T, s Settings) { assert.Equal(t, 10, s.MaxTokens) }},
		{name: "temperature", key: KeyTemperature, value: 0.9, check: func(t *testing.T, s Settings) { assert.Equal(t, 0.9, s.Temperature) }},
		{name: "temperature upper bound", key: KeyTemperature, value: 2.0, check: func(t *testing.T, s Settings) { assert.Equal(t, 2.0, s.Temperature) }},
		{name: "zero tokens", key: KeyMaxTokens, value: 0, wantErr: true},
		{name: "negative temperature", key: KeyTemperature, value: -0.1, wantErr: true},
		{name: "hot temperature", key: KeyTemperature, value: 2.5, wantErr: true},
		{name: "NaN temperature", key: KeyTemperature, value: math.NaN(), wantErr: true},
		{name: "wrong type", key: KeyMaxTokens, value: "10", wantErr: true},
		{name: "blank model", key: KeyModel, value: "  ", wantErr: true},
		{name: "unknown key", key: "colour", value: "red", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := base.With(tt.key, tt.value)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, base, got, "failed update must not change settings")
				return
			}
			require.NoError(t, err)
			tt.check(t, got)
		})
	}

	assert.Equal(t, Default(""), base, "With must not mutate the receiver")
}

func TestSettings_GetAndAsMap(t *testing.T) {
	s := Default("")
	v, ok := s.Get(KeyTemperature)
	assert.True(t, ok)
	assert.Equal(t, "0.7", v)

	_, ok = s.Get("nope")
	assert.False(t, ok)

	assert.Equal(t, map[string]string{
		"model":       "anthropic/claude-3-haiku",
		"theme":       "monokai",
		"max_tokens":  "2000",
		"temperature": "0.7",
	}, s.AsMap())
}

func TestIsValidKey(t *testing.T) {
	for _, k := range Keys {
		assert.True(t, IsValidKey(k))
	}
	assert.False(t, IsValidKey("Model"))
}
