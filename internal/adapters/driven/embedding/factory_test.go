package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rivergate-labs/chunksync/internal/core/domain"
)

// mapConfig is a driven.ConfigStore over a plain map.
type mapConfig map[string]any

func (m mapConfig) Get(key string) (any, bool) { v, ok := m[key]; return v, ok }
func (m mapConfig) GetString(key string) string {
	s, _ := m[key].(string)
	return s
}
func (m mapConfig) GetInt(key string) int {
	n, _ := m[key].(int)
	return n
}
func (m mapConfig) GetBool(key string) bool {
	b, _ := m[key].(bool)
	return b
}
func (m mapConfig) GetStringSlice(key string) []string {
	s, _ := m[key].([]string)
	return s
}
func (m mapConfig) Set(key string, value any) error { m[key] = value; return nil }
func (m mapConfig) Load() error                     { return nil }
func (m mapConfig) Path() string                    { return "" }

func TestNewFromConfig_DefaultsToOllama(t *testing.T) {
	svc, err := NewFromConfig(mapConfig{})
	require.NoError(t, err)
	assert.Equal(t, "nomic-embed-text", svc.ModelName())
}

func TestNewFromConfig_OpenAI(t *testing.T) {
	svc, err := NewFromConfig(mapConfig{
		"embedding.provider": "openai",
		"embedding.api_key":  "key",
		"embedding.model":    "text-embedding-3-large",
	})
	require.NoError(t, err)
	assert.Equal(t, "text-embedding-3-large", svc.ModelName())
	assert.Equal(t, 3072, svc.Dimensions())
}

func TestNewFromConfig_OpenAIWithoutKey(t *testing.T) {
	_, err := NewFromConfig(mapConfig{"embedding.provider": "openai"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewFromConfig_UnknownProvider(t *testing.T) {
	_, err := NewFromConfig(mapConfig{"embedding.provider": "anthropic"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
