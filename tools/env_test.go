package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvVarReadsValue(t *testing.T) {
	t.Setenv("LLM_TOOLS_TEST_VAR", "forty-two")

	out, err := EnvVar().Handler(`{"name":"LLM_TOOLS_TEST_VAR"}`)
	require.NoError(t, err)
	assert.Equal(t, "forty-two", out)
}

func TestEnvVarMissingIsText(t *testing.T) {
	restore := lookupEnv
	lookupEnv = func(string) (string, bool) { return "", false }
	defer func() { lookupEnv = restore }()

	out, err := EnvVar().Handler(`{"name":"DEFINITELY_NOT_SET"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "is not set")
}

func TestEnvVarMissingName(t *testing.T) {
	out, err := EnvVar().Handler(`{}`)
	require.NoError(t, err)
	assert.Contains(t, out, "name is required")
}
