package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryNames(t *testing.T) {
	reg := Registry()
	assert.Equal(t, []string{"confluence", "datadog", "mem0", "onedrive", "slack"}, reg.Names())
}

func TestRegistryConstructsEveryAdapter(t *testing.T) {
	reg := Registry()
	for _, name := range reg.Names() {
		p, err := reg.New(name, nil)
		require.NoError(t, err, name)
		assert.Equal(t, name, p.Name())
		assert.NotEmpty(t, p.Tools(), name)
		assert.NotEmpty(t, p.EnvVars(), name)
	}
}

func TestRegistryUnknown(t *testing.T) {
	_, err := Registry().New("gitlab", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}
