package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryBuildsEachKind(t *testing.T) {
	cases := map[string]string{
		"sqlite": filepath.Join(t.TempDir(), "factory.db"),
		"json":   t.TempDir(),
		"csv":    t.TempDir(),
	}
	for kind, path := range cases {
		t.Run(kind, func(t *testing.T) {
			b, err := New(kind, Options{Path: path})
			require.NoError(t, err)
			require.NotNil(t, b)
			assert.NoError(t, b.Close())
		})
	}
}

func TestFactoryUnknownKind(t *testing.T) {
	b, err := New("mongodb", Options{Path: t.TempDir()})
	assert.Nil(t, b)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "mongodb", cfgErr.Kind)
}

func TestFactoryRequiresPath(t *testing.T) {
	_, err := New("sqlite", Options{})
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}
