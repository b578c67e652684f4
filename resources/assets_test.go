package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogosAreEmbedded(t *testing.T) {
	for _, name := range []string{LogoActive, LogoPaused, LogoEnded} {
		resource, err := Logo(name)
		require.NoError(t, err, name)
		assert.Contains(t, string(resource.Content()), "<svg")
		assert.Same(t, resource, MustLogo(name))
	}
}

func TestMissingLogo(t *testing.T) {
	_, err := Logo("missing.svg")
	assert.Error(t, err)
	assert.Panics(t, func() { MustLogo("missing.svg") })
}
