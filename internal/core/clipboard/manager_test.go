package clipboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterOnly(t *testing.T) {
	m := NewManager(false)

	text, err := m.Read()
	require.NoError(t, err)
	assert.Empty(t, text)

	require.NoError(t, m.Copy("needle"))
	text, err = m.Read()
	require.NoError(t, err)
	assert.Equal(t, "needle", text)
}
