package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWindowFlags(t *testing.T) {

	f := WindowFlags_OPENGL.Set(WindowFlags_RESIZABLE)
	require.True(t, f.Has(WindowFlags_OPENGL))
	require.True(t, f.Has(WindowFlags_RESIZABLE))
	require.True(t, f.Has(WindowFlags_OPENGL|WindowFlags_RESIZABLE))
	require.False(t, f.Has(WindowFlags_HIDDEN))
}
