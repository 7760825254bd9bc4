package opt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValue_ZeroIsUnset(t *testing.T) {
	var v Value[string]
	require.False(t, v.Provided())
	require.False(t, v.IsCleared())

	dst := "keep"
	require.False(t, v.Apply(&dst))
	require.Equal(t, "keep", dst)
}

func TestValue_Some(t *testing.T) {
	v := Some(42)
	require.True(t, v.Provided())

	got, ok := v.Get()
	require.True(t, ok)
	require.Equal(t, 42, got)

	dst := 1
	require.True(t, v.Apply(&dst))
	require.Equal(t, 42, dst)
}

func TestValue_SomeZeroIsStillProvided(t *testing.T) {
	v := Some("")
	require.True(t, v.Provided())
	require.False(t, v.IsCleared())
}

func TestValue_Clear(t *testing.T) {
	v := Clear[float64]()
	require.True(t, v.Provided())
	require.True(t, v.IsCleared())

	_, ok := v.Get()
	require.False(t, ok)

	dst := 12.5
	require.True(t, v.Apply(&dst))
	require.Zero(t, dst)
}
