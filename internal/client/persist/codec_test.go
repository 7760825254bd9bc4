package persist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type sample struct {
	Items []string `json:"items"`
}

func TestEncodeDecode_SameVersion(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()

	env, err := Encode(NamespaceRecipes, 2, sample{Items: []string{"a", "b"}}, time.Now())
	require.NoError(t, err)
	require.NoError(t, b.Save(ctx, env))

	got, ok, err := Decode[sample](ctx, b, NamespaceRecipes, 2, Discard[sample])
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, got.Items)
}

func TestDecode_Absent(t *testing.T) {
	got, ok, err := Decode[sample](context.Background(), NewMemoryBackend(), NamespaceRecipes, 1, nil)
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, got.Items)
}

func TestDecode_VersionChangeDiscards(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()

	env, err := Encode(NamespaceHistory, 1, sample{Items: []string{"old"}}, time.Now())
	require.NoError(t, err)
	require.NoError(t, b.Save(ctx, env))

	got, ok, err := Decode[sample](ctx, b, NamespaceHistory, 2, Discard[sample])
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, got.Items)
}

func TestDecode_VersionChangeMigrates(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	require.NoError(t, b.Save(ctx, Envelope{Namespace: "n", Version: 1, Payload: []byte(`["x"]`)}))

	var seen int
	migrate := func(from int, payload []byte) (sample, bool) {
		seen = from
		return sample{Items: []string{string(payload)}}, true
	}

	got, ok, err := Decode[sample](ctx, b, "n", 2, migrate)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, seen)
	require.Equal(t, []string{`["x"]`}, got.Items)
}

func TestDecode_CorruptPayload(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	require.NoError(t, b.Save(ctx, Envelope{Namespace: "n", Version: 1, Payload: []byte(`{not json`)}))

	_, ok, err := Decode[sample](ctx, b, "n", 1, nil)
	require.Error(t, err)
	require.False(t, ok)
}
