package hydrate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type rec struct {
	ID    string
	At    int
	Rich  bool
	Label string
}

func key(r rec) string { return r.ID }

// newest first
func desc(a, b rec) bool { return a.At > b.At }

func ids(rs []rec) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func TestPreserveLocal_KeepsLocalRichness(t *testing.T) {
	local := []rec{{ID: "L1", At: 5, Rich: true, Label: "local"}}
	remote := []rec{{ID: "L1", At: 5, Label: "thin"}}

	got := PreserveLocal(local, remote, key, desc)

	if diff := cmp.Diff(local, got); diff != "" {
		t.Fatalf("shared id must keep the local record (-want +got):\n%s", diff)
	}
}

func TestPreserveLocal_UnionOfIDs(t *testing.T) {
	local := []rec{{ID: "A", At: 3, Rich: true}, {ID: "B", At: 1, Rich: true}}
	remote := []rec{{ID: "B", At: 1}, {ID: "C", At: 2}}

	got := PreserveLocal(local, remote, key, desc)

	require.Equal(t, []string{"A", "C", "B"}, ids(got))
	require.True(t, got[0].Rich)
	require.False(t, got[1].Rich)
	require.True(t, got[2].Rich)
}

func TestPreserveLocal_LocalOnlySurvivesEmptySnapshot(t *testing.T) {
	local := []rec{{ID: "A", At: 1}}

	got := PreserveLocal(local, nil, key, desc)

	require.Equal(t, []string{"A"}, ids(got))
}

func TestPreserveLocal_Idempotent(t *testing.T) {
	local := []rec{{ID: "A", At: 3, Rich: true}}
	remote := []rec{{ID: "A", At: 3}, {ID: "B", At: 4}}

	once := PreserveLocal(local, remote, key, desc)
	twice := PreserveLocal(once, remote, key, desc)

	require.Empty(t, cmp.Diff(once, twice))
}

func TestPreserveLocal_TiesBrokenByID(t *testing.T) {
	remote := []rec{{ID: "b", At: 1}, {ID: "a", At: 1}, {ID: "c", At: 1}}

	got := PreserveLocal(nil, remote, key, desc)

	require.Equal(t, []string{"a", "b", "c"}, ids(got))
}

func TestPreserveLocal_DedupesAndDropsEmptyIDs(t *testing.T) {
	remote := []rec{{ID: "a", At: 1}, {ID: "a", At: 9}, {ID: "", At: 5}}

	got := PreserveLocal(nil, remote, key, desc)

	require.Equal(t, []rec{{ID: "a", At: 1}}, got)
}

func TestReplace(t *testing.T) {
	remote := []rec{{ID: "x", Label: "1"}, {ID: "y"}, {ID: "x", Label: "2"}, {ID: ""}}

	got := Replace(remote, key)

	require.Equal(t, []rec{{ID: "x", Label: "2"}, {ID: "y"}}, got)
	require.Empty(t, Replace[rec](nil, key))
}

func TestSorted_DoesNotMutateInput(t *testing.T) {
	in := []rec{{ID: "a", At: 1}, {ID: "b", At: 2}}

	got := Sorted(in, key, desc)

	require.Equal(t, []string{"b", "a"}, ids(got))
	require.Equal(t, []string{"a", "b"}, ids(in))
}
