package stores

import (
	"cmp"
	"slices"
	"strings"

	"github.com/dmitrijs2005/fitkeeper/internal/client/opt"
	"github.com/dmitrijs2005/fitkeeper/internal/remote"
)

// putOpt copies a provided update field into args. A cleared field is sent
// as null.
func putOpt[T any](args remote.Args, field string, v opt.Value[T]) {
	if !v.Provided() {
		return
	}
	if x, ok := v.Get(); ok {
		args[field] = x
		return
	}
	args[field] = nil
}

func first(uploads []Upload) (Upload, bool) {
	if len(uploads) == 0 {
		return Upload{}, false
	}
	return uploads[0], true
}

func idArgs(id string) remote.Args {
	return remote.Args{remote.FieldClientID: id}
}

// byOrder sorts nested remote docs by their explicit order field.
func byOrder(docs []remote.Doc) []remote.Doc {
	slices.SortStableFunc(docs, func(a, b remote.Doc) int {
		return cmp.Compare(a.Int("order"), b.Int("order"))
	})
	return docs
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
