package stores

import (
	"time"

	"github.com/dmitrijs2005/fitkeeper/internal/client/idgen"
	"github.com/dmitrijs2005/fitkeeper/internal/client/persist"
	"github.com/dmitrijs2005/fitkeeper/internal/logging"
	"github.com/dmitrijs2005/fitkeeper/internal/remote"
)

// Dispatcher sends a remote mutation without blocking. Dispatch reports
// whether the mutation was handed to a remote; false means it was skipped.
// *dispatch.Dispatcher implements it.
type Dispatcher interface {
	Dispatch(ref remote.MutationRef, args remote.Args) bool
}

type nopDispatcher struct{}

func (nopDispatcher) Dispatch(remote.MutationRef, remote.Args) bool { return false }

// Deps are the collaborators shared by every store. Zero fields get
// defaults: an in-memory backend, a no-op dispatcher, a discarding logger,
// time.Now and random UUIDs.
type Deps struct {
	Backend    persist.Backend
	Dispatcher Dispatcher
	Logger     logging.Logger
	Now        func() time.Time
	NewID      idgen.Generator
}

func (d Deps) withDefaults() Deps {
	if d.Backend == nil {
		d.Backend = persist.NewMemoryBackend()
	}
	if d.Dispatcher == nil {
		d.Dispatcher = nopDispatcher{}
	}
	if d.Logger == nil {
		d.Logger = logging.Nop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.NewID == nil {
		d.NewID = idgen.New
	}
	return d
}

// Upload is a create mutation that recreates one local record remotely.
type Upload struct {
	Ref  remote.MutationRef
	Args remote.Args
}
