package application

import (
	"context"
	"sync"

	"github.com/bnema/campus-cli/internal/domain"
	"github.com/bnema/campus-cli/internal/log"
)

// LoadFunc loads tenant-scoped data.
type LoadFunc[T any] func(ctx context.Context, tenant domain.Tenant) (T, error)

type ViewState[T any] struct {
	// Loaded is false until the first result for the current generation has been applied.
	Loaded     bool
	Loading    bool
	Value      T
	Err        error
	Tenant     domain.Tenant
	Generation uint64
}

// ScopedView runs a tenant-scoped load against the session and applies only the results that
// still match the session's generation when they arrive. Stale results are dropped, not
// cancelled.
type ScopedView[T any] struct {
	session *TenantSession
	load    LoadFunc[T]
	logger  *log.Logger

	mu          sync.Mutex
	state       ViewState[T]
	inflight    int
	started     uint64
	applied     uint64
	subscribers []func(ViewState[T])

	wg sync.WaitGroup
}

func NewScopedView[T any](session *TenantSession, load LoadFunc[T], logger *log.Logger) *ScopedView[T] {
	if logger == nil {
		logger = log.Default()
	}

	return &ScopedView[T]{session: session, load: load, logger: logger.Named("view")}
}

// Refresh loads for the current tenant. applied is false when the session is still loading or
// the result went stale before it arrived.
func (v *ScopedView[T]) Refresh(ctx context.Context) (applied bool, err error) {
	snapshot := v.session.Snapshot()
	if snapshot.IsLoading() || !snapshot.HasCurrent {
		return false, nil
	}

	ticket := Ticket{Generation: snapshot.Generation, TenantID: snapshot.Current.ID}

	v.mu.Lock()
	v.inflight++
	v.started++
	seq := v.started
	v.state.Loading = true
	v.mu.Unlock()

	value, err := v.load(ctx, snapshot.Current)

	v.mu.Lock()
	v.inflight--
	// Results older than the last applied one are dropped even within a generation.
	if !v.session.Accept(ticket) || ticket.Generation < v.state.Generation || seq < v.applied {
		v.state.Loading = v.inflight > 0
		v.mu.Unlock()
		v.logger.Debug("discarding stale result",
			log.String("tenant", string(ticket.TenantID)),
			log.Uint64("generation", ticket.Generation),
		)
		return false, nil
	}

	// A failed reload of the same generation keeps the value already shown.
	if err != nil && v.state.Loaded && v.state.Generation == ticket.Generation {
		value = v.state.Value
	}
	v.applied = seq
	v.state = ViewState[T]{
		Loaded:     true,
		Loading:    v.inflight > 0,
		Value:      value,
		Err:        err,
		Tenant:     snapshot.Current,
		Generation: ticket.Generation,
	}
	state := v.state
	subscribers := append([]func(ViewState[T]){}, v.subscribers...)
	v.mu.Unlock()

	for _, fn := range subscribers {
		fn(state)
	}

	return true, err
}

func (v *ScopedView[T]) Snapshot() ViewState[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Subscribe registers fn for every applied result.
func (v *ScopedView[T]) Subscribe(fn func(ViewState[T])) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.subscribers = append(v.subscribers, fn)
}

// Watch refreshes the view in the background whenever the session moves to a new generation.
func (v *ScopedView[T]) Watch(ctx context.Context) (cancel func()) {
	return v.session.Subscribe(func(snapshot SessionSnapshot) {
		if snapshot.IsLoading() || !snapshot.HasCurrent {
			return
		}

		v.wg.Add(1)
		go func() {
			defer v.wg.Done()
			_, _ = v.Refresh(ctx)
		}()
	})
}

// Wait blocks until background refreshes started by Watch have finished.
func (v *ScopedView[T]) Wait() {
	v.wg.Wait()
}
