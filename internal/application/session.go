package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/campus-cli/internal/domain"
	"github.com/bnema/campus-cli/internal/log"
	"github.com/bnema/campus-cli/internal/ports"
	"github.com/samber/lo"
)

type SessionState int

const (
	SessionUninitialized SessionState = iota
	SessionLoading
	SessionReady
	// SessionError means the tenant list could not be loaded. The fallback tenant is current and
	// the session is still usable.
	SessionError
)

func (s SessionState) String() string {
	switch s {
	case SessionUninitialized:
		return "uninitialized"
	case SessionLoading:
		return "loading"
	case SessionReady:
		return "ready"
	case SessionError:
		return "error"
	default:
		return fmt.Sprintf("SessionState(%d)", int(s))
	}
}

type SessionSnapshot struct {
	State      SessionState
	Current    domain.Tenant
	HasCurrent bool
	Tenants    []domain.Tenant
	Generation uint64
}

func (s SessionSnapshot) IsLoading() bool {
	return s.State == SessionUninitialized || s.State == SessionLoading
}

// Ticket identifies the tenant and generation a load was started under.
type Ticket struct {
	Generation uint64
	TenantID   domain.TenantID
}

// TenantSession holds the tenant list and the current tenant. It is the only writer of the
// persisted tenant selection.
type TenantSession struct {
	source ports.TenantSource
	store  ports.StateStore
	logger *log.Logger

	// writeMu serializes loads and switches; mu guards the fields below.
	writeMu sync.Mutex
	mu      sync.RWMutex

	state       SessionState
	tenants     []domain.Tenant
	current     domain.Tenant
	hasCurrent  bool
	generation  uint64
	persistedID domain.TenantID
	lastErr     error

	subscribers map[uint64]func(SessionSnapshot)
	nextSubID   uint64
}

func NewTenantSession(source ports.TenantSource, store ports.StateStore, logger *log.Logger) *TenantSession {
	if logger == nil {
		logger = log.Default()
	}

	return &TenantSession{
		source:      source,
		store:       store,
		logger:      logger.Named("session"),
		subscribers: map[uint64]func(SessionSnapshot){},
	}
}

// OpenTenantSession builds a session and loads it.
func OpenTenantSession(ctx context.Context, source ports.TenantSource, store ports.StateStore, logger *log.Logger) *TenantSession {
	session := NewTenantSession(source, store, logger)
	session.Load(ctx)
	return session
}

// Load reads the persisted selection and fetches the tenant list. It only acts on an
// uninitialized session; use Reload to refetch.
func (s *TenantSession) Load(ctx context.Context) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	state := s.state
	s.mu.RUnlock()
	if state != SessionUninitialized {
		return
	}

	s.persistedID = s.readPersisted(ctx)
	s.fetch(ctx, s.persistedID)
}

// Reload refetches the tenant list and keeps the current tenant when it is still listed.
func (s *TenantSession) Reload(ctx context.Context) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	preferred := s.persistedID
	if s.state == SessionReady && s.hasCurrent {
		preferred = s.current.ID
	}
	s.mu.RUnlock()

	s.fetch(ctx, preferred)
}

func (s *TenantSession) fetch(ctx context.Context, preferred domain.TenantID) {
	s.mu.RLock()
	wasReady := s.state == SessionReady && s.hasCurrent
	s.mu.RUnlock()

	s.transition(func() {
		s.state = SessionLoading
	})

	tenants, err := s.source.ListTenants(ctx)
	if err == nil && len(tenants) == 0 {
		err = errors.New("tenant list is empty")
	}

	// A failed reload keeps the list and the selection the session already had.
	if err != nil && wasReady {
		s.logger.Warn("tenant list reload failed, keeping current tenants", log.ErrorField(err))
		s.transition(func() {
			s.state = SessionReady
			s.lastErr = err
			s.generation++
		})
		return
	}

	if err != nil {
		fallback := domain.FallbackTenant()
		s.logger.Warn("tenant list unavailable, using fallback tenant",
			log.String("tenant", string(fallback.ID)),
			log.ErrorField(err),
		)
		s.transition(func() {
			s.state = SessionError
			s.tenants = []domain.Tenant{}
			s.current = fallback
			s.hasCurrent = true
			s.lastErr = err
			s.generation++
		})
		return
	}

	current, ok := domain.FindTenant(tenants, preferred)
	if !ok {
		current = tenants[0]
	}

	s.transition(func() {
		s.state = SessionReady
		s.tenants = append([]domain.Tenant(nil), tenants...)
		s.current = current
		s.hasCurrent = true
		s.lastErr = nil
		s.generation++
	})
	s.logger.Debug("tenant session ready",
		log.String("tenant", string(current.ID)),
		log.Int("tenants", len(tenants)),
	)
}

// SetCurrentTenant switches to id when it is in the tenant list. An unknown id is a no-op that
// returns false. The selection is persisted before the switch; a persistence failure leaves the
// session untouched.
func (s *TenantSession) SetCurrentTenant(ctx context.Context, id domain.TenantID) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	tenant, ok := domain.FindTenant(s.tenants, id)
	s.mu.RUnlock()
	if !ok {
		s.logger.Debug("ignoring switch to unknown tenant", log.String("tenant", string(id)))
		return false, nil
	}

	if err := s.store.Put(ctx, ports.StateKeyCurrentTenantID, string(id)); err != nil {
		return false, fmt.Errorf("persist current tenant: %w", err)
	}
	s.persistedID = id

	s.transition(func() {
		s.current = tenant
		s.hasCurrent = true
		s.generation++
	})
	s.logger.Debug("switched tenant", log.String("tenant", string(id)))

	return true, nil
}

func (s *TenantSession) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *TenantSession) IsLoading() bool {
	return s.Snapshot().IsLoading()
}

func (s *TenantSession) CurrentTenant() (domain.Tenant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.hasCurrent
}

func (s *TenantSession) Tenants() []domain.Tenant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Tenant{}, s.tenants...)
}

func (s *TenantSession) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Err is the last tenant list failure, if the latest load or reload failed.
func (s *TenantSession) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *TenantSession) Snapshot() SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *TenantSession) Ticket() Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Ticket{Generation: s.generation, TenantID: s.current.ID}
}

// Accept reports whether a response started under t may still be applied.
func (s *TenantSession) Accept(t Ticket) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return t.Generation == s.generation && t.TenantID == s.current.ID
}

// Subscribe registers fn for every state change. fn runs on the goroutine that made the change
// and must not call back into the session's write operations.
func (s *TenantSession) Subscribe(fn func(SessionSnapshot)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}

func (s *TenantSession) transition(mutate func()) {
	s.mu.Lock()
	mutate()
	snapshot := s.snapshotLocked()
	subscribers := lo.Values(s.subscribers)
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(snapshot)
	}
}

func (s *TenantSession) snapshotLocked() SessionSnapshot {
	return SessionSnapshot{
		State:      s.state,
		Current:    s.current,
		HasCurrent: s.hasCurrent,
		Tenants:    append([]domain.Tenant{}, s.tenants...),
		Generation: s.generation,
	}
}

func (s *TenantSession) readPersisted(ctx context.Context) domain.TenantID {
	raw, err := s.store.Get(ctx, ports.StateKeyCurrentTenantID)
	if err != nil {
		if !errors.Is(err, domain.ErrStateNotFound) {
			s.logger.Warn("read persisted tenant", log.ErrorField(err))
		}
		return ""
	}
	return domain.TenantID(raw)
}
