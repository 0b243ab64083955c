package application

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/campus-cli/internal/domain"
	portmocks "github.com/bnema/campus-cli/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func readySession(t *testing.T) *TenantSession {
	t.Helper()

	source := portmocks.NewMockTenantSource(t)
	source.EXPECT().ListTenants(mock.Anything).Return(campusTenants, nil).Once()
	return OpenTenantSession(context.Background(), source, newMemoryState(), nil)
}

type refreshResult struct {
	applied bool
	err     error
}

func TestScopedViewDiscardsResponseFromPreviousTenant(t *testing.T) {
	t.Parallel()

	session := readySession(t)
	started := make(chan domain.TenantID, 2)
	release := map[domain.TenantID]chan struct{}{
		"mit":    make(chan struct{}),
		"oxford": make(chan struct{}),
	}
	view := NewScopedView(session, func(_ context.Context, tenant domain.Tenant) ([]string, error) {
		started <- tenant.ID
		<-release[tenant.ID]
		return []string{string(tenant.ID) + "-courses"}, nil
	}, nil)

	resultA := make(chan refreshResult, 1)
	go func() {
		applied, err := view.Refresh(context.Background())
		resultA <- refreshResult{applied: applied, err: err}
	}()
	require.Equal(t, domain.TenantID("mit"), <-started)

	switched, err := session.SetCurrentTenant(context.Background(), "oxford")
	require.NoError(t, err)
	require.True(t, switched)

	resultB := make(chan refreshResult, 1)
	go func() {
		applied, err := view.Refresh(context.Background())
		resultB <- refreshResult{applied: applied, err: err}
	}()
	require.Equal(t, domain.TenantID("oxford"), <-started)

	close(release["oxford"])
	b := <-resultB
	require.NoError(t, b.err)
	assert.True(t, b.applied)

	close(release["mit"])
	a := <-resultA
	require.NoError(t, a.err)
	assert.False(t, a.applied)

	state := view.Snapshot()
	assert.True(t, state.Loaded)
	assert.False(t, state.Loading)
	assert.Equal(t, []string{"oxford-courses"}, state.Value)
	assert.Equal(t, domain.TenantID("oxford"), state.Tenant.ID)
	assert.Equal(t, session.Generation(), state.Generation)
}

func TestScopedViewWaitsForSessionLoad(t *testing.T) {
	t.Parallel()

	session := NewTenantSession(portmocks.NewMockTenantSource(t), newMemoryState(), nil)
	calls := 0
	view := NewScopedView(session, func(context.Context, domain.Tenant) (int, error) {
		calls++
		return calls, nil
	}, nil)

	applied, err := view.Refresh(context.Background())
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Zero(t, calls)
	assert.False(t, view.Snapshot().Loaded)
}

func TestScopedViewWatchReloadsOnTenantChange(t *testing.T) {
	t.Parallel()

	session := readySession(t)
	view := NewScopedView(session, func(_ context.Context, tenant domain.Tenant) (domain.TenantID, error) {
		return tenant.ID, nil
	}, nil)

	var applied []domain.TenantID
	view.Subscribe(func(state ViewState[domain.TenantID]) {
		applied = append(applied, state.Value)
	})

	_, err := view.Refresh(context.Background())
	require.NoError(t, err)

	cancel := view.Watch(context.Background())
	_, err = session.SetCurrentTenant(context.Background(), "berkeley")
	require.NoError(t, err)
	view.Wait()
	cancel()

	_, err = session.SetCurrentTenant(context.Background(), "oxford")
	require.NoError(t, err)
	view.Wait()

	assert.Equal(t, []domain.TenantID{"mit", "berkeley"}, applied)
	assert.Equal(t, domain.TenantID("berkeley"), view.Snapshot().Value)
}

func TestScopedViewFailedReloadKeepsValue(t *testing.T) {
	t.Parallel()

	session := readySession(t)
	fail := false
	view := NewScopedView(session, func(context.Context, domain.Tenant) (string, error) {
		if fail {
			return "", domain.StatusError("GET /api/stats", 503, "maintenance")
		}
		return "figures", nil
	}, nil)

	_, err := view.Refresh(context.Background())
	require.NoError(t, err)

	fail = true
	applied, err := view.Refresh(context.Background())
	assert.True(t, applied)
	require.Error(t, err)

	state := view.Snapshot()
	assert.Equal(t, "figures", state.Value)
	assert.True(t, errors.Is(state.Err, domain.ErrHTTPStatus))
}

func TestScopedViewDropsOlderRefreshOfSameGeneration(t *testing.T) {
	t.Parallel()

	session := readySession(t)
	calls := make(chan chan string, 2)
	view := NewScopedView(session, func(context.Context, domain.Tenant) (string, error) {
		reply := make(chan string)
		calls <- reply
		return <-reply, nil
	}, nil)

	resultFirst := make(chan refreshResult, 1)
	go func() {
		applied, err := view.Refresh(context.Background())
		resultFirst <- refreshResult{applied: applied, err: err}
	}()
	first := <-calls

	resultSecond := make(chan refreshResult, 1)
	go func() {
		applied, err := view.Refresh(context.Background())
		resultSecond <- refreshResult{applied: applied, err: err}
	}()
	second := <-calls

	second <- "fresh"
	b := <-resultSecond
	require.NoError(t, b.err)
	assert.True(t, b.applied)

	first <- "outdated"
	a := <-resultFirst
	require.NoError(t, a.err)
	assert.False(t, a.applied)

	state := view.Snapshot()
	assert.Equal(t, "fresh", state.Value)
	assert.False(t, state.Loading)
	assert.Equal(t, session.Generation(), state.Generation)
}
