package application

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/bnema/campus-cli/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	unreachable = domain.NewError(domain.KindNetworkUnreachable, "GET", "connection refused")
	serverError = domain.StatusError("GET", http.StatusInternalServerError, "boom")
)

func newTestAPI(t *testing.T, backend *fakeBackend, user domain.User) *API {
	t.Helper()
	logger, _ := observedLogger(t)
	return NewAPI(backend, staticIdentity{user: user}, APIOptions{Logger: logger, NewID: func() string { return "generated-id" }})
}

func TestAPILoginReturnsResult(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend().reply(http.MethodPost, "/api/auth/login", domain.LoginResult{
		Success: true,
		User:    student,
		Token:   "jwt",
	})
	api := newTestAPI(t, backend, domain.User{})

	result, err := api.Login(context.Background(), domain.Credentials{Email: "ada@stanford.edu", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, student, result.User)
	assert.Equal(t, "jwt", result.Token)

	calls := backend.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, domain.Credentials{Email: "ada@stanford.edu", Password: "secret"}, calls[0].Body)
}

func TestAPILoginRejectedCredentialsIsUnauthorized(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend().reply(http.MethodPost, "/api/auth/login", domain.LoginResult{Success: false})
	api := newTestAPI(t, backend, domain.User{})

	_, err := api.Login(context.Background(), domain.Credentials{Email: "ada@stanford.edu", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, &domain.Error{Kind: domain.KindHTTPStatus, Status: http.StatusUnauthorized}))
	assert.Contains(t, err.Error(), "credentials rejected")
}

func TestAPILoginPropagatesFailureKind(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend().fail(http.MethodPost, "/api/auth/login", serverError)
	api := newTestAPI(t, backend, domain.User{})

	_, err := api.Login(context.Background(), domain.Credentials{Email: "ada@stanford.edu", Password: "secret"})
	assert.Equal(t, domain.KindHTTPStatus, domain.KindOf(err))
	assert.Equal(t, http.StatusInternalServerError, domain.StatusOf(err))
}

func TestAPILoginValidatesBeforeDispatch(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	api := newTestAPI(t, backend, domain.User{})

	_, err := api.Login(context.Background(), domain.Credentials{Email: "not-an-email"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "email must be a valid email address")
	assert.Contains(t, err.Error(), "password is required")
	assert.Empty(t, backend.Calls())
}

func TestAPIListTenantsDegradesToCatalog(t *testing.T) {
	t.Parallel()

	for _, failure := range []error{unreachable, serverError} {
		backend := newFakeBackend().fail(http.MethodGet, "/api/tenants", failure)
		logger, logs := observedLogger(t)
		api := NewAPI(backend, nil, APIOptions{Logger: logger})

		tenants, err := api.ListTenants(context.Background())
		require.NoError(t, err)
		if diff := cmp.Diff(domain.FallbackTenantCatalog(), tenants); diff != "" {
			t.Fatalf("tenants mismatch (-want +got):\n%s", diff)
		}

		warnings := logs.FilterMessage("backend failure suppressed").All()
		require.Len(t, warnings, 1)
		fields := warnings[0].ContextMap()
		assert.Equal(t, "list tenants", fields["op"])
		assert.Equal(t, "degradable", fields["tier"])
		assert.Equal(t, string(domain.KindOf(failure)), fields["kind"])
	}
}

func TestAPIListTenantsStrictPropagates(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend().fail(http.MethodGet, "/api/tenants", unreachable)
	api := newTestAPI(t, backend, domain.User{})

	tenants, err := api.ListTenants(context.Background(), Strict())
	require.ErrorIs(t, err, domain.ErrNetworkUnreachable)
	assert.Nil(t, tenants)

	_, err = api.TenantSource(Strict()).ListTenants(context.Background())
	require.ErrorIs(t, err, domain.ErrNetworkUnreachable)
}

func TestAPIListTenantsSuccess(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend().reply(http.MethodGet, "/api/tenants", map[string]any{
		"tenants": []domain.Tenant{{ID: "mit", Name: "MIT"}},
	})
	api := newTestAPI(t, backend, domain.User{})

	tenants, err := api.TenantSource().ListTenants(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Tenant{{ID: "mit", Name: "MIT"}}, tenants)
}

func TestAPIListCoursesScopesToTenant(t *testing.T) {
	t.Parallel()

	courses := []domain.Course{{ID: "1", Title: "Intro to CS", Progress: 65}}
	backend := newFakeBackend().
		reply(http.MethodGet, "/api/tenant/mit/courses", map[string]any{"tenantId": "mit", "courses": courses}).
		reply(http.MethodGet, "/api/tenant/stanford/courses", map[string]any{"tenantId": "stanford", "courses": nil})
	api := newTestAPI(t, backend, domain.User{})

	got, err := api.ListCourses(context.Background(), "mit")
	require.NoError(t, err)
	assert.Equal(t, courses, got)

	got, err = api.ListCourses(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	calls := backend.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "/api/tenant/stanford/courses", calls[1].Path)
}

func TestAPIListCoursesUsesConfiguredDefaultTenant(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend().reply(http.MethodGet, "/api/tenant/oxford/courses", map[string]any{"courses": []domain.Course{}})
	api := NewAPI(backend, nil, APIOptions{DefaultTenant: "oxford"})

	_, err := api.ListCourses(context.Background(), "  ")
	require.NoError(t, err)
	assert.Equal(t, domain.TenantID("oxford"), api.DefaultTenant())
	assert.Equal(t, "/api/tenant/oxford/courses", backend.Calls()[0].Path)
}

func TestAPISilentEmptyOperationsNeverFail(t *testing.T) {
	t.Parallel()

	for _, failure := range []error{unreachable, serverError} {
		backend := newFakeBackend().
			fail(http.MethodGet, "/api/tenant/mit/courses", failure).
			fail(http.MethodGet, "/api/announcements?tenantId=mit", failure).
			fail(http.MethodGet, "/api/live/sessions", failure)
		api := newTestAPI(t, backend, domain.User{})

		courses, err := api.ListCourses(context.Background(), "mit")
		require.NoError(t, err)
		assert.Equal(t, []domain.Course{}, courses)

		announcements, err := api.ListAnnouncements(context.Background(), "mit")
		require.NoError(t, err)
		assert.Equal(t, []domain.Announcement{}, announcements)

		sessions, err := api.ListLiveSessions(context.Background())
		require.NoError(t, err)
		assert.Empty(t, sessions.Active)
		assert.Empty(t, sessions.All)
	}
}

func TestAPISilentEmptyStrictPropagatesExactKind(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend().
		fail(http.MethodGet, "/api/tenant/mit/courses", serverError).
		fail(http.MethodGet, "/api/announcements?tenantId=mit", unreachable).
		fail(http.MethodGet, "/api/live/sessions", serverError)
	api := newTestAPI(t, backend, domain.User{})

	_, err := api.ListCourses(context.Background(), "mit", Strict())
	assert.Equal(t, domain.KindHTTPStatus, domain.KindOf(err))

	_, err = api.ListAnnouncements(context.Background(), "mit", Strict())
	assert.Equal(t, domain.KindNetworkUnreachable, domain.KindOf(err))

	_, err = api.ListLiveSessions(context.Background(), Strict())
	assert.Equal(t, domain.KindHTTPStatus, domain.KindOf(err))
}

func TestAPIGetStatsDegradesToZero(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend().fail(http.MethodGet, "/api/stats", unreachable)
	api := newTestAPI(t, backend, domain.User{})

	stats, err := api.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{}, stats)

	_, err = api.GetStats(context.Background(), Strict())
	assert.ErrorIs(t, err, domain.ErrNetworkUnreachable)
}

func TestAPIGetTenantIsRequired(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend().
		reply(http.MethodGet, "/api/tenant/mit", domain.Tenant{ID: "mit", Name: "MIT"}).
		fail(http.MethodGet, "/api/tenant/gone", domain.StatusError("GET", http.StatusNotFound, "tenant not found"))
	api := newTestAPI(t, backend, domain.User{})

	tenant, err := api.GetTenant(context.Background(), "mit")
	require.NoError(t, err)
	assert.Equal(t, "MIT", tenant.Name)

	_, err = api.GetTenant(context.Background(), "gone")
	assert.Equal(t, http.StatusNotFound, domain.StatusOf(err))

	_, err = api.GetTenant(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAPIAuthenticatedOperationsRequireIdentity(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	api := newTestAPI(t, backend, domain.User{})
	ctx := context.Background()
	input := domain.CourseInput{Title: "Algorithms", Instructor: "Prof. Thompson"}

	ops := map[string]func() error{
		"enroll": func() error { _, err := api.Enroll(ctx, "1", "mit"); return err },
		"get progress": func() error {
			_, err := api.GetProgress(ctx, "1")
			return err
		},
		"update progress": func() error { _, err := api.UpdateProgress(ctx, "1", 50); return err },
		"join":            func() error { _, err := api.JoinLiveSession(ctx, "s-1"); return err },
		"reminder":        func() error { _, err := api.SetReminder(ctx, "s-1"); return err },
		"start": func() error {
			_, err := api.StartLiveSession(ctx, domain.LiveSessionInput{Title: "CS101", Instructor: "Prof. Williams"})
			return err
		},
		"stop":   func() error { _, err := api.StopLiveSession(ctx, "s-1"); return err },
		"create": func() error { _, err := api.AdminCreateCourse(ctx, input); return err },
		"update": func() error { _, err := api.AdminUpdateCourse(ctx, "1", input); return err },
		"delete": func() error { _, err := api.AdminDeleteCourse(ctx, "1", "mit"); return err },
	}

	for name, op := range ops {
		err := op()
		assert.ErrorIs(t, err, domain.ErrAuthRequired, name)
	}
	assert.Empty(t, backend.Calls())
}

func TestAPIValidationRunsBeforeAuthCheck(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	api := newTestAPI(t, backend, domain.User{})

	_, err := api.UpdateProgress(context.Background(), "1", 140)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "progress must be at most 100")

	_, err = api.AdminCreateCourse(context.Background(), domain.CourseInput{Instructor: "Dr. Park"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "title is required")

	_, err = api.Enroll(context.Background(), "", "mit")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Empty(t, backend.Calls())
}

func TestAPIEnrollSendsUserAndTenant(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend().reply(http.MethodPost, "/api/courses/enroll", map[string]string{"message": "enrolled"})
	api := newTestAPI(t, backend, student)

	enrollment, err := api.Enroll(context.Background(), "1", "")
	require.NoError(t, err)
	assert.Equal(t, domain.Enrollment{CourseID: "1", UserID: "u-1", TenantID: "stanford", Message: "enrolled"}, enrollment)
	assert.Equal(t, domain.Enrollment{CourseID: "1", UserID: "u-1", TenantID: "stanford"}, backend.Calls()[0].Body)
}

func TestAPIRequiredOperationsPropagateFailure(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend().
		fail(http.MethodPost, "/api/courses/enroll", serverError).
		fail(http.MethodPost, "/api/courses/1/progress", unreachable).
		fail(http.MethodGet, "/api/admin/courses?tenantId=stanford", serverError)
	api := newTestAPI(t, backend, student)

	enrollment, err := api.Enroll(context.Background(), "1", "mit")
	assert.Equal(t, domain.KindHTTPStatus, domain.KindOf(err))
	assert.Equal(t, domain.Enrollment{}, enrollment)

	_, err = api.UpdateProgress(context.Background(), "1", 10)
	assert.Equal(t, domain.KindNetworkUnreachable, domain.KindOf(err))

	courses, err := api.AdminListCourses(context.Background(), "")
	assert.Equal(t, domain.KindHTTPStatus, domain.KindOf(err))
	assert.Nil(t, courses)
}

func TestAPIProgressRoundTrip(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend().
		reply(http.MethodGet, "/api/courses/1/progress?userId=u-1", map[string]any{"progress": 40}).
		on(http.MethodPost, "/api/courses/1/progress", func(body any) (any, error) {
			update := body.(progressUpdate)
			return map[string]any{"courseId": "1", "userId": update.UserID, "progress": update.Percent}, nil
		})
	api := newTestAPI(t, backend, student)

	progress, err := api.GetProgress(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, domain.Progress{CourseID: "1", UserID: "u-1", Percent: 40}, progress)

	progress, err = api.UpdateProgress(context.Background(), "1", 75)
	require.NoError(t, err)
	assert.Equal(t, domain.Progress{CourseID: "1", UserID: "u-1", Percent: 75}, progress)
}

func TestAPIStartLiveSessionGeneratesID(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend().reply(http.MethodPost, "/api/live/start", map[string]string{"message": "started"})
	api := newTestAPI(t, backend, student)

	ack, err := api.StartLiveSession(context.Background(), domain.LiveSessionInput{Title: "CS101", Instructor: "Prof. Williams"})
	require.NoError(t, err)
	assert.Equal(t, "started", ack.Message)
	assert.Equal(t, "generated-id", ack.Session.ID)
	assert.Equal(t, domain.LiveSessionInput{
		SessionID:  "generated-id",
		Title:      "CS101",
		Instructor: "Prof. Williams",
		TenantID:   "stanford",
	}, backend.Calls()[0].Body)
}

func TestAPILiveAttendance(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend().
		reply(http.MethodPost, "/api/live/join", map[string]any{"message": "joined", "session": map[string]any{"sessionId": "s-1"}}).
		reply(http.MethodPost, "/api/live/reminder", map[string]any{"message": "reminder set"}).
		reply(http.MethodPost, "/api/live/stop", map[string]any{"message": "stopped"})
	api := newTestAPI(t, backend, student)

	joined, err := api.JoinLiveSession(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, "s-1", joined.Session.ID)

	reminder, err := api.SetReminder(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, "reminder set", reminder.Message)

	stopped, err := api.StopLiveSession(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, "stopped", stopped.Message)

	calls := backend.Calls()
	assert.Equal(t, liveAttendance{SessionID: "s-1", UserID: "u-1"}, calls[0].Body)
}

func TestAPIAdminCourseLifecycle(t *testing.T) {
	t.Parallel()

	created := domain.Course{ID: "c-9", TenantID: "mit", Title: "Compilers", Instructor: "Dr. Aho"}
	backend := newFakeBackend().
		reply(http.MethodPost, "/api/admin/courses", domain.CourseAck{Message: "created", Course: created}).
		reply(http.MethodPut, "/api/admin/courses/c-9", domain.CourseAck{Course: domain.Course{Title: "Compilers II"}}).
		reply(http.MethodGet, "/api/admin/courses/c-9", created).
		reply(http.MethodGet, "/api/admin/courses?tenantId=mit", map[string]any{"courses": []domain.Course{created}}).
		reply(http.MethodDelete, "/api/admin/courses/c-9?tenantId=mit", domain.Ack{Message: "deleted"})
	api := newTestAPI(t, backend, domain.User{ID: "admin-1", Role: domain.RoleAdmin})
	ctx := context.Background()

	course, err := api.AdminCreateCourse(ctx, domain.CourseInput{TenantID: "mit", Title: "Compilers", Instructor: "Dr. Aho"})
	require.NoError(t, err)
	assert.Equal(t, created, course)

	updated, err := api.AdminUpdateCourse(ctx, "c-9", domain.CourseInput{TenantID: "mit", Title: "Compilers II", Instructor: "Dr. Aho"})
	require.NoError(t, err)
	assert.Equal(t, domain.CourseID("c-9"), updated.ID)
	assert.Equal(t, "Compilers II", updated.Title)

	got, err := api.AdminGetCourse(ctx, "c-9")
	require.NoError(t, err)
	assert.Equal(t, created, got)

	listed, err := api.AdminListCourses(ctx, "mit")
	require.NoError(t, err)
	assert.Equal(t, []domain.Course{created}, listed)

	ack, err := api.AdminDeleteCourse(ctx, "c-9", "mit")
	require.NoError(t, err)
	assert.Equal(t, "deleted", ack.Message)
}
