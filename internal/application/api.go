package application

import (
	"context"
	"net/http"
	"net/url"

	"github.com/bnema/campus-cli/internal/domain"
	"github.com/bnema/campus-cli/internal/log"
	"github.com/bnema/campus-cli/internal/ports"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Tier is how an operation answers a backend failure.
type Tier int

const (
	// TierRequired propagates the failure unchanged.
	TierRequired Tier = iota
	// TierDegradable substitutes a fixed fallback value.
	TierDegradable
	// TierSilentEmpty substitutes an empty collection.
	TierSilentEmpty
)

func (t Tier) String() string {
	switch t {
	case TierRequired:
		return "required"
	case TierDegradable:
		return "degradable"
	case TierSilentEmpty:
		return "silent-empty"
	default:
		return "unknown"
	}
}

type callOptions struct {
	strict bool
}

type CallOption func(*callOptions)

// Strict makes a Degradable or Silent-empty operation propagate its failure like a Required one.
func Strict() CallOption {
	return func(o *callOptions) {
		o.strict = true
	}
}

// API is the façade over the backend. Every operation returns either its payload, a tier
// fallback, or a *domain.Error.
type API struct {
	backend       ports.Backend
	identity      ports.Identity
	logger        *log.Logger
	defaultTenant domain.TenantID
	validate      *validator.Validate
	newID         func() string
}

type APIOptions struct {
	// DefaultTenant scopes tenant-scoped calls made without a tenant. Defaults to the fallback tenant.
	DefaultTenant domain.TenantID
	Logger        *log.Logger
	NewID         func() string
}

func NewAPI(backend ports.Backend, identity ports.Identity, opts APIOptions) *API {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	defaultTenant := opts.DefaultTenant
	if !defaultTenant.Valid() {
		defaultTenant = domain.FallbackTenant().ID
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	return &API{
		backend:       backend,
		identity:      identity,
		logger:        logger.Named("api"),
		defaultTenant: defaultTenant,
		validate:      newValidator(),
		newID:         newID,
	}
}

func (a *API) DefaultTenant() domain.TenantID {
	return a.defaultTenant
}

func (a *API) Login(ctx context.Context, creds domain.Credentials) (domain.LoginResult, error) {
	const op = "login"
	if err := a.check(op, creds); err != nil {
		return domain.LoginResult{}, err
	}

	var result domain.LoginResult
	if err := a.backend.Post(ctx, "/api/auth/login", creds, &result); err != nil {
		return domain.LoginResult{}, err
	}
	if !result.Success {
		message := result.Message
		if message == "" {
			message = "credentials rejected"
		}
		return domain.LoginResult{}, domain.StatusError(op, http.StatusUnauthorized, message)
	}

	return result, nil
}

// ListTenants falls back to the built-in catalog when the backend cannot serve the list.
func (a *API) ListTenants(ctx context.Context, opts ...CallOption) ([]domain.Tenant, error) {
	const op = "list tenants"

	var payload struct {
		Tenants []domain.Tenant `json:"tenants"`
	}
	if err := a.backend.Get(ctx, "/api/tenants", &payload); err != nil {
		if err := a.degrade(op, TierDegradable, err, opts); err != nil {
			return nil, err
		}
		return domain.FallbackTenantCatalog(), nil
	}

	return orEmpty(payload.Tenants), nil
}

// TenantSource adapts ListTenants for the tenant session.
func (a *API) TenantSource(opts ...CallOption) ports.TenantSource {
	return tenantSource{api: a, opts: opts}
}

type tenantSource struct {
	api  *API
	opts []CallOption
}

func (s tenantSource) ListTenants(ctx context.Context) ([]domain.Tenant, error) {
	return s.api.ListTenants(ctx, s.opts...)
}

func (a *API) GetTenant(ctx context.Context, id domain.TenantID) (domain.Tenant, error) {
	const op = "get tenant"
	if err := requireID(op, "tenantId", string(id)); err != nil {
		return domain.Tenant{}, err
	}

	var tenant domain.Tenant
	if err := a.backend.Get(ctx, "/api/tenant/"+url.PathEscape(string(id)), &tenant); err != nil {
		return domain.Tenant{}, err
	}

	return tenant, nil
}

// ListCourses lists the courses of tenantID, or of the default tenant when tenantID is empty.
func (a *API) ListCourses(ctx context.Context, tenantID domain.TenantID, opts ...CallOption) ([]domain.Course, error) {
	const op = "list courses"
	tenantID = a.scope(tenantID)

	var payload struct {
		TenantID domain.TenantID `json:"tenantId"`
		Courses  []domain.Course `json:"courses"`
	}
	if err := a.backend.Get(ctx, "/api/tenant/"+url.PathEscape(string(tenantID))+"/courses", &payload); err != nil {
		if err := a.degrade(op, TierSilentEmpty, err, opts); err != nil {
			return nil, err
		}
		return []domain.Course{}, nil
	}

	return orEmpty(payload.Courses), nil
}

func (a *API) ListAnnouncements(ctx context.Context, tenantID domain.TenantID, opts ...CallOption) ([]domain.Announcement, error) {
	const op = "list announcements"
	tenantID = a.scope(tenantID)

	var payload struct {
		Announcements []domain.Announcement `json:"announcements"`
	}
	path := "/api/announcements?" + url.Values{"tenantId": {string(tenantID)}}.Encode()
	if err := a.backend.Get(ctx, path, &payload); err != nil {
		if err := a.degrade(op, TierSilentEmpty, err, opts); err != nil {
			return nil, err
		}
		return []domain.Announcement{}, nil
	}

	return orEmpty(payload.Announcements), nil
}

func (a *API) ListLiveSessions(ctx context.Context, opts ...CallOption) (domain.LiveSessions, error) {
	const op = "list live sessions"

	var sessions domain.LiveSessions
	if err := a.backend.Get(ctx, "/api/live/sessions", &sessions); err != nil {
		if err := a.degrade(op, TierSilentEmpty, err, opts); err != nil {
			return domain.LiveSessions{}, err
		}
		return domain.LiveSessions{Active: []domain.LiveSession{}, All: []domain.LiveSession{}}, nil
	}

	sessions.Active = orEmpty(sessions.Active)
	sessions.All = orEmpty(sessions.All)
	return sessions, nil
}

// GetStats reports zero stats when the backend cannot serve them.
func (a *API) GetStats(ctx context.Context, opts ...CallOption) (domain.Stats, error) {
	const op = "get stats"

	var stats domain.Stats
	if err := a.backend.Get(ctx, "/api/stats", &stats); err != nil {
		if err := a.degrade(op, TierDegradable, err, opts); err != nil {
			return domain.Stats{}, err
		}
		return domain.Stats{}, nil
	}

	return stats, nil
}

func (a *API) Enroll(ctx context.Context, courseID domain.CourseID, tenantID domain.TenantID) (domain.Enrollment, error) {
	const op = "enroll"
	if err := requireID(op, "courseId", string(courseID)); err != nil {
		return domain.Enrollment{}, err
	}
	user, err := a.requireUser(ctx, op)
	if err != nil {
		return domain.Enrollment{}, err
	}

	request := domain.Enrollment{CourseID: courseID, UserID: user.ID, TenantID: a.scope(tenantID)}
	var enrollment domain.Enrollment
	if err := a.backend.Post(ctx, "/api/courses/enroll", request, &enrollment); err != nil {
		return domain.Enrollment{}, err
	}

	return mergeEnrollment(request, enrollment), nil
}

func (a *API) GetProgress(ctx context.Context, courseID domain.CourseID) (domain.Progress, error) {
	const op = "get progress"
	if err := requireID(op, "courseId", string(courseID)); err != nil {
		return domain.Progress{}, err
	}
	user, err := a.requireUser(ctx, op)
	if err != nil {
		return domain.Progress{}, err
	}

	path := progressPath(courseID) + "?" + url.Values{"userId": {string(user.ID)}}.Encode()
	progress := domain.Progress{CourseID: courseID, UserID: user.ID}
	if err := a.backend.Get(ctx, path, &progress); err != nil {
		return domain.Progress{}, err
	}

	return progress, nil
}

type progressUpdate struct {
	UserID  domain.UserID `json:"userId"`
	Percent float64       `json:"progress" validate:"gte=0,lte=100"`
}

func (a *API) UpdateProgress(ctx context.Context, courseID domain.CourseID, percent float64) (domain.Progress, error) {
	const op = "update progress"
	if err := requireID(op, "courseId", string(courseID)); err != nil {
		return domain.Progress{}, err
	}
	if err := a.check(op, progressUpdate{Percent: percent}); err != nil {
		return domain.Progress{}, err
	}
	user, err := a.requireUser(ctx, op)
	if err != nil {
		return domain.Progress{}, err
	}

	progress := domain.Progress{CourseID: courseID, UserID: user.ID, Percent: percent}
	if err := a.backend.Post(ctx, progressPath(courseID), progressUpdate{UserID: user.ID, Percent: percent}, &progress); err != nil {
		return domain.Progress{}, err
	}

	return progress, nil
}

type liveAttendance struct {
	SessionID string        `json:"sessionId"`
	UserID    domain.UserID `json:"userId"`
}

func (a *API) JoinLiveSession(ctx context.Context, sessionID string) (domain.LiveAck, error) {
	const op = "join live session"
	if err := requireID(op, "sessionId", sessionID); err != nil {
		return domain.LiveAck{}, err
	}
	user, err := a.requireUser(ctx, op)
	if err != nil {
		return domain.LiveAck{}, err
	}

	var ack domain.LiveAck
	if err := a.backend.Post(ctx, "/api/live/join", liveAttendance{SessionID: sessionID, UserID: user.ID}, &ack); err != nil {
		return domain.LiveAck{}, err
	}

	return ack, nil
}

func (a *API) SetReminder(ctx context.Context, sessionID string) (domain.Ack, error) {
	const op = "set reminder"
	if err := requireID(op, "sessionId", sessionID); err != nil {
		return domain.Ack{}, err
	}
	user, err := a.requireUser(ctx, op)
	if err != nil {
		return domain.Ack{}, err
	}

	var ack domain.Ack
	if err := a.backend.Post(ctx, "/api/live/reminder", liveAttendance{SessionID: sessionID, UserID: user.ID}, &ack); err != nil {
		return domain.Ack{}, err
	}

	return ack, nil
}

// StartLiveSession generates a session id when input carries none.
func (a *API) StartLiveSession(ctx context.Context, input domain.LiveSessionInput) (domain.LiveAck, error) {
	const op = "start live session"
	input.TenantID = a.scope(input.TenantID)
	if err := a.check(op, input); err != nil {
		return domain.LiveAck{}, err
	}
	if _, err := a.requireUser(ctx, op); err != nil {
		return domain.LiveAck{}, err
	}
	if input.SessionID == "" {
		input.SessionID = a.newID()
	}

	var ack domain.LiveAck
	if err := a.backend.Post(ctx, "/api/live/start", input, &ack); err != nil {
		return domain.LiveAck{}, err
	}
	if ack.Session.ID == "" {
		ack.Session.ID = input.SessionID
	}

	return ack, nil
}

func (a *API) StopLiveSession(ctx context.Context, sessionID string) (domain.LiveAck, error) {
	const op = "stop live session"
	if err := requireID(op, "sessionId", sessionID); err != nil {
		return domain.LiveAck{}, err
	}
	if _, err := a.requireUser(ctx, op); err != nil {
		return domain.LiveAck{}, err
	}

	body := struct {
		SessionID string `json:"sessionId"`
	}{SessionID: sessionID}

	var ack domain.LiveAck
	if err := a.backend.Post(ctx, "/api/live/stop", body, &ack); err != nil {
		return domain.LiveAck{}, err
	}

	return ack, nil
}

func (a *API) AdminListCourses(ctx context.Context, tenantID domain.TenantID) ([]domain.Course, error) {
	var payload struct {
		Courses []domain.Course `json:"courses"`
	}
	path := "/api/admin/courses?" + url.Values{"tenantId": {string(a.scope(tenantID))}}.Encode()
	if err := a.backend.Get(ctx, path, &payload); err != nil {
		return nil, err
	}

	return orEmpty(payload.Courses), nil
}

func (a *API) AdminGetCourse(ctx context.Context, id domain.CourseID) (domain.Course, error) {
	const op = "admin get course"
	if err := requireID(op, "courseId", string(id)); err != nil {
		return domain.Course{}, err
	}

	var course domain.Course
	if err := a.backend.Get(ctx, adminCoursePath(id), &course); err != nil {
		return domain.Course{}, err
	}

	return course, nil
}

func (a *API) AdminCreateCourse(ctx context.Context, input domain.CourseInput) (domain.Course, error) {
	const op = "admin create course"
	input.TenantID = a.scope(input.TenantID)
	if err := a.check(op, input); err != nil {
		return domain.Course{}, err
	}
	if _, err := a.requireUser(ctx, op); err != nil {
		return domain.Course{}, err
	}

	var ack domain.CourseAck
	if err := a.backend.Post(ctx, "/api/admin/courses", input, &ack); err != nil {
		return domain.Course{}, err
	}

	return ack.Course, nil
}

func (a *API) AdminUpdateCourse(ctx context.Context, id domain.CourseID, input domain.CourseInput) (domain.Course, error) {
	const op = "admin update course"
	if err := requireID(op, "courseId", string(id)); err != nil {
		return domain.Course{}, err
	}
	input.TenantID = a.scope(input.TenantID)
	if err := a.check(op, input); err != nil {
		return domain.Course{}, err
	}
	if _, err := a.requireUser(ctx, op); err != nil {
		return domain.Course{}, err
	}

	var ack domain.CourseAck
	if err := a.backend.Put(ctx, adminCoursePath(id), input, &ack); err != nil {
		return domain.Course{}, err
	}
	if ack.Course.ID == "" {
		ack.Course.ID = id
	}

	return ack.Course, nil
}

func (a *API) AdminDeleteCourse(ctx context.Context, id domain.CourseID, tenantID domain.TenantID) (domain.Ack, error) {
	const op = "admin delete course"
	if err := requireID(op, "courseId", string(id)); err != nil {
		return domain.Ack{}, err
	}
	if _, err := a.requireUser(ctx, op); err != nil {
		return domain.Ack{}, err
	}

	path := adminCoursePath(id) + "?" + url.Values{"tenantId": {string(a.scope(tenantID))}}.Encode()
	var ack domain.Ack
	if err := a.backend.Delete(ctx, path, &ack); err != nil {
		return domain.Ack{}, err
	}

	return ack, nil
}

func (a *API) scope(tenantID domain.TenantID) domain.TenantID {
	if tenantID.Valid() {
		return tenantID
	}
	return a.defaultTenant
}

func (a *API) requireUser(ctx context.Context, op string) (domain.User, error) {
	if a.identity != nil {
		if user, ok := a.identity.CurrentUser(ctx); ok && user.Identified() {
			return user, nil
		}
	}
	return domain.User{}, domain.NewError(domain.KindAuthRequired, op, "sign in first")
}

// degrade logs a suppressed failure and returns nil, or returns err when the caller asked for
// strict behavior.
func (a *API) degrade(op string, tier Tier, err error, opts []CallOption) error {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.strict {
		return err
	}

	a.logger.Warn("backend failure suppressed",
		log.String("op", op),
		log.String("tier", tier.String()),
		log.String("kind", string(domain.KindOf(err))),
		log.Int("status", domain.StatusOf(err)),
		log.ErrorField(err),
	)
	return nil
}

func progressPath(courseID domain.CourseID) string {
	return "/api/courses/" + url.PathEscape(string(courseID)) + "/progress"
}

func adminCoursePath(id domain.CourseID) string {
	return "/api/admin/courses/" + url.PathEscape(string(id))
}

func mergeEnrollment(request domain.Enrollment, response domain.Enrollment) domain.Enrollment {
	if response.CourseID == "" {
		response.CourseID = request.CourseID
	}
	if response.UserID == "" {
		response.UserID = request.UserID
	}
	if response.TenantID == "" {
		response.TenantID = request.TenantID
	}
	return response
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
