package application

import (
	"context"

	"github.com/bnema/campus-cli/internal/domain"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const (
	dashboardCourses = 3
	dashboardLive    = 2
)

// DashboardSource is the slice of the API the dashboard reads.
type DashboardSource interface {
	ListCourses(ctx context.Context, tenantID domain.TenantID, opts ...CallOption) ([]domain.Course, error)
	ListLiveSessions(ctx context.Context, opts ...CallOption) (domain.LiveSessions, error)
	ListAnnouncements(ctx context.Context, tenantID domain.TenantID, opts ...CallOption) ([]domain.Announcement, error)
	GetStats(ctx context.Context, opts ...CallOption) (domain.Stats, error)
}

var _ DashboardSource = (*API)(nil)

type Dashboard struct {
	Tenant        domain.Tenant         `json:"tenant"`
	Courses       []domain.Course       `json:"courses"`
	Live          []domain.LiveSession  `json:"liveSessions"`
	Announcements []domain.Announcement `json:"announcements"`
	Stats         domain.Stats          `json:"stats"`
}

type DashboardFigures struct {
	ActiveCourses  int `json:"activeCourses"`
	TotalStudents  int `json:"totalStudents"`
	LiveClasses    int `json:"liveClasses"`
	CompletionRate int `json:"completionRate"`
}

func (d Dashboard) Figures() DashboardFigures {
	return DashboardFigures{
		ActiveCourses:  len(d.Courses),
		TotalStudents:  d.Stats.TotalStudents,
		LiveClasses:    d.Stats.ActiveLiveSessions,
		CompletionRate: domain.CompletionRate(d.Courses),
	}
}

// TopCourses is what the dashboard lists under "My Courses".
func (d Dashboard) TopCourses() []domain.Course {
	return lo.Slice(d.Courses, 0, dashboardCourses)
}

func (d Dashboard) TopLive() []domain.LiveSession {
	return lo.Slice(d.Live, 0, dashboardLive)
}

// SplitLive separates sessions that are running from those still to come. Ended sessions are
// dropped.
func SplitLive(sessions []domain.LiveSession) (live []domain.LiveSession, upcoming []domain.LiveSession) {
	live = lo.Filter(sessions, func(s domain.LiveSession, _ int) bool {
		return s.Status == domain.LiveStatusLive
	})
	upcoming = lo.Filter(sessions, func(s domain.LiveSession, _ int) bool {
		return s.Status == domain.LiveStatusUpcoming
	})
	return live, upcoming
}

// ForTenant keeps the sessions of tenantID plus those that carry no tenant.
func ForTenant(sessions []domain.LiveSession, tenantID domain.TenantID) []domain.LiveSession {
	return lo.Filter(sessions, func(s domain.LiveSession, _ int) bool {
		return s.TenantID == "" || s.TenantID == tenantID
	})
}

// DashboardLoader fetches everything the dashboard shows as one batch: either every part is
// available or the load fails as a whole.
type DashboardLoader struct {
	source DashboardSource
	opts   []CallOption
}

func NewDashboardLoader(source DashboardSource, opts ...CallOption) *DashboardLoader {
	return &DashboardLoader{source: source, opts: opts}
}

// Load matches LoadFunc[Dashboard].
func (l *DashboardLoader) Load(ctx context.Context, tenant domain.Tenant) (Dashboard, error) {
	var (
		courses       []domain.Course
		sessions      domain.LiveSessions
		announcements []domain.Announcement
		stats         domain.Stats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		courses, err = l.source.ListCourses(gctx, tenant.ID, l.opts...)
		return err
	})
	g.Go(func() (err error) {
		sessions, err = l.source.ListLiveSessions(gctx, l.opts...)
		return err
	})
	g.Go(func() (err error) {
		announcements, err = l.source.ListAnnouncements(gctx, tenant.ID, l.opts...)
		return err
	})
	g.Go(func() (err error) {
		stats, err = l.source.GetStats(gctx, l.opts...)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	return Dashboard{
		Tenant:        tenant,
		Courses:       orEmpty(courses),
		Live:          orEmpty(ForTenant(sessions.All, tenant.ID)),
		Announcements: orEmpty(announcements),
		Stats:         stats,
	}, nil
}
