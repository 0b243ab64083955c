package dashboard

import (
	"errors"
	"io"

	"github.com/bnema/campus-cli/internal/application"
	"github.com/bnema/campus-cli/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

// model renders a single frame and quits.
type model struct {
	view   func(styles) string
	styles styles
	output string
}

func newModel(view func(styles) string) model {
	return model{
		view:   view,
		styles: newStyles(),
	}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = m.view(m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

func Render(d application.Dashboard) (string, error) {
	return run(func(s styles) string {
		return renderDashboard(d, s)
	})
}

func RenderTenants(tenants []domain.Tenant, current domain.TenantID) (string, error) {
	return run(func(s styles) string {
		return renderTenants(tenants, current, s)
	})
}

func RenderCourses(tenant domain.TenantID, courses []domain.Course) (string, error) {
	return run(func(s styles) string {
		return renderCourseSection(
			"Courses · "+string(tenant),
			courses,
			"No courses available for this tenant.",
			s,
		)
	})
}

// RenderLive lists running sessions ahead of upcoming ones. Ended sessions are not shown.
func RenderLive(sessions []domain.LiveSession) (string, error) {
	live, upcoming := application.SplitLive(sessions)
	return run(func(s styles) string {
		return renderLiveSection("Live Now", live, s) + "\n" +
			s.section.Render(renderLiveSection("Upcoming", upcoming, s))
	})
}

func RenderAnnouncements(announcements []domain.Announcement) (string, error) {
	return run(func(s styles) string {
		return renderAnnouncementSection(announcements, s)
	})
}

func RenderStats(stats domain.Stats) (string, error) {
	return run(func(s styles) string {
		return renderStats(stats, s)
	})
}

func run(view func(styles) string) (string, error) {
	p := tea.NewProgram(
		newModel(view),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
