package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/campus-cli/internal/application"
	"github.com/bnema/campus-cli/internal/domain"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type sessionChangedMsg struct {
	snapshot application.SessionSnapshot
}

type viewChangedMsg struct {
	state application.ViewState[application.Dashboard]
}

type actionDoneMsg struct {
	err error
}

type interactiveModel struct {
	ctx     context.Context
	session *application.TenantSession
	view    *application.ScopedView[application.Dashboard]

	spinner  spinner.Model
	styles   styles
	snapshot application.SessionSnapshot
	state    application.ViewState[application.Dashboard]
	err      error
}

func newInteractiveModel(
	ctx context.Context,
	session *application.TenantSession,
	view *application.ScopedView[application.Dashboard],
) interactiveModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return interactiveModel{
		ctx:      ctx,
		session:  session,
		view:     view,
		spinner:  s,
		styles:   newStyles(),
		snapshot: session.Snapshot(),
		state:    view.Snapshot(),
	}
}

func (m interactiveModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refresh())
}

func (m interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case sessionChangedMsg:
		m.snapshot = msg.snapshot
		return m, nil
	case viewChangedMsg:
		m.state = msg.state
		return m, nil
	case actionDoneMsg:
		m.err = msg.err
		return m, nil
	default:
		return m, nil
	}
}

func (m interactiveModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "tab", "right", "l":
		return m, m.switchTenant(1)
	case "shift+tab", "left", "h":
		return m, m.switchTenant(-1)
	case "r":
		m.err = nil
		return m, m.reload()
	default:
		return m, nil
	}
}

// switchTenant moves the selection by step, wrapping around the tenant list.
func (m interactiveModel) switchTenant(step int) tea.Cmd {
	target, ok := neighbour(m.snapshot.Tenants, m.snapshot.Current.ID, step)
	if !ok || target == m.snapshot.Current.ID {
		return nil
	}

	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		_, err := session.SetCurrentTenant(ctx, target)
		return actionDoneMsg{err: err}
	}
}

func (m interactiveModel) reload() tea.Cmd {
	ctx, session, view := m.ctx, m.session, m.view
	return func() tea.Msg {
		generation := session.Generation()
		session.Reload(ctx)
		if session.Generation() != generation {
			return actionDoneMsg{}
		}

		_, err := view.Refresh(ctx)
		return actionDoneMsg{err: err}
	}
}

func (m interactiveModel) refresh() tea.Cmd {
	ctx, view := m.ctx, m.view
	return func() tea.Msg {
		_, err := view.Refresh(ctx)
		return actionDoneMsg{err: err}
	}
}

func (m interactiveModel) View() string {
	lines := []string{m.renderTabs()}

	if m.snapshot.State == application.SessionError {
		lines = append(lines, m.styles.warning.Render("Tenant list unavailable, showing "+m.snapshot.Current.Name))
	}

	switch {
	case m.snapshot.IsLoading():
		lines = append(lines, fmt.Sprintf("%s Loading tenants...", m.spinner.View()))
	case !m.current():
		lines = append(lines, fmt.Sprintf("%s Loading dashboard...", m.spinner.View()))
	case m.state.Err != nil:
		lines = append(lines, m.styles.warning.Render("Dashboard unavailable: "+m.state.Err.Error()))
	default:
		lines = append(lines, renderDashboard(m.state.Value, m.styles))
	}

	if m.err != nil && m.err != m.state.Err {
		lines = append(lines, m.styles.warning.Render(m.err.Error()))
	}

	lines = append(lines, m.styles.help.Render("tab/→ next tenant · shift+tab/← previous · r reload · q quit"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}

// current reports whether the view holds a result for the session's current generation.
func (m interactiveModel) current() bool {
	return m.state.Loaded && m.state.Generation == m.snapshot.Generation
}

func (m interactiveModel) renderTabs() string {
	if len(m.snapshot.Tenants) == 0 {
		return m.styles.activeTab.Render(tenantLabel(m.snapshot.Current))
	}

	tabs := make([]string, 0, len(m.snapshot.Tenants))
	for _, tenant := range m.snapshot.Tenants {
		if m.snapshot.HasCurrent && tenant.ID == m.snapshot.Current.ID {
			tabs = append(tabs, m.styles.activeTab.Render(tenantLabel(tenant)))
			continue
		}
		tabs = append(tabs, m.styles.tab.Render(tenantLabel(tenant)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func tenantLabel(tenant domain.Tenant) string {
	if strings.TrimSpace(tenant.Name) != "" {
		return tenant.Name
	}
	return string(tenant.ID)
}

func neighbour(tenants []domain.Tenant, current domain.TenantID, step int) (domain.TenantID, bool) {
	if len(tenants) == 0 {
		return "", false
	}

	index := 0
	for i, tenant := range tenants {
		if tenant.ID == current {
			index = i
			break
		}
	}

	next := ((index+step)%len(tenants) + len(tenants)) % len(tenants)
	return tenants[next].ID, true
}

// RunInteractive shows the dashboard of the current tenant until the user quits. Switching
// tenants reloads the dashboard; results for a tenant that is no longer current are dropped.
func RunInteractive(
	ctx context.Context,
	session *application.TenantSession,
	view *application.ScopedView[application.Dashboard],
	input io.Reader,
	output io.Writer,
) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(
		newInteractiveModel(ctx, session, view),
		tea.WithInput(input),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	unsubscribe := session.Subscribe(func(snapshot application.SessionSnapshot) {
		p.Send(sessionChangedMsg{snapshot: snapshot})
	})
	defer unsubscribe()

	view.Subscribe(func(state application.ViewState[application.Dashboard]) {
		p.Send(viewChangedMsg{state: state})
	})

	stopWatching := view.Watch(ctx)
	defer stopWatching()

	_, err := p.Run()
	cancel()
	view.Wait()

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
