package dashboard

import (
	"fmt"
	"math"
	"strings"

	"github.com/bnema/campus-cli/internal/application"
	"github.com/bnema/campus-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const progressBarWidth = 24

func renderDashboard(d application.Dashboard, s styles) string {
	name := d.Tenant.Name
	if name == "" {
		name = string(d.Tenant.ID)
	}

	lines := []string{
		s.title.Render(name + " Dashboard"),
		s.header.Render(fmt.Sprintf("tenant: %s", d.Tenant.ID)),
		s.section.Render(renderFigures(d.Figures(), s)),
		s.section.Render(renderCourseSection("My Courses", d.TopCourses(), "No courses available. Please contact your administrator.", s)),
		s.section.Render(renderLiveSection("Live Classes", d.TopLive(), s)),
		s.section.Render(renderAnnouncementSection(d.Announcements, s)),
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderFigures(f application.DashboardFigures, s styles) string {
	box := func(label, value string) string {
		return s.figureBox.Render(lipgloss.JoinVertical(lipgloss.Left, s.detail.Render(label), s.figure.Render(value)))
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		box("Active Courses", fmt.Sprintf("%d", f.ActiveCourses)),
		box("Total Students", groupThousands(f.TotalStudents)),
		box("Live Classes", fmt.Sprintf("%d", f.LiveClasses)),
		box("Completion Rate", fmt.Sprintf("%d%%", f.CompletionRate)),
	)
}

func renderCourseSection(title string, courses []domain.Course, emptyText string, s styles) string {
	lines := []string{s.heading.Render(title)}
	if len(courses) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, append(lines, s.empty.Render(emptyText))...)
	}

	for _, course := range courses {
		lines = append(lines, renderCourse(course, s))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderCourse(course domain.Course, s styles) string {
	meta := []string{string(course.ID)}
	if course.Instructor != "" {
		meta = append(meta, course.Instructor)
	}
	if course.Duration != "" {
		meta = append(meta, course.Duration)
	}
	if course.Students > 0 {
		meta = append(meta, groupThousands(course.Students)+" students")
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		s.item.Render(course.Title),
		"  "+s.detail.Render(strings.Join(meta, " · ")),
		"  "+lipgloss.JoinHorizontal(
			lipgloss.Top,
			renderProgressBar(course.Progress, progressBarWidth, s),
			" ",
			s.detail.Render(fmt.Sprintf("%3.0f%%", clampPercent(course.Progress))),
		),
	)
}

func renderLiveSection(title string, sessions []domain.LiveSession, s styles) string {
	lines := []string{s.heading.Render(title)}
	if len(sessions) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, append(lines, s.empty.Render("No live classes scheduled."))...)
	}

	for _, session := range sessions {
		lines = append(lines, renderLiveSession(session, s))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderLiveSession(session domain.LiveSession, s styles) string {
	badge := s.liveStatus(session.Status).Render(strings.ToUpper(string(session.Status)))

	meta := []string{session.ID}
	if session.Instructor != "" {
		meta = append(meta, session.Instructor)
	}
	when := strings.TrimSpace(session.Date + " " + session.Time)
	if when != "" {
		meta = append(meta, when)
	}
	if session.Attendees > 0 {
		meta = append(meta, fmt.Sprintf("%d attendees", session.Attendees))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, badge, " ", s.item.Render(session.Title)),
		"  "+s.detail.Render(strings.Join(meta, " · ")),
	)
}

func renderAnnouncementSection(announcements []domain.Announcement, s styles) string {
	lines := []string{s.heading.Render("Announcements")}
	if len(announcements) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, append(lines, s.empty.Render("No announcements."))...)
	}

	for _, a := range announcements {
		header := lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.priority(a.Priority).Render(fmt.Sprintf("[%s]", priorityLabel(a.Priority))),
			" ",
			s.item.Render(a.Title),
		)
		entry := []string{header}
		if a.Content != "" {
			entry = append(entry, "  "+s.detail.Render(a.Content))
		}
		if a.Date != "" {
			entry = append(entry, "  "+s.empty.Render(a.Date))
		}
		lines = append(lines, lipgloss.JoinVertical(lipgloss.Left, entry...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderTenants(tenants []domain.Tenant, current domain.TenantID, s styles) string {
	lines := []string{
		s.title.Render("Tenants"),
		s.header.Render(fmt.Sprintf("tenants: %d", len(tenants))),
	}
	if len(tenants) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, append(lines, s.empty.Render("No tenants available."))...)
	}

	for _, tenant := range tenants {
		marker := "  "
		name := s.item.Render(fmt.Sprintf("%s (%s)", tenant.Name, tenant.ID))
		if tenant.ID == current {
			marker = "* "
			name = s.heading.Render(fmt.Sprintf("%s (%s)", tenant.Name, tenant.ID))
		}

		line := marker + name
		if counters := tenantCounters(tenant); counters != "" {
			line += " " + s.detail.Render(counters)
		}
		lines = append(lines, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func tenantCounters(tenant domain.Tenant) string {
	parts := make([]string, 0, 3)
	if tenant.Students != nil {
		parts = append(parts, groupThousands(*tenant.Students)+" students")
	}
	if tenant.Courses != nil {
		parts = append(parts, fmt.Sprintf("%d courses", *tenant.Courses))
	}
	if tenant.Instructors != nil {
		parts = append(parts, fmt.Sprintf("%d instructors", *tenant.Instructors))
	}
	return strings.Join(parts, " · ")
}

func renderStats(stats domain.Stats, s styles) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		s.title.Render("Platform Stats"),
		s.item.Render(fmt.Sprintf("tenants: %d", stats.TotalTenants)),
		s.item.Render(fmt.Sprintf("courses: %d", stats.TotalCourses)),
		s.item.Render(fmt.Sprintf("students: %s", groupThousands(stats.TotalStudents))),
		s.item.Render(fmt.Sprintf("active live sessions: %d", stats.ActiveLiveSessions)),
	)
}

func priorityLabel(p domain.Priority) string {
	if p == "" {
		return "info"
	}
	return string(p)
}

func renderProgressBar(percent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * clampPercent(percent) / 100))
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func groupThousands(n int) string {
	raw := fmt.Sprintf("%d", n)
	negative := strings.HasPrefix(raw, "-")
	raw = strings.TrimPrefix(raw, "-")

	var b strings.Builder
	for i, r := range raw {
		if i > 0 && (len(raw)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	if negative {
		return "-" + b.String()
	}
	return b.String()
}
