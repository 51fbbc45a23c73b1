// Package review is the interactive terminal view over a collection run: all
// merged jobs on the left, the ones the local title filter keeps on the right.
package review

import (
	"fmt"
	"html"
	"os/exec"
	"regexp"
	"runtime"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/autotouch/outbound/internal/model"
)

// Lines per job item in the list view (title + subtitle + blank separator).
const itemHeight = 3

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

const (
	paneAll = iota
	paneMatched
)

var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39"))

	inactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	activeHeaderStyle   = headerStyle.Foreground(lipgloss.Color("39"))
	inactiveHeaderStyle = headerStyle.Foreground(lipgloss.Color("240"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	jobTitleStyle    = lipgloss.NewStyle().Bold(true)
	jobSubtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	selectedJobTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	selectedJobSubtitleStyle = lipgloss.NewStyle().
					Foreground(lipgloss.Color("252")).
					Background(lipgloss.Color("24"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(16)

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	dividerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	descBodyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// browse opens URLs; tests replace it.
var browse = openURL

type reviewModel struct {
	title   string
	all     []model.Record
	matched []model.Record
	panes   [2]viewport.Model
	cursors [2]int
	active  int
	width   int
	height  int
	ready   bool

	view            viewState
	detail          model.Record
	detailViewport  viewport.Model
	showDescription bool

	wantQuit bool
}

func newReviewModel(title string, all, matched []model.Record) reviewModel {
	return reviewModel{title: title, all: all, matched: matched}
}

func (m reviewModel) Init() tea.Cmd {
	return nil
}

func (m reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		if m.view == viewDetail {
			m.detailViewport.Width = m.width - 4
			m.detailViewport.Height = m.height - 4
			m.detailViewport.SetContent(m.renderDetail())
		}
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateListView(msg)
	}
	return m, nil
}

func (m reviewModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "b":
		return m, tea.Quit
	case "tab", "left", "right":
		m.active = 1 - m.active
		m.recalcContent()
		return m, nil
	case "up", "k":
		m.moveCursor(-1)
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		return m, nil
	case "enter":
		return m.openDetailView(), nil
	}

	var cmd tea.Cmd
	m.panes[m.active], cmd = m.panes[m.active].Update(msg)
	return m, cmd
}

func (m reviewModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		return m, nil
	case "o":
		if u := recordURL(m.detail); u != "" {
			browse(u)
		}
		return m, nil
	case "r":
		if description(m.detail) != "" {
			m.showDescription = !m.showDescription
			m.detailViewport.SetContent(m.renderDetail())
			m.detailViewport.SetYOffset(0)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m reviewModel) records(pane int) []model.Record {
	if pane == paneAll {
		return m.all
	}
	return m.matched
}

func (m *reviewModel) moveCursor(delta int) {
	n := len(m.records(m.active))
	m.cursors[m.active] = clamp(m.cursors[m.active]+delta, 0, max(n-1, 0))
	m.recalcContent()

	vp := &m.panes[m.active]
	top := m.cursors[m.active] * itemHeight
	bottom := top + itemHeight - 1
	if top < vp.YOffset {
		vp.SetYOffset(top)
	} else if bottom >= vp.YOffset+vp.Height {
		vp.SetYOffset(bottom - vp.Height + 1)
	}
}

func (m reviewModel) openDetailView() reviewModel {
	records := m.records(m.active)
	if len(records) == 0 {
		return m
	}
	m.view = viewDetail
	m.detail = records[m.cursors[m.active]]
	m.showDescription = false
	m.detailViewport = viewport.New(max(m.width-4, 20), max(m.height-4, 5))
	m.detailViewport.SetContent(m.renderDetail())
	return m
}

func (m *reviewModel) recalcLayout() {
	// 2 border chars per pane + 1 gap between panes.
	paneWidth := max((m.width-5)/2, 20)
	// Header (1 line) + border top/bottom (2) + status bar (1).
	paneHeight := max(m.height-4, 5)

	for i := range m.panes {
		if !m.ready {
			m.panes[i] = viewport.New(paneWidth, paneHeight)
			continue
		}
		m.panes[i].Width = paneWidth
		m.panes[i].Height = paneHeight
	}
	m.ready = true
	m.recalcContent()
}

func (m *reviewModel) recalcContent() {
	for i := range m.panes {
		m.panes[i].SetContent(renderRecords(m.records(i), m.cursors[i], m.active == i))
	}
}

func (m reviewModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.view == viewDetail {
		return m.viewDetail()
	}
	return m.viewList()
}

func (m reviewModel) viewList() string {
	paneWidth := m.panes[paneAll].Width

	headers := [2]string{
		fmt.Sprintf(" All Jobs (%d)", len(m.all)),
		fmt.Sprintf(" %s Matches (%d)", m.title, len(m.matched)),
	}
	var renderedHeaders, renderedPanes [2]string
	for i := range m.panes {
		hs, bs := inactiveHeaderStyle, inactiveBorderStyle
		if m.active == i {
			hs, bs = activeHeaderStyle, activeBorderStyle
		}
		renderedHeaders[i] = lipgloss.NewStyle().Width(paneWidth + 2).Render(hs.Render(headers[i]))
		renderedPanes[i] = bs.Width(paneWidth).Render(m.panes[i].View())
	}

	headerRow := lipgloss.JoinHorizontal(lipgloss.Top, renderedHeaders[0], " ", renderedHeaders[1])
	panes := lipgloss.JoinHorizontal(lipgloss.Top, renderedPanes[0], " ", renderedPanes[1])

	status := fmt.Sprintf(" %d total | %d matched | %d filtered out    ←/→/Tab switch  ↑/↓ cursor  Enter detail  Esc back  q quit",
		len(m.all), len(m.matched), len(m.all)-len(m.matched))
	return headerRow + "\n" + panes + "\n" + statusBarStyle.Width(m.width).Render(status)
}

func (m reviewModel) viewDetail() string {
	title := detailTitleStyle.Render("Job Details")
	content := activeBorderStyle.Width(m.width - 2).Render(m.detailViewport.View())

	status := " o open URL  esc/backspace back  ↑/↓ scroll  q quit"
	if description(m.detail) != "" {
		status = " o open URL  r desc  esc/backspace back  ↑/↓ scroll  q quit"
	}
	return title + "\n" + content + "\n" + statusBarStyle.Width(m.width).Render(status)
}

func (m reviewModel) renderDetail() string {
	r := m.detail
	var b strings.Builder

	addField := func(label string, value any) {
		s := model.Stringify(value)
		if s == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(s)
		b.WriteByte('\n')
	}
	deref := func(p *string) any {
		if p == nil {
			return nil
		}
		return *p
	}
	_ = deref

	addField("Title", r.JobTitle)
	addField("Company", r.Company)
	addField("Location", r.Location)
	addField("Posted At", r.PostedAt)
	addField("Employment", r.EmploymentType)
	addField("Seniority", r.Seniority)
	addField("Remote", r.Remote)
	addField("Employees", r.CompanyEmployeeCount)

	b.WriteByte('\n')
	addField("Key", r.UnknownID)
	addField("Sources", r.Sources)
	addField("Keywords", r.Keywords)
	addField("Window", string(r.Window))

	b.WriteByte('\n')
	jobURL, applyURL := model.Stringify(r.JobURL), model.Stringify(r.ExternalApplyURL)
	addField("Job URL", jobURL)
	if applyURL != jobURL {
		addField("Apply URL", applyURL)
	}
	addField("Website", r.Website)
	addField("Domain", r.CompanyDomain)
	addField("LinkedIn", r.CompanyLinkedInURL)

	if desc := description(r); desc != "" {
		wrapWidth := max(m.width-8, 20)
		b.WriteByte('\n')
		if m.showDescription {
			label := "── Job Description "
			b.WriteString(dividerStyle.Render(label+strings.Repeat("─", max(wrapWidth-len(label), 3))) + "\n\n")
			b.WriteString(descBodyStyle.Render(wordWrap(desc, wrapWidth)) + "\n")
		} else {
			b.WriteString(hintStyle.Render("  press r to read job description") + "\n")
		}
	}

	return b.String()
}

func renderRecords(records []model.Record, cursor int, isActive bool) string {
	if len(records) == 0 {
		return "  (no jobs)"
	}

	var b strings.Builder
	for i, r := range records {
		titleSt, subtitleSt, prefix := jobTitleStyle, jobSubtitleStyle, "  "
		if isActive && i == cursor {
			titleSt, subtitleSt, prefix = selectedJobTitleStyle, selectedJobSubtitleStyle, "> "
		}

		title := r.Title()
		if title == "" {
			title = "(untitled)"
		}
		b.WriteString(prefix + titleSt.Render(title) + "\n")

		posted := postedDate(r)
		if posted == "" {
			posted = "n/a"
		}
		sub := fmt.Sprintf("%s · %s · %s", r.CompanyName(), r.LocationText(), posted)
		b.WriteString(prefix + subtitleSt.Render(sub) + "\n")

		if i < len(records)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// postedDate returns the date part of an ISO-8601 posted_at value.
func postedDate(r model.Record) string {
	s := model.Stringify(r.PostedAt)
	if len(s) >= 10 && s[4] == '-' && s[7] == '-' {
		return s[:10]
	}
	return s
}

// sortByPosted orders records newest first. ISO-8601 timestamps compare
// correctly as strings; records without one sink to the bottom.
func sortByPosted(records []model.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := model.Stringify(records[i].PostedAt), model.Stringify(records[j].PostedAt)
		if a == "" || b == "" {
			return a != "" && b == ""
		}
		return a > b
	})
}

func recordURL(r model.Record) string {
	if u := model.Stringify(r.JobURL); u != "" {
		return u
	}
	return model.Stringify(r.ExternalApplyURL)
}

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// description returns the job description as plain text. Providers send
// anything from plain text to double-encoded HTML.
func description(r model.Record) string {
	unescaped := html.UnescapeString(model.Stringify(r.JobDescription))
	plain := htmlTagRegex.ReplaceAllString(unescaped, " ")
	return strings.Join(strings.Fields(plain), " ")
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// Run launches the split-pane review screen. title names the filter behind
// the right-hand pane. It returns wantQuit=true if the user pressed q/ctrl+c,
// false if they pressed esc to go back to the picker.
func Run(title string, all, matched []model.Record) (bool, error) {
	all = append([]model.Record(nil), all...)
	matched = append([]model.Record(nil), matched...)
	sortByPosted(all)
	sortByPosted(matched)

	result, err := tea.NewProgram(newReviewModel(title, all, matched), tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	return result.(reviewModel).wantQuit, nil
}
