// Package browse is the interactive terminal view over search results.
package browse

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/resumesmartx/resumesmartx/internal/model"
	"github.com/resumesmartx/resumesmartx/internal/service"
)

// Lines per listing in the list view (title + subtitle + blank separator).
const listingItemHeight = 3

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")) // bright blue

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(0, 1)

	fallbackBannerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("214")).
				Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	listingTitleStyle = lipgloss.NewStyle().
				Bold(true)

	listingSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	selectedSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("24"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(14)

	detailValueStyle = lipgloss.NewStyle()

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)
)

type browseModel struct {
	resp     service.Response
	listVP   viewport.Model
	detailVP viewport.Model
	cursor   int
	width    int
	height   int
	ready    bool
	view     viewState
	opener   func(url string) error
	notice   string
	wantQuit bool
}

func newBrowseModel(resp service.Response) browseModel {
	return browseModel{resp: resp, opener: openURL}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateListView(msg)
	}
	return m, nil
}

func (m browseModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "b":
		m.wantQuit = false
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		return m, nil
	case "enter":
		if len(m.resp.Listings) == 0 {
			return m, nil
		}
		m.view = viewDetail
		m.notice = ""
		m.detailVP = viewport.New(max(m.width-4, 20), max(m.height-4, 5))
		m.detailVP.SetContent(m.renderDetail())
		return m, nil
	case "o":
		m.openSelected()
		return m, nil
	}

	var cmd tea.Cmd
	m.listVP, cmd = m.listVP.Update(msg)
	return m, cmd
}

func (m browseModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		return m, nil
	case "o":
		m.openSelected()
		m.detailVP.SetContent(m.renderDetail())
		return m, nil
	}

	var cmd tea.Cmd
	m.detailVP, cmd = m.detailVP.Update(msg)
	return m, cmd
}

func (m *browseModel) openSelected() {
	if len(m.resp.Listings) == 0 {
		return
	}
	link := m.resp.Listings[m.cursor].ApplyLink
	if link == "" || link == model.PlaceholderLink {
		m.notice = "this listing has no apply link"
		return
	}
	if err := m.opener(link); err != nil {
		m.notice = fmt.Sprintf("could not open browser: %v", err)
		return
	}
	m.notice = "opened " + link
}

func (m *browseModel) moveCursor(delta int) {
	m.cursor = clamp(m.cursor+delta, 0, max(len(m.resp.Listings)-1, 0))
	m.listVP.SetContent(renderListings(m.resp.Listings, m.cursor))

	cursorTop := m.cursor * listingItemHeight
	cursorBottom := cursorTop + listingItemHeight - 1
	if cursorTop < m.listVP.YOffset {
		m.listVP.SetYOffset(cursorTop)
	} else if cursorBottom >= m.listVP.YOffset+m.listVP.Height {
		m.listVP.SetYOffset(cursorBottom - m.listVP.Height + 1)
	}
}

func (m *browseModel) recalcLayout() {
	// Header (1 line) + border top/bottom (2) + status bar (1) = 4 lines overhead.
	width := max(m.width-2, 20)
	height := max(m.height-4, 5)

	if !m.ready {
		m.listVP = viewport.New(width, height)
		m.ready = true
	} else {
		m.listVP.Width = width
		m.listVP.Height = height
	}
	m.listVP.SetContent(renderListings(m.resp.Listings, m.cursor))

	if m.view == viewDetail {
		m.detailVP.Width = max(m.width-4, 20)
		m.detailVP.Height = height
		m.detailVP.SetContent(m.renderDetail())
	}
}

func (m browseModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.view == viewDetail {
		return m.viewDetail()
	}
	return m.viewList()
}

func (m browseModel) viewList() string {
	header := headerStyle.Render(fmt.Sprintf("Jobs for %q via %s (%d)", m.resp.Query, m.resp.Provider, len(m.resp.Listings)))
	if m.resp.Fallback {
		header += " " + fallbackBannerStyle.Render("no live results, showing samples")
	}

	pane := borderStyle.Width(m.listVP.Width).Render(m.listVP.View())

	statusText := " ↑/↓ cursor  enter detail  o open link  esc back  q quit"
	if m.notice != "" {
		statusText = " " + m.notice + "  |" + statusText
	}
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return header + "\n" + pane + "\n" + statusBar
}

func (m browseModel) viewDetail() string {
	title := detailTitleStyle.Render("Job Details")
	content := borderStyle.Width(m.width - 2).Render(m.detailVP.View())
	statusBar := statusBarStyle.Width(m.width).Render(" o open link  esc/backspace back  ↑/↓ scroll  q quit")
	return title + "\n" + content + "\n" + statusBar
}

func (m browseModel) renderDetail() string {
	if len(m.resp.Listings) == 0 {
		return ""
	}
	l := m.resp.Listings[m.cursor]
	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(detailValueStyle.Render(value))
		b.WriteByte('\n')
	}

	addField("Title", l.Title)
	addField("Company", l.Company)
	addField("Location", l.Location)
	if l.ApplyLink != model.PlaceholderLink {
		addField("Apply Link", l.ApplyLink)
	}

	b.WriteByte('\n')
	addField("Source", m.resp.Provider)
	addField("Query", m.resp.Query)
	if len(m.resp.Skills) > 0 {
		addField("Skills", strings.Join(m.resp.Skills, ", "))
	}

	if m.resp.Fallback {
		b.WriteByte('\n')
		b.WriteString(hintStyle.Render("  sample listing shown because no provider returned results") + "\n")
	}
	if m.notice != "" {
		b.WriteByte('\n')
		b.WriteString(hintStyle.Render("  "+m.notice) + "\n")
	}
	return b.String()
}

func renderListings(listings []model.JobListing, cursor int) string {
	if len(listings) == 0 {
		return "  (no jobs)"
	}

	var b strings.Builder
	for i, l := range listings {
		titleSt := listingTitleStyle
		subtitleSt := listingSubtitleStyle
		prefix := "  "
		if i == cursor {
			titleSt = selectedTitleStyle
			subtitleSt = selectedSubtitleStyle
			prefix = "> "
		}

		b.WriteString(prefix)
		b.WriteString(titleSt.Render(l.Title))
		b.WriteByte('\n')

		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(fmt.Sprintf("%s · %s", orDash(l.Company), orDash(l.Location))))
		b.WriteByte('\n')

		if i < len(listings)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
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

// openURL opens url in the default system browser without waiting for it.
func openURL(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return fmt.Errorf("unsupported platform %s", runtime.GOOS)
	}
	return cmd.Start()
}

// RunBrowser launches the full-screen results view.
// Returns wantQuit=true if the user pressed q/ctrl+c, false if they pressed
// esc to go back to the picker.
func RunBrowser(resp service.Response) (bool, error) {
	p := tea.NewProgram(newBrowseModel(resp), tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return false, err
	}
	final := result.(browseModel)
	return final.wantQuit, nil
}
