package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/devbush/ad2video/internal/application"
	"github.com/devbush/ad2video/internal/domain"
)

const (
	emptyListHint = "No videos generated yet. Submit a URL above!"
	titleWidth    = 40
)

type focusArea int

const (
	focusInput focusArea = iota
	focusList
)

// Messages
type stateMsg application.ViewState
type pollMsg time.Time

// DashboardConfig wires the dashboard to the application layer
type DashboardConfig struct {
	Controller  *application.Controller
	Downloads   *application.DownloadService
	DownloadDir string
	// CopyToClipboard defaults to the system clipboard
	CopyToClipboard func(string) error
}

// DashboardModel is the interactive single page: URL input, preview and video list
type DashboardModel struct {
	ctrl        *application.Controller
	downloads   *application.DownloadService
	downloadDir string
	copyText    func(string) error

	ctx    context.Context
	cancel context.CancelFunc

	state   application.ViewState
	input   textinput.Model
	spinner spinner.Model
	help    help.Model

	focus   focusArea
	cursor  int
	confirm *confirmRequestMsg
	saving  bool
	width   int
}

// NewDashboardModel creates the dashboard
func NewDashboardModel(cfg DashboardConfig) DashboardModel {
	ctx, cancel := context.WithCancel(context.Background())

	input := textinput.New()
	input.Placeholder = "https://shop.example.com/product/123"
	input.Prompt = "> "
	input.CharLimit = 2048
	input.Width = 60
	input.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorAccent)

	copyText := cfg.CopyToClipboard
	if copyText == nil {
		copyText = clipboard.WriteAll
	}

	return DashboardModel{
		ctrl:        cfg.Controller,
		downloads:   cfg.Downloads,
		downloadDir: cfg.DownloadDir,
		copyText:    copyText,
		ctx:         ctx,
		cancel:      cancel,
		state:       cfg.Controller.State(),
		input:       input,
		spinner:     s,
		help:        help.New(),
	}
}

func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.fetch(),
		m.schedulePoll(),
	)
}

// run executes fn off the UI goroutine and reports the resulting state
func (m DashboardModel) run(fn func(ctx context.Context)) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		fn(ctx)
		return stateMsg(ctrl.State())
	}
}

func (m DashboardModel) fetch() tea.Cmd {
	ctrl := m.ctrl
	return m.run(ctrl.FetchVideoList)
}

func (m DashboardModel) schedulePoll() tea.Cmd {
	return tea.Tick(m.ctrl.PollInterval(), func(t time.Time) tea.Msg {
		return pollMsg(t)
	})
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case stateMsg:
		m.apply(application.ViewState(msg))
		return m, nil

	case pollMsg:
		if m.ctx.Err() != nil {
			return m, nil
		}
		return m, tea.Batch(m.fetch(), m.schedulePoll())

	case spinner.TickMsg:
		// Spinner ticks double as a UI refresh for in-flight requests
		m.apply(m.ctrl.State())
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case confirmRequestMsg:
		if m.confirm != nil {
			msg.reply <- false
			return m, nil
		}
		m.confirm = &msg
		return m, nil

	case savedMsg:
		m.saving = false
		m.apply(m.ctrl.State())
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// apply adopts a controller snapshot unless a newer one is already shown
func (m *DashboardModel) apply(s application.ViewState) {
	if s.Version < m.state.Version {
		return
	}
	m.state = s
	if m.input.Value() != s.ProductURL {
		m.input.SetValue(s.ProductURL)
	}
	if m.cursor >= len(s.VideoList) {
		m.cursor = max(len(s.VideoList)-1, 0)
	}
}

func (m DashboardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Abort) {
		return m.quit()
	}

	if m.confirm != nil {
		switch {
		case key.Matches(msg, keys.Yes):
			m.confirm.reply <- true
			m.confirm = nil
		case key.Matches(msg, keys.No):
			m.confirm.reply <- false
			m.confirm = nil
		}
		return m, nil
	}

	if key.Matches(msg, keys.Focus) {
		m.toggleFocus()
		return m, nil
	}

	if m.focus == focusInput {
		return m.handleInputKey(msg)
	}
	return m.handleListKey(msg)
}

func (m *DashboardModel) toggleFocus() {
	if m.focus == focusInput {
		m.focus = focusList
		m.input.Blur()
		return
	}
	m.focus = focusInput
	m.input.Focus()
}

func (m DashboardModel) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Submit):
		if m.state.IsLoading {
			return m, nil
		}
		productURL := strings.TrimSpace(m.input.Value())
		ctrl := m.ctrl
		return m, m.run(func(ctx context.Context) {
			ctrl.SubmitGeneration(ctx, productURL)
		})

	case msg.Type == tea.KeyEsc:
		m.toggleFocus()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != m.state.ProductURL {
		m.ctrl.SetProductURL(v)
		m.state = m.ctrl.State()
	}
	return m, cmd
}

func (m DashboardModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctrl := m.ctrl

	switch {
	case key.Matches(msg, keys.Quit):
		return m.quit()

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.state.VideoList)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, keys.Refresh):
		return m, m.fetch()

	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	video := m.selected()
	if video == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Preview):
		if video.HasFile() {
			ctrl.SelectForPreview(video.VideoFilename)
			m.apply(ctrl.State())
		}
		return m, nil

	case key.Matches(msg, keys.Open):
		filename := video.VideoFilename
		return m, m.run(func(context.Context) {
			ctrl.RequestDownload(filename)
		})

	case key.Matches(msg, keys.Copy):
		if !video.HasFile() {
			return m, nil
		}
		if err := m.copyText(ctrl.VideoURL(video.VideoFilename)); err != nil {
			ctrl.Notify("", fmt.Sprintf("Could not copy link: %v", err))
		} else {
			ctrl.Notify("Video link copied to clipboard.", "")
		}
		m.apply(ctrl.State())
		return m, nil

	case key.Matches(msg, keys.Save):
		if !video.HasFile() || m.saving || m.downloads == nil {
			return m, nil
		}
		m.saving = true
		return m, m.save(video.VideoFilename)

	case key.Matches(msg, keys.Delete):
		if !video.CanDelete() {
			return m, nil
		}
		id, title := video.ID, video.DisplayTitle()
		return m, m.run(func(ctx context.Context) {
			ctrl.DeleteVideo(ctx, id, title)
		})
	}

	return m, nil
}

type savedMsg struct{}

func (m DashboardModel) save(filename string) tea.Cmd {
	ctrl, downloads, dir, ctx := m.ctrl, m.downloads, m.downloadDir, m.ctx
	return func() tea.Msg {
		result, err := downloads.Download(ctx, filename, dir, application.DownloadOptions{})
		switch {
		case err != nil:
			ctrl.Notify("", fmt.Sprintf("Could not save video: %v", err))
		case result.FromCache:
			ctrl.Notify(fmt.Sprintf("Saved %s (%s, from cache).", result.Path, FormatSize(result.Size)), "")
		default:
			ctrl.Notify(fmt.Sprintf("Saved %s (%s).", result.Path, FormatSize(result.Size)), "")
		}
		return savedMsg{}
	}
}

func (m DashboardModel) quit() (tea.Model, tea.Cmd) {
	if m.confirm != nil {
		m.confirm.reply <- false
		m.confirm = nil
	}
	m.cancel()
	m.ctrl.Close()
	return m, tea.Quit
}

func (m DashboardModel) selected() *domain.VideoRecord {
	if m.cursor < 0 || m.cursor >= len(m.state.VideoList) {
		return nil
	}
	v := m.state.VideoList[m.cursor]
	return &v
}

func (m DashboardModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("AI Video Ad Generator"))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Product page URL"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.state.IsLoading {
		b.WriteString(m.spinner.View() + " Generating...\n")
	}
	if m.saving {
		b.WriteString(m.spinner.View() + " Saving video...\n")
	}
	if m.state.StatusMessage != "" {
		b.WriteString(statusStyle.Render(m.state.StatusMessage))
		b.WriteString("\n")
	}
	if m.state.Error != nil {
		b.WriteString(errorStyle.Render("Error: " + m.state.Error.Display()))
		b.WriteString("\n")
	}

	if f := m.state.CurrentVideoFilename; f != "" {
		b.WriteString("\n")
		preview := fmt.Sprintf("Now previewing: %s\n%s\n%s",
			f,
			mutedStyle.Render(m.ctrl.VideoURL(f)),
			mutedStyle.Render("o: open download • s: save • c: copy link"))
		b.WriteString(previewStyle.Render(preview))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Generated Videos"))
	b.WriteString("\n")
	b.WriteString(m.renderList())

	b.WriteString("\n")
	if m.confirm != nil {
		b.WriteString(confirmStyle.Render(m.confirm.prompt + "\n\n" + mutedStyle.Render("y: confirm • n/esc: cancel")))
	} else {
		b.WriteString(m.help.View(keys))
	}
	b.WriteString("\n")

	return b.String()
}

func (m DashboardModel) renderList() string {
	if len(m.state.VideoList) == 0 {
		return mutedStyle.Render(emptyListHint) + "\n"
	}

	var b strings.Builder
	for i := range m.state.VideoList {
		v := &m.state.VideoList[i]

		cursor := "  "
		style := normalStyle
		if m.focus == focusList && i == m.cursor {
			cursor = "> "
			style = selectedStyle
		}

		title := Truncate(v.DisplayTitle(), titleWidth)
		line := fmt.Sprintf("%-*s", titleWidth, title)
		status := statusColor(string(v.Status)).Render(fmt.Sprintf("%-13s", FormatStatus(v.Status)))
		date := mutedStyle.Render(FormatDate(v.CreatedAt.Local()))
		marker := ""
		if v.VideoFilename != "" && v.VideoFilename == m.state.CurrentVideoFilename {
			marker = " ▶"
		}

		b.WriteString(cursor + style.Render(line) + "  " + status + "  " + date + marker + "\n")
	}
	return b.String()
}

// RunDashboard runs the dashboard until the user quits
func RunDashboard(cfg DashboardConfig, confirmer *Confirmer) error {
	model := NewDashboardModel(cfg)
	p := tea.NewProgram(model, tea.WithAltScreen())
	confirmer.Attach(p)
	defer confirmer.Attach(nil)

	_, err := p.Run()
	model.cancel()
	cfg.Controller.Close()
	return err
}
