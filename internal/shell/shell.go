package shell

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// NavigateMsg asks the shell to navigate, like following a router link.
type NavigateMsg struct {
	Path string
}

// Navigate returns a command producing a NavigateMsg.
func Navigate(path string) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Path: path} }
}

// StatusMsg sets the shell's status line. A non-nil Err is shown instead of
// Text.
type StatusMsg struct {
	Text string
	Err  error
}

// Shell is the root bubbletea model.
type Shell struct {
	router  *Router
	links   []NavLink
	keys    keyMap
	help    help.Model
	logger  *zap.Logger
	start   string
	current string
	active  Route
	width   int
	height  int
	status  StatusMsg
}

// Option configures a Shell.
type Option func(*Shell)

// WithStartPath sets the path navigated to on Init.
func WithStartPath(p string) Option {
	return func(s *Shell) { s.start = p }
}

// WithLogger sets the logger for navigation events.
func WithLogger(l *zap.Logger) Option {
	return func(s *Shell) { s.logger = l }
}

// New builds the shell over router. The brand path redirects to the dashboard
// unless the router already says otherwise.
func New(router *Router, opts ...Option) *Shell {
	if _, ok := router.redirects[BrandPath]; !ok {
		if _, ok := router.routes[BrandPath]; !ok {
			router.Redirect(BrandPath, DashboardPath)
		}
	}
	links := make([]NavLink, len(Links))
	copy(links, Links)
	s := &Shell{
		router: router,
		links:  links,
		keys:   newKeyMap(links),
		help:   help.New(),
		logger: zap.NewNop(),
		start:  BrandPath,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Shell) Title() string { return Title }

// Links returns a copy of the nav links.
func (s *Shell) Links() []NavLink {
	out := make([]NavLink, len(s.links))
	copy(out, s.links)
	return out
}

// Current is the resolved path of the active route; empty before the first
// successful navigation.
func (s *Shell) Current() string { return s.current }

// IsActive reports whether l should be highlighted for the current route.
func (s *Shell) IsActive(l NavLink) bool {
	return s.current != "" && l.Active(s.current)
}

// Status returns the current status line message.
func (s *Shell) Status() StatusMsg { return s.status }

// Navigate activates the route for path. An unknown path keeps the current
// route and reports the router's error in the status line.
func (s *Shell) Navigate(path string) tea.Cmd {
	resolved, route, err := s.router.Resolve(path)
	if err != nil {
		s.logger.Warn("navigation failed", zap.String("path", path), zap.Error(err))
		s.status = StatusMsg{Err: err}
		return nil
	}
	s.logger.Debug("navigate", zap.String("path", path), zap.String("resolved", resolved))
	s.current = resolved
	s.active = route
	s.status = StatusMsg{}
	return route.Activate(resolved)
}

func (s *Shell) Init() tea.Cmd {
	var cmds []tea.Cmd
	for _, r := range s.router.Routes() {
		cmds = append(cmds, r.Init())
	}
	cmds = append(cmds, s.Navigate(s.start))
	return tea.Batch(cmds...)
}

func (s *Shell) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		s.width, s.height = m.Width, m.Height
		s.help.Width = m.Width
		return s, s.broadcast(msg)
	case NavigateMsg:
		return s, s.Navigate(m.Path)
	case StatusMsg:
		s.status = m
		return s, nil
	case tea.KeyMsg:
		return s, s.handleKey(m)
	}
	return s, s.broadcast(msg)
}

func (s *Shell) handleKey(m tea.KeyMsg) tea.Cmd {
	if c, ok := s.active.(InputCapturer); ok && c.Capturing() {
		if m.Type == tea.KeyCtrlC {
			return tea.Quit
		}
		return s.active.Update(m)
	}
	switch {
	case key.Matches(m, s.keys.Quit):
		return tea.Quit
	case key.Matches(m, s.keys.Next):
		return s.Navigate(s.links[(s.activeIndex()+1)%len(s.links)].Path)
	case key.Matches(m, s.keys.Prev):
		i := s.activeIndex() - 1
		if i < 0 {
			i = len(s.links) - 1
		}
		return s.Navigate(s.links[i].Path)
	case key.Matches(m, s.keys.Brand):
		return s.Navigate(BrandPath)
	}
	for i, b := range s.keys.Jump {
		if key.Matches(m, b) {
			return s.Navigate(s.links[i].Path)
		}
	}
	if s.active == nil {
		return nil
	}
	return s.active.Update(m)
}

// activeIndex is the index of the active link, or -1.
func (s *Shell) activeIndex() int {
	for i, l := range s.links {
		if s.IsActive(l) {
			return i
		}
	}
	return -1
}

// broadcast sends non-key messages to every route so results of commands
// started by an inactive route still arrive.
func (s *Shell) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, r := range s.router.Routes() {
		cmds = append(cmds, r.Update(msg))
	}
	return tea.Batch(cmds...)
}

func (s *Shell) View() string {
	nav := s.renderNav()
	heading := headingStyle.Render(Title)
	status := s.renderStatus()

	outlet := ""
	if s.active != nil {
		h := s.height - lipgloss.Height(nav) - lipgloss.Height(heading) - lipgloss.Height(status)
		if h < 0 {
			h = 0
		}
		w := s.width - containerStyle.GetHorizontalFrameSize()
		if w < 0 {
			w = 0
		}
		outlet = s.active.View(w, h)
	}
	body := containerStyle.Render(lipgloss.JoinVertical(lipgloss.Left, heading, outlet))
	return lipgloss.JoinVertical(lipgloss.Left, nav, body, status)
}

func (s *Shell) renderNav() string {
	parts := []string{brandStyle.Render(Title)}
	for _, l := range s.links {
		style := tabStyle
		if s.IsActive(l) {
			style = activeTabStyle
		}
		parts = append(parts, style.Render(l.Label))
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	style := navBarStyle
	if s.width > 0 {
		style = style.Width(s.width)
	}
	return style.Render(bar)
}

func (s *Shell) renderStatus() string {
	switch {
	case s.status.Err != nil:
		return errorStyle.Render("error: " + s.status.Err.Error())
	case s.status.Text != "":
		return statusStyle.Render(s.status.Text)
	}
	return s.help.ShortHelpView(s.keys.ShortHelp())
}
