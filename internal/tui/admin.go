package tui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"restaurant-site/internal/admin"
	"restaurant-site/internal/client"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
)

// Mode is the screen the admin panel shows.
type Mode int

const (
	ModeLogin Mode = iota
	ModeLoading
	ModeBrowse
	ModeFilter
)

const loadTimeout = 10 * time.Second

// Backend is what the panel needs from the API client.
type Backend interface {
	admin.Source
	Login(ctx context.Context, username, password string) (string, error)
	Token() string
}

// AdminModel is the Bubbletea model of the staff panel.
type AdminModel struct {
	mode     Mode
	backend  Backend
	view     *admin.View
	tab      int
	username textinput.Model
	password textinput.Model
	filter   textinput.Model
	spinner  spinner.Model
	loginErr string
	width    int
}

func NewAdminModel(backend Backend, tag language.Tag) AdminModel {
	username := textinput.New()
	username.Placeholder = "username"
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	filter := textinput.New()
	filter.Placeholder = "search"
	filter.Prompt = "/ "

	m := AdminModel{
		mode:     ModeLogin,
		backend:  backend,
		view:     admin.NewView(tag),
		username: username,
		password: password,
		filter:   filter,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	if backend.Token() != "" {
		m.mode = ModeLoading
	}
	return m
}

type loggedInMsg struct{ err error }

type loadedMsg struct{ err error }

func loginCmd(backend Backend, username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		_, err := backend.Login(ctx, username, password)
		return loggedInMsg{err: err}
	}
}

func loadCmd(backend Backend, view *admin.View) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		return loadedMsg{err: view.Load(ctx, backend)}
	}
}

func (m AdminModel) Init() tea.Cmd {
	if m.mode == ModeLoading {
		return tea.Batch(m.spinner.Tick, loadCmd(m.backend, m.view))
	}
	return textinput.Blink
}

func (m AdminModel) Mode() Mode {
	return m.mode
}

func (m AdminModel) View() string {
	switch m.mode {
	case ModeLogin:
		return m.loginView()
	case ModeLoading:
		return boxStyle.Render(m.spinner.View() + " Loading orders and reservations...")
	default:
		return m.browseView()
	}
}

// listing returns the active tab's listing and its last error.
func (m AdminModel) listing() (*admin.Listing, string, error) {
	if m.tab == 0 {
		return m.view.Reservations, "Reservations", m.view.ReservationsErr
	}
	return m.view.Orders, "Orders", m.view.OrdersErr
}

func (m AdminModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loggedInMsg:
		if msg.err != nil {
			m.loginErr = client.Describe(msg.err)
			var apiErr *client.APIError
			if errors.As(msg.err, &apiErr) && apiErr.Message != "" {
				m.loginErr = apiErr.Message
			}
			return m, nil
		}
		m.loginErr = ""
		m.mode = ModeLoading
		return m, tea.Batch(m.spinner.Tick, loadCmd(m.backend, m.view))

	case loadedMsg:
		if expired(m.view.OrdersErr) || expired(m.view.ReservationsErr) {
			m.mode = ModeLogin
			m.loginErr = client.Describe(&client.APIError{Status: http.StatusUnauthorized})
			m.password.SetValue("")
			return m, nil
		}
		m.mode = ModeBrowse
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case ModeLogin:
			return m.updateLogin(msg)
		case ModeBrowse:
			return m.updateBrowse(msg)
		case ModeFilter:
			return m.updateFilter(msg)
		}
	}
	return m, nil
}

func expired(err error) bool {
	var apiErr *client.APIError
	return errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden)
}

func (m AdminModel) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		if m.username.Focused() {
			m.username.Blur()
			return m, m.password.Focus()
		}
		m.password.Blur()
		return m, m.username.Focus()
	case "enter":
		return m, loginCmd(m.backend, m.username.Value(), m.password.Value())
	case "esc":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	if m.username.Focused() {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m AdminModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	listing, _, _ := m.listing()

	switch key := msg.String(); key {
	case "q", "esc":
		return m, tea.Quit
	case "tab":
		m.tab = (m.tab + 1) % 2
		current, _, _ := m.listing()
		m.filter.SetValue(current.Filter())
	case "right", "l", "n":
		listing.NextPage()
	case "left", "h", "p":
		listing.PrevPage()
	case "r":
		m.mode = ModeLoading
		return m, tea.Batch(m.spinner.Tick, loadCmd(m.backend, m.view))
	case "/":
		m.mode = ModeFilter
		m.filter.SetValue(listing.Filter())
		return m, m.filter.Focus()
	default:
		// 1-9 sort by the matching column.
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			idx := int(key[0] - '1')
			if cols := listing.Columns(); idx < len(cols) {
				listing.Toggle(cols[idx].Key)
			}
		}
	}
	return m, nil
}

func (m AdminModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	listing, _, _ := m.listing()

	switch msg.String() {
	case "enter", "esc":
		m.mode = ModeBrowse
		m.filter.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	listing.SetFilter(m.filter.Value())
	return m, cmd
}

func (m AdminModel) loginView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Staff login"))
	b.WriteString("\n")
	b.WriteString(m.username.View())
	b.WriteString("\n")
	b.WriteString(m.password.View())
	if m.loginErr != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.loginErr))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(FormatKey("tab", "switch field") + " • " + FormatKey("enter", "log in") + " • " + FormatKey("esc", "quit")))
	return boxStyle.Render(b.String())
}

func (m AdminModel) browseView() string {
	var b strings.Builder

	tabs := []string{"Reservations", "Orders"}
	for i, name := range tabs {
		if i == m.tab {
			tabs[i] = activeTabStyle.Render(name)
		} else {
			tabs[i] = inactiveTabStyle.Render(name)
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	listing, name, err := m.listing()
	if m.mode == ModeFilter || listing.Filter() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
	}

	if err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("%s: %s", name, client.Describe(err))))
		b.WriteString("\n")
	}

	b.WriteString(renderTable(listing))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Page %d of %d", listing.PageNumber(), listing.PageCount())))
	b.WriteString(mutedStyle.Render(fmt.Sprintf(" • %d matching", listing.Len())))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(
		FormatKey("tab", "switch list") + " • " +
			FormatKey("←/→", "page") + " • " +
			FormatKey("1-9", "sort") + " • " +
			FormatKey("/", "filter") + " • " +
			FormatKey("r", "reload") + " • " +
			FormatKey("q", "quit")))

	return b.String()
}

func renderTable(listing *admin.Listing) string {
	cols := listing.Columns()
	rows := listing.Page()

	widths := make([]int, len(cols))
	header := make([]string, len(cols))
	sort := listing.Sort()
	for i, c := range cols {
		header[i] = fmt.Sprintf("%d %s", i+1, c.Title)
		if c.Key == sort.Key {
			if sort.Direction == admin.Asc {
				header[i] += " ▲"
			} else {
				header[i] += " ▼"
			}
		}
		widths[i] = lipgloss.Width(header[i])
	}

	cells := make([][]string, len(rows))
	for r, rec := range rows {
		cells[r] = make([]string, len(cols))
		for i, c := range cols {
			cells[r][i] = admin.Text(rec[c.Key])
			widths[i] = max(widths[i], lipgloss.Width(cells[r][i]))
		}
	}

	var b strings.Builder
	for i, h := range header {
		b.WriteString(headerStyle.Width(widths[i] + 2).Render(h))
	}
	b.WriteString("\n")
	if len(rows) == 0 {
		b.WriteString(mutedStyle.Render("Nothing to show"))
		b.WriteString("\n")
	}
	for _, row := range cells {
		for i, cell := range row {
			b.WriteString(cellStyle.Width(widths[i] + 2).Render(cell))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RunAdminUI starts the staff panel against backend.
func RunAdminUI(backend Backend, tag language.Tag) error {
	p := tea.NewProgram(NewAdminModel(backend, tag), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
