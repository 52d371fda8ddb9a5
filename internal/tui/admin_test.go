package tui

import (
	"context"
	"net/http"
	"testing"
	"time"

	"restaurant-site/internal/client"
	"restaurant-site/pkg/models"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

type backend struct {
	token        string
	loginErr     error
	ordersErr    error
	reservations []models.Reservation
}

func (b *backend) Login(ctx context.Context, username, password string) (string, error) {
	if b.loginErr != nil {
		return "", b.loginErr
	}
	b.token = "tok"
	return b.token, nil
}

func (b *backend) Token() string { return b.token }

func (b *backend) ListOrders(ctx context.Context) ([]models.Order, error) {
	if b.ordersErr != nil {
		return nil, b.ordersErr
	}
	return []models.Order{{ID: 1, TotalAmount: decimal.NewFromInt(16), CreatedAt: time.Now()}}, nil
}

func (b *backend) ListReservations(ctx context.Context) ([]models.Reservation, error) {
	return b.reservations, nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run applies msg and, like the runtime, feeds back the result of a login
// or load command. Other commands such as cursor blinks are dropped.
func run(t *testing.T, m AdminModel, msg tea.Msg) AdminModel {
	t.Helper()
	before := m.Mode()
	next, cmd := m.Update(msg)
	m = next.(AdminModel)
	if cmd == nil {
		return m
	}

	keyMsg, isKey := msg.(tea.KeyMsg)
	loggingIn := before == ModeLogin && isKey && keyMsg.Type == tea.KeyEnter
	if !loggingIn && m.Mode() != ModeLoading {
		return m
	}

	switch out := cmd().(type) {
	case loggedInMsg, loadedMsg:
		return run(t, m, out)
	case tea.BatchMsg:
		for _, c := range out {
			if c == nil {
				continue
			}
			if res, ok := c().(loadedMsg); ok {
				return run(t, m, res)
			}
		}
	}
	return m
}

func TestLoginThenBrowse(t *testing.T) {
	b := &backend{reservations: []models.Reservation{
		{ID: 1, Date: "2030-05-02", Time: "19:00", Guests: 2},
		{ID: 2, Date: "2030-05-01", Time: "12:00", Guests: 9},
	}}
	m := NewAdminModel(b, language.English)
	require.Equal(t, ModeLogin, m.Mode())

	m = run(t, m, key("enter"))
	assert.Equal(t, ModeBrowse, m.Mode())
	assert.Equal(t, 2, m.view.Reservations.Len())
	assert.Contains(t, m.View(), "Reservations")

	m = run(t, m, key("7"))
	assert.Equal(t, "guests", m.view.Reservations.Sort().Key)

	m = run(t, m, key("/"))
	assert.Equal(t, ModeFilter, m.Mode())
	m = run(t, m, key("12:00"))
	m = run(t, m, key("enter"))
	assert.Equal(t, ModeBrowse, m.Mode())
	assert.Equal(t, 1, m.view.Reservations.Len())

	m = run(t, m, key("tab"))
	assert.Equal(t, 1, m.view.Orders.Len())
	assert.Empty(t, m.filter.Value(), "each list keeps its own filter")
}

func TestLoginRejected(t *testing.T) {
	b := &backend{loginErr: &client.APIError{Status: http.StatusUnauthorized, Message: "Invalid username or password"}}
	m := run(t, NewAdminModel(b, language.English), key("enter"))

	assert.Equal(t, ModeLogin, m.Mode())
	assert.Contains(t, m.View(), "Invalid username or password")
}

func TestOneListFailingShowsTheOther(t *testing.T) {
	b := &backend{
		token:        "tok",
		ordersErr:    &client.APIError{Status: http.StatusInternalServerError, Message: "Error fetching orders"},
		reservations: []models.Reservation{{ID: 3, Date: "2030-05-01", Time: "19:00", Guests: 4}},
	}
	m := NewAdminModel(b, language.English)
	require.Equal(t, ModeLoading, m.Mode())

	m = run(t, m, loadedMsg{err: m.view.Load(context.Background(), b)})
	assert.Equal(t, ModeBrowse, m.Mode())
	assert.Equal(t, 1, m.view.Reservations.Len())

	m = run(t, m, key("tab"))
	assert.Contains(t, m.View(), "Server error. Please try again later.")
}

func TestExpiredSessionReturnsToLogin(t *testing.T) {
	b := &backend{token: "old", ordersErr: &client.APIError{Status: http.StatusForbidden}}
	m := NewAdminModel(b, language.English)

	m = run(t, m, loadedMsg{err: m.view.Load(context.Background(), b)})
	assert.Equal(t, ModeLogin, m.Mode())
	assert.Contains(t, m.View(), "Session expired")
}

func TestQuit(t *testing.T) {
	b := &backend{token: "tok"}
	m := NewAdminModel(b, language.English)
	m = run(t, m, loadedMsg{err: m.view.Load(context.Background(), b)})

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
