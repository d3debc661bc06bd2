package connection

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"social/infrastructure"
	"social/internal/user"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusConnected Status = "Connected"
	StatusBlocked   Status = "Blocked"
	StatusMuted     Status = "Muted"
	StatusFavourite Status = "Favourite"
)

var statuses = []Status{StatusPending, StatusConnected, StatusBlocked, StatusMuted, StatusFavourite}

// ParseStatus matches raw against the known statuses, ignoring case and surrounding space.
func ParseStatus(raw string) (Status, error) {
	raw = strings.TrimSpace(raw)
	for _, s := range statuses {
		if strings.EqualFold(raw, string(s)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", infrastructure.ErrUnsupportedConnectionStatus, raw)
}

func (s Status) Valid() bool {
	for _, known := range statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Connection is a bidirectional relationship between two accounts. The pair is unordered.
type Connection struct {
	ID       uuid.UUID
	Account1 user.Account
	Account2 user.Account
	Status   Status
}

// New creates a Pending connection between two distinct accounts.
func New(a, b user.Account) (*Connection, error) {
	if a.ID == b.ID {
		return nil, fmt.Errorf("%w: an account cannot connect to itself", infrastructure.ErrInvalidInput)
	}
	return &Connection{
		ID:       uuid.New(),
		Account1: a,
		Account2: b,
		Status:   StatusPending,
	}, nil
}

// SetStatus moves the connection to raw. Any state may move to any other; setting the
// current status reports changed == false so callers can skip persistence. An unknown
// status leaves the connection untouched.
func (c *Connection) SetStatus(raw string) (changed bool, err error) {
	status, err := ParseStatus(raw)
	if err != nil {
		return false, err
	}
	if status == c.Status {
		return false, nil
	}
	c.Status = status
	return true, nil
}

// Involves reports whether id is one of the two parties.
func (c *Connection) Involves(id uuid.UUID) bool {
	return c.Account1.ID == id || c.Account2.ID == id
}

// Matches reports whether the connection joins a and b, in either order.
func (c *Connection) Matches(a, b uuid.UUID) bool {
	return (c.Account1.ID == a && c.Account2.ID == b) || (c.Account1.ID == b && c.Account2.ID == a)
}

// Other returns the party that is not id.
func (c *Connection) Other(id uuid.UUID) (user.Account, bool) {
	switch id {
	case c.Account1.ID:
		return c.Account2, true
	case c.Account2.ID:
		return c.Account1, true
	}
	return user.Account{}, false
}

func (c *Connection) Accounts() []user.Account {
	return []user.Account{c.Account1, c.Account2}
}

type View struct {
	ID       uuid.UUID    `json:"id"`
	Account1 user.Account `json:"account1"`
	Account2 user.Account `json:"account2"`
	Status   string       `json:"status"`
}

func (c *Connection) View() View {
	return View{ID: c.ID, Account1: c.Account1, Account2: c.Account2, Status: string(c.Status)}
}
