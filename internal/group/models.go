package group

import (
	"github.com/google/uuid"

	"social/internal/user"
)

// Group is a named membership list. Users never holds the same id twice.
type Group struct {
	ID          uuid.UUID
	Name        string
	Description string
	Users       []user.Account
}

// New builds a group with members in the given order; repeated ids are dropped.
func New(name, description string, members []user.Account) *Group {
	g := &Group{ID: uuid.New(), Name: name, Description: description}
	for _, m := range members {
		g.AddUser(m)
	}
	return g
}

// AddUser appends a unless a member with the same id exists.
func (g *Group) AddUser(a user.Account) bool {
	if g.HasUser(a.ID) {
		return false
	}
	g.Users = append(g.Users, a)
	return true
}

// RemoveUser drops the member with id, keeping the order of the others.
func (g *Group) RemoveUser(id uuid.UUID) bool {
	for i, u := range g.Users {
		if u.ID == id {
			g.Users = append(g.Users[:i:i], g.Users[i+1:]...)
			return true
		}
	}
	return false
}

func (g *Group) HasUser(id uuid.UUID) bool {
	for _, u := range g.Users {
		if u.ID == id {
			return true
		}
	}
	return false
}

func (g *Group) MemberIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(g.Users))
	for i, u := range g.Users {
		ids[i] = u.ID
	}
	return ids
}

// UpdateInfo replaces name and description and reports whether either differed.
func (g *Group) UpdateInfo(name, description string) bool {
	if g.Name == name && g.Description == description {
		return false
	}
	g.Name = name
	g.Description = description
	return true
}

func (g *Group) Empty() bool {
	return len(g.Users) == 0
}

type View struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	MemberIDs   []uuid.UUID    `json:"member_ids"`
	Members     []user.Account `json:"members"`
}

func (g *Group) View() View {
	members := make([]user.Account, len(g.Users))
	copy(members, g.Users)
	return View{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		MemberIDs:   g.MemberIDs(),
		Members:     members,
	}
}
