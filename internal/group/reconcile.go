package group

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"social/infrastructure"
	"social/internal/user"
)

// Diff is the edit that turns a membership into a target id list.
type Diff struct {
	Remove []uuid.UUID
	Add    []uuid.UUID
}

func (d Diff) Empty() bool {
	return len(d.Remove) == 0 && len(d.Add) == 0
}

// Plan computes the members of g missing from target and the target ids not yet in g.
// Repeated target ids count once.
func Plan(g *Group, target []uuid.UUID) Diff {
	wanted := make(map[uuid.UUID]struct{}, len(target))
	for _, id := range target {
		wanted[id] = struct{}{}
	}

	var d Diff
	for _, u := range g.Users {
		if _, ok := wanted[u.ID]; !ok {
			d.Remove = append(d.Remove, u.ID)
		}
	}

	seen := make(map[uuid.UUID]struct{}, len(target))
	for _, id := range target {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if !g.HasUser(id) {
			d.Add = append(d.Add, id)
		}
	}
	return d
}

// AccountResolver looks accounts up by id. Unknown ids are left out of the result.
type AccountResolver interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*user.Account, error)
}

// Membership reports what a reconciliation did.
type Membership struct {
	Removed []user.Account
	Added   []user.Account
	// Empty is set when no member is left. Deleting the group is up to the caller.
	Empty bool
}

func (m Membership) Changed() bool {
	return len(m.Removed) > 0 || len(m.Added) > 0
}

// Reconcile brings the members of g to exactly target. Every id to add is resolved before
// g is touched, so an unknown id returns ErrUserNotFound with g unchanged. Remaining members
// keep their order and additions follow in target order.
func Reconcile(ctx context.Context, g *Group, target []uuid.UUID, accounts AccountResolver) (Membership, error) {
	diff := Plan(g, target)

	var additions []user.Account
	if len(diff.Add) > 0 {
		found, err := accounts.GetByIDs(ctx, diff.Add)
		if err != nil {
			return Membership{}, err
		}
		byID := make(map[uuid.UUID]user.Account, len(found))
		for _, a := range found {
			if a != nil {
				byID[a.ID] = *a
			}
		}
		additions = make([]user.Account, 0, len(diff.Add))
		for _, id := range diff.Add {
			a, ok := byID[id]
			if !ok {
				return Membership{}, fmt.Errorf("%w: %s", infrastructure.ErrUserNotFound, id)
			}
			additions = append(additions, a)
		}
	}

	var m Membership
	for _, id := range diff.Remove {
		for _, u := range g.Users {
			if u.ID == id {
				m.Removed = append(m.Removed, u)
				break
			}
		}
		g.RemoveUser(id)
	}
	for _, a := range additions {
		if g.AddUser(a) {
			m.Added = append(m.Added, a)
		}
	}
	m.Empty = g.Empty()
	return m, nil
}
