package group

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"social/infrastructure"
	"social/internal/logging"
	"social/internal/user"
)

// ConversationStarter opens the conversation that belongs to a new group.
type ConversationStarter interface {
	StartGroupConversation(ctx context.Context, g *Group) error
}

type UseCase struct {
	groups        Repository
	users         user.Repository
	conversations ConversationStarter
}

func NewUseCase(groups Repository, users user.Repository, conversations ConversationStarter) *UseCase {
	return &UseCase{groups: groups, users: users, conversations: conversations}
}

// MembershipUpdate is the outcome of UpdateMembers. Deleted is set when the group ended up
// without members and was removed.
type MembershipUpdate struct {
	Group   *Group
	Added   []user.Account
	Removed []user.Account
	Deleted bool
}

// Create makes a group owned by creatorID. The creator is always the first member.
func (uc *UseCase) Create(ctx context.Context, creatorID uuid.UUID, name, description string, memberIDs []uuid.UUID) (*Group, error) {
	ids := append([]uuid.UUID{creatorID}, memberIDs...)
	found, err := uc.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]user.Account, len(found))
	for _, a := range found {
		byID[a.ID] = *a
	}

	members := make([]user.Account, 0, len(ids))
	for _, id := range ids {
		a, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", infrastructure.ErrUserNotFound, id)
		}
		members = append(members, a)
	}

	g := New(name, description, members)
	if err := uc.groups.Create(ctx, g); err != nil {
		return nil, err
	}
	if err := uc.conversations.StartGroupConversation(ctx, g); err != nil {
		if delErr := uc.groups.Delete(ctx, g.ID); delErr != nil {
			logging.Ctx(ctx).Error().Err(delErr).Str("group_id", g.ID.String()).Msg("failed to remove group without conversation")
		}
		return nil, err
	}

	logging.Ctx(ctx).Info().
		Str("group_id", g.ID.String()).
		Int("members", len(g.Users)).
		Msg("group created")
	return g, nil
}

// Get returns group id if viewerID is a member.
func (uc *UseCase) Get(ctx context.Context, id, viewerID uuid.UUID) (*Group, error) {
	return uc.memberGroup(ctx, id, viewerID)
}

func (uc *UseCase) ListForUser(ctx context.Context, userID uuid.UUID) ([]*Group, error) {
	if _, err := uc.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return uc.groups.ListForUser(ctx, userID)
}

// UpdateInfo renames the group. Nothing is written when name and description are unchanged.
func (uc *UseCase) UpdateInfo(ctx context.Context, id, actorID uuid.UUID, name, description string) (*Group, bool, error) {
	g, err := uc.memberGroup(ctx, id, actorID)
	if err != nil {
		return nil, false, err
	}
	if !g.UpdateInfo(name, description) {
		return g, false, nil
	}
	if err := uc.save(ctx, g); err != nil {
		return nil, false, err
	}
	return g, true, nil
}

// UpdateMembers reconciles the members of group id to targetIDs. A group left without
// members is deleted.
func (uc *UseCase) UpdateMembers(ctx context.Context, id, actorID uuid.UUID, targetIDs []uuid.UUID) (MembershipUpdate, error) {
	g, err := uc.memberGroup(ctx, id, actorID)
	if err != nil {
		return MembershipUpdate{}, err
	}

	m, err := Reconcile(ctx, g, targetIDs, uc.users)
	if err != nil {
		return MembershipUpdate{}, err
	}
	out := MembershipUpdate{Group: g, Added: m.Added, Removed: m.Removed}

	log := logging.Ctx(ctx).With().Str("group_id", g.ID.String()).Logger()
	switch {
	case m.Empty:
		if err := uc.groups.Delete(ctx, g.ID); err != nil {
			return MembershipUpdate{}, fmt.Errorf("%w: %v", infrastructure.ErrGroupUpdateFailed, err)
		}
		out.Deleted = true
		log.Info().Msg("group deleted after losing all members")
	case m.Changed():
		if err := uc.save(ctx, g); err != nil {
			return MembershipUpdate{}, err
		}
		log.Info().Int("added", len(m.Added)).Int("removed", len(m.Removed)).Msg("group members updated")
	}
	return out, nil
}

func (uc *UseCase) Delete(ctx context.Context, id, actorID uuid.UUID) error {
	if _, err := uc.memberGroup(ctx, id, actorID); err != nil {
		return err
	}
	if err := uc.groups.Delete(ctx, id); err != nil {
		return err
	}
	logging.Ctx(ctx).Info().Str("group_id", id.String()).Msg("group deleted")
	return nil
}

func (uc *UseCase) memberGroup(ctx context.Context, id, actorID uuid.UUID) (*Group, error) {
	g, err := uc.groups.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !g.HasUser(actorID) {
		return nil, fmt.Errorf("%w: %s is not a member of group %s", infrastructure.ErrUnauthorized, actorID, id)
	}
	return g, nil
}

func (uc *UseCase) save(ctx context.Context, g *Group) error {
	err := uc.groups.Update(ctx, g)
	if err == nil || errors.Is(err, infrastructure.ErrGroupUpdateFailed) {
		return err
	}
	return fmt.Errorf("%w: %v", infrastructure.ErrGroupUpdateFailed, err)
}
