package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"parley-chat/internal/domain/group"
	"parley-chat/internal/domain/user"
	"parley-chat/internal/events"
	"parley-chat/internal/repository"
	parley_errors "parley-chat/pkg/errors"
	"parley-chat/pkg/logger"

	"gorm.io/gorm"
)

// GroupListCache caches the per-realm group listing. Implemented by
// redis.CacheStore in production.
type GroupListCache interface {
	GetGroupList(ctx context.Context, realmID int64, out interface{}) (bool, error)
	SetGroupList(ctx context.Context, realmID int64, listing interface{}) error
	InvalidateGroupList(ctx context.Context, realmID int64) error
}

// EventPublisher emits serialized events on a channel. Implemented by
// redis.Publisher in production.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// GroupService implements realm-scoped user group management. Every public
// method takes the resolved caller identity and runs its authorization guard
// before touching state.
type GroupService struct {
	db        *gorm.DB
	repo      repository.GroupRepository
	userRepo  repository.UserRepository
	authz     *Authorizer
	cache     GroupListCache
	publisher EventPublisher
	log       *logger.Logger
}

func NewGroupService(
	db *gorm.DB,
	repo repository.GroupRepository,
	userRepo repository.UserRepository,
	authz *Authorizer,
	cache GroupListCache,
	publisher EventPublisher,
	log *logger.Logger,
) *GroupService {
	if log == nil {
		log = logger.NewNop()
	}
	return &GroupService{
		db:        db,
		repo:      repo,
		userRepo:  userRepo,
		authz:     authz,
		cache:     cache,
		publisher: publisher,
		log:       log,
	}
}

type CreateGroupInput struct {
	Name        string
	Description string
	MemberIDs   []int64
}

// GroupInfo is the serialized form of a group in listings.
type GroupInfo struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Members     []int64 `json:"members"`
}

// CreateGroup resolves the requested member ids within the caller's realm and
// creates the group together with its initial memberships in one transaction.
func (s *GroupService) CreateGroup(ctx context.Context, caller user.User, in CreateGroupInput) error {
	if err := s.authz.RequireGroupEditPermission(ctx, caller); err != nil {
		return err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return parley_errors.ErrInvalidInput
	}

	members, err := s.userRepo.GetUsersByIDs(ctx, caller.RealmID, in.MemberIDs)
	if err != nil {
		return err
	}

	var created group.UserGroup
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewGroupRepository(tx)

		g := group.UserGroup{
			RealmID:     caller.RealmID,
			Name:        name,
			Description: in.Description,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		if err := repo.Create(ctx, &g); err != nil {
			return err
		}

		ids := make([]int64, 0, len(members))
		for _, m := range members {
			ids = append(ids, m.ID)
		}
		if err := repo.AddMembers(ctx, g.ID, ids); err != nil {
			return err
		}
		created = g
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateListing(ctx, caller.RealmID)
	s.publishGroupEvent(ctx, caller.RealmID, events.GroupCreated, created.ID, map[string]interface{}{
		"name": created.Name,
	})
	return nil
}

// ListGroups returns every group of the caller's realm, fully serialized and
// ordered by id. The listing is served from the Redis cache when present.
func (s *GroupService) ListGroups(ctx context.Context, caller user.User) ([]GroupInfo, error) {
	if err := s.authz.RequireMemberOrAdmin(caller); err != nil {
		return nil, err
	}

	if s.cache != nil {
		var cached []GroupInfo
		if hit, err := s.cache.GetGroupList(ctx, caller.RealmID, &cached); err == nil && hit {
			return cached, nil
		}
	}

	groups, err := s.repo.ListByRealm(ctx, caller.RealmID)
	if err != nil {
		return nil, err
	}

	listing := make([]GroupInfo, 0, len(groups))
	for _, g := range groups {
		listing = append(listing, GroupInfo{
			ID:          g.ID,
			Name:        g.Name,
			Description: g.Description,
			Members:     g.MemberIDs(),
		})
	}

	if s.cache != nil {
		if err := s.cache.SetGroupList(ctx, caller.RealmID, listing); err != nil {
			s.log.Warnf("group listing cache write failed: %s", err)
		}
	}
	return listing, nil
}

// EditGroup renames and/or redescribes a group. Both fields empty is a
// validation error; each mutation is applied only when the new value differs
// from the current one.
func (s *GroupService) EditGroup(ctx context.Context, caller user.User, groupID int64, name, description string) error {
	if err := s.authz.RequireGroupEditPermission(ctx, caller); err != nil {
		return err
	}

	if name == "" && description == "" {
		return parley_errors.NoNewDataSupplied()
	}

	g, err := s.repo.GetByID(ctx, caller.RealmID, groupID)
	if err != nil {
		return err
	}

	if name != "" && name != g.Name {
		if err := s.repo.UpdateName(ctx, g.ID, name); err != nil {
			return err
		}
		s.publishGroupEvent(ctx, caller.RealmID, events.GroupRenamed, g.ID, map[string]interface{}{
			"name": name,
		})
	}

	if description != "" && description != g.Description {
		if err := s.repo.UpdateDescription(ctx, g.ID, description); err != nil {
			return err
		}
		s.publishGroupEvent(ctx, caller.RealmID, events.GroupRedescribed, g.ID, map[string]interface{}{
			"description": description,
		})
	}

	s.invalidateListing(ctx, caller.RealmID)
	return nil
}

// DeleteGroup checks access and deletes the group with its memberships in
// one call.
func (s *GroupService) DeleteGroup(ctx context.Context, caller user.User, groupID int64) error {
	if err := s.authz.RequireGroupEditPermission(ctx, caller); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, caller.RealmID, groupID); err != nil {
		return err
	}

	s.invalidateListing(ctx, caller.RealmID)
	s.publishGroupEvent(ctx, caller.RealmID, events.GroupDeleted, groupID, nil)
	return nil
}

// UpdateMembers runs the add and remove sub-operations independently and
// merges their payloads via ComposeResults. A failure in either sub-operation
// fails the request; mutations already applied by the other sub-operation
// are not rolled back.
func (s *GroupService) UpdateMembers(ctx context.Context, caller user.User, groupID int64, add, remove []int64) (map[string]interface{}, error) {
	if err := s.authz.RequireGroupEditPermission(ctx, caller); err != nil {
		return nil, err
	}

	if len(add) == 0 && len(remove) == 0 {
		return nil, parley_errors.NothingToDo()
	}

	thunks := []ResultThunk{
		func(ctx context.Context) (map[string]interface{}, error) {
			return s.addMembers(ctx, caller, groupID, add)
		},
		func(ctx context.Context) (map[string]interface{}, error) {
			return s.removeMembers(ctx, caller, groupID, remove)
		},
	}
	return ComposeResults(ctx, thunks)
}

// addMembers adds the resolved users to the group in one bulk insert. The
// membership check and the insert share a transaction, so two concurrent
// adds of the same user cannot both pass the check.
func (s *GroupService) addMembers(ctx context.Context, caller user.User, groupID int64, memberIDs []int64) (map[string]interface{}, error) {
	if len(memberIDs) == 0 {
		return map[string]interface{}{}, nil
	}

	if _, err := s.repo.GetByID(ctx, caller.RealmID, groupID); err != nil {
		return nil, err
	}
	members, err := s.userRepo.GetUsersByIDs(ctx, caller.RealmID, memberIDs)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewGroupRepository(tx)

		currentIDs, err := repo.GetDirectMemberIDs(ctx, groupID)
		if err != nil {
			return err
		}
		current := make(map[int64]bool, len(currentIDs))
		for _, id := range currentIDs {
			current[id] = true
		}

		ids := make([]int64, 0, len(members))
		for _, m := range members {
			if current[m.ID] {
				return parley_errors.AlreadyAMember(m.ID)
			}
			ids = append(ids, m.ID)
		}
		return repo.AddMembers(ctx, groupID, ids)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateListing(ctx, caller.RealmID)
	s.publishGroupEvent(ctx, caller.RealmID, events.GroupMembersChanged, groupID, map[string]interface{}{
		"added": memberIDs,
	})
	return map[string]interface{}{}, nil
}

// removeMembers removes the requested users from the group in one bulk
// delete, with the membership check in the same transaction.
func (s *GroupService) removeMembers(ctx context.Context, caller user.User, groupID int64, memberIDs []int64) (map[string]interface{}, error) {
	if len(memberIDs) == 0 {
		return map[string]interface{}{}, nil
	}

	members, err := s.userRepo.GetUsersByIDs(ctx, caller.RealmID, memberIDs)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByID(ctx, caller.RealmID, groupID); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewGroupRepository(tx)

		currentIDs, err := repo.GetDirectMemberIDs(ctx, groupID)
		if err != nil {
			return err
		}
		current := make(map[int64]bool, len(currentIDs))
		for _, id := range currentIDs {
			current[id] = true
		}

		for _, id := range memberIDs {
			if !current[id] {
				return parley_errors.NoSuchMember(id)
			}
		}

		ids := make([]int64, 0, len(members))
		for _, m := range members {
			ids = append(ids, m.ID)
		}
		return repo.RemoveMembers(ctx, groupID, ids)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateListing(ctx, caller.RealmID)
	s.publishGroupEvent(ctx, caller.RealmID, events.GroupMembersChanged, groupID, map[string]interface{}{
		"removed": memberIDs,
	})
	return map[string]interface{}{}, nil
}

func (s *GroupService) invalidateListing(ctx context.Context, realmID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateGroupList(ctx, realmID); err != nil {
		s.log.Warnf("group listing cache invalidation failed: %s", err)
	}
}

// publishGroupEvent emits a group change event on the realm channel.
// Best-effort: a publish failure is logged, never surfaced to the caller.
func (s *GroupService) publishGroupEvent(ctx context.Context, realmID int64, eventType string, groupID int64, payload map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	env, err := events.NewGroupEnvelope(eventType, groupID, payload)
	if err != nil {
		s.log.Errorf("group event marshal failed: %s", err)
		return
	}
	raw, err := json.Marshal(env)
	if err != nil {
		s.log.Errorf("group event marshal failed: %s", err)
		return
	}
	if err := s.publisher.Publish(ctx, events.RealmChannel(realmID), raw); err != nil {
		s.log.Warnf("group event publish failed: %s", err)
	}
}
