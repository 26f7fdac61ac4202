package repository

import (
	"context"

	"parley-chat/internal/domain/group"
	"parley-chat/internal/domain/user"
)

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetUserByID(ctx context.Context, id int64) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
	UpdateUser(ctx context.Context, u user.User) error

	// GetUsersByIDs resolves ids to active users of the given realm. Every
	// requested id must resolve; the first id that does not is returned in
	// the error.
	GetUsersByIDs(ctx context.Context, realmID int64, ids []int64) ([]user.User, error)

	CreateRealm(ctx context.Context, r *user.Realm) error
	GetRealmByID(ctx context.Context, id int64) (user.Realm, error)
}

type GroupRepository interface {
	Create(ctx context.Context, g *group.UserGroup) error
	GetByID(ctx context.Context, realmID, id int64) (group.UserGroup, error)
	ListByRealm(ctx context.Context, realmID int64) ([]group.UserGroup, error)
	UpdateName(ctx context.Context, id int64, name string) error
	UpdateDescription(ctx context.Context, id int64, description string) error
	Delete(ctx context.Context, realmID, id int64) error

	GetDirectMemberIDs(ctx context.Context, groupID int64) ([]int64, error)
	AddMembers(ctx context.Context, groupID int64, userIDs []int64) error
	RemoveMembers(ctx context.Context, groupID int64, userIDs []int64) error
}
