package services

import (
	"context"

	"parley-chat/internal/domain/user"
	"parley-chat/internal/repository"
	parley_errors "parley-chat/pkg/errors"
)

// Authorizer holds the explicit guard functions invoked at the start of each
// group handler path. Guards take the already-resolved caller identity and
// return nil or a forbidden error; they never mutate state.
type Authorizer struct {
	userRepo repository.UserRepository
}

func NewAuthorizer(userRepo repository.UserRepository) *Authorizer {
	return &Authorizer{userRepo: userRepo}
}

// RequireMemberOrAdmin allows full members and admins; guests are denied.
func (a *Authorizer) RequireMemberOrAdmin(caller user.User) error {
	if caller.IsGuest() {
		return parley_errors.ErrForbidden
	}
	return nil
}

// RequireGroupEditPermission allows group mutations according to the realm's
// edit policy: admins always, members only when the policy is MEMBERS,
// guests never.
func (a *Authorizer) RequireGroupEditPermission(ctx context.Context, caller user.User) error {
	if caller.IsGuest() {
		return parley_errors.ErrForbidden
	}
	if caller.IsAdmin() {
		return nil
	}

	realm, err := a.userRepo.GetRealmByID(ctx, caller.RealmID)
	if err != nil {
		return err
	}
	if realm.GroupEditPolicy == user.GroupEditPolicyAdmins {
		return parley_errors.ErrForbidden
	}
	return nil
}
