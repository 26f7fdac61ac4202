package repository

import (
	"context"
	"errors"

	"parley-chat/internal/domain/user"
	parley_errors "parley-chat/pkg/errors"

	"gorm.io/gorm"
)

type PostgresUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u *user.User) error {
	res := r.db.WithContext(ctx).Create(u)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return parley_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id int64) (user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.User{}, parley_errors.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.User{}, parley_errors.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func (r *PostgresUserRepository) UpdateUser(ctx context.Context, u user.User) error {
	res := r.db.WithContext(ctx).Save(&u)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return parley_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) GetUsersByIDs(ctx context.Context, realmID int64, ids []int64) ([]user.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var users []user.User
	err := r.db.WithContext(ctx).
		Where("realm_id = ? AND is_active = ? AND id IN ?", realmID, true, ids).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	found := make(map[int64]user.User, len(users))
	for _, u := range users {
		found[u.ID] = u
	}

	// Preserve request order and dedupe; the first unresolvable id fails
	// the whole lookup.
	seen := make(map[int64]bool, len(ids))
	resolved := make([]user.User, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		u, ok := found[id]
		if !ok {
			return nil, parley_errors.InvalidUserID(id)
		}
		resolved = append(resolved, u)
	}
	return resolved, nil
}

func (r *PostgresUserRepository) CreateRealm(ctx context.Context, realm *user.Realm) error {
	res := r.db.WithContext(ctx).Create(realm)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return parley_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresUserRepository) GetRealmByID(ctx context.Context, id int64) (user.Realm, error) {
	var realm user.Realm
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&realm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.Realm{}, parley_errors.ErrNotFound
		}
		return user.Realm{}, err
	}
	return realm, nil
}
