package repository

import (
	"context"
	"errors"
	"time"

	"parley-chat/internal/domain/group"
	parley_errors "parley-chat/pkg/errors"

	"gorm.io/gorm"
)

type PostgresGroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &PostgresGroupRepository{db: db}
}

func (r *PostgresGroupRepository) Create(ctx context.Context, g *group.UserGroup) error {
	res := r.db.WithContext(ctx).Create(g)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return parley_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresGroupRepository) GetByID(ctx context.Context, realmID, id int64) (group.UserGroup, error) {
	var g group.UserGroup
	err := r.db.WithContext(ctx).
		Preload("Memberships", func(db *gorm.DB) *gorm.DB {
			return db.Order("group_memberships.id ASC")
		}).
		Where("realm_id = ? AND id = ?", realmID, id).
		First(&g).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return group.UserGroup{}, parley_errors.ErrNotFound
		}
		return group.UserGroup{}, err
	}
	return g, nil
}

func (r *PostgresGroupRepository) ListByRealm(ctx context.Context, realmID int64) ([]group.UserGroup, error) {
	var groups []group.UserGroup
	err := r.db.WithContext(ctx).
		Preload("Memberships", func(db *gorm.DB) *gorm.DB {
			return db.Order("group_memberships.id ASC")
		}).
		Where("realm_id = ?", realmID).
		Order("id ASC").
		Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *PostgresGroupRepository) UpdateName(ctx context.Context, id int64, name string) error {
	res := r.db.WithContext(ctx).
		Model(&group.UserGroup{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"name": name, "updated_at": time.Now()})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return parley_errors.ErrAlreadyExists
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return parley_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresGroupRepository) UpdateDescription(ctx context.Context, id int64, description string) error {
	res := r.db.WithContext(ctx).
		Model(&group.UserGroup{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"description": description, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return parley_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresGroupRepository) Delete(ctx context.Context, realmID, id int64) error {
	// Memberships go first so the delete also works on backends without
	// cascading foreign keys.
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var g group.UserGroup
		err := tx.Where("realm_id = ? AND id = ?", realmID, id).First(&g).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return parley_errors.ErrNotFound
			}
			return err
		}
		if err := tx.Delete(&group.Membership{}, "group_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&group.UserGroup{}, "id = ?", id).Error
	})
}

func (r *PostgresGroupRepository) GetDirectMemberIDs(ctx context.Context, groupID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&group.Membership{}).
		Where("group_id = ?", groupID).
		Order("id ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PostgresGroupRepository) AddMembers(ctx context.Context, groupID int64, userIDs []int64) error {
	if len(userIDs) == 0 {
		return nil
	}
	memberships := make([]group.Membership, 0, len(userIDs))
	now := time.Now()
	for _, userID := range userIDs {
		memberships = append(memberships, group.Membership{
			GroupID:  groupID,
			UserID:   userID,
			JoinedAt: now,
		})
	}
	res := r.db.WithContext(ctx).Create(&memberships)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return parley_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresGroupRepository) RemoveMembers(ctx context.Context, groupID int64, userIDs []int64) error {
	if len(userIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Delete(&group.Membership{}, "group_id = ? AND user_id IN ?", groupID, userIDs).Error
}
