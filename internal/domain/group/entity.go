package group

import (
	"time"
)

// UserGroup represents the user_groups table. Name is unique within its
// realm, enforced by a composite unique index.
type UserGroup struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	RealmID     int64  `gorm:"uniqueIndex:idx_user_groups_realm_name;not null"`
	Name        string `gorm:"uniqueIndex:idx_user_groups_realm_name;not null"`
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Relationships
	Memberships []Membership `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
}

// Membership represents the group_memberships table, one row per direct
// (group, user) pair.
type Membership struct {
	ID       int64 `gorm:"primaryKey;autoIncrement"`
	GroupID  int64 `gorm:"uniqueIndex:idx_group_memberships_group_user;not null"`
	UserID   int64 `gorm:"uniqueIndex:idx_group_memberships_group_user;not null"`
	JoinedAt time.Time
}

// MemberIDs returns the direct member ids of the group in membership order.
func (g UserGroup) MemberIDs() []int64 {
	ids := make([]int64, 0, len(g.Memberships))
	for _, m := range g.Memberships {
		ids = append(ids, m.UserID)
	}
	return ids
}
