package user

import (
	"time"
)

// Roles a user can hold within a realm.
const (
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
	RoleGuest  = "GUEST"
)

// Who may create, edit, and delete user groups in a realm.
const (
	GroupEditPolicyMembers = "MEMBERS"
	GroupEditPolicyAdmins  = "ADMINS"
)

// Realm represents the realms table. A realm is the tenant boundary: users,
// groups, and group names are scoped to it.
type Realm struct {
	ID              int64  `gorm:"primaryKey;autoIncrement"`
	Name            string `gorm:"uniqueIndex;not null"`
	GroupEditPolicy string `gorm:"not null;default:MEMBERS"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// User represents the users table.
type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	RealmID      int64  `gorm:"index;not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string
	DisplayName  string
	Role         string `gorm:"not null;default:MEMBER"`
	IsActive     bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u User) IsGuest() bool {
	return u.Role == RoleGuest
}
