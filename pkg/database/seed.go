package database

import (
	"fmt"
	"log"
	"time"

	"parley-chat/internal/domain/group"
	"parley-chat/internal/domain/user"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedConfig holds configuration for seeding the database
type SeedConfig struct {
	RealmName        string
	AdminEmail       string
	AdminPassword    string
	AdminDisplayName string
	CreateDemoUsers  bool
	DemoUserCount    int
}

// DefaultSeedConfig returns default seed configuration
func DefaultSeedConfig() *SeedConfig {
	return &SeedConfig{
		RealmName:        "parley",
		AdminEmail:       "admin@parley.chat",
		AdminPassword:    "Admin@123!",
		AdminDisplayName: "System Admin",
		CreateDemoUsers:  true,
		DemoUserCount:    5,
	}
}

// SeedResult holds the result of the seeding operation
type SeedResult struct {
	Realm     *user.Realm
	AdminUser *user.User
	DemoUsers []*user.User
	DemoGroup *group.UserGroup
}

// Seed creates a realm, an admin, demo members, and one starter group.
// It is idempotent: if the realm already exists, nothing is created.
func Seed(db *gorm.DB, cfg *SeedConfig) (*SeedResult, error) {
	if cfg == nil {
		cfg = DefaultSeedConfig()
	}

	var existing user.Realm
	if err := db.Where("name = ?", cfg.RealmName).First(&existing).Error; err == nil {
		log.Printf("Realm %q already seeded, skipping", cfg.RealmName)
		return &SeedResult{Realm: &existing}, nil
	}

	result := &SeedResult{}
	err := db.Transaction(func(tx *gorm.DB) error {
		realm := &user.Realm{
			Name:            cfg.RealmName,
			GroupEditPolicy: user.GroupEditPolicyMembers,
		}
		if err := tx.Create(realm).Error; err != nil {
			return fmt.Errorf("failed to create realm: %w", err)
		}
		result.Realm = realm

		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := &user.User{
			RealmID:      realm.ID,
			Email:        cfg.AdminEmail,
			PasswordHash: string(hash),
			DisplayName:  cfg.AdminDisplayName,
			Role:         user.RoleAdmin,
			IsActive:     true,
		}
		if err := tx.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
		result.AdminUser = admin

		if !cfg.CreateDemoUsers {
			return nil
		}

		memberIDs := []int64{admin.ID}
		for i := 1; i <= cfg.DemoUserCount; i++ {
			demoHash, err := bcrypt.GenerateFromPassword([]byte(fmt.Sprintf("Demo@%d!", i)), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			demo := &user.User{
				RealmID:      realm.ID,
				Email:        fmt.Sprintf("demo%d@parley.chat", i),
				PasswordHash: string(demoHash),
				DisplayName:  fmt.Sprintf("Demo User %d", i),
				Role:         user.RoleMember,
				IsActive:     true,
			}
			if err := tx.Create(demo).Error; err != nil {
				return fmt.Errorf("failed to create demo user: %w", err)
			}
			result.DemoUsers = append(result.DemoUsers, demo)
			memberIDs = append(memberIDs, demo.ID)
		}

		demoGroup := &group.UserGroup{
			RealmID:     realm.ID,
			Name:        "everyone",
			Description: "All seeded users",
		}
		if err := tx.Create(demoGroup).Error; err != nil {
			return fmt.Errorf("failed to create demo group: %w", err)
		}
		now := time.Now()
		for _, id := range memberIDs {
			m := group.Membership{GroupID: demoGroup.ID, UserID: id, JoinedAt: now}
			if err := tx.Create(&m).Error; err != nil {
				return err
			}
		}
		result.DemoGroup = demoGroup
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Seeded realm %q with admin %s", cfg.RealmName, cfg.AdminEmail)
	return result, nil
}
