package setup

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"miniblog/internal/domain"
)

var demoUsers = []struct {
	Username string
	Password string
}{
	{"ejemplo", "ejemplo"},
	{"admin", "admin"},
}

// SeedDemoUsers inserts the demo accounts when the users table is empty.
// Guarding on the row count instead of a file-existence check keeps the
// step idempotent and free of filesystem races.
func SeedDemoUsers(db *gorm.DB, log *logrus.Logger) error {
	var count int64
	if err := db.Model(&domain.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, cred := range demoUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(cred.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password for %q: %w", cred.Username, err)
		}
		user := &domain.User{Username: cred.Username, Password: string(hash)}
		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("failed to seed user %q: %w", cred.Username, err)
		}
		log.Infof("Added default user: %s", cred.Username)
	}
	return nil
}
