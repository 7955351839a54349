package config

import (
	"time"

	"familybank/internal/adapters/persistence/models"
	"familybank/internal/core/domain"
	"familybank/internal/pkg/password"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SeedAdmin creates the default admin account when no admin exists yet.
// Development convenience only; production admins should be created
// through a secure process.
func SeedAdmin(db *gorm.DB) error {
	var count int64
	db.Model(&models.Member{}).Where("role = ?", string(domain.RoleAdmin)).Count(&count)
	if count > 0 {
		return nil
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.Member{
		Username:  "admin",
		Name:      "Administrator",
		Email:     "admin@familybank.local",
		Password:  hashedPassword,
		Role:      string(domain.RoleAdmin),
		Status:    string(domain.MemberActive),
		StartDate: time.Now(),
	}

	if err := db.Create(admin).Error; err != nil {
		return err
	}

	logrus.WithField("username", admin.Username).Info("admin account seeded")
	return nil
}
