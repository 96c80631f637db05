package auth

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedUserRoles inserts the fixed role set if missing
func SeedUserRoles(db *gorm.DB) error {
	roles := []UserRole{
		{RoleName: "admin", Description: "Theater administrator with full access"},
		{RoleName: "staff", Description: "Front desk staff with read access to bookings"},
		{RoleName: "customer", Description: "Registered customer"},
	}

	for _, role := range roles {
		var existing UserRole
		err := db.Where("role_name = ?", role.RoleName).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&role).Error; err != nil {
				return fmt.Errorf("failed to seed role %s: %w", role.RoleName, err)
			}
			fmt.Printf("✅ Seeded role: %s\n", role.RoleName)
		} else if err != nil {
			return err
		}
	}

	return nil
}

// SeedAdminUser creates the initial admin account from env, once
func SeedAdminUser(db *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		fmt.Println("⚠️  ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var existing User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil // already seeded
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	var role UserRole
	if err := db.Where("role_name = ?", "admin").First(&role).Error; err != nil {
		return fmt.Errorf("admin role missing: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := User{
		FullName:     "Theater Admin",
		Email:        email,
		PasswordHash: string(hash),
		RoleID:       role.ID,
		Status:       "active",
	}

	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	fmt.Printf("✅ Seeded admin user: %s\n", email)
	return nil
}
