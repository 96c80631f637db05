package auth

import (
	"time"

	"gorm.io/gorm"
)

// UserRole represents the user_roles table
type UserRole struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	RoleName    string `gorm:"size:50;unique;not null" json:"role_name"`
	Description string `gorm:"size:255" json:"description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides table name for UserRole
func (UserRole) TableName() string {
	return "user_roles"
}

// User represents the users table
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	FullName     string `gorm:"size:255;not null" json:"full_name"`
	Email        string `gorm:"size:255;unique;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:15" json:"phone"`

	RoleID uint     `gorm:"not null" json:"role_id"`
	Role   UserRole `gorm:"foreignKey:RoleID" json:"role"`

	Status string `gorm:"size:20;default:active" json:"status"` // active/inactive

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides table name for User
func (User) TableName() string {
	return "users"
}
