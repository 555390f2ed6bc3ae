package model

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User represents an authenticated user in the system
type User struct {
	BaseModel
	Username   string      `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Password   string      `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	FullName   string      `gorm:"type:varchar(255)" json:"full_name"`
	IsAdmin    bool        `gorm:"default:false" json:"is_admin"`
	IsActive   bool        `gorm:"not null" json:"is_active"`
	RoleID     *uint       `gorm:"index" json:"role_id"`
	Role       *Role       `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Privileges []Privilege `gorm:"many2many:user_privileges;" json:"privileges,omitempty"`
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// HasPrivilege reports whether the privilege code is explicitly granted.
// It ignores IsAdmin; see authz.HasCapability for the full rule.
func (u *User) HasPrivilege(code string) bool {
	for _, p := range u.Privileges {
		if p.Code == code {
			return true
		}
	}
	return false
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID           uuid.UUID       `json:"id"`
	Username     string          `json:"username"`
	FullName     string          `json:"full_name"`
	IsAdmin      bool            `json:"is_admin"`
	IsActive     bool            `json:"is_active"`
	RoleID       *uint           `json:"role_id,omitempty"`
	Role         *Role           `json:"role,omitempty"`
	Capabilities map[string]bool `json:"capabilities"`
}

// ToResponse converts User to UserResponse. Capabilities lists explicit flags only.
func (u *User) ToResponse() UserResponse {
	caps := make(map[string]bool, len(AllCapabilities))
	for _, c := range AllCapabilities {
		caps[string(c)] = u.HasPrivilege(string(c))
	}
	return UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		FullName:     u.FullName,
		IsAdmin:      u.IsAdmin,
		IsActive:     u.IsActive,
		RoleID:       u.RoleID,
		Role:         u.Role,
		Capabilities: caps,
	}
}
