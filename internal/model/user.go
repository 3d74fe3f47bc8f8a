package model

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRole string

const (
	Student UserRole = "student"
	Admin   UserRole = "admin"
)

// Valid reports whether r is one of the supported roles.
func (r UserRole) Valid() bool {
	return r == Student || r == Admin
}

type User struct {
	BaseModel
	Username     string   `gorm:"size:80;index;not null" json:"username"`
	Email        string   `gorm:"size:120;not null" json:"email"`
	// lowercased copies that carry the unique indexes, so "Alice" and "alice" collide in the database too
	UsernameKey  string   `gorm:"size:80;uniqueIndex;not null" json:"-"`
	EmailKey     string   `gorm:"size:120;uniqueIndex;not null" json:"-"`
	PasswordHash string   `gorm:"size:256" json:"-"`
	Role         UserRole `gorm:"size:20;default:'student'" json:"role"`

	SkillTests  []SoftSkillTest `gorm:"foreignKey:UserID" json:"-"`
	Submissions []Submission    `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.UsernameKey = strings.ToLower(u.Username)
	u.EmailKey = strings.ToLower(u.Email)
	return nil
}

func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func (u *User) IsAdmin() bool {
	return u.Role == Admin
}
