package model

import (
	"time"

	"gorm.io/gorm"
)

type BaseModel struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// AllModels lists every table managed by auto-migration.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&SoftSkillTest{},
		&Submission{},
		&Feedback{},
	}
}
