package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email          string    `gorm:"not null;type:varchar(255);uniqueIndex" json:"email"`
	HashedPassword string    `gorm:"not null;type:varchar(255)" json:"-"`
	Name           string    `gorm:"type:varchar(100)" json:"name"`
	Role           string    `gorm:"not null;type:varchar(20);default:user" json:"role"`
	IsActive       bool      `gorm:"not null;default:true" json:"isActive"`
	BaseModel
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}
