package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string           `gorm:"not null;type:varchar(200)" json:"name"`
	Slug         string           `gorm:"not null;type:varchar(255);uniqueIndex" json:"slug"`
	Description  string           `gorm:"type:text" json:"description"`
	Price        decimal.Decimal  `gorm:"not null;type:decimal(10,2)" json:"price"`
	ComparePrice *decimal.Decimal `gorm:"type:decimal(10,2)" json:"comparePrice,omitempty"`
	Stock        int              `gorm:"not null;default:0" json:"stock"`
	Images       StringSlice      `gorm:"type:jsonb" json:"images"`
	SKU          *string          `gorm:"type:varchar(100);uniqueIndex" json:"sku,omitempty"`
	IsActive     bool             `gorm:"not null;default:true" json:"isActive"`
	IsFeatured   bool             `gorm:"not null;default:false" json:"isFeatured"`
	CategoryID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"categoryId"`
	BaseModel
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// FirstImage returns the display image, empty when the product has none.
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// ProductProjection is the slim view embedded in order responses.
type ProductProjection struct {
	ID     uuid.UUID   `json:"id"`
	Name   string      `json:"name"`
	Slug   string      `json:"slug"`
	Images StringSlice `json:"images"`
}

type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null;type:varchar(100)" json:"name"`
	Slug        string    `gorm:"not null;type:varchar(255);uniqueIndex" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	IsActive    bool      `gorm:"not null;default:true" json:"isActive"`
	BaseModel
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
