package models

import "time"

// Service is an entry of the public service catalogue.
type Service struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	NameZh        string    `gorm:"size:255" json:"nameZh,omitempty"`
	Price         float64   `gorm:"type:numeric(10,2);not null" json:"price"`
	Duration      string    `gorm:"size:100" json:"duration,omitempty"`
	Description   string    `gorm:"type:text" json:"description,omitempty"`
	DescriptionZh string    `gorm:"type:text" json:"descriptionZh,omitempty"`
	Active        bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
