package model

import "time"

type Product struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	//価格はセント単位
	Price int64 `gorm:"not null" json:"price"`

	Category  string    `gorm:"type:varchar(100);index" json:"category"`
	ImageURL  string    `gorm:"type:varchar(1024)" json:"image_url"`
	Stock     int64     `gorm:"not null;default:100" json:"stock"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
