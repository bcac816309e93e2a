package model

import "time"

// 商品レビュー。投稿者名は投稿時点のスナップショット。
type Review struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID string    `gorm:"type:uuid;not null;index" json:"product_id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	UserName  string    `gorm:"type:varchar(255);not null" json:"user_name"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
