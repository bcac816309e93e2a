package model

import "time"

// 注文明細。商品名と価格は注文時点のスナップショット。
type OrderItem struct {
	ID                  string    `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID             string    `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID           string    `gorm:"type:uuid;not null" json:"product_id"`
	ProductNameSnapshot string    `gorm:"type:varchar(255);not null" json:"product_name"`
	UnitPriceSnapshot   int64     `gorm:"not null" json:"price"`
	Quantity            int64     `gorm:"not null" json:"quantity"`
	CreatedAt           time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
