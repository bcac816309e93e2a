package model

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
)

// 注文。明細はorder_items。
// total_amountは作成時に確定し、以後カタログの価格変更では再計算しない。
// statusはpending→completedに一度だけ遷移する（入金確認が唯一のトリガー）。
type Order struct {
	ID          string      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string      `gorm:"type:uuid;not null;index" json:"user_id"`
	UserEmail   string      `gorm:"type:varchar(255);not null" json:"user_email"`
	Status      OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalAmount int64       `gorm:"not null" json:"total_amount"`

	//プロバイダのセッションIDは作成直後はまだ無い
	PaymentSessionID *string `gorm:"type:varchar(255);index" json:"payment_session_id"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
