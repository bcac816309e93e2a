package model

import "time"

// PaymentStatusは入金状態。セッション状態（Status）とは独立した軸で、
// セッションがopenのままpayment_statusがunpaidということもある。
type PaymentStatus string

const (
	PaymentStatusInitiated PaymentStatus = "initiated"
	PaymentStatusUnpaid    PaymentStatus = "unpaid"
	PaymentStatusPaid      PaymentStatus = "paid"
)

// 決済台帳。チェックアウト1回につき1行、session_idで一意。
// 作成後に書き換わるのはstatus/payment_statusのみ（Reconcilerだけが更新する）。
type PaymentTransaction struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID string `gorm:"type:varchar(255);not null;uniqueIndex" json:"session_id"`
	OrderID   string `gorm:"type:uuid;not null;index" json:"order_id"`
	UserID    string `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount    int64  `gorm:"not null" json:"amount"`
	Currency  string `gorm:"type:varchar(10);not null" json:"currency"`

	//プロバイダのチェックアウトセッション状態
	Status string `gorm:"type:varchar(30);not null" json:"status"`

	PaymentStatus PaymentStatus `gorm:"type:varchar(30);not null" json:"payment_status"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
