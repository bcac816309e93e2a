package repository

import (
	"context"
	"errors"

	"animehub/internal/domain/model"
	repo "animehub/internal/repository"

	"gorm.io/gorm"
)

type PaymentTransactionGormRepository struct {
	db *gorm.DB
}

func NewPaymentTransactionGormRepository(db *gorm.DB) *PaymentTransactionGormRepository {
	return &PaymentTransactionGormRepository{db: db}
}

func (r *PaymentTransactionGormRepository) Create(ctx context.Context, tx model.PaymentTransaction) error {
	return r.db.WithContext(ctx).Create(&tx).Error
}

func (r *PaymentTransactionGormRepository) FindBySessionID(ctx context.Context, sessionID string) (model.PaymentTransaction, error) {
	var tx model.PaymentTransaction
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&tx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PaymentTransaction{}, repo.ErrNotFound
	}
	if err != nil {
		return model.PaymentTransaction{}, err
	}
	return tx, nil
}

func (r *PaymentTransactionGormRepository) UpdateStatus(ctx context.Context, sessionID string, status string, paymentStatus model.PaymentStatus) error {
	res := r.db.WithContext(ctx).Model(&model.PaymentTransaction{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]interface{}{
			"status":         status,
			"payment_status": paymentStatus,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
