package repository

import (
	"errors"

	"github.com/linskybing/gpuaas-go/internal/domain/quota"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuotaRepo interface {
	Create(q *quota.UserQuota) error
	FindByUserID(userID uint) (quota.UserQuota, error)
	// CheckAndDebit atomically verifies that requestedHours fit in the user's
	// remaining allowance and debits them. It must be called inside the same
	// transaction as the job insert it admits.
	CheckAndDebit(userID uint, requestedHours float64) error
	WithTx(tx *gorm.DB) QuotaRepo
}

type DBQuotaRepo struct {
	db *gorm.DB
}

func NewQuotaRepo(db *gorm.DB) *DBQuotaRepo {
	return &DBQuotaRepo{db: db}
}

func (r *DBQuotaRepo) Create(q *quota.UserQuota) error {
	return r.db.Create(q).Error
}

func (r *DBQuotaRepo) FindByUserID(userID uint) (quota.UserQuota, error) {
	var q quota.UserQuota
	err := r.db.Where("user_id = ?", userID).First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return q, quota.ErrQuotaNotFound
	}
	return q, err
}

func (r *DBQuotaRepo) CheckAndDebit(userID uint, requestedHours float64) error {
	// Row lock serializes concurrent job creations by the same user so both
	// cannot pass the check against a stale used_hours_this_month.
	var q quota.UserQuota
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&q).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return quota.ErrQuotaNotFound
		}
		return err
	}

	available := q.AvailableHours()
	if requestedHours > available {
		return &quota.InsufficientQuotaError{Requested: requestedHours, Available: available}
	}

	q.UsedHoursThisMonth += requestedHours
	return r.db.Save(&q).Error
}

func (r *DBQuotaRepo) WithTx(tx *gorm.DB) QuotaRepo {
	if tx == nil {
		return r
	}
	return &DBQuotaRepo{db: tx}
}
