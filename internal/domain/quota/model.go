package quota

import (
	"errors"
	"fmt"
	"time"
)

// ErrQuotaNotFound means a registered user has no quota row. Registration
// creates one, so this is an internal consistency fault, not a user error.
var ErrQuotaNotFound = errors.New("user quota not found")

// InsufficientQuotaError reports a failed admission check with enough detail
// for the caller to self-correct.
type InsufficientQuotaError struct {
	Requested float64
	Available float64
}

func (e *InsufficientQuotaError) Error() string {
	return fmt.Sprintf("not enough GPU quota. Requested: %gh, Available: %gh", e.Requested, e.Available)
}

// UserQuota tracks a user's GPU-hour allowance for the current period.
// UsedHoursThisMonth only ever grows within a period; there is no refund path
// for rejected or failed jobs. PeriodEnd exists for a future rollover that is
// not implemented.
type UserQuota struct {
	ID                 uint       `gorm:"primaryKey;column:id" json:"id"`
	UserID             uint       `gorm:"not null;uniqueIndex:uq_user_quota_user_id;column:user_id" json:"user_id"`
	MonthlyQuotaHours  float64    `gorm:"default:10;not null;column:monthly_quota_hours" json:"monthly_quota_hours"`
	UsedHoursThisMonth float64    `gorm:"default:0;not null;column:used_hours_this_month" json:"used_hours_this_month"`
	PeriodStart        time.Time  `gorm:"column:period_start;autoCreateTime" json:"period_start"`
	PeriodEnd          *time.Time `gorm:"column:period_end" json:"period_end,omitempty"`
}

func (UserQuota) TableName() string {
	return "user_quotas"
}

// AvailableHours is the remaining allowance for the period.
func (q *UserQuota) AvailableHours() float64 {
	return q.MonthlyQuotaHours - q.UsedHoursThisMonth
}
