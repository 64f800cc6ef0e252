package repository

import "gorm.io/gorm"

// Repos bundles the data access layer. Service code receives the bundle and a
// Transaction helper rather than a raw *gorm.DB.
type Repos struct {
	DB    *gorm.DB
	User  UserRepo
	Quota QuotaRepo
	Job   JobRepo
}

func New(db *gorm.DB) *Repos {
	return &Repos{
		DB:    db,
		User:  NewUserRepo(db),
		Quota: NewQuotaRepo(db),
		Job:   NewJobRepo(db),
	}
}

// Transaction runs fn with a transaction-scoped copy of the bundle. With no
// underlying DB (unit tests over mocks) fn runs against the bundle directly.
func (r *Repos) Transaction(fn func(tx *Repos) error) error {
	if r.DB == nil {
		return fn(r)
	}
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return fn(&Repos{
			DB:    tx,
			User:  r.User.WithTx(tx),
			Quota: r.Quota.WithTx(tx),
			Job:   r.Job.WithTx(tx),
		})
	})
}
