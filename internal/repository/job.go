package repository

import (
	"errors"

	"github.com/linskybing/gpuaas-go/internal/domain/job"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type JobRepo interface {
	Create(j *job.Job) error
	FindByID(id uint) (*job.Job, error)
	// FindByIDForUpdate locks the job row for the duration of the enclosing
	// transaction. Writers that guard on the current status (admin
	// resolutions, the runner) go through this.
	FindByIDForUpdate(id uint) (*job.Job, error)
	FindByUserID(userID uint, status *job.JobStatus) ([]job.Job, error)
	FindAll(status *job.JobStatus) ([]job.Job, error)
	Save(j *job.Job) error
	WithTx(tx *gorm.DB) JobRepo
}

type DBJobRepo struct {
	db *gorm.DB
}

func NewJobRepo(db *gorm.DB) *DBJobRepo {
	return &DBJobRepo{db: db}
}

func (r *DBJobRepo) Create(j *job.Job) error {
	return r.db.Create(j).Error
}

func (r *DBJobRepo) FindByID(id uint) (*job.Job, error) {
	var j job.Job
	err := r.db.First(&j, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, job.ErrJobNotFound
	}
	return &j, err
}

func (r *DBJobRepo) FindByIDForUpdate(id uint) (*job.Job, error) {
	var j job.Job
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&j, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, job.ErrJobNotFound
	}
	return &j, err
}

func (r *DBJobRepo) FindByUserID(userID uint, status *job.JobStatus) ([]job.Job, error) {
	var jobs []job.Job
	q := r.db.Where("user_id = ?", userID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	err := q.Order("created_at DESC").Find(&jobs).Error
	return jobs, err
}

func (r *DBJobRepo) FindAll(status *job.JobStatus) ([]job.Job, error) {
	var jobs []job.Job
	q := r.db
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	err := q.Order("created_at DESC").Find(&jobs).Error
	return jobs, err
}

func (r *DBJobRepo) Save(j *job.Job) error {
	return r.db.Save(j).Error
}

func (r *DBJobRepo) WithTx(tx *gorm.DB) JobRepo {
	if tx == nil {
		return r
	}
	return &DBJobRepo{db: tx}
}
