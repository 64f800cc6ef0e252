package repository

import (
	"github.com/linskybing/gpuaas-go/internal/domain/user"
	"gorm.io/gorm"
)

type UserRepo interface {
	Create(u *user.User) error
	FindByID(id uint) (user.User, error)
	FindByEmail(email string) (user.User, error)
	Save(u *user.User) error
	WithTx(tx *gorm.DB) UserRepo
}

type DBUserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *DBUserRepo {
	return &DBUserRepo{db: db}
}

func (r *DBUserRepo) Create(u *user.User) error {
	return r.db.Create(u).Error
}

func (r *DBUserRepo) FindByID(id uint) (user.User, error) {
	var u user.User
	err := r.db.First(&u, id).Error
	return u, err
}

func (r *DBUserRepo) FindByEmail(email string) (user.User, error) {
	var u user.User
	err := r.db.Where("email = ?", email).First(&u).Error
	return u, err
}

func (r *DBUserRepo) Save(u *user.User) error {
	return r.db.Save(u).Error
}

func (r *DBUserRepo) WithTx(tx *gorm.DB) UserRepo {
	if tx == nil {
		return r
	}
	return &DBUserRepo{db: tx}
}
