package application

import (
	"errors"

	"github.com/linskybing/gpuaas-go/internal/domain/quota"
	"github.com/linskybing/gpuaas-go/internal/domain/user"
	"github.com/linskybing/gpuaas-go/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("incorrect email or password")
	ErrPasswordHashFailure = errors.New("failed to hash password")
)

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Generate(userID uint, email string, isAdmin bool) (string, error)
}

// UserService covers registration, login and current-user lookups.
type UserService struct {
	repos             *repository.Repos
	tokens            TokenIssuer
	defaultQuotaHours float64
}

func NewUserService(repos *repository.Repos, tokens TokenIssuer, defaultQuotaHours float64) *UserService {
	return &UserService{
		repos:             repos,
		tokens:            tokens,
		defaultQuotaHours: defaultQuotaHours,
	}
}

// Register creates the user together with its quota row in one transaction;
// every registered user must have a quota.
func (s *UserService) Register(input user.RegisterInput) (user.User, error) {
	_, err := s.repos.User.FindByEmail(input.Email)
	if err == nil {
		return user.User{}, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return user.User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, ErrPasswordHashFailure
	}

	u := user.User{
		Email:          input.Email,
		HashedPassword: string(hashed),
		FullName:       input.FullName,
		IsActive:       true,
		IsAdmin:        false,
	}

	err = s.repos.Transaction(func(tx *repository.Repos) error {
		if err := tx.User.Create(&u); err != nil {
			return err
		}
		return tx.Quota.Create(&quota.UserQuota{
			UserID:             u.ID,
			MonthlyQuotaHours:  s.defaultQuotaHours,
			UsedHoursThisMonth: 0,
		})
	})
	if err != nil {
		return user.User{}, err
	}
	return u, nil
}

// Login verifies credentials and issues a token.
func (s *UserService) Login(email, password string) (user.User, string, error) {
	u, err := s.repos.User.FindByEmail(email)
	if err != nil {
		return user.User{}, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password)); err != nil {
		return user.User{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(u.ID, u.Email, u.IsAdmin)
	if err != nil {
		return user.User{}, "", err
	}
	return u, token, nil
}

func (s *UserService) GetUser(id uint) (user.User, error) {
	return s.repos.User.FindByID(id)
}
