package application

import (
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/linskybing/gpuaas-go/internal/domain/quota"
	"github.com/linskybing/gpuaas-go/internal/domain/user"
	"github.com/linskybing/gpuaas-go/internal/repository"
	mockrepo "github.com/linskybing/gpuaas-go/internal/repository/mock"
)

type stubTokenIssuer struct {
	token string
	err   error
}

func (s *stubTokenIssuer) Generate(userID uint, email string, isAdmin bool) (string, error) {
	return s.token, s.err
}

// --------------------- Setup ---------------------
func setupUserServiceMocks(t *testing.T) (*UserService, *mockrepo.MockUserRepo, *mockrepo.MockQuotaRepo) {
	ctrl := gomock.NewController(t)
	t.Cleanup(func() { ctrl.Finish() })

	mockUser := mockrepo.NewMockUserRepo(ctrl)
	mockQuota := mockrepo.NewMockQuotaRepo(ctrl)
	repos := &repository.Repos{
		User:  mockUser,
		Quota: mockQuota,
	}
	svc := NewUserService(repos, &stubTokenIssuer{token: "test-token"}, 10.0)
	return svc, mockUser, mockQuota
}

func ptrString(s string) *string { return &s }

// --------------------- Register ---------------------
func TestRegister_CreatesUserWithDefaultQuota(t *testing.T) {
	svc, mockUser, mockQuota := setupUserServiceMocks(t)

	input := user.RegisterInput{
		Email:    "alice@test.com",
		Password: "123456",
		FullName: ptrString("Alice"),
	}

	mockUser.EXPECT().FindByEmail("alice@test.com").Return(user.User{}, gorm.ErrRecordNotFound)
	mockUser.EXPECT().Create(gomock.Any()).DoAndReturn(func(u *user.User) error {
		assert.Equal(t, "alice@test.com", u.Email)
		assert.True(t, u.IsActive)
		assert.False(t, u.IsAdmin)
		assert.NotEqual(t, "123456", u.HashedPassword)
		u.ID = 7
		return nil
	})
	mockQuota.EXPECT().Create(gomock.Any()).DoAndReturn(func(q *quota.UserQuota) error {
		assert.Equal(t, uint(7), q.UserID)
		assert.Equal(t, 10.0, q.MonthlyQuotaHours)
		assert.Equal(t, 0.0, q.UsedHoursThisMonth)
		return nil
	})

	u, err := svc.Register(input)
	assert.NoError(t, err)
	assert.Equal(t, uint(7), u.ID)
}

func TestRegister_EmailTaken(t *testing.T) {
	svc, mockUser, _ := setupUserServiceMocks(t)

	mockUser.EXPECT().FindByEmail("admin@test.com").Return(user.User{ID: 1}, nil)

	_, err := svc.Register(user.RegisterInput{Email: "admin@test.com", Password: "123456"})
	assert.Equal(t, ErrEmailTaken, err)
}

func TestRegister_LookupFailure(t *testing.T) {
	svc, mockUser, _ := setupUserServiceMocks(t)

	dbErr := errors.New("connection reset")
	mockUser.EXPECT().FindByEmail("bob@test.com").Return(user.User{}, dbErr)

	_, err := svc.Register(user.RegisterInput{Email: "bob@test.com", Password: "123456"})
	assert.Equal(t, dbErr, err)
}

// --------------------- Login ---------------------
func TestLogin_Success(t *testing.T) {
	svc, mockUser, _ := setupUserServiceMocks(t)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.DefaultCost)
	mockUser.EXPECT().FindByEmail("alice@test.com").Return(user.User{
		ID:             3,
		Email:          "alice@test.com",
		HashedPassword: string(hashed),
		IsActive:       true,
	}, nil)

	u, token, err := svc.Login("alice@test.com", "123456")
	assert.NoError(t, err)
	assert.Equal(t, uint(3), u.ID)
	assert.Equal(t, "test-token", token)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, mockUser, _ := setupUserServiceMocks(t)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.DefaultCost)
	mockUser.EXPECT().FindByEmail("alice@test.com").Return(user.User{
		HashedPassword: string(hashed),
	}, nil)

	_, _, err := svc.Login("alice@test.com", "wrong")
	assert.Equal(t, ErrInvalidCredentials, err)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, mockUser, _ := setupUserServiceMocks(t)

	mockUser.EXPECT().FindByEmail("ghost@test.com").Return(user.User{}, gorm.ErrRecordNotFound)

	_, _, err := svc.Login("ghost@test.com", "123456")
	assert.Equal(t, ErrInvalidCredentials, err)
}
