package user

import "time"

// User is a tenant account. IsAdmin is never settable through the API; it is
// flipped directly in the database by an operator.
type User struct {
	ID             uint      `gorm:"primaryKey;column:id" json:"id"`
	Email          string    `gorm:"uniqueIndex:uq_users_email;not null;column:email" json:"email"`
	HashedPassword string    `gorm:"not null;column:hashed_password" json:"-"`
	FullName       *string   `gorm:"column:full_name" json:"full_name,omitempty"`
	IsActive       bool      `gorm:"default:true;not null;column:is_active" json:"is_active"`
	IsAdmin        bool      `gorm:"default:false;not null;column:is_admin" json:"is_admin"`
	CreatedAt      time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// RegisterInput is the self-service registration payload.
type RegisterInput struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=6"`
	FullName *string `json:"full_name"`
}

// LoginInput follows the OAuth2 password flow field names, so form logins
// from standard clients work unchanged. JSON bodies are accepted too.
type LoginInput struct {
	Email    string `json:"email" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}
