package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/gpuaas-go/internal/api/middleware"
	"github.com/linskybing/gpuaas-go/internal/application"
	"github.com/linskybing/gpuaas-go/internal/domain/user"
	"github.com/linskybing/gpuaas-go/pkg/response"
)

// AuthHandler handles registration, login and current-user lookup.
type AuthHandler struct {
	users *application.UserService
}

func NewAuthHandler(users *application.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

// Register godoc
// @Summary User registration
// @Tags auth
// @Accept json
// @Produce json
// @Param input body user.RegisterInput true "User registration info"
// @Success 201 {object} user.User
// @Failure 400 {object} response.ErrorResponse "Invalid input or email taken"
// @Failure 500 {object} response.ErrorResponse "Failed to create user"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var input user.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid input: " + err.Error()})
		return
	}

	u, err := h.users.Register(input)
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, u)
}

// Login godoc
// @Summary User login
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} response.TokenResponse
// @Failure 401 {object} response.ErrorResponse "Incorrect email or password"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input user.LoginInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid input"})
		return
	}

	u, token, err := h.users.Login(input.Email, input.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Incorrect email or password"})
		return
	}

	c.JSON(http.StatusOK, response.TokenResponse{
		Token:     token,
		TokenType: "bearer",
		UID:       u.ID,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
	})
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} user.User
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, u)
}
