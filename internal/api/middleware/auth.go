package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/linskybing/gpuaas-go/internal/domain/user"
	"github.com/linskybing/gpuaas-go/internal/repository"
	"github.com/linskybing/gpuaas-go/pkg/response"
	"github.com/linskybing/gpuaas-go/pkg/utils"
)

// Auth resolves the authenticated principal against storage. The token only
// proves identity; active and admin flags are read from the user row so an
// operator change takes effect without re-login.
type Auth struct {
	repos *repository.Repos
}

func NewAuth(repos *repository.Repos) *Auth {
	return &Auth{repos: repos}
}

// Active loads the user behind the validated claims and rejects inactive or
// deleted accounts. Stores the user as "current_user" for handlers.
func (a *Auth) Active() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := utils.GetClaimsFromContext(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Invalid token claims"})
			return
		}

		u, err := a.repos.User.FindByID(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Could not validate credentials"})
			return
		}
		if !u.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, response.ErrorResponse{Error: "Inactive user"})
			return
		}

		c.Set("current_user", u)
		c.Next()
	}
}

// Admin gates admin-only routes. Must run after Active.
func (a *Auth) Admin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := c.MustGet("current_user").(user.User)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Invalid user context"})
			return
		}
		if !u.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, response.ErrorResponse{Error: "Not enough permissions"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the principal stored by Active.
func CurrentUser(c *gin.Context) (user.User, bool) {
	v, exists := c.Get("current_user")
	if !exists {
		return user.User{}, false
	}
	u, ok := v.(user.User)
	return u, ok
}

// CORSMiddleware allows browser clients from any origin.
func CORSMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	})
}
