package auth

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"go_gizmo/internal/auth"
	"go_gizmo/internal/httpx"
	"go_gizmo/internal/model"
)

// Users looks users up for login
type Users interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

// GormUsers implements Users on gorm
type GormUsers struct {
	db *gorm.DB
}

// NewGormUsers creates a gorm backed user lookup
func NewGormUsers(db *gorm.DB) *GormUsers {
	return &GormUsers{db: db}
}

func (u *GormUsers) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := u.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// LoginRequest represents login request body
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents login response data
type LoginResponse struct {
	Token    string   `json:"token"`
	ExpireAt string   `json:"expireAt"`
	User     UserInfo `json:"user"`
}

// UserInfo represents user information in response
type UserInfo struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginHandler handles user login
func LoginHandler(users Users, issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
			return
		}

		user, err := users.FindByUsername(c.Request.Context(), req.Username)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// same answer as a wrong password
				httpx.FailErr(c, httpx.ErrUnauthorized(auth.ErrInvalidCredentials.Error()))
				return
			}
			httpx.FailErr(c, httpx.ErrDatabaseError("", err))
			return
		}

		if !user.IsActive() {
			httpx.FailErr(c, httpx.ErrForbidden("user is inactive"))
			return
		}

		if err := auth.ComparePassword(user.PasswordHash, req.Password); err != nil {
			httpx.FailErr(c, httpx.ErrUnauthorized(auth.ErrInvalidCredentials.Error()))
			return
		}

		token, expireAt, err := issuer.Generate(user.ID, user.Username, user.Role)
		if err != nil {
			httpx.FailErr(c, httpx.ErrInternalError("failed to generate token", err))
			return
		}

		httpx.OK(c, LoginResponse{
			Token:    token,
			ExpireAt: expireAt.Format(time.RFC3339),
			User: UserInfo{
				ID:       user.ID,
				Username: user.Username,
				Role:     user.Role,
			},
		})
	}
}
