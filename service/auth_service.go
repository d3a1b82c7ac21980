package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cydxin/social-sdk/models"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// AuthService 鉴权核心：token -> 用户，连同运营状态一起取出。
// 被封禁账号的会话不直接作废——还要留着提申诉，权限收口交给上层。
type AuthService struct {
	db    *gorm.DB
	token *TokenService
}

func NewAuthService(db *gorm.DB, rdb *redis.Client) *AuthService {
	return &AuthService{db: db, token: NewTokenService(rdb)}
}

func (a *AuthService) Tokens() *TokenService { return a.token }

// ExtractToken 优先 Authorization: Bearer，其次 query: token。
func (a *AuthService) ExtractToken(r *http.Request) string {
	if r == nil {
		return ""
	}
	ah := strings.TrimSpace(r.Header.Get("Authorization"))
	if ah != "" {
		parts := strings.SplitN(ah, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}

// Authenticate token -> userID。
func (a *AuthService) Authenticate(ctx context.Context, token string) (uint64, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, fmt.Errorf("%w: missing token", ErrUnauthenticated)
	}
	uid, err := a.token.UserIDByToken(ctx, token)
	if err != nil {
		if err == redis.Nil {
			return 0, fmt.Errorf("%w: token expired or revoked", ErrUnauthenticated)
		}
		return 0, err
	}
	return uid, nil
}

// CurrentUser token -> 完整用户行（带 is_admin / is_blocked）。
func (a *AuthService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	uid, err := a.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := a.db.WithContext(ctx).Where("id = ?", uid).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrUnauthenticated, uid)
		}
		return nil, err
	}
	return &u, nil
}

// Login 为已验证身份的用户签发 token。身份验证本身由调用方完成。
func (a *AuthService) Login(ctx context.Context, userID uint64, ttl time.Duration) (string, error) {
	t, err := a.token.GenerateToken()
	if err != nil {
		return "", err
	}
	if err := a.token.StoreToken(ctx, t, userID, ttl); err != nil {
		return "", err
	}
	return t, nil
}

// Logout 注销单个 token。
func (a *AuthService) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return a.token.RevokeToken(ctx, token)
}

// LogoutAll 全端注销。注销账号后调用，作废全部会话。
func (a *AuthService) LogoutAll(ctx context.Context, userID uint64) error {
	return a.token.RevokeAllByUser(ctx, userID)
}
