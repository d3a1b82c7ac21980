package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// 默认 token 过期时间
const defaultTokenTTL = 7 * 24 * time.Hour

// TokenService 负责 token 的生成、存储、校验与注销。
// Redis Key 设计：
// - sn:token:{token} -> userID (String, TTL)
// - sn:user_tokens:{userID} -> Set(token1, token2, ...)
//
// 支持多端登录；全端注销时 SMEMBERS 后批量 DEL。
type TokenService struct {
	rdb *redis.Client
}

func NewTokenService(rdb *redis.Client) *TokenService {
	return &TokenService{rdb: rdb}
}

func (s *TokenService) ensure() error {
	if s == nil || s.rdb == nil {
		return fmt.Errorf("redis client is nil")
	}
	return nil
}

func (s *TokenService) tokenKey(token string) string {
	return "sn:token:" + token
}

func (s *TokenService) userTokensKey(userID uint64) string {
	return fmt.Sprintf("sn:user_tokens:%d", userID)
}

// GenerateToken 生成随机 token，不携带用户信息。
func (s *TokenService) GenerateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// StoreToken 写入 token -> userID 映射，并把 token 记入用户集合。
func (s *TokenService) StoreToken(ctx context.Context, token string, userID uint64, ttl time.Duration) error {
	if err := s.ensure(); err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, s.tokenKey(token), strconv.FormatUint(userID, 10), ttl)
	pipe.SAdd(ctx, s.userTokensKey(userID), token)
	// 集合 TTL 略大于 token TTL，便于自动清理
	pipe.Expire(ctx, s.userTokensKey(userID), ttl+24*time.Hour)
	_, err := pipe.Exec(ctx)
	return err
}

// RefreshTokenTTL 滑动续期。
func (s *TokenService) RefreshTokenTTL(ctx context.Context, token string, ttl time.Duration) error {
	if err := s.ensure(); err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	uid, err := s.UserIDByToken(ctx, token)
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Expire(ctx, s.tokenKey(token), ttl)
	pipe.Expire(ctx, s.userTokensKey(uid), ttl+24*time.Hour)
	_, err = pipe.Exec(ctx)
	return err
}

// UserIDByToken 根据 token 取 userID。
func (s *TokenService) UserIDByToken(ctx context.Context, token string) (uint64, error) {
	if err := s.ensure(); err != nil {
		return 0, err
	}
	val, err := s.rdb.Get(ctx, s.tokenKey(token)).Result()
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(val, 10, 64)
}

// RevokeToken 注销单个 token。
func (s *TokenService) RevokeToken(ctx context.Context, token string) error {
	if err := s.ensure(); err != nil {
		return err
	}
	uid, err := s.UserIDByToken(ctx, token)
	if err == nil {
		_ = s.rdb.SRem(ctx, s.userTokensKey(uid), token).Err()
	}
	return s.rdb.Del(ctx, s.tokenKey(token)).Err()
}

// RevokeAllByUser 全端注销。
func (s *TokenService) RevokeAllByUser(ctx context.Context, userID uint64) error {
	if err := s.ensure(); err != nil {
		return err
	}
	tokens, err := s.rdb.SMembers(ctx, s.userTokensKey(userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil
		}
		return err
	}
	pipe := s.rdb.TxPipeline()
	for _, t := range tokens {
		pipe.Del(ctx, s.tokenKey(t))
	}
	pipe.Del(ctx, s.userTokensKey(userID))
	_, err = pipe.Exec(ctx)
	return err
}
