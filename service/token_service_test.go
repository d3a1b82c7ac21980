package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func TestTokenService_StoreAndResolve(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := NewTokenService(rdb)
	ctx := context.Background()

	token, err := svc.GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if len(token) != 64 {
		t.Fatalf("token 长度异常: %d", len(token))
	}

	if err := svc.StoreToken(ctx, token, 42, time.Hour); err != nil {
		t.Fatalf("StoreToken: %v", err)
	}

	uid, err := svc.UserIDByToken(ctx, token)
	if err != nil {
		t.Fatalf("UserIDByToken: %v", err)
	}
	if uid != 42 {
		t.Fatalf("uid = %d, want 42", uid)
	}

	if err := svc.RevokeToken(ctx, token); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}
	if _, err := svc.UserIDByToken(ctx, token); err == nil {
		t.Fatalf("注销后 token 不应再解析成功")
	}
}

func TestTokenService_TTLExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := NewTokenService(rdb)
	ctx := context.Background()

	token, _ := svc.GenerateToken()
	if err := svc.StoreToken(ctx, token, 7, time.Minute); err != nil {
		t.Fatalf("StoreToken: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := svc.UserIDByToken(ctx, token); err == nil {
		t.Fatalf("过期 token 不应再解析成功")
	}
}

func TestTokenService_RevokeAllByUser(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := NewTokenService(rdb)
	ctx := context.Background()

	t1, _ := svc.GenerateToken()
	t2, _ := svc.GenerateToken()
	if err := svc.StoreToken(ctx, t1, 9, time.Hour); err != nil {
		t.Fatalf("StoreToken t1: %v", err)
	}
	if err := svc.StoreToken(ctx, t2, 9, time.Hour); err != nil {
		t.Fatalf("StoreToken t2: %v", err)
	}

	if err := svc.RevokeAllByUser(ctx, 9); err != nil {
		t.Fatalf("RevokeAllByUser: %v", err)
	}
	for _, tok := range []string{t1, t2} {
		if _, err := svc.UserIDByToken(ctx, tok); err == nil {
			t.Fatalf("全端注销后 token 仍可解析")
		}
	}
}

func TestAuthService_AuthenticateBadToken(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	auth := NewAuthService(nil, rdb)
	ctx := context.Background()

	if _, err := auth.Authenticate(ctx, ""); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("空 token 应报未认证, got %v", err)
	}
	if _, err := auth.Authenticate(ctx, "deadbeef"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("未知 token 应报未认证, got %v", err)
	}
}
