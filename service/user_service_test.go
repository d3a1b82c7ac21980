package service

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestUserService_SearchTooShort(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	base, _ := newTestBase(gormDB)
	us := NewUserService(base, NewFollowService(base), NewReactionService(base))

	// 关键字太短：直接返回空，不打库
	got, err := us.Search(1, "a", 20)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty, got %#v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestUserService_UpdateProfileBadShowValue(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	base, _ := newTestBase(gormDB)
	us := NewUserService(base, NewFollowService(base), NewReactionService(base))

	bad := "friends-only"
	err := us.UpdateProfile(1, ProfileUpdate{ShowLikes: &bad})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("非法 show 取值应报参数错误, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestUserService_UpdateProfileNoop(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	base, _ := newTestBase(gormDB)
	us := NewUserService(base, NewFollowService(base), NewReactionService(base))

	// 全 nil：不发 SQL
	if err := us.UpdateProfile(1, ProfileUpdate{}); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestUserService_BlockSelf(t *testing.T) {
	gormDB, _, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	base, _ := newTestBase(gormDB)
	us := NewUserService(base, NewFollowService(base), NewReactionService(base))

	if err := us.Block(1, 1); !errors.Is(err, ErrForbidden) {
		t.Fatalf("自拉黑应报 Forbidden, got %v", err)
	}
}

// 注销账号：墓碑化更新一次命中
func TestUserService_DeleteAccount(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	base, _ := newTestBase(gormDB)
	us := NewUserService(base, NewFollowService(base), NewReactionService(base))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE `sn_user` SET `email`=CONCAT(email, ?),`is_blocked`=?,`username`=CONCAT(username, ?),`updated_at`=? WHERE id = ? AND is_blocked = ?")).
		WithArgs(sqlmock.AnyArg(), true, sqlmock.AnyArg(), sqlmock.AnyArg(), uint64(4), false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := us.DeleteAccount(4); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
