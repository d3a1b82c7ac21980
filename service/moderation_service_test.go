package service

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cydxin/social-sdk/models"
)

// 同一用户已有 pending 申请时拒绝重复提交
func TestModerationService_RequestVerificationDuplicate(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	base, _ := newTestBase(gormDB)
	ms := NewModerationService(base)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `sn_verification_request` WHERE user_id = ? AND status = ?")).
		WithArgs(uint64(5), models.ReviewPending).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	if _, err := ms.RequestVerification(5, models.VerifyArtist); !errors.Is(err, ErrConflict) {
		t.Fatalf("重复申请应报 Conflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestModerationService_RequestVerificationBadType(t *testing.T) {
	gormDB, _, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	base, _ := newTestBase(gormDB)
	ms := NewModerationService(base)

	if _, err := ms.RequestVerification(5, "celebrity"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("未知认证类型应报参数错误, got %v", err)
	}
}

// 艺人认证通过：is_verified 和 is_artist 同时点亮，并通知申请人
func TestModerationService_ApproveArtistVerification(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	base, pushed := newTestBase(gormDB)
	ms := NewModerationService(base)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `sn_verification_request` WHERE id = ? ORDER BY `sn_verification_request`.`id` LIMIT ?")).
		WithArgs(uint64(11), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "type", "status"}).
			AddRow(uint64(11), uint64(5), models.VerifyArtist, models.ReviewPending))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `sn_verification_request` SET `status`=?,`updated_at`=? WHERE id = ? AND status = ?")).
		WithArgs(models.ReviewApproved, sqlmock.AnyArg(), uint64(11), models.ReviewPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `sn_user` SET `is_artist`=?,`is_verified`=?,`updated_at`=? WHERE id = ?")).
		WithArgs(true, true, sqlmock.AnyArg(), uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `sn_notification`").
		WillReturnResult(sqlmock.NewResult(21, 1))
	mock.ExpectCommit()

	if err := ms.ApproveVerification(11); err != nil {
		t.Fatalf("ApproveVerification: %v", err)
	}
	if len(*pushed) != 1 {
		t.Fatalf("应推送一条认证结果通知: %d", len(*pushed))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

// 已裁决的申请不允许二次裁决
func TestModerationService_ApproveResolvedVerification(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	base, _ := newTestBase(gormDB)
	ms := NewModerationService(base)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `sn_verification_request` WHERE id = ? ORDER BY `sn_verification_request`.`id` LIMIT ?")).
		WithArgs(uint64(11), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "type", "status"}).
			AddRow(uint64(11), uint64(5), models.VerifyStandard, models.ReviewRejected))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `sn_verification_request` SET `status`=?,`updated_at`=? WHERE id = ? AND status = ?")).
		WithArgs(models.ReviewApproved, sqlmock.AnyArg(), uint64(11), models.ReviewPending).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	if err := ms.ApproveVerification(11); !errors.Is(err, ErrConflict) {
		t.Fatalf("重复裁决应报 Conflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

// 申诉通过解除封禁
func TestModerationService_ResolveAppealApprove(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	base, pushed := newTestBase(gormDB)
	ms := NewModerationService(base)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `sn_appeal_request` WHERE id = ? ORDER BY `sn_appeal_request`.`id` LIMIT ?")).
		WithArgs(uint64(3), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "status"}).
			AddRow(uint64(3), uint64(8), models.ReviewPending))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `sn_appeal_request` SET `status`=?,`updated_at`=? WHERE id = ? AND status = ?")).
		WithArgs(models.ReviewApproved, sqlmock.AnyArg(), uint64(3), models.ReviewPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `sn_user` SET `is_blocked`=?,`updated_at`=? WHERE id = ?")).
		WithArgs(false, sqlmock.AnyArg(), uint64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `sn_notification`").
		WillReturnResult(sqlmock.NewResult(31, 1))
	mock.ExpectCommit()

	if err := ms.ResolveAppeal(3, true); err != nil {
		t.Fatalf("ResolveAppeal: %v", err)
	}
	if len(*pushed) != 1 {
		t.Fatalf("应推送一条申诉结果通知: %d", len(*pushed))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
