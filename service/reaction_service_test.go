package service

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cydxin/social-sdk/models"
)

func TestReactionService_ActivateUpsert(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	base, _ := newTestBase(gormDB)
	rs := NewReactionService(base)

	// 唯一索引冲突时在原行上重新激活，永远只有一行
	mock.ExpectExec("INSERT INTO `sn_reaction` .* ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(1, 1))

	created, err := rs.ActivateTx(gormDB, 1, 100, models.KindLikePost)
	if err != nil {
		t.Fatalf("ActivateTx: %v", err)
	}
	if !created {
		t.Fatal("首次激活应报告插入了新行")
	}

	// 重复激活走同一条 upsert，不产生第二行；MySQL 命中已有行报 RowsAffected=2
	mock.ExpectExec("INSERT INTO `sn_reaction` .* ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(1, 2))

	created, err = rs.ActivateTx(gormDB, 1, 100, models.KindLikePost)
	if err != nil {
		t.Fatalf("ActivateTx again: %v", err)
	}
	if created {
		t.Fatal("重复激活不应报告新行")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestReactionService_Deactivate(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	base, _ := newTestBase(gormDB)
	rs := NewReactionService(base)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE `sn_reaction` SET `active`=?,`updated_at`=? WHERE user_id = ? AND target_id = ? AND kind = ? AND active = ?")).
		WithArgs(false, sqlmock.AnyArg(), uint64(1), uint64(100), models.KindLikePost, true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := rs.Deactivate(1, 100, models.KindLikePost); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestReactionService_CountOnlyActive(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	base, _ := newTestBase(gormDB)
	rs := NewReactionService(base)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `sn_reaction` WHERE target_id = ? AND kind = ? AND active = ?")).
		WithArgs(uint64(100), models.KindLikePost, true).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(3))

	cnt, err := rs.Count(100, models.KindLikePost)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if cnt != 3 {
		t.Fatalf("Count = %d, want 3", cnt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestReactionService_InvalidArgs(t *testing.T) {
	gormDB, _, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	base, _ := newTestBase(gormDB)
	rs := NewReactionService(base)

	if err := rs.Activate(0, 100, models.KindLikePost); err == nil {
		t.Fatal("user=0 应报参数错误")
	}
	if err := rs.Deactivate(1, 0, models.KindRepost); err == nil {
		t.Fatal("target=0 应报参数错误")
	}
}
