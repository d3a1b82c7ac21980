package service

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newTestPostService(base *Service) *PostService {
	rs := NewReactionService(base)
	fs := NewFollowService(base)
	return NewPostService(base, rs, NewVisibility(base, fs, rs))
}

func expectVisiblePost(mock sqlmock.Sqlmock, postID, ownerID uint64) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `sn_post` WHERE id = ? ORDER BY `sn_post`.`id` LIMIT ?")).
		WithArgs(postID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "content", "is_hidden", "created_at"}).
			AddRow(postID, ownerID, "hello", false, time.Now()))
	mock.ExpectQuery("SELECT \\* FROM `sn_user` WHERE `sn_user`\\.`id` = \\?").
		WithArgs(ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "is_blocked"}).
			AddRow(ownerID, "owner", false))
}

// 首次点赞：upsert 插入新行（RowsAffected=1），同事务落一条通知并在提交后推送。
func TestPostService_LikePostFirstTimeFansOutOnce(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	base, pushed := newTestBase(gormDB)
	ps := newTestPostService(base)

	expectVisiblePost(mock, 100, 2)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `sn_reaction` .* ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `sn_notification`").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectCommit()

	if err := ps.LikePost(1, 100); err != nil {
		t.Fatalf("LikePost: %v", err)
	}
	if len(*pushed) != 1 {
		t.Fatalf("pushed = %d, want 1", len(*pushed))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

// 重复点赞（含并发重试落败的那一次）：upsert 命中已有行（RowsAffected=2），
// 不落通知也不推送——扇出裁决只看 upsert 结果，不依赖事务外的预读。
func TestPostService_LikePostExistingRowNoFanout(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	base, pushed := newTestBase(gormDB)
	ps := newTestPostService(base)

	expectVisiblePost(mock, 100, 2)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `sn_reaction` .* ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectCommit()

	if err := ps.LikePost(1, 100); err != nil {
		t.Fatalf("LikePost: %v", err)
	}
	if len(*pushed) != 0 {
		t.Fatalf("pushed = %d, want 0", len(*pushed))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
