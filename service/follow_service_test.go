package service

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cydxin/social-sdk/models"
	"github.com/go-sql-driver/mysql"
)

func TestFollowService_RequestSelf(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	base, _ := newTestBase(gormDB)
	fs := NewFollowService(base)

	if _, err := fs.Request(1, 1); !errors.Is(err, ErrForbidden) {
		t.Fatalf("自关注应报 Forbidden, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

// 已是 accepted 的边：直接返回现状，不重发通知
func TestFollowService_RequestExistingAccepted(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	base, pushed := newTestBase(gormDB)
	fs := NewFollowService(base)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `sn_user` WHERE id = ? ORDER BY `sn_user`.`id` LIMIT ?")).
		WithArgs(uint64(2), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "is_private"}).
			AddRow(uint64(2), "bob", false))

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `sn_follow` WHERE follower_id = ? AND following_id = ? ORDER BY `sn_follow`.`id` LIMIT ?")).
		WithArgs(uint64(1), uint64(2), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "follower_id", "following_id", "status"}).
			AddRow(uint64(50), uint64(1), uint64(2), models.FollowAccepted))
	mock.ExpectCommit()

	status, err := fs.Request(1, 2)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if status != models.FollowAccepted {
		t.Fatalf("status = %d, want accepted", status)
	}
	if len(*pushed) != 0 {
		t.Fatalf("重复请求不应推送通知: %d", len(*pushed))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

// 私密账号：新边以 pending 落库并产生关注请求通知
func TestFollowService_RequestPrivateTargetPending(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	base, pushed := newTestBase(gormDB)
	fs := NewFollowService(base)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `sn_user` WHERE id = ? ORDER BY `sn_user`.`id` LIMIT ?")).
		WithArgs(uint64(2), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "is_private"}).
			AddRow(uint64(2), "bob", true))

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `sn_follow` WHERE follower_id = ? AND following_id = ? ORDER BY `sn_follow`.`id` LIMIT ?")).
		WithArgs(uint64(1), uint64(2), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO `sn_follow`").
		WillReturnResult(sqlmock.NewResult(60, 1))
	mock.ExpectExec("INSERT INTO `sn_notification`").
		WillReturnResult(sqlmock.NewResult(70, 1))
	mock.ExpectCommit()

	status, err := fs.Request(1, 2)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if status != models.FollowPending {
		t.Fatalf("status = %d, want pending", status)
	}
	if len(*pushed) != 1 {
		t.Fatalf("应推送一条关注请求通知: %d", len(*pushed))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

// 计数与列表同一口径：被封禁的对端既不进列表也不计数
func TestFollowService_CountsExcludeBlockedPeers(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	base, _ := newTestBase(gormDB)
	fs := NewFollowService(base)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `sn_follow` WHERE following_id = \\? AND status = \\? AND follower_id NOT IN \\(SELECT .?id.? FROM `sn_user` WHERE is_blocked = \\?\\)").
		WithArgs(uint64(2), models.FollowAccepted, true).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(4))

	cnt, err := fs.FollowerCount(2)
	if err != nil {
		t.Fatalf("FollowerCount: %v", err)
	}
	if cnt != 4 {
		t.Fatalf("FollowerCount = %d, want 4", cnt)
	}

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `sn_follow` WHERE follower_id = \\? AND status = \\? AND following_id NOT IN \\(SELECT .?id.? FROM `sn_user` WHERE is_blocked = \\?\\)").
		WithArgs(uint64(2), models.FollowAccepted, true).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(3))

	cnt, err = fs.FollowingCount(2)
	if err != nil {
		t.Fatalf("FollowingCount: %v", err)
	}
	if cnt != 3 {
		t.Fatalf("FollowingCount = %d, want 3", cnt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

// 并发重复请求：插边撞唯一索引的一侧回读当前状态返回，不报错也不重复通知
func TestFollowService_RequestDuplicateKeyRace(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	base, pushed := newTestBase(gormDB)
	fs := NewFollowService(base)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `sn_user` WHERE id = ? ORDER BY `sn_user`.`id` LIMIT ?")).
		WithArgs(uint64(2), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "is_private"}).
			AddRow(uint64(2), "bob", false))

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `sn_follow` WHERE follower_id = ? AND following_id = ? ORDER BY `sn_follow`.`id` LIMIT ?")).
		WithArgs(uint64(1), uint64(2), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO `sn_follow`").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '1-2' for key 'idx_pair'"})
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `sn_follow` WHERE follower_id = ? AND following_id = ? ORDER BY `sn_follow`.`id` LIMIT ?")).
		WithArgs(uint64(1), uint64(2), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "follower_id", "following_id", "status"}).
			AddRow(uint64(50), uint64(1), uint64(2), models.FollowAccepted))
	mock.ExpectCommit()

	status, err := fs.Request(1, 2)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if status != models.FollowAccepted {
		t.Fatalf("status = %d, want accepted", status)
	}
	if len(*pushed) != 0 {
		t.Fatalf("落败侧不应推送通知: %d", len(*pushed))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

// 非 pending 的边不允许审批
func TestFollowService_AcceptNotPending(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	base, _ := newTestBase(gormDB)
	fs := NewFollowService(base)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `sn_follow` SET `status`=?,`updated_at`=? WHERE follower_id = ? AND following_id = ? AND status = ?")).
		WithArgs(models.FollowAccepted, sqlmock.AnyArg(), uint64(1), uint64(2), models.FollowPending).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	if err := fs.Accept(2, 1); !errors.Is(err, ErrConflict) {
		t.Fatalf("无 pending 请求应报 Conflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
