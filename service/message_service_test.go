package service

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

// 收信人关闭私信：拒绝且不落库
func TestMessageService_SendMessagesDisabled(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	base, pushed := newTestBase(gormDB)
	ms := NewMessageService(base, NewReactionService(base))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `sn_user` WHERE id = ? ORDER BY `sn_user`.`id` LIMIT ?")).
		WithArgs(uint64(2), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "allow_messages"}).
			AddRow(uint64(2), "bob", false))

	_, err := ms.Send(1, 2, "hi", nil)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("关闭私信应报 Forbidden, got %v", err)
	}
	if len(*pushed) != 0 {
		t.Fatalf("被拒绝的私信不应推送: %d", len(*pushed))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

// 被收信人拉黑：拒绝
func TestMessageService_SendBlockedByReceiver(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	base, _ := newTestBase(gormDB)
	ms := NewMessageService(base, NewReactionService(base))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `sn_user` WHERE id = ? ORDER BY `sn_user`.`id` LIMIT ?")).
		WithArgs(uint64(2), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "allow_messages"}).
			AddRow(uint64(2), "bob", true))

	// 拉黑台账：receiver(2) 对 sender(1) 有 active 的 block
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `sn_reaction` WHERE user_id = ? AND target_id = ? AND kind = ? AND active = ?")).
		WithArgs(uint64(2), uint64(1), sqlmock.AnyArg(), true).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	_, err := ms.Send(1, 2, "hi", nil)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("被拉黑应报 Forbidden, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestMessageService_SendValidation(t *testing.T) {
	gormDB, _, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	base, _ := newTestBase(gormDB)
	ms := NewMessageService(base, NewReactionService(base))

	if _, err := ms.Send(1, 2, "   ", nil); !errors.Is(err, ErrInvalid) {
		t.Fatalf("空内容应报参数错误, got %v", err)
	}
	if _, err := ms.Send(1, 1, "hi", nil); !errors.Is(err, ErrForbidden) {
		t.Fatalf("自发私信应报 Forbidden, got %v", err)
	}
}

// 编辑只属于发送者
func TestMessageService_EditNotSender(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	base, _ := newTestBase(gormDB)
	ms := NewMessageService(base, NewReactionService(base))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE `sn_message` SET `content`=?,`edited_at`=?,`updated_at`=? WHERE id = ? AND sender_id = ?")).
		WithArgs("new text", sqlmock.AnyArg(), sqlmock.AnyArg(), uint64(9), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := ms.Edit(3, 9, "new text"); !errors.Is(err, ErrPermission) {
		t.Fatalf("非发送者编辑应报 Permission, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
