package service

import (
	"testing"
)

// 自己触发的事件不落库不推送
func TestNotificationService_SelfNotifySwallowed(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	base, pushed := newTestBase(gormDB)

	actor := uint64(7)
	n, err := base.Notify.PublishTx(gormDB, 7, &actor, "like", nil, "liked your post")
	if err != nil {
		t.Fatalf("PublishTx: %v", err)
	}
	if n != nil {
		t.Fatalf("自通知不应产生记录: %#v", n)
	}

	base.Notify.Push(n)
	if len(*pushed) != 0 {
		t.Fatalf("自通知不应推送: %d", len(*pushed))
	}

	// 没有任何 SQL 发出
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestNotificationService_EmptyRecipientOrType(t *testing.T) {
	gormDB, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	base, _ := newTestBase(gormDB)

	if n, err := base.Notify.PublishTx(gormDB, 0, nil, "like", nil, "x"); err != nil || n != nil {
		t.Fatalf("recipient=0 应静默跳过: n=%#v err=%v", n, err)
	}
	if n, err := base.Notify.PublishTx(gormDB, 5, nil, "", nil, "x"); err != nil || n != nil {
		t.Fatalf("空类型应静默跳过: n=%#v err=%v", n, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
