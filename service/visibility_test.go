package service

import (
	"testing"
	"time"

	"github.com/cydxin/social-sdk/models"
)

func TestContentVisible(t *testing.T) {
	cases := []struct {
		hidden, blocked, want bool
	}{
		{false, false, true},
		{true, false, false},
		{false, true, false},
		{true, true, false},
	}
	for _, c := range cases {
		if got := ContentVisible(c.hidden, c.blocked); got != c.want {
			t.Fatalf("ContentVisible(%v, %v) = %v, want %v", c.hidden, c.blocked, got, c.want)
		}
	}
}

func TestStoryVisible(t *testing.T) {
	now := time.Now()
	base := models.Story{
		ID:        1,
		UserID:    10,
		ExpiresAt: now.Add(time.Hour),
	}

	mk := func(vis string, expired bool) models.Story {
		st := base
		st.Visibility = vis
		if expired {
			st.ExpiresAt = now.Add(-time.Minute)
		}
		return st
	}

	cases := []struct {
		name     string
		story    models.Story
		blocked  bool
		viewerID uint64
		rel      Rel
		want     bool
	}{
		{"all对陌生人可见", mk(models.StoryAll, false), false, 99, Rel{}, true},
		{"all已过期不可见", mk(models.StoryAll, true), false, 99, Rel{}, false},
		{"封禁作者不可见", mk(models.StoryAll, false), true, 99, Rel{}, false},
		{"followers需要viewer关注owner", mk(models.StoryFollowers, false), false, 99, Rel{}, false},
		{"followers关注后可见", mk(models.StoryFollowers, false), false, 99, Rel{ViewerFollowsOwner: true}, true},
		{"mutual单向关注不可见", mk(models.StoryMutual, false), false, 99, Rel{ViewerFollowsOwner: true}, false},
		{"mutual互关可见", mk(models.StoryMutual, false), false, 99, Rel{ViewerFollowsOwner: true, OwnerFollowsViewer: true}, true},
		{"本人始终可见", mk(models.StoryMutual, false), false, 10, Rel{}, true},
		{"本人过期后也不可见", mk(models.StoryAll, true), false, 10, Rel{}, false},
		{"未知取值拒绝", mk("everyone", false), false, 99, Rel{}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := StoryVisible(c.story, c.blocked, c.viewerID, c.rel, now); got != c.want {
				t.Fatalf("StoryVisible = %v, want %v", got, c.want)
			}
		})
	}
}

func TestFieldVisible(t *testing.T) {
	if !FieldVisible(models.FieldPublic, 0, 10) {
		t.Fatal("public 字段对匿名应可见")
	}
	if FieldVisible(models.FieldNone, 99, 10) {
		t.Fatal("none 字段对他人应不可见")
	}
	if !FieldVisible(models.FieldNone, 10, 10) {
		t.Fatal("none 字段对本人应可见")
	}
	if FieldVisible(models.FieldNone, 0, 10) {
		t.Fatal("none 字段对匿名应不可见")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello", 10); got != "hello" {
		t.Fatalf("短文本不应截断: %q", got)
	}
	if got := Truncate("hello world", 5); got != "hello" {
		t.Fatalf("截断错误: %q", got)
	}
	// 按 rune 截断，多字节字符不能截半
	if got := Truncate("你好世界啊", 2); got != "你好" {
		t.Fatalf("多字节截断错误: %q", got)
	}
}
