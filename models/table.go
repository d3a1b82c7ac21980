package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	prefix = "sn_"
)

// 每字段可见性偏好取值（show_likes / show_reposts / show_followers / show_following / show_friends）
const (
	FieldPublic = "public" // 所有人可见
	FieldNone   = "none"   // 仅本人可见
)

// User 用户表
// 注销账号采用墓碑方式：置 is_blocked 并改写 username/email，行永不删除，
// 历史引用（帖子、互动、通知）保持有效。
type User struct {
	ID          uint64 `gorm:"primarykey"`
	UID         string `gorm:"size:36;uniqueIndex;not null"` // 对外用户 ID
	Username    string `gorm:"size:100;uniqueIndex;not null"`
	Email       string `gorm:"size:150;uniqueIndex;default:null"`
	DisplayName string `gorm:"size:100"`
	Bio         string `gorm:"size:500"`

	// 社交链接
	Telegram  string `gorm:"size:100"`
	Instagram string `gorm:"size:100"`
	Website   string `gorm:"size:200"`
	Tiktok    string `gorm:"size:100"`
	Youtube   string `gorm:"size:100"`
	Theme     string `gorm:"size:20"`

	IsPrivate     bool `gorm:"default:false"` // 私密账号：关注需要审批
	IsBlocked     bool `gorm:"default:false"` // 运营封禁（含账号注销墓碑）
	IsVerified    bool `gorm:"default:false"`
	IsArtist      bool `gorm:"default:false"`
	IsAdmin       bool `gorm:"default:false"`
	AllowMessages bool `gorm:"default:true"` // 是否接受私信

	// 可见性偏好，取值见 FieldPublic / FieldNone
	ShowLikes     string `gorm:"size:20;default:public"`
	ShowReposts   string `gorm:"size:20;default:public"`
	ShowFollowers string `gorm:"size:20;default:public"`
	ShowFollowing string `gorm:"size:20;default:public"`
	ShowFriends   string `gorm:"size:20;default:public"`

	BlockCount int `gorm:"default:0"` // 被封禁次数

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string { return prefix + "user" }

// Post 帖子表
// is_hidden 由作者或管理员置位；隐藏的帖子从所有读路径排除，行保留以保证计数与审计。
type Post struct {
	ID         uint64 `gorm:"primarykey"`
	UserID     uint64 `gorm:"index;not null"` // 作者
	Content    string `gorm:"type:text"`
	ImageURL   string `gorm:"size:1000"`
	ViewsCount uint64 `gorm:"default:0"`
	IsHidden   bool   `gorm:"default:false;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	User User `gorm:"foreignKey:UserID"`
}

func (Post) TableName() string { return prefix + "post" }

// Comment 评论表
// ParentID 指向父评论构成树；存储任意深度，渲染只展开一级回复。
type Comment struct {
	ID        uint64  `gorm:"primarykey"`
	PostID    uint64  `gorm:"index;not null"`
	UserID    uint64  `gorm:"index;not null"`
	ParentID  *uint64 `gorm:"index"` // nil 为顶级评论
	Content   string  `gorm:"type:text;not null"`
	IsHidden  bool    `gorm:"default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time

	User User `gorm:"foreignKey:UserID"`
	Post Post `gorm:"foreignKey:PostID"`
}

func (Comment) TableName() string { return prefix + "comment" }

// 互动类型（Reaction.Kind）
const (
	KindLikePost    uint8 = 1 // 点赞帖子，target = post_id
	KindLikeComment uint8 = 2 // 点赞评论，target = comment_id
	KindRepost      uint8 = 3 // 转发帖子，target = post_id
	KindBlock       uint8 = 4 // 拉黑用户，target = user_id
)

// Reaction 互动台账（可逆操作统一落在这张表）
// 软删除用显式 active 标记而不是删行：取消后行保留，计数只统计 active 行。
// (user_id, target_id, kind) 唯一，并发重复请求靠唯一索引收敛为一条记录。
type Reaction struct {
	ID        uint64 `gorm:"primarykey"`
	UserID    uint64 `gorm:"not null;uniqueIndex:idx_actor_target_kind,priority:1"`
	TargetID  uint64 `gorm:"not null;uniqueIndex:idx_actor_target_kind,priority:2;index"`
	Kind      uint8  `gorm:"type:tinyint;not null;uniqueIndex:idx_actor_target_kind,priority:3"`
	Active    bool   `gorm:"default:true;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Reaction) TableName() string { return prefix + "reaction" }

// 关注关系状态（Follow.Status）
const (
	FollowPending  uint8 = 0 // 待审批（目标为私密账号）
	FollowAccepted uint8 = 1
	FollowRejected uint8 = 2
	FollowRemoved  uint8 = 3 // 已取关；行保留，重新关注在原行上改状态
)

// Follow 关注关系表（有向边）
// 每个有序对只有一行，状态原地变更，永不插入重复边。
type Follow struct {
	ID          uint64 `gorm:"primarykey"`
	FollowerID  uint64 `gorm:"not null;uniqueIndex:idx_pair,priority:1"`
	FollowingID uint64 `gorm:"not null;uniqueIndex:idx_pair,priority:2;index"`
	Status      uint8  `gorm:"type:tinyint;default:0;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Follower  User `gorm:"foreignKey:FollowerID"`
	Following User `gorm:"foreignKey:FollowingID"`
}

func (Follow) TableName() string { return prefix + "follow" }

// Message 私信表
// 双方各自的隐藏标记互不影响：一方删除会话不改变另一方看到的内容。
type Message struct {
	ID               uint64  `gorm:"primarykey"`
	SenderID         uint64  `gorm:"index:idx_sender_receiver,priority:1;not null"`
	ReceiverID       uint64  `gorm:"index:idx_sender_receiver,priority:2;not null"`
	Content          string  `gorm:"type:text;not null"`
	ReplyToID        *uint64 `gorm:"index"` // 引用回复
	IsRead           bool    `gorm:"default:false"`
	IsPinned         bool    `gorm:"default:false"`
	HiddenBySender   bool    `gorm:"default:false"`
	HiddenByReceiver bool    `gorm:"default:false"`
	EditedAt         *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Message) TableName() string { return prefix + "message" }

// 故事可见范围（Story.Visibility）
const (
	StoryAll       = "all"       // 所有人
	StoryFollowers = "followers" // 已接受的关注者
	StoryMutual    = "mutual"    // 互关好友
)

// Story 限时故事表
// 过期后从所有读路径排除，行不删除。
type Story struct {
	ID         uint64 `gorm:"primarykey"`
	UserID     uint64 `gorm:"index;not null"`
	ImageURL   string `gorm:"size:1000;not null"`
	Visibility string `gorm:"size:20;default:all"`
	ExpiresAt  time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time

	User User `gorm:"foreignKey:UserID"`
}

func (Story) TableName() string { return prefix + "story" }

// Notification 通知表
// Payload 存结构化深链引用（类型、触发者、帖子），供客户端跳转。
type Notification struct {
	ID         uint64         `gorm:"primarykey"`
	UserID     uint64         `gorm:"index:idx_user_created,priority:1;not null"` // 接收者
	Type       string         `gorm:"size:32;not null"`
	FromUserID *uint64        `gorm:"index"` // 触发者，系统通知为 nil
	PostID     *uint64        `gorm:"index"`
	Content    string         `gorm:"size:255"` // 截断后的摘要文本
	Payload    datatypes.JSON `gorm:"type:json"`
	IsRead     bool           `gorm:"default:false;index"`
	CreatedAt  time.Time      `gorm:"index:idx_user_created,priority:2"`

	FromUser *User `gorm:"foreignKey:FromUserID"`
}

func (Notification) TableName() string { return prefix + "notification" }

// 审核队列状态
const (
	ReviewPending  = "pending"
	ReviewApproved = "approved"
	ReviewRejected = "rejected"
	// 举报的终态由处理动作决定
	ReportDismissed = "dismiss"
	ReportActioned  = "action"
)

// 认证申请类型
const (
	VerifyStandard = "standard"
	VerifyArtist   = "artist" // 通过后同时置 is_verified 与 is_artist
)

// Report 举报表
type Report struct {
	ID         uint64 `gorm:"primarykey"`
	ReporterID uint64 `gorm:"index;not null"`
	TargetType string `gorm:"size:20;not null"` // user / post / comment
	TargetID   uint64 `gorm:"not null"`
	Reason     string `gorm:"size:500"`
	Status     string `gorm:"size:20;default:pending;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Reporter User `gorm:"foreignKey:ReporterID"`
}

func (Report) TableName() string { return prefix + "report" }

// VerificationRequest 认证申请表
// 同一用户同时只允许一条 pending。
type VerificationRequest struct {
	ID        uint64 `gorm:"primarykey"`
	UserID    uint64 `gorm:"index;not null"`
	Type      string `gorm:"size:20;default:standard"`
	Status    string `gorm:"size:20;default:pending;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	User User `gorm:"foreignKey:UserID"`
}

func (VerificationRequest) TableName() string { return prefix + "verification_request" }

// AppealRequest 申诉表
// 申诉通过会解除用户封禁；驳回不改变封禁状态。
type AppealRequest struct {
	ID        uint64 `gorm:"primarykey"`
	UserID    uint64 `gorm:"index;not null"`
	Reason    string `gorm:"size:500"`
	Status    string `gorm:"size:20;default:pending;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	User User `gorm:"foreignKey:UserID"`
}

func (AppealRequest) TableName() string { return prefix + "appeal_request" }

// Avatar 头像表
// 不变量：每个用户同时最多一张 is_primary。
type Avatar struct {
	ID        uint64 `gorm:"primarykey"`
	UserID    uint64 `gorm:"index;not null"`
	URL       string `gorm:"size:1000;not null"`
	IsPrimary bool   `gorm:"default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Avatar) TableName() string { return prefix + "avatar" }

// Release 音乐作品表（认证音乐人的主页展示，管理员代为录入）
type Release struct {
	ID         uint64 `gorm:"primarykey"`
	ArtistID   uint64 `gorm:"index;not null"`
	Title      string `gorm:"size:200;not null"`
	ArtistName string `gorm:"size:100"`
	CoverURL   string `gorm:"size:1000"`
	AudioURL   string `gorm:"size:1000"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Release) TableName() string { return prefix + "release" }
