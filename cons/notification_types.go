package cons

// 统一的通知事件类型（Notification.Type）
// 事件 → 接收者：
//   - like / comment        → 帖子作者
//   - follow/follow_request → 被关注者
//   - follow_accepted       → 原申请者
//   - message               → 收信人
//   - verification          → 申请认证的用户
//   - appeal                → 申诉用户
//
// repost / hide / block / view 不产生通知。
const (
	NotifyLike           = "like"
	NotifyComment        = "comment"
	NotifyFollow         = "follow"
	NotifyFollowRequest  = "follow_request"
	NotifyFollowAccepted = "follow_accepted"
	NotifyMessage        = "message"
	NotifyVerification   = "verification"
	NotifyAppeal         = "appeal"
)

// WS 推送的外层消息类型
const (
	PushNotification = "notification"
)
