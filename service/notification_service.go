package service

import (
	"encoding/json"
	"time"

	"github.com/cydxin/social-sdk/cons"
	"github.com/cydxin/social-sdk/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationService 通知扇出
// 约定：落库和触发动作同一个事务（调用方传 tx 进来），提交后再尽力 WS 推送。
// 自己触发给自己的事件（点赞自己的帖子等）直接吞掉，不落库。
type NotificationService struct {
	*Service
}

func NewNotificationService(s *Service) *NotificationService {
	return &NotificationService{Service: s}
}

// notifyPayload 深链引用，客户端按 type 跳转
type notifyPayload struct {
	Type       string  `json:"type"`
	FromUserID *uint64 `json:"from_user_id,omitempty"`
	PostID     *uint64 `json:"post_id,omitempty"`
}

// PublishTx 在调用方事务内落一条通知。
// actorID == recipientID 时返回 (nil, nil)：自触发事件不产生通知。
func (s *NotificationService) PublishTx(tx *gorm.DB, recipientID uint64, actorID *uint64, ntype string, postID *uint64, content string) (*models.Notification, error) {
	if recipientID == 0 || ntype == "" {
		return nil, nil
	}
	if actorID != nil && *actorID == recipientID {
		return nil, nil
	}

	var pl datatypes.JSON
	if b, err := json.Marshal(notifyPayload{Type: ntype, FromUserID: actorID, PostID: postID}); err == nil {
		pl = b
	}

	n := &models.Notification{
		UserID:     recipientID,
		Type:       ntype,
		FromUserID: actorID,
		PostID:     postID,
		Content:    Truncate(content, 100),
		Payload:    pl,
		CreatedAt:  time.Now(),
	}
	if err := tx.Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

// Push WS 推送（尽力而为：失败不影响主流程，通知已落库可拉取）。
// 必须在事务提交之后调用。
func (s *NotificationService) Push(n *models.Notification) {
	if s.WsNotifier == nil || n == nil {
		return
	}
	msg := struct {
		Type       string         `json:"type"`
		ID         uint64         `json:"id"`
		NotifyType string         `json:"notify_type"`
		FromUserID *uint64        `json:"from_user_id,omitempty"`
		PostID     *uint64        `json:"post_id,omitempty"`
		Content    string         `json:"content,omitempty"`
		Payload    datatypes.JSON `json:"payload,omitempty"`
		CreatedAt  time.Time      `json:"created_at"`
	}{
		Type:       cons.PushNotification,
		ID:         n.ID,
		NotifyType: n.Type,
		FromUserID: n.FromUserID,
		PostID:     n.PostID,
		Content:    n.Content,
		Payload:    n.Payload,
		CreatedAt:  n.CreatedAt,
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return
	}
	s.WsNotifier(n.UserID, b)
}

// ActorDTO 通知里展示的触发者
type ActorDTO struct {
	ID          uint64 `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	IsVerified  bool   `json:"is_verified"`
	Avatar      string `json:"avatar,omitempty"`
}

type NotificationDTO struct {
	ID        uint64    `json:"id"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	PostID    *uint64   `json:"post_id,omitempty"`
	FromUser  *ActorDTO `json:"from_user,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// List 当前用户的通知（倒序），带触发者展示信息。
func (s *NotificationService) List(userID uint64, limit int) ([]NotificationDTO, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []models.Notification
	if err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []NotificationDTO{}, nil
	}

	// 触发者批量取用户 + 主头像
	actorIDs := make([]uint64, 0, len(rows))
	seen := make(map[uint64]struct{})
	for _, n := range rows {
		if n.FromUserID == nil {
			continue
		}
		if _, ok := seen[*n.FromUserID]; ok {
			continue
		}
		seen[*n.FromUserID] = struct{}{}
		actorIDs = append(actorIDs, *n.FromUserID)
	}
	actorMap := make(map[uint64]models.User, len(actorIDs))
	avatarMap := map[uint64]string{}
	if len(actorIDs) > 0 {
		var actors []models.User
		if err := s.DB.Where("id IN ?", actorIDs).Find(&actors).Error; err != nil {
			return nil, err
		}
		for _, u := range actors {
			actorMap[u.ID] = u
		}
		var err error
		avatarMap, err = models.NewUserDAO(s.DB).PrimaryAvatarURLs(actorIDs)
		if err != nil {
			return nil, err
		}
	}

	out := make([]NotificationDTO, 0, len(rows))
	for _, n := range rows {
		dto := NotificationDTO{
			ID:        n.ID,
			Type:      n.Type,
			Content:   n.Content,
			PostID:    n.PostID,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		}
		if n.FromUserID != nil {
			if u, ok := actorMap[*n.FromUserID]; ok {
				dto.FromUser = &ActorDTO{
					ID:          u.ID,
					Username:    u.Username,
					DisplayName: u.DisplayName,
					IsVerified:  u.IsVerified,
					Avatar:      avatarMap[u.ID],
				}
			}
		}
		out = append(out, dto)
	}
	return out, nil
}

// MarkAllRead 全部置为已读。
func (s *NotificationService) MarkAllRead(userID uint64) error {
	return s.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

// UnreadCount 未读数。
func (s *NotificationService) UnreadCount(userID uint64) (int64, error) {
	var cnt int64
	err := s.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&cnt).Error
	return cnt, err
}

// Truncate 按 rune 截断摘要文本。
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
