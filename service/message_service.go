package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cydxin/social-sdk/cons"
	"github.com/cydxin/social-sdk/models"
	"gorm.io/gorm"
)

// MessageService 私信与会话装配
// 可见性是非对称的：每条消息带双方各自的隐藏标记，读路径只看请求者自己那一侧。
type MessageService struct {
	*Service
	Reactions *ReactionService
}

func NewMessageService(s *Service, reactions *ReactionService) *MessageService {
	return &MessageService{Service: s, Reactions: reactions}
}

type MessageDTO struct {
	ID         uint64     `json:"id"`
	SenderID   uint64     `json:"sender_id"`
	ReceiverID uint64     `json:"receiver_id"`
	Content    string     `json:"content"`
	ReplyToID  *uint64    `json:"reply_to_id,omitempty"`
	IsRead     bool       `json:"is_read"`
	IsPinned   bool       `json:"is_pinned"`
	EditedAt   *time.Time `json:"edited_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func toMessageDTO(m models.Message) MessageDTO {
	return MessageDTO{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
		ReplyToID:  m.ReplyToID,
		IsRead:     m.IsRead,
		IsPinned:   m.IsPinned,
		EditedAt:   m.EditedAt,
		CreatedAt:  m.CreatedAt,
	}
}

// ConversationDTO 会话列表项：对方摘要 + 最近一条可见消息 + 未读数
type ConversationDTO struct {
	Partner     UserBriefDTO `json:"partner"`
	LastMessage MessageDTO   `json:"last_message"`
	Unread      int64        `json:"unread"`
}

// Send 发私信。
// 拒绝条件：自发、收信人关闭私信、收信人拉黑了发送者。
// 消息与通知同一事务落库，提交后尽力推送。
func (s *MessageService) Send(senderID, receiverID uint64, content string, replyToID *uint64) (uint64, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return 0, fmt.Errorf("%w: content required", ErrInvalid)
	}
	if senderID == receiverID {
		return 0, fmt.Errorf("%w: cannot message yourself", ErrForbidden)
	}

	var receiver models.User
	if err := s.DB.Where("id = ?", receiverID).First(&receiver).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: user %d", ErrNotFound, receiverID)
		}
		return 0, err
	}
	if !receiver.AllowMessages {
		return 0, fmt.Errorf("%w: user disabled messages", ErrForbidden)
	}
	blocked, err := s.Reactions.HasBlocked(receiverID, senderID)
	if err != nil {
		return 0, err
	}
	if blocked {
		return 0, fmt.Errorf("%w: blocked by receiver", ErrForbidden)
	}

	var mid uint64
	var notif *models.Notification
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		m := models.Message{
			SenderID:   senderID,
			ReceiverID: receiverID,
			Content:    content,
			ReplyToID:  replyToID,
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		mid = m.ID
		actor := senderID
		n, err := s.Notify.PublishTx(tx, receiverID, &actor, cons.NotifyMessage, nil, Truncate(content, 50))
		if err != nil {
			return err
		}
		notif = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.Notify.Push(notif)
	return mid, nil
}

// Edit 仅发送者可编辑，记录 edited_at。
func (s *MessageService) Edit(senderID, messageID uint64, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return fmt.Errorf("%w: content required", ErrInvalid)
	}
	now := time.Now()
	res := s.DB.Model(&models.Message{}).
		Where("id = ? AND sender_id = ?", messageID, senderID).
		Updates(map[string]interface{}{"content": content, "edited_at": &now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: not the sender", ErrPermission)
	}
	return nil
}

// Pin 置顶/取消置顶。会话双方都可操作。
func (s *MessageService) Pin(userID, messageID uint64, pinned bool) error {
	res := s.DB.Model(&models.Message{}).
		Where("id = ? AND (sender_id = ? OR receiver_id = ?)", messageID, userID, userID).
		Update("is_pinned", pinned)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: message %d", ErrNotFound, messageID)
	}
	return nil
}

// MarkRead 把来自 partner 的未读消息全部置为已读。
func (s *MessageService) MarkRead(userID, partnerID uint64) error {
	return s.DB.Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", partnerID, userID, false).
		Update("is_read", true).Error
}

// HideConversation 删除会话（只影响自己那一侧的可见性）。
func (s *MessageService) HideConversation(userID, partnerID uint64) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Message{}).
			Where("sender_id = ? AND receiver_id = ?", userID, partnerID).
			Update("hidden_by_sender", true).Error; err != nil {
			return err
		}
		return tx.Model(&models.Message{}).
			Where("sender_id = ? AND receiver_id = ?", partnerID, userID).
			Update("hidden_by_receiver", true).Error
	})
}

// Conversations 会话列表：按对方分组，取自己可见的最近一条做预览，带未读数。
func (s *MessageService) Conversations(userID uint64) ([]ConversationDTO, error) {
	var msgs []models.Message
	err := s.DB.
		Where("(sender_id = ? AND hidden_by_sender = ?) OR (receiver_id = ? AND hidden_by_receiver = ?)",
			userID, false, userID, false).
		Order("created_at DESC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return []ConversationDTO{}, nil
	}

	// 每个 partner 的最近一条（已按时间倒序）
	lastByPartner := make(map[uint64]models.Message)
	order := make([]uint64, 0)
	for _, m := range msgs {
		pid := m.SenderID
		if pid == userID {
			pid = m.ReceiverID
		}
		if _, ok := lastByPartner[pid]; !ok {
			lastByPartner[pid] = m
			order = append(order, pid)
		}
	}

	// 未读数：partner → 我 且 is_read = false
	type unreadRow struct {
		SenderID uint64
		Cnt      int64
	}
	var unreadRows []unreadRow
	err = s.DB.Model(&models.Message{}).
		Select("sender_id, COUNT(*) AS cnt").
		Where("receiver_id = ? AND is_read = ? AND sender_id IN ?", userID, false, order).
		Group("sender_id").Scan(&unreadRows).Error
	if err != nil {
		return nil, err
	}
	unread := make(map[uint64]int64, len(unreadRows))
	for _, r := range unreadRows {
		unread[r.SenderID] = r.Cnt
	}

	var partners []models.User
	if err := s.DB.Where("id IN ?", order).Find(&partners).Error; err != nil {
		return nil, err
	}
	partnerMap := make(map[uint64]models.User, len(partners))
	for _, u := range partners {
		partnerMap[u.ID] = u
	}
	avatars, err := models.NewUserDAO(s.DB).PrimaryAvatarURLs(order)
	if err != nil {
		return nil, err
	}

	out := make([]ConversationDTO, 0, len(order))
	for _, pid := range order {
		u, ok := partnerMap[pid]
		if !ok {
			continue
		}
		out = append(out, ConversationDTO{
			Partner:     toUserBrief(u, avatars[pid]),
			LastMessage: toMessageDTO(lastByPartner[pid]),
			Unread:      unread[pid],
		})
	}
	// 最近活跃的会话排前面
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastMessage.CreatedAt.After(out[j].LastMessage.CreatedAt)
	})
	return out, nil
}

// Conversation 会话详情：时间升序，只按请求者自己的隐藏标记过滤。
func (s *MessageService) Conversation(userID, partnerID uint64, limit int) ([]MessageDTO, error) {
	if limit <= 0 {
		limit = 100
	}
	var msgs []models.Message
	err := s.DB.
		Where("(sender_id = ? AND receiver_id = ? AND hidden_by_sender = ?) OR (sender_id = ? AND receiver_id = ? AND hidden_by_receiver = ?)",
			userID, partnerID, false, partnerID, userID, false).
		Order("created_at ASC").Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	out := make([]MessageDTO, len(msgs))
	for i, m := range msgs {
		out[i] = toMessageDTO(m)
	}
	return out, nil
}
