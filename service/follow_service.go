package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/cydxin/social-sdk/cons"
	"github.com/cydxin/social-sdk/models"
	"gorm.io/gorm"
)

// FollowService 关注关系状态机
// 每个有序对 (follower, following) 只有一行，状态原地迁移：
// pending → accepted / rejected；任意状态 → removed（取关）；
// removed / rejected 之后重新关注按新请求评估，但仍在原行上改状态。
type FollowService struct {
	*Service
}

func NewFollowService(s *Service) *FollowService {
	return &FollowService{Service: s}
}

// UserBriefDTO 列表里展示的用户摘要
type UserBriefDTO struct {
	ID          uint64 `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	IsVerified  bool   `json:"is_verified"`
	IsArtist    bool   `json:"is_artist"`
	Avatar      string `json:"avatar,omitempty"`
}

func toUserBrief(u models.User, avatar string) UserBriefDTO {
	return UserBriefDTO{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		IsVerified:  u.IsVerified,
		IsArtist:    u.IsArtist,
		Avatar:      avatar,
	}
}

// Request 发起关注。
// 已有 pending/accepted 的边直接返回当前状态，不重复通知；
// removed/rejected 的边按目标当前的私密设置重新评估并在原行更新。
func (s *FollowService) Request(followerID, followingID uint64) (uint8, error) {
	if followerID == followingID {
		return 0, fmt.Errorf("%w: cannot follow yourself", ErrForbidden)
	}

	var target models.User
	if err := s.DB.Where("id = ?", followingID).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: user %d", ErrNotFound, followingID)
		}
		return 0, err
	}

	// 新状态按目标当前隐私设置评估
	newStatus := models.FollowAccepted
	ntype := cons.NotifyFollow
	content := "started following you"
	if target.IsPrivate {
		newStatus = models.FollowPending
		ntype = cons.NotifyFollowRequest
		content = "wants to follow you"
	}

	var status uint8
	var notif *models.Notification
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var edge models.Follow
		err := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).
			First(&edge).Error
		switch {
		case err == nil:
			if edge.Status == models.FollowPending || edge.Status == models.FollowAccepted {
				// 已在流程中，保持原状
				status = edge.Status
				return nil
			}
			// removed / rejected：原行上按新请求迁移
			if err := tx.Model(&models.Follow{}).
				Where("id = ?", edge.ID).
				Updates(map[string]interface{}{"status": newStatus, "updated_at": time.Now()}).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			edge = models.Follow{FollowerID: followerID, FollowingID: followingID, Status: newStatus}
			if cerr := tx.Create(&edge).Error; cerr != nil {
				if isDuplicateKey(cerr) {
					// 并发重复请求落败的一侧：边已被对方插入，回读当前状态即可。
					// 通知由插入成功的那次请求扇出。
					var cur models.Follow
					if rerr := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).
						First(&cur).Error; rerr != nil {
						return rerr
					}
					status = cur.Status
					return nil
				}
				return cerr
			}
		default:
			return err
		}

		status = newStatus
		actor := followerID
		n, err := s.Notify.PublishTx(tx, followingID, &actor, ntype, nil, content)
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
	return status, nil
}

// Accept 审批通过。只允许从 pending 迁移，其余返回 Conflict。
// userID 是被关注方（审批人）。
func (s *FollowService) Accept(userID, followerID uint64) error {
	var notif *models.Notification
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Follow{}).
			Where("follower_id = ? AND following_id = ? AND status = ?", followerID, userID, models.FollowPending).
			Updates(map[string]interface{}{"status": models.FollowAccepted, "updated_at": time.Now()})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: no pending follow request", ErrConflict)
		}
		actor := userID
		n, err := s.Notify.PublishTx(tx, followerID, &actor, cons.NotifyFollowAccepted, nil, "accepted your follow request")
		if err != nil {
			return err
		}
		notif = n
		return nil
	})
	if err != nil {
		return err
	}
	s.Notify.Push(notif)
	return nil
}

// Reject 审批驳回。只允许从 pending 迁移；不产生通知。
func (s *FollowService) Reject(userID, followerID uint64) error {
	res := s.DB.Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ? AND status = ?", followerID, userID, models.FollowPending).
		Updates(map[string]interface{}{"status": models.FollowRejected, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: no pending follow request", ErrConflict)
	}
	return nil
}

// Unfollow 取关。任意状态 → removed；没有边时 no-op。
func (s *FollowService) Unfollow(followerID, followingID uint64) error {
	return s.DB.Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ? AND status <> ?", followerID, followingID, models.FollowRemoved).
		Updates(map[string]interface{}{"status": models.FollowRemoved, "updated_at": time.Now()}).Error
}

// Relation 取有向边当前状态；没有边时 exists=false。
func (s *FollowService) Relation(followerID, followingID uint64) (status uint8, exists bool, err error) {
	if followerID == 0 || followingID == 0 {
		return 0, false, nil
	}
	var edge models.Follow
	e := s.DB.Where("follower_id = ? AND following_id = ?", followerID, followingID).First(&edge).Error
	if e != nil {
		if errors.Is(e, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, e
	}
	return edge.Status, true, nil
}

// IsFollowing follower 对 following 是否有 accepted 边。
func (s *FollowService) IsFollowing(followerID, followingID uint64) (bool, error) {
	st, ok, err := s.Relation(followerID, followingID)
	return ok && st == models.FollowAccepted, err
}

// IsMutual 双向 accepted（互关好友）。
func (s *FollowService) IsMutual(a, b uint64) (bool, error) {
	f1, err := s.IsFollowing(a, b)
	if err != nil || !f1 {
		return false, err
	}
	return s.IsFollowing(b, a)
}

// Followers X 的粉丝：accepted 边的 follower，排除已被运营封禁的账号。
func (s *FollowService) Followers(userID uint64) ([]UserBriefDTO, error) {
	var ids []uint64
	if err := s.DB.Model(&models.Follow{}).
		Where("following_id = ? AND status = ?", userID, models.FollowAccepted).
		Pluck("follower_id", &ids).Error; err != nil {
		return nil, err
	}
	return s.loadBriefs(ids)
}

// Following X 关注的人。
func (s *FollowService) Following(userID uint64) ([]UserBriefDTO, error) {
	var ids []uint64
	if err := s.DB.Model(&models.Follow{}).
		Where("follower_id = ? AND status = ?", userID, models.FollowAccepted).
		Pluck("following_id", &ids).Error; err != nil {
		return nil, err
	}
	return s.loadBriefs(ids)
}

// Friends 互关好友：两个方向都是 accepted。
func (s *FollowService) Friends(userID uint64) ([]UserBriefDTO, error) {
	var outgoing, incoming []uint64
	if err := s.DB.Model(&models.Follow{}).
		Where("follower_id = ? AND status = ?", userID, models.FollowAccepted).
		Pluck("following_id", &outgoing).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Follow{}).
		Where("following_id = ? AND status = ?", userID, models.FollowAccepted).
		Pluck("follower_id", &incoming).Error; err != nil {
		return nil, err
	}
	in := make(map[uint64]struct{}, len(incoming))
	for _, id := range incoming {
		in[id] = struct{}{}
	}
	var mutual []uint64
	for _, id := range outgoing {
		if _, ok := in[id]; ok {
			mutual = append(mutual, id)
		}
	}
	return s.loadBriefs(mutual)
}

// FollowerCount / FollowingCount accepted 边计数。
// 与 Followers/Following 列表同一口径：被运营封禁的对端不计入。
func (s *FollowService) FollowerCount(userID uint64) (int64, error) {
	var cnt int64
	err := s.DB.Model(&models.Follow{}).
		Where("following_id = ? AND status = ?", userID, models.FollowAccepted).
		Where("follower_id NOT IN (?)", s.DB.Model(&models.User{}).Select("id").Where("is_blocked = ?", true)).
		Count(&cnt).Error
	return cnt, err
}

func (s *FollowService) FollowingCount(userID uint64) (int64, error) {
	var cnt int64
	err := s.DB.Model(&models.Follow{}).
		Where("follower_id = ? AND status = ?", userID, models.FollowAccepted).
		Where("following_id NOT IN (?)", s.DB.Model(&models.User{}).Select("id").Where("is_blocked = ?", true)).
		Count(&cnt).Error
	return cnt, err
}

// loadBriefs 按 id 批量取未封禁用户的摘要（带主头像）。
func (s *FollowService) loadBriefs(ids []uint64) ([]UserBriefDTO, error) {
	if len(ids) == 0 {
		return []UserBriefDTO{}, nil
	}
	var users []models.User
	if err := s.DB.Where("id IN ? AND is_blocked = ?", ids, false).Find(&users).Error; err != nil {
		return nil, err
	}
	uids := make([]uint64, len(users))
	for i, u := range users {
		uids[i] = u.ID
	}
	avatars, err := models.NewUserDAO(s.DB).PrimaryAvatarURLs(uids)
	if err != nil {
		return nil, err
	}
	out := make([]UserBriefDTO, len(users))
	for i, u := range users {
		out[i] = toUserBrief(u, avatars[u.ID])
	}
	return out, nil
}
