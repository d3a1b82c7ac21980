package service

import (
	"fmt"
	"time"

	"github.com/cydxin/social-sdk/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactionService 互动台账：点赞/转发/拉黑等可逆操作
// 语义：
// - Activate 幂等；已有记录（含已取消的）在原行上重新激活，不会出现第二行
// - Deactivate 置 active=false，行保留，计数只看 active
// - 并发重复请求由 (user_id, target_id, kind) 唯一索引 + ON CONFLICT 收敛
type ReactionService struct {
	*Service
}

func NewReactionService(s *Service) *ReactionService {
	return &ReactionService{Service: s}
}

// ActivateTx 在调用方事务内激活一条互动记录。
// 返回值 created：本次 upsert 是否插入了新行。MySQL 对 ON DUPLICATE KEY UPDATE
// 插入新行报 RowsAffected=1，命中已有行报 2，调用方据此决定是否扇出通知——
// 并发重复请求各自拿到的 created 至多一个为 true。
func (s *ReactionService) ActivateTx(tx *gorm.DB, userID, targetID uint64, kind uint8) (bool, error) {
	if userID == 0 || targetID == 0 {
		return false, fmt.Errorf("%w: user/target required", ErrInvalid)
	}
	now := time.Now()
	r := models.Reaction{
		UserID:    userID,
		TargetID:  targetID,
		Kind:      kind,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	res := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "target_id"}, {Name: "kind"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"active":     true,
			"updated_at": now,
		}),
	}).Create(&r)
	return res.RowsAffected == 1, res.Error
}

func (s *ReactionService) Activate(userID, targetID uint64, kind uint8) error {
	_, err := s.ActivateTx(s.DB, userID, targetID, kind)
	return err
}

// DeactivateTx 取消互动。不存在或已取消时为 no-op。
func (s *ReactionService) DeactivateTx(tx *gorm.DB, userID, targetID uint64, kind uint8) error {
	if userID == 0 || targetID == 0 {
		return fmt.Errorf("%w: user/target required", ErrInvalid)
	}
	return tx.Model(&models.Reaction{}).
		Where("user_id = ? AND target_id = ? AND kind = ? AND active = ?", userID, targetID, kind, true).
		Update("active", false).Error
}

func (s *ReactionService) Deactivate(userID, targetID uint64, kind uint8) error {
	return s.DeactivateTx(s.DB, userID, targetID, kind)
}

// Count 某目标的 active 互动数。
func (s *ReactionService) Count(targetID uint64, kind uint8) (int64, error) {
	var cnt int64
	err := s.DB.Model(&models.Reaction{}).
		Where("target_id = ? AND kind = ? AND active = ?", targetID, kind, true).
		Count(&cnt).Error
	return cnt, err
}

// CountMap 批量计数：map[targetID]count，没有互动的目标不在 map 里。
func (s *ReactionService) CountMap(targetIDs []uint64, kind uint8) (map[uint64]int64, error) {
	out := make(map[uint64]int64, len(targetIDs))
	if len(targetIDs) == 0 {
		return out, nil
	}
	type row struct {
		TargetID uint64
		Cnt      int64
	}
	var rows []row
	err := s.DB.Model(&models.Reaction{}).
		Select("target_id, COUNT(*) AS cnt").
		Where("target_id IN ? AND kind = ? AND active = ?", targetIDs, kind, true).
		Group("target_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.TargetID] = r.Cnt
	}
	return out, nil
}

// IsActive 某用户对某目标是否有 active 互动。
func (s *ReactionService) IsActive(userID, targetID uint64, kind uint8) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	var cnt int64
	err := s.DB.Model(&models.Reaction{}).
		Where("user_id = ? AND target_id = ? AND kind = ? AND active = ?", userID, targetID, kind, true).
		Count(&cnt).Error
	return cnt > 0, err
}

// ActiveSet 批量查：userID 对哪些目标有 active 互动（用于列表的 liked/reposted 装饰）。
func (s *ReactionService) ActiveSet(userID uint64, targetIDs []uint64, kind uint8) (map[uint64]bool, error) {
	out := make(map[uint64]bool, len(targetIDs))
	if userID == 0 || len(targetIDs) == 0 {
		return out, nil
	}
	var ids []uint64
	err := s.DB.Model(&models.Reaction{}).
		Where("user_id = ? AND target_id IN ? AND kind = ? AND active = ?", userID, targetIDs, kind, true).
		Pluck("target_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// BlockedIDs 当前用户 active 拉黑的用户列表（只影响拉黑者自己的读路径）。
func (s *ReactionService) BlockedIDs(userID uint64) ([]uint64, error) {
	if userID == 0 {
		return nil, nil
	}
	var ids []uint64
	err := s.DB.Model(&models.Reaction{}).
		Where("user_id = ? AND kind = ? AND active = ?", userID, models.KindBlock, true).
		Pluck("target_id", &ids).Error
	return ids, err
}

// HasBlocked blocker 是否拉黑了 target。
func (s *ReactionService) HasBlocked(blockerID, targetID uint64) (bool, error) {
	return s.IsActive(blockerID, targetID, models.KindBlock)
}
