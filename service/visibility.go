package service

import (
	"time"

	"github.com/cydxin/social-sdk/models"
)

// Visibility 可见性裁决器
// 所有读路径（feed、主页、故事、评论、搜索）统一走这里，避免在各端点里
// 重复散落隐藏/拉黑/隐私判断。规则按序命中，先命中先返回：
//  1. 内容隐藏 或 所有者被运营封禁 → 对所有人不可见
//  2. 故事按 owner 自见 / all / followers / mutual 评估，过期一律不可见
//  3. 主页字段（likes/reposts/followers/…）设置为 none 时仅所有者可见
//  4. feed 额外排除观察者 active 拉黑的作者（单向，只影响拉黑者自己）
type Visibility struct {
	*Service
	Follows   *FollowService
	Reactions *ReactionService
}

func NewVisibility(s *Service, follows *FollowService, reactions *ReactionService) *Visibility {
	return &Visibility{Service: s, Follows: follows, Reactions: reactions}
}

// Rel 观察者与内容所有者之间的关注边快照
type Rel struct {
	ViewerFollowsOwner bool // viewer→owner accepted
	OwnerFollowsViewer bool // owner→viewer accepted
}

// ContentVisible 规则 1：隐藏内容与被封禁作者的内容对所有人不可见。
func ContentVisible(isHidden, ownerBlocked bool) bool {
	return !isHidden && !ownerBlocked
}

// StoryVisible 规则 2：故事可见性（纯函数，关系快照由调用方提供）。
func StoryVisible(st models.Story, ownerBlocked bool, viewerID uint64, rel Rel, now time.Time) bool {
	if ownerBlocked {
		return false
	}
	if !st.ExpiresAt.After(now) {
		return false
	}
	if st.UserID == viewerID {
		return true
	}
	switch st.Visibility {
	case models.StoryAll:
		return true
	case models.StoryFollowers:
		return rel.ViewerFollowsOwner
	case models.StoryMutual:
		return rel.ViewerFollowsOwner && rel.OwnerFollowsViewer
	default:
		return false
	}
}

// FieldVisible 规则 3：主页字段可见性。none 仅所有者可见，其余一律可见。
func FieldVisible(setting string, viewerID, ownerID uint64) bool {
	if setting != models.FieldNone {
		return true
	}
	return viewerID != 0 && viewerID == ownerID
}

// RelationSnapshot 取 viewer 与 owner 之间双向边的快照。
func (v *Visibility) RelationSnapshot(viewerID, ownerID uint64) (Rel, error) {
	var rel Rel
	if viewerID == 0 || ownerID == 0 || viewerID == ownerID {
		return rel, nil
	}
	f1, err := v.Follows.IsFollowing(viewerID, ownerID)
	if err != nil {
		return rel, err
	}
	f2, err := v.Follows.IsFollowing(ownerID, viewerID)
	if err != nil {
		return rel, err
	}
	rel.ViewerFollowsOwner = f1
	rel.OwnerFollowsViewer = f2
	return rel, nil
}

// BlockedSet 规则 4：viewer 自己拉黑的作者集合（过滤 feed 用）。
func (v *Visibility) BlockedSet(viewerID uint64) (map[uint64]struct{}, error) {
	out := map[uint64]struct{}{}
	if viewerID == 0 {
		return out, nil
	}
	ids, err := v.Reactions.BlockedIDs(viewerID)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}
