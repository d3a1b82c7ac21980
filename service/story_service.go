package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/cydxin/social-sdk/models"
)

// StoryService 限时动态，默认 24 小时过期
type StoryService struct {
	*Service
	Vis *Visibility
}

func NewStoryService(s *Service, vis *Visibility) *StoryService {
	return &StoryService{Service: s, Vis: vis}
}

const storyTTL = 24 * time.Hour

type StoryDTO struct {
	ID         uint64       `json:"id"`
	Owner      UserBriefDTO `json:"owner"`
	ImageURL   string       `json:"image_url"`
	Visibility string       `json:"visibility"`
	ExpiresAt  time.Time    `json:"expires_at"`
	CreatedAt  time.Time    `json:"created_at"`
}

// Create 发布限时动态。图片必填，visibility 非法值回落到 all。
func (s *StoryService) Create(userID uint64, imageURL, visibility string) (uint64, error) {
	if strings.TrimSpace(imageURL) == "" {
		return 0, fmt.Errorf("%w: image required", ErrInvalid)
	}
	switch visibility {
	case models.StoryAll, models.StoryFollowers, models.StoryMutual:
	default:
		visibility = models.StoryAll
	}
	st := models.Story{
		UserID:     userID,
		ImageURL:   imageURL,
		Visibility: visibility,
		ExpiresAt:  time.Now().Add(storyTTL),
	}
	if err := s.DB.Create(&st).Error; err != nil {
		return 0, err
	}
	return st.ID, nil
}

// List 拉取当前对 viewer 可见的全部未过期动态。
// 过滤在内存里做：每个作者一次关系快照，复用同一套可见性判定。
func (s *StoryService) List(viewerID uint64) ([]StoryDTO, error) {
	now := time.Now()
	var stories []models.Story
	err := s.DB.Where("expires_at > ?", now).Order("created_at DESC").Find(&stories).Error
	if err != nil {
		return nil, err
	}
	if len(stories) == 0 {
		return []StoryDTO{}, nil
	}

	ownerIDs := make([]uint64, 0, len(stories))
	seen := make(map[uint64]bool)
	for _, st := range stories {
		if !seen[st.UserID] {
			seen[st.UserID] = true
			ownerIDs = append(ownerIDs, st.UserID)
		}
	}

	var owners []models.User
	if err := s.DB.Where("id IN ?", ownerIDs).Find(&owners).Error; err != nil {
		return nil, err
	}
	ownerMap := make(map[uint64]models.User, len(owners))
	for _, u := range owners {
		ownerMap[u.ID] = u
	}
	avatars, err := models.NewUserDAO(s.DB).PrimaryAvatarURLs(ownerIDs)
	if err != nil {
		return nil, err
	}

	rels := make(map[uint64]Rel, len(ownerIDs))
	if viewerID != 0 {
		for _, oid := range ownerIDs {
			if oid == viewerID {
				continue
			}
			rel, err := s.Vis.RelationSnapshot(viewerID, oid)
			if err != nil {
				return nil, err
			}
			rels[oid] = rel
		}
	}

	out := make([]StoryDTO, 0, len(stories))
	for _, st := range stories {
		owner, ok := ownerMap[st.UserID]
		if !ok {
			continue
		}
		if !StoryVisible(st, owner.IsBlocked, viewerID, rels[st.UserID], now) {
			continue
		}
		out = append(out, StoryDTO{
			ID:         st.ID,
			Owner:      toUserBrief(owner, avatars[st.UserID]),
			ImageURL:   st.ImageURL,
			Visibility: st.Visibility,
			ExpiresAt:  st.ExpiresAt,
			CreatedAt:  st.CreatedAt,
		})
	}
	return out, nil
}

// Delete 删除自己的动态。
func (s *StoryService) Delete(userID, storyID uint64) error {
	res := s.DB.Where("id = ? AND user_id = ?", storyID, userID).Delete(&models.Story{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: story %d", ErrNotFound, storyID)
	}
	return nil
}
