package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cydxin/social-sdk/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserService 个人主页、资料编辑、搜索、拉黑与账号注销
type UserService struct {
	*Service
	Follows   *FollowService
	Reactions *ReactionService
}

func NewUserService(s *Service, follows *FollowService, reactions *ReactionService) *UserService {
	return &UserService{Service: s, Follows: follows, Reactions: reactions}
}

type ReleaseDTO struct {
	ID         uint64 `json:"id"`
	Title      string `json:"title"`
	ArtistName string `json:"artist_name,omitempty"`
	CoverURL   string `json:"cover_url,omitempty"`
	AudioURL   string `json:"audio_url,omitempty"`
}

type AvatarDTO struct {
	ID        uint64 `json:"id"`
	URL       string `json:"url"`
	IsPrimary bool   `json:"is_primary"`
}

// ProfileDTO 主页聚合视图
// show_* 偏好原样带回：列表接口各自再做门禁，前端据此隐藏入口。
type ProfileDTO struct {
	ID          uint64 `json:"id"`
	UID         string `json:"uid"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	Bio         string `json:"bio,omitempty"`
	Theme       string `json:"theme,omitempty"`

	Telegram  string `json:"telegram,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Website   string `json:"website,omitempty"`
	Tiktok    string `json:"tiktok,omitempty"`
	Youtube   string `json:"youtube,omitempty"`

	IsPrivate     bool `json:"is_private"`
	IsVerified    bool `json:"is_verified"`
	IsArtist      bool `json:"is_artist"`
	AllowMessages bool `json:"allow_messages"`

	ShowLikes     string `json:"show_likes"`
	ShowReposts   string `json:"show_reposts"`
	ShowFollowers string `json:"show_followers"`
	ShowFollowing string `json:"show_following"`
	ShowFriends   string `json:"show_friends"`

	PostCount      int64 `json:"post_count"`
	FollowerCount  int64 `json:"follower_count"`
	FollowingCount int64 `json:"following_count"`

	Avatar       string      `json:"avatar,omitempty"`
	Avatars      []AvatarDTO `json:"avatars"`
	FollowStatus *uint8      `json:"follow_status,omitempty"` // viewer → owner 的边状态
	IsFollowing  bool        `json:"is_following"`
	BlockedByMe  bool        `json:"blocked_by_me"`

	Releases []ReleaseDTO `json:"releases,omitempty"`
}

// Profile 按用户名取主页。被封禁（含已注销）账号只有本人可见。
func (s *UserService) Profile(viewerID uint64, username string) (*ProfileDTO, error) {
	var u models.User
	if err := s.DB.Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %q", ErrNotFound, username)
		}
		return nil, err
	}
	if u.IsBlocked && viewerID != u.ID {
		return nil, fmt.Errorf("%w: user %q", ErrNotFound, username)
	}

	dto := &ProfileDTO{
		ID:            u.ID,
		UID:           u.UID,
		Username:      u.Username,
		DisplayName:   u.DisplayName,
		Bio:           u.Bio,
		Theme:         u.Theme,
		Telegram:      u.Telegram,
		Instagram:     u.Instagram,
		Website:       u.Website,
		Tiktok:        u.Tiktok,
		Youtube:       u.Youtube,
		IsPrivate:     u.IsPrivate,
		IsVerified:    u.IsVerified,
		IsArtist:      u.IsArtist,
		AllowMessages: u.AllowMessages,
		ShowLikes:     u.ShowLikes,
		ShowReposts:   u.ShowReposts,
		ShowFollowers: u.ShowFollowers,
		ShowFollowing: u.ShowFollowing,
		ShowFriends:   u.ShowFriends,
		Avatars:       []AvatarDTO{},
	}

	if err := s.DB.Model(&models.Post{}).
		Where("user_id = ? AND is_hidden = ?", u.ID, false).
		Count(&dto.PostCount).Error; err != nil {
		return nil, err
	}
	var err error
	if dto.FollowerCount, err = s.Follows.FollowerCount(u.ID); err != nil {
		return nil, err
	}
	if dto.FollowingCount, err = s.Follows.FollowingCount(u.ID); err != nil {
		return nil, err
	}

	var avatars []models.Avatar
	if err := s.DB.Where("user_id = ?", u.ID).Order("created_at DESC").Find(&avatars).Error; err != nil {
		return nil, err
	}
	for _, a := range avatars {
		dto.Avatars = append(dto.Avatars, AvatarDTO{ID: a.ID, URL: a.URL, IsPrimary: a.IsPrimary})
		if a.IsPrimary {
			dto.Avatar = a.URL
		}
	}

	if viewerID != 0 && viewerID != u.ID {
		status, exists, err := s.Follows.Relation(viewerID, u.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			dto.FollowStatus = &status
		}
		dto.IsFollowing = exists && status == models.FollowAccepted
		if dto.BlockedByMe, err = s.Reactions.HasBlocked(viewerID, u.ID); err != nil {
			return nil, err
		}
	}

	if u.IsArtist {
		var releases []models.Release
		if err := s.DB.Where("artist_id = ?", u.ID).Order("created_at DESC").Find(&releases).Error; err != nil {
			return nil, err
		}
		for _, r := range releases {
			dto.Releases = append(dto.Releases, ReleaseDTO{
				ID: r.ID, Title: r.Title, ArtistName: r.ArtistName,
				CoverURL: r.CoverURL, AudioURL: r.AudioURL,
			})
		}
	}
	return dto, nil
}

// ProfileUpdate 资料局部更新，nil 字段不动
type ProfileUpdate struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	Theme       *string `json:"theme"`

	Telegram  *string `json:"telegram"`
	Instagram *string `json:"instagram"`
	Website   *string `json:"website"`
	Tiktok    *string `json:"tiktok"`
	Youtube   *string `json:"youtube"`

	IsPrivate     *bool `json:"is_private"`
	AllowMessages *bool `json:"allow_messages"`

	ShowLikes     *string `json:"show_likes"`
	ShowReposts   *string `json:"show_reposts"`
	ShowFollowers *string `json:"show_followers"`
	ShowFollowing *string `json:"show_following"`
	ShowFriends   *string `json:"show_friends"`
}

func validShowValue(v string) bool {
	return v == models.FieldPublic || v == models.FieldNone
}

// UpdateProfile 只把非 nil 字段写库。
func (s *UserService) UpdateProfile(userID uint64, in ProfileUpdate) error {
	updates := map[string]interface{}{}
	setStr := func(col string, v *string) {
		if v != nil {
			updates[col] = strings.TrimSpace(*v)
		}
	}
	setShow := func(col string, v *string) error {
		if v == nil {
			return nil
		}
		if !validShowValue(*v) {
			return fmt.Errorf("%w: %s must be public or none", ErrInvalid, col)
		}
		updates[col] = *v
		return nil
	}

	setStr("display_name", in.DisplayName)
	setStr("bio", in.Bio)
	setStr("theme", in.Theme)
	setStr("telegram", in.Telegram)
	setStr("instagram", in.Instagram)
	setStr("website", in.Website)
	setStr("tiktok", in.Tiktok)
	setStr("youtube", in.Youtube)
	if in.IsPrivate != nil {
		updates["is_private"] = *in.IsPrivate
	}
	if in.AllowMessages != nil {
		updates["allow_messages"] = *in.AllowMessages
	}
	for _, f := range []struct {
		col string
		v   *string
	}{
		{"show_likes", in.ShowLikes},
		{"show_reposts", in.ShowReposts},
		{"show_followers", in.ShowFollowers},
		{"show_following", in.ShowFollowing},
		{"show_friends", in.ShowFriends},
	} {
		if err := setShow(f.col, f.v); err != nil {
			return err
		}
	}
	if len(updates) == 0 {
		return nil
	}
	return s.DB.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error
}

// Search 按用户名 / 显示名模糊搜索，最少两个字符，封禁账号不出现。
func (s *UserService) Search(viewerID uint64, query string, limit int) ([]UserBriefDTO, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < 2 {
		return []UserBriefDTO{}, nil
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	like := "%" + query + "%"
	var users []models.User
	err := s.DB.
		Where("(username LIKE ? OR display_name LIKE ?) AND is_blocked = ?", like, like, false).
		Limit(limit).Find(&users).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	avatars, err := models.NewUserDAO(s.DB).PrimaryAvatarURLs(ids)
	if err != nil {
		return nil, err
	}
	out := make([]UserBriefDTO, 0, len(users))
	for _, u := range users {
		out = append(out, toUserBrief(u, avatars[u.ID]))
	}
	return out, nil
}

// Block 拉黑：台账记一笔，并把双向关注边一并置为 removed。
func (s *UserService) Block(viewerID, targetID uint64) error {
	if viewerID == targetID {
		return fmt.Errorf("%w: cannot block yourself", ErrForbidden)
	}
	var target models.User
	if err := s.DB.Where("id = ?", targetID).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %d", ErrNotFound, targetID)
		}
		return err
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := s.Reactions.ActivateTx(tx, viewerID, targetID, models.KindBlock); err != nil {
			return err
		}
		return tx.Model(&models.Follow{}).
			Where("(follower_id = ? AND following_id = ?) OR (follower_id = ? AND following_id = ?)",
				viewerID, targetID, targetID, viewerID).
			Where("status <> ?", models.FollowRemoved).
			Update("status", models.FollowRemoved).Error
	})
}

// Unblock 解除拉黑。不恢复关注边。
func (s *UserService) Unblock(viewerID, targetID uint64) error {
	return s.Reactions.Deactivate(viewerID, targetID, models.KindBlock)
}

// BlockedUsers 自己的黑名单。
func (s *UserService) BlockedUsers(viewerID uint64) ([]UserBriefDTO, error) {
	ids, err := s.Reactions.BlockedIDs(viewerID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []UserBriefDTO{}, nil
	}
	var users []models.User
	if err := s.DB.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	avatars, err := models.NewUserDAO(s.DB).PrimaryAvatarURLs(ids)
	if err != nil {
		return nil, err
	}
	out := make([]UserBriefDTO, 0, len(users))
	for _, u := range users {
		out = append(out, toUserBrief(u, avatars[u.ID]))
	}
	return out, nil
}

// DeleteAccount 注销：账号墓碑化而不是删行。
// username / email 追加随机后缀释放占用，is_blocked 置位把账号请出全部读路径。
func (s *UserService) DeleteAccount(userID uint64) error {
	suffix := "_deleted_" + uuid.NewString()[:8]
	res := s.DB.Model(&models.User{}).
		Where("id = ? AND is_blocked = ?", userID, false).
		Updates(map[string]interface{}{
			"is_blocked": true,
			"username":   gorm.Expr("CONCAT(username, ?)", suffix),
			"email":      gorm.Expr("CONCAT(email, ?)", suffix),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	return nil
}

// UploadAvatar 上传头像。首张自动设为主头像。
func (s *UserService) UploadAvatar(userID uint64, url string) (uint64, error) {
	if strings.TrimSpace(url) == "" {
		return 0, fmt.Errorf("%w: url required", ErrInvalid)
	}
	var id uint64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var cnt int64
		if err := tx.Model(&models.Avatar{}).Where("user_id = ?", userID).Count(&cnt).Error; err != nil {
			return err
		}
		a := models.Avatar{UserID: userID, URL: url, IsPrimary: cnt == 0}
		if err := tx.Create(&a).Error; err != nil {
			return err
		}
		id = a.ID
		return nil
	})
	return id, err
}

// SetPrimaryAvatar 切换主头像。同一事务先清后设，保证同时只有一张主头像。
func (s *UserService) SetPrimaryAvatar(userID, avatarID uint64) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var a models.Avatar
		if err := tx.Where("id = ? AND user_id = ?", avatarID, userID).First(&a).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: avatar %d", ErrNotFound, avatarID)
			}
			return err
		}
		if err := tx.Model(&models.Avatar{}).
			Where("user_id = ? AND is_primary = ?", userID, true).
			Update("is_primary", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.Avatar{}).Where("id = ?", avatarID).
			Update("is_primary", true).Error
	})
}

// RemoveAvatar 删除头像；删的是主头像时把最新的一张顶上去。
func (s *UserService) RemoveAvatar(userID, avatarID uint64) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var a models.Avatar
		if err := tx.Where("id = ? AND user_id = ?", avatarID, userID).First(&a).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: avatar %d", ErrNotFound, avatarID)
			}
			return err
		}
		if err := tx.Delete(&models.Avatar{}, a.ID).Error; err != nil {
			return err
		}
		if !a.IsPrimary {
			return nil
		}
		var next models.Avatar
		err := tx.Where("user_id = ?", userID).Order("created_at DESC").First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Model(&models.Avatar{}).Where("id = ?", next.ID).
			Update("is_primary", true).Error
	})
}
