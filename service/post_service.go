package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cydxin/social-sdk/cons"
	"github.com/cydxin/social-sdk/models"
	"gorm.io/gorm"
)

// PostService 帖子、评论与 feed 装配
// 所有列表读路径过 Visibility 裁决，计数只统计台账里的 active 行。
type PostService struct {
	*Service
	Reactions *ReactionService
	Vis       *Visibility
}

func NewPostService(s *Service, reactions *ReactionService, vis *Visibility) *PostService {
	return &PostService{Service: s, Reactions: reactions, Vis: vis}
}

type PostDTO struct {
	ID            uint64       `json:"id"`
	Content       string       `json:"content"`
	ImageURL      string       `json:"image_url,omitempty"`
	ViewsCount    uint64       `json:"views_count"`
	User          UserBriefDTO `json:"user"`
	LikesCount    int64        `json:"likes_count"`
	CommentsCount int64        `json:"comments_count"`
	RepostsCount  int64        `json:"reposts_count"`
	Liked         bool         `json:"liked"`    // 相对请求者
	Reposted      bool         `json:"reposted"` // 相对请求者
	CreatedAt     time.Time    `json:"created_at"`
}

type CommentDTO struct {
	ID           uint64       `json:"id"`
	PostID       uint64       `json:"post_id"`
	ParentID     *uint64      `json:"parent_id,omitempty"`
	Content      string       `json:"content"`
	User         UserBriefDTO `json:"user"`
	LikesCount   int64        `json:"likes_count"`
	Liked        bool         `json:"liked"`          // 相对请求者
	IsAuthorLike bool         `json:"is_author_like"` // 帖子作者是否点了赞
	CreatedAt    time.Time    `json:"created_at"`
}

// CreatePost 发帖。内容和图片至少一个。
func (s *PostService) CreatePost(userID uint64, content, imageURL string) (uint64, error) {
	content = strings.TrimSpace(content)
	if content == "" && imageURL == "" {
		return 0, fmt.Errorf("%w: content or image required", ErrInvalid)
	}
	p := models.Post{UserID: userID, Content: content, ImageURL: imageURL}
	if err := s.DB.Create(&p).Error; err != nil {
		return 0, err
	}
	return p.ID, nil
}

// visiblePost 取一条对外可见的帖子（隐藏或作者被封 → NotFound）。
func (s *PostService) visiblePost(postID uint64) (*models.Post, error) {
	if postID == 0 {
		return nil, fmt.Errorf("%w: post id required", ErrInvalid)
	}
	var p models.Post
	if err := s.DB.Preload("User").Where("id = ?", postID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %d", ErrNotFound, postID)
		}
		return nil, err
	}
	if !ContentVisible(p.IsHidden, p.User.IsBlocked) {
		return nil, fmt.Errorf("%w: post %d", ErrNotFound, postID)
	}
	return &p, nil
}

// GetPost 单帖详情（带相对 viewer 的装饰）。
func (s *PostService) GetPost(viewerID, postID uint64) (*PostDTO, error) {
	p, err := s.visiblePost(postID)
	if err != nil {
		return nil, err
	}
	dtos, err := s.decorate(viewerID, []models.Post{*p})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

// Feed 全站时间线：隐藏帖、封禁作者、viewer 拉黑的作者一律排除。
func (s *PostService) Feed(viewerID uint64, limit, offset int) ([]PostDTO, error) {
	if limit <= 0 {
		limit = 20
	}
	q := s.DB.Preload("User").
		Where("is_hidden = ?", false).
		Where("user_id NOT IN (?)", s.DB.Model(&models.User{}).Select("id").Where("is_blocked = ?", true))

	// 私密账号的帖子只进关注者（accepted）和本人的 feed
	privQ := s.DB.Model(&models.User{}).Select("id").Where("is_private = ?", true)
	if viewerID != 0 {
		privQ = privQ.Where("id <> ?", viewerID).
			Where("id NOT IN (?)", s.DB.Model(&models.Follow{}).Select("following_id").
				Where("follower_id = ? AND status = ?", viewerID, models.FollowAccepted))
	}
	q = q.Where("user_id NOT IN (?)", privQ)

	blocked, err := s.Vis.BlockedSet(viewerID)
	if err != nil {
		return nil, err
	}
	if len(blocked) > 0 {
		ids := make([]uint64, 0, len(blocked))
		for id := range blocked {
			ids = append(ids, id)
		}
		q = q.Where("user_id NOT IN ?", ids)
	}

	var posts []models.Post
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&posts).Error; err != nil {
		return nil, err
	}
	return s.decorate(viewerID, posts)
}

// UserPosts 某用户主页的帖子列表。私密账号对非关注者返回空列表。
func (s *PostService) UserPosts(viewerID, ownerID uint64, limit, offset int) ([]PostDTO, error) {
	if limit <= 0 {
		limit = 20
	}
	var owner models.User
	if err := s.DB.Where("id = ?", ownerID).First(&owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, ownerID)
		}
		return nil, err
	}
	if owner.IsPrivate && viewerID != ownerID {
		following, err := s.Vis.Follows.IsFollowing(viewerID, ownerID)
		if err != nil {
			return nil, err
		}
		if !following {
			return []PostDTO{}, nil
		}
	}
	var posts []models.Post
	err := s.DB.Preload("User").
		Where("user_id = ? AND is_hidden = ?", ownerID, false).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return s.decorate(viewerID, posts)
}

// UserLikes 某用户点过赞的帖子。show_likes = none 时对非本人返回空列表。
func (s *PostService) UserLikes(viewerID, ownerID uint64, limit int) ([]PostDTO, error) {
	return s.reactedPosts(viewerID, ownerID, models.KindLikePost, limit, func(u *models.User) string { return u.ShowLikes })
}

// UserReposts 某用户转发过的帖子。show_reposts = none 时对非本人返回空列表。
func (s *PostService) UserReposts(viewerID, ownerID uint64, limit int) ([]PostDTO, error) {
	return s.reactedPosts(viewerID, ownerID, models.KindRepost, limit, func(u *models.User) string { return u.ShowReposts })
}

func (s *PostService) reactedPosts(viewerID, ownerID uint64, kind uint8, limit int, setting func(*models.User) string) ([]PostDTO, error) {
	if limit <= 0 {
		limit = 20
	}
	var owner models.User
	if err := s.DB.Where("id = ?", ownerID).First(&owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, ownerID)
		}
		return nil, err
	}
	if !FieldVisible(setting(&owner), viewerID, ownerID) {
		return []PostDTO{}, nil
	}

	var ids []uint64
	err := s.DB.Model(&models.Reaction{}).
		Where("user_id = ? AND kind = ? AND active = ?", ownerID, kind, true).
		Order("updated_at DESC").Limit(limit).
		Pluck("target_id", &ids).Error
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []PostDTO{}, nil
	}

	var posts []models.Post
	err = s.DB.Preload("User").
		Where("id IN ? AND is_hidden = ?", ids, false).
		Order("created_at DESC").Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return s.decorate(viewerID, posts)
}

// LikePost 点赞。幂等；作者收到至多一条通知，自赞不通知。
func (s *PostService) LikePost(actorID, postID uint64) error {
	p, err := s.visiblePost(postID)
	if err != nil {
		return err
	}

	var notif *models.Notification
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		// 扇出与否由 upsert 的结果在事务内裁决：只有插入新行的那次请求扇出，
		// 命中已有行（重复点赞、并发重试）不再扇出
		created, err := s.Reactions.ActivateTx(tx, actorID, postID, models.KindLikePost)
		if err != nil {
			return err
		}
		if !created {
			return nil
		}
		actor := actorID
		n, err := s.Notify.PublishTx(tx, p.UserID, &actor, cons.NotifyLike, &p.ID, "liked your post")
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

// UnlikePost 取消点赞。不存在时 no-op。
func (s *PostService) UnlikePost(actorID, postID uint64) error {
	return s.Reactions.Deactivate(actorID, postID, models.KindLikePost)
}

// Repost 转发。不产生通知。
func (s *PostService) Repost(actorID, postID uint64) error {
	if _, err := s.visiblePost(postID); err != nil {
		return err
	}
	return s.Reactions.Activate(actorID, postID, models.KindRepost)
}

// Unrepost 取消转发。
func (s *PostService) Unrepost(actorID, postID uint64) error {
	return s.Reactions.Deactivate(actorID, postID, models.KindRepost)
}

// ViewPost 浏览计数。不产生通知。
func (s *PostService) ViewPost(postID uint64) error {
	return s.DB.Model(&models.Post{}).Where("id = ?", postID).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error
}

// HidePost 自隐藏（仅作者）。行保留，所有读路径排除。
func (s *PostService) HidePost(actorID, postID uint64) error {
	res := s.DB.Model(&models.Post{}).
		Where("id = ? AND user_id = ?", postID, actorID).
		Update("is_hidden", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: not the post owner", ErrPermission)
	}
	return nil
}

// AddComment 发评论或回复。父评论必须属于同一帖子。
func (s *PostService) AddComment(actorID, postID uint64, content string, parentID *uint64) (uint64, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return 0, fmt.Errorf("%w: content required", ErrInvalid)
	}
	p, err := s.visiblePost(postID)
	if err != nil {
		return 0, err
	}
	if parentID != nil {
		var pc models.Comment
		if err := s.DB.First(&pc, *parentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, fmt.Errorf("%w: parent comment %d", ErrNotFound, *parentID)
			}
			return 0, err
		}
		if pc.PostID != postID {
			return 0, fmt.Errorf("%w: parent comment belongs to another post", ErrInvalid)
		}
	}

	var cid uint64
	var notif *models.Notification
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		c := models.Comment{PostID: postID, UserID: actorID, ParentID: parentID, Content: content}
		if err := tx.Create(&c).Error; err != nil {
			return err
		}
		cid = c.ID
		actor := actorID
		n, err := s.Notify.PublishTx(tx, p.UserID, &actor, cons.NotifyComment, &p.ID, content)
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
	return cid, nil
}

// LikeComment / UnlikeComment 评论点赞走同一台账；不产生通知。
func (s *PostService) LikeComment(actorID, commentID uint64) error {
	var c models.Comment
	if err := s.DB.Where("id = ? AND is_hidden = ?", commentID, false).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: comment %d", ErrNotFound, commentID)
		}
		return err
	}
	return s.Reactions.Activate(actorID, commentID, models.KindLikeComment)
}

func (s *PostService) UnlikeComment(actorID, commentID uint64) error {
	return s.Reactions.Deactivate(actorID, commentID, models.KindLikeComment)
}

// HideComment 评论作者或帖子作者可隐藏评论。
func (s *PostService) HideComment(actorID, commentID uint64) error {
	var c models.Comment
	if err := s.DB.Preload("Post").First(&c, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: comment %d", ErrNotFound, commentID)
		}
		return err
	}
	if c.UserID != actorID && c.Post.UserID != actorID {
		return fmt.Errorf("%w: not comment author or post owner", ErrPermission)
	}
	return s.DB.Model(&models.Comment{}).Where("id = ?", commentID).
		Update("is_hidden", true).Error
}

// ListComments 帖子下的评论（时间升序，便于前端构建树）。
func (s *PostService) ListComments(viewerID, postID uint64) ([]CommentDTO, error) {
	p, err := s.visiblePost(postID)
	if err != nil {
		return nil, err
	}
	var cs []models.Comment
	if err := s.DB.Preload("User").
		Where("post_id = ? AND is_hidden = ?", postID, false).
		Order("created_at ASC").Find(&cs).Error; err != nil {
		return nil, err
	}
	if len(cs) == 0 {
		return []CommentDTO{}, nil
	}

	ids := make([]uint64, len(cs))
	authorIDs := make([]uint64, len(cs))
	for i, c := range cs {
		ids[i] = c.ID
		authorIDs[i] = c.UserID
	}
	likeCounts, err := s.Reactions.CountMap(ids, models.KindLikeComment)
	if err != nil {
		return nil, err
	}
	viewerLiked, err := s.Reactions.ActiveSet(viewerID, ids, models.KindLikeComment)
	if err != nil {
		return nil, err
	}
	authorLiked, err := s.Reactions.ActiveSet(p.UserID, ids, models.KindLikeComment)
	if err != nil {
		return nil, err
	}
	avatars, err := models.NewUserDAO(s.DB).PrimaryAvatarURLs(authorIDs)
	if err != nil {
		return nil, err
	}

	out := make([]CommentDTO, len(cs))
	for i, c := range cs {
		out[i] = CommentDTO{
			ID:           c.ID,
			PostID:       c.PostID,
			ParentID:     c.ParentID,
			Content:      c.Content,
			User:         toUserBrief(c.User, avatars[c.UserID]),
			LikesCount:   likeCounts[c.ID],
			Liked:        viewerLiked[c.ID],
			IsAuthorLike: authorLiked[c.ID],
			CreatedAt:    c.CreatedAt,
		}
	}
	return out, nil
}

// decorate 批量装配 PostDTO：计数、相对 viewer 的 liked/reposted、作者头像。
// 只读依赖相互独立，按批取齐后拼装，保证同一响应内计数与状态来自同一快照。
func (s *PostService) decorate(viewerID uint64, posts []models.Post) ([]PostDTO, error) {
	if len(posts) == 0 {
		return []PostDTO{}, nil
	}
	ids := make([]uint64, len(posts))
	authorIDs := make([]uint64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		authorIDs[i] = p.UserID
	}

	likeCounts, err := s.Reactions.CountMap(ids, models.KindLikePost)
	if err != nil {
		return nil, err
	}
	repostCounts, err := s.Reactions.CountMap(ids, models.KindRepost)
	if err != nil {
		return nil, err
	}

	// 评论数只统计未隐藏的
	type ccRow struct {
		PostID uint64
		Cnt    int64
	}
	var ccRows []ccRow
	err = s.DB.Model(&models.Comment{}).
		Select("post_id, COUNT(*) AS cnt").
		Where("post_id IN ? AND is_hidden = ?", ids, false).
		Group("post_id").Scan(&ccRows).Error
	if err != nil {
		return nil, err
	}
	commentCounts := make(map[uint64]int64, len(ccRows))
	for _, r := range ccRows {
		commentCounts[r.PostID] = r.Cnt
	}

	liked, err := s.Reactions.ActiveSet(viewerID, ids, models.KindLikePost)
	if err != nil {
		return nil, err
	}
	reposted, err := s.Reactions.ActiveSet(viewerID, ids, models.KindRepost)
	if err != nil {
		return nil, err
	}
	avatars, err := models.NewUserDAO(s.DB).PrimaryAvatarURLs(authorIDs)
	if err != nil {
		return nil, err
	}

	out := make([]PostDTO, len(posts))
	for i, p := range posts {
		out[i] = PostDTO{
			ID:            p.ID,
			Content:       p.Content,
			ImageURL:      p.ImageURL,
			ViewsCount:    p.ViewsCount,
			User:          toUserBrief(p.User, avatars[p.UserID]),
			LikesCount:    likeCounts[p.ID],
			CommentsCount: commentCounts[p.ID],
			RepostsCount:  repostCounts[p.ID],
			Liked:         liked[p.ID],
			Reposted:      reposted[p.ID],
			CreatedAt:     p.CreatedAt,
		}
	}
	return out, nil
}
