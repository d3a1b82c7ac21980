package social_sdk

import (
	"net/http"

	"github.com/cydxin/social-sdk/response"
	"github.com/gin-gonic/gin"
)

// -------------------- 帖子（Post）相关接口 --------------------

type CreatePostReq struct {
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
}

// GinHandleCreatePost 发帖
// @Summary 发布帖子（文字或图片至少其一）
// @Tags 帖子
// @Accept json
// @Produce json
// @Param req body CreatePostReq true "帖子内容"
// @Success 200 {object} response.Response{data=map[string]interface{}} "data.id"
// @Security BearerAuth
// @Router /post [post]
func (c *SocialEngine) GinHandleCreatePost(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	var req CreatePostReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}
	id, err := c.PostService.CreatePost(uid, req.Content, req.ImageURL)
	if err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(map[string]any{"id": id}))
}

// GinHandleGetPost 帖子详情
// @Summary 帖子详情
// @Tags 帖子
// @Produce json
// @Param id path uint64 true "帖子ID"
// @Success 200 {object} response.Response{data=service.PostDTO}
// @Security BearerAuth
// @Router /post/{id} [get]
func (c *SocialEngine) GinHandleGetPost(ctx *gin.Context) {
	pid, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	post, err := c.PostService.GetPost(viewerUID(ctx), pid)
	if err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(post))
}

// GinHandleFeed 信息流
// @Summary 信息流（排除隐藏/封禁/拉黑/未关注的私密作者）
// @Tags 帖子
// @Produce json
// @Param limit query int false "条数(默认20)"
// @Param offset query int false "偏移"
// @Success 200 {object} response.Response{data=[]service.PostDTO}
// @Security BearerAuth
// @Router /feed [get]
func (c *SocialEngine) GinHandleFeed(ctx *gin.Context) {
	posts, err := c.PostService.Feed(viewerUID(ctx), queryInt(ctx, "limit", 20), queryInt(ctx, "offset", 0))
	if err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(posts))
}

// GinHandleUserPosts 用户帖子列表
// @Summary 某用户的帖子
// @Tags 帖子
// @Produce json
// @Param id path uint64 true "用户ID"
// @Param limit query int false "条数(默认20)"
// @Param offset query int false "偏移"
// @Success 200 {object} response.Response{data=[]service.PostDTO}
// @Security BearerAuth
// @Router /user/{id}/posts [get]
func (c *SocialEngine) GinHandleUserPosts(ctx *gin.Context) {
	owner, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	posts, err := c.PostService.UserPosts(viewerUID(ctx), owner, queryInt(ctx, "limit", 20), queryInt(ctx, "offset", 0))
	if err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(posts))
}

// GinHandleUserLikes 用户点赞过的帖子
// @Summary 某用户点赞过的帖子（show_likes=none 时仅本人可见）
// @Tags 帖子
// @Produce json
// @Param id path uint64 true "用户ID"
// @Param limit query int false "条数(默认20)"
// @Success 200 {object} response.Response{data=[]service.PostDTO}
// @Security BearerAuth
// @Router /user/{id}/likes [get]
func (c *SocialEngine) GinHandleUserLikes(ctx *gin.Context) {
	owner, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	posts, err := c.PostService.UserLikes(viewerUID(ctx), owner, queryInt(ctx, "limit", 20))
	if err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(posts))
}

// GinHandleUserReposts 用户转发过的帖子
// @Summary 某用户转发过的帖子（show_reposts=none 时仅本人可见）
// @Tags 帖子
// @Produce json
// @Param id path uint64 true "用户ID"
// @Param limit query int false "条数(默认20)"
// @Success 200 {object} response.Response{data=[]service.PostDTO}
// @Security BearerAuth
// @Router /user/{id}/reposts [get]
func (c *SocialEngine) GinHandleUserReposts(ctx *gin.Context) {
	owner, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	posts, err := c.PostService.UserReposts(viewerUID(ctx), owner, queryInt(ctx, "limit", 20))
	if err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(posts))
}

// GinHandleLikePost 点赞
// @Summary 点赞帖子
// @Tags 帖子
// @Produce json
// @Param id path uint64 true "帖子ID"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /post/{id}/like [post]
func (c *SocialEngine) GinHandleLikePost(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	pid, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	if err := c.PostService.LikePost(uid, pid); err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil))
}

// GinHandleUnlikePost 取消点赞
// @Summary 取消点赞
// @Tags 帖子
// @Produce json
// @Param id path uint64 true "帖子ID"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /post/{id}/like [delete]
func (c *SocialEngine) GinHandleUnlikePost(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	pid, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	if err := c.PostService.UnlikePost(uid, pid); err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil))
}

// GinHandleRepost 转发
// @Summary 转发帖子（不产生通知）
// @Tags 帖子
// @Produce json
// @Param id path uint64 true "帖子ID"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /post/{id}/repost [post]
func (c *SocialEngine) GinHandleRepost(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	pid, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	if err := c.PostService.Repost(uid, pid); err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil))
}

// GinHandleUnrepost 取消转发
// @Summary 取消转发
// @Tags 帖子
// @Produce json
// @Param id path uint64 true "帖子ID"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /post/{id}/repost [delete]
func (c *SocialEngine) GinHandleUnrepost(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	pid, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	if err := c.PostService.Unrepost(uid, pid); err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil))
}

// GinHandleViewPost 浏览计数
// @Summary 帖子浏览计数 +1
// @Tags 帖子
// @Produce json
// @Param id path uint64 true "帖子ID"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /post/{id}/view [post]
func (c *SocialEngine) GinHandleViewPost(ctx *gin.Context) {
	pid, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	if err := c.PostService.ViewPost(pid); err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil))
}

// GinHandleHidePost 隐藏帖子
// @Summary 隐藏自己的帖子
// @Tags 帖子
// @Produce json
// @Param id path uint64 true "帖子ID"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /post/{id}/hide [post]
func (c *SocialEngine) GinHandleHidePost(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	pid, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	if err := c.PostService.HidePost(uid, pid); err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil))
}

type AddCommentReq struct {
	Content  string  `json:"content" binding:"required"`
	ParentID *uint64 `json:"parent_id"`
}

// GinHandleAddComment 评论
// @Summary 发表评论（parent_id 可回复同帖评论）
// @Tags 评论
// @Accept json
// @Produce json
// @Param id path uint64 true "帖子ID"
// @Param req body AddCommentReq true "评论内容"
// @Success 200 {object} response.Response{data=map[string]interface{}} "data.id"
// @Security BearerAuth
// @Router /post/{id}/comment [post]
func (c *SocialEngine) GinHandleAddComment(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	pid, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	var req AddCommentReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}
	id, err := c.PostService.AddComment(uid, pid, req.Content, req.ParentID)
	if err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(map[string]any{"id": id}))
}

// GinHandleListComments 评论列表
// @Summary 帖子评论列表（时间升序）
// @Tags 评论
// @Produce json
// @Param id path uint64 true "帖子ID"
// @Success 200 {object} response.Response{data=[]service.CommentDTO}
// @Security BearerAuth
// @Router /post/{id}/comments [get]
func (c *SocialEngine) GinHandleListComments(ctx *gin.Context) {
	pid, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	comments, err := c.PostService.ListComments(viewerUID(ctx), pid)
	if err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(comments))
}

// GinHandleLikeComment 点赞评论
// @Summary 点赞评论（不产生通知）
// @Tags 评论
// @Produce json
// @Param id path uint64 true "评论ID"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /comment/{id}/like [post]
func (c *SocialEngine) GinHandleLikeComment(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	cid, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	if err := c.PostService.LikeComment(uid, cid); err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil))
}

// GinHandleUnlikeComment 取消点赞评论
// @Summary 取消点赞评论
// @Tags 评论
// @Produce json
// @Param id path uint64 true "评论ID"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /comment/{id}/like [delete]
func (c *SocialEngine) GinHandleUnlikeComment(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	cid, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	if err := c.PostService.UnlikeComment(uid, cid); err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil))
}

// GinHandleHideComment 隐藏评论
// @Summary 隐藏评论（评论作者或帖子作者）
// @Tags 评论
// @Produce json
// @Param id path uint64 true "评论ID"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /comment/{id}/hide [post]
func (c *SocialEngine) GinHandleHideComment(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	cid, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	if err := c.PostService.HideComment(uid, cid); err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil))
}
