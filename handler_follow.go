package social_sdk

import (
	"net/http"

	"github.com/cydxin/social-sdk/models"
	"github.com/cydxin/social-sdk/response"
	"github.com/cydxin/social-sdk/service"
	"github.com/gin-gonic/gin"
)

// -------------------- 关注（Follow）相关接口 --------------------

// GinHandleFollowRequest 关注
// @Summary 关注用户（对方为私密账号时进入待审批）
// @Tags 关注
// @Produce json
// @Param id path uint64 true "目标用户ID"
// @Success 200 {object} response.Response{data=map[string]interface{}} "data.status: pending/accepted"
// @Security BearerAuth
// @Router /follow/{id} [post]
func (c *SocialEngine) GinHandleFollowRequest(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	target, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	status, err := c.FollowService.Request(uid, target)
	if err != nil {
		svcError(ctx, err)
		return
	}
	name := "accepted"
	if status == models.FollowPending {
		name = "pending"
	}
	ctx.JSON(http.StatusOK, response.Success(map[string]any{"status": name}))
}

// GinHandleUnfollow 取关
// @Summary 取消关注
// @Tags 关注
// @Produce json
// @Param id path uint64 true "目标用户ID"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /follow/{id} [delete]
func (c *SocialEngine) GinHandleUnfollow(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	target, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	if err := c.FollowService.Unfollow(uid, target); err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil))
}

// GinHandleAcceptFollow 审批通过
// @Summary 通过关注请求
// @Tags 关注
// @Produce json
// @Param id path uint64 true "申请者用户ID"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /follow/{id}/accept [post]
func (c *SocialEngine) GinHandleAcceptFollow(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	follower, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	if err := c.FollowService.Accept(uid, follower); err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil))
}

// GinHandleRejectFollow 审批驳回
// @Summary 驳回关注请求
// @Tags 关注
// @Produce json
// @Param id path uint64 true "申请者用户ID"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /follow/{id}/reject [post]
func (c *SocialEngine) GinHandleRejectFollow(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	follower, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	if err := c.FollowService.Reject(uid, follower); err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil))
}

// listGate show_* 偏好为 none 时仅本人可见对应列表。
func (c *SocialEngine) listGate(ctx *gin.Context, ownerID uint64, pick func(*models.User) string) bool {
	var owner models.User
	if err := c.config.DB.Where("id = ?", ownerID).First(&owner).Error; err != nil {
		svcError(ctx, err)
		return false
	}
	if !service.FieldVisible(pick(&owner), viewerUID(ctx), ownerID) {
		ctx.JSON(http.StatusOK, response.Success([]any{}))
		return false
	}
	return true
}

// GinHandleFollowers 粉丝列表
// @Summary 粉丝列表
// @Tags 关注
// @Produce json
// @Param id path uint64 true "用户ID"
// @Success 200 {object} response.Response{data=[]service.UserBriefDTO}
// @Security BearerAuth
// @Router /user/{id}/followers [get]
func (c *SocialEngine) GinHandleFollowers(ctx *gin.Context) {
	owner, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	if !c.listGate(ctx, owner, func(u *models.User) string { return u.ShowFollowers }) {
		return
	}
	users, err := c.FollowService.Followers(owner)
	if err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(users))
}

// GinHandleFollowing 关注列表
// @Summary 关注列表
// @Tags 关注
// @Produce json
// @Param id path uint64 true "用户ID"
// @Success 200 {object} response.Response{data=[]service.UserBriefDTO}
// @Security BearerAuth
// @Router /user/{id}/following [get]
func (c *SocialEngine) GinHandleFollowing(ctx *gin.Context) {
	owner, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	if !c.listGate(ctx, owner, func(u *models.User) string { return u.ShowFollowing }) {
		return
	}
	users, err := c.FollowService.Following(owner)
	if err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(users))
}

// GinHandleFriends 互关好友列表
// @Summary 互关好友列表
// @Tags 关注
// @Produce json
// @Param id path uint64 true "用户ID"
// @Success 200 {object} response.Response{data=[]service.UserBriefDTO}
// @Security BearerAuth
// @Router /user/{id}/friends [get]
func (c *SocialEngine) GinHandleFriends(ctx *gin.Context) {
	owner, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	if !c.listGate(ctx, owner, func(u *models.User) string { return u.ShowFriends }) {
		return
	}
	users, err := c.FollowService.Friends(owner)
	if err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(users))
}
