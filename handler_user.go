package social_sdk

import (
	"net/http"

	"github.com/cydxin/social-sdk/response"
	"github.com/cydxin/social-sdk/service"
	"github.com/gin-gonic/gin"
)

// -------------------- 用户（User）相关接口 --------------------

// GinHandleGetProfile 获取主页
// @Summary 获取用户主页
// @Tags 用户
// @Produce json
// @Param username path string true "用户名"
// @Success 200 {object} response.Response{data=service.ProfileDTO}
// @Security BearerAuth
// @Router /user/profile/{username} [get]
func (c *SocialEngine) GinHandleGetProfile(ctx *gin.Context) {
	username := ctx.Param("username")
	if username == "" {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, "username required"))
		return
	}
	profile, err := c.UserService.Profile(viewerUID(ctx), username)
	if err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(profile))
}

// GinHandleUpdateProfile 更新资料
// @Summary 更新个人资料（局部更新）
// @Tags 用户
// @Accept json
// @Produce json
// @Param req body service.ProfileUpdate true "要更新的字段"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /user/profile [put]
func (c *SocialEngine) GinHandleUpdateProfile(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	var req service.ProfileUpdate
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}
	if err := c.UserService.UpdateProfile(uid, req); err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil))
}

// GinHandleSearchUsers 搜索用户
// @Summary 搜索用户
// @Tags 用户
// @Produce json
// @Param q query string true "关键字(至少2个字符)"
// @Param limit query int false "条数(默认20)"
// @Success 200 {object} response.Response{data=[]service.UserBriefDTO}
// @Security BearerAuth
// @Router /user/search [get]
func (c *SocialEngine) GinHandleSearchUsers(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	users, err := c.UserService.Search(uid, ctx.Query("q"), queryInt(ctx, "limit", 20))
	if err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(users))
}

// GinHandleDeleteAccount 注销账号
// @Summary 注销账号（墓碑化，不可恢复）
// @Tags 用户
// @Produce json
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /user/account [delete]
func (c *SocialEngine) GinHandleDeleteAccount(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	if err := c.UserService.DeleteAccount(uid); err != nil {
		svcError(ctx, err)
		return
	}
	// 注销后作废全部会话
	_ = c.AuthService.LogoutAll(ctx.Request.Context(), uid)
	ctx.JSON(http.StatusOK, response.Success(nil))
}

// GinHandleBlockUser 拉黑
// @Summary 拉黑用户
// @Tags 用户
// @Produce json
// @Param id path uint64 true "目标用户ID"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /user/block/{id} [post]
func (c *SocialEngine) GinHandleBlockUser(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	target, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	if err := c.UserService.Block(uid, target); err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil))
}

// GinHandleUnblockUser 解除拉黑
// @Summary 解除拉黑
// @Tags 用户
// @Produce json
// @Param id path uint64 true "目标用户ID"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /user/block/{id} [delete]
func (c *SocialEngine) GinHandleUnblockUser(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	target, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	if err := c.UserService.Unblock(uid, target); err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil))
}

// GinHandleBlockedUsers 黑名单
// @Summary 我的黑名单
// @Tags 用户
// @Produce json
// @Success 200 {object} response.Response{data=[]service.UserBriefDTO}
// @Security BearerAuth
// @Router /user/blocked [get]
func (c *SocialEngine) GinHandleBlockedUsers(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	users, err := c.UserService.BlockedUsers(uid)
	if err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(users))
}

type UploadAvatarReq struct {
	URL string `json:"url" binding:"required"`
}

// GinHandleUploadAvatar 上传头像
// @Summary 上传头像（首张自动设为主头像）
// @Tags 用户
// @Accept json
// @Produce json
// @Param req body UploadAvatarReq true "头像地址"
// @Success 200 {object} response.Response{data=map[string]interface{}} "data.id"
// @Security BearerAuth
// @Router /user/avatar [post]
func (c *SocialEngine) GinHandleUploadAvatar(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	var req UploadAvatarReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}
	id, err := c.UserService.UploadAvatar(uid, req.URL)
	if err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(map[string]any{"id": id}))
}

// GinHandleSetPrimaryAvatar 设置主头像
// @Summary 设置主头像
// @Tags 用户
// @Produce json
// @Param id path uint64 true "头像ID"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /user/avatar/{id}/primary [put]
func (c *SocialEngine) GinHandleSetPrimaryAvatar(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	id, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	if err := c.UserService.SetPrimaryAvatar(uid, id); err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil))
}

// GinHandleRemoveAvatar 删除头像
// @Summary 删除头像
// @Tags 用户
// @Produce json
// @Param id path uint64 true "头像ID"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /user/avatar/{id} [delete]
func (c *SocialEngine) GinHandleRemoveAvatar(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	id, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	if err := c.UserService.RemoveAvatar(uid, id); err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil))
}
