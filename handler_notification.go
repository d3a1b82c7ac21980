package social_sdk

import (
	"net/http"

	"github.com/cydxin/social-sdk/response"
	"github.com/gin-gonic/gin"
)

// -------------------- 通知（Notification）相关接口 --------------------

// GinHandleListNotifications 拉取通知
// @Summary 拉取通知（倒序，带触发者摘要）
// @Tags 通知
// @Produce json
// @Param limit query int false "条数(默认50,最大200)"
// @Success 200 {object} response.Response{data=[]service.NotificationDTO}
// @Security BearerAuth
// @Router /notification/list [get]
func (c *SocialEngine) GinHandleListNotifications(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	limit := queryInt(ctx, "limit", 50)
	if limit > 200 {
		limit = 200
	}
	items, err := c.NotificationService.List(uid, limit)
	if err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(items))
}

// GinHandleMarkNotificationsRead 全部已读
// @Summary 标记全部通知已读
// @Tags 通知
// @Produce json
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /notification/read [post]
func (c *SocialEngine) GinHandleMarkNotificationsRead(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	if err := c.NotificationService.MarkAllRead(uid); err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil))
}

// GinHandleUnreadCount 未读数
// @Summary 未读通知数
// @Tags 通知
// @Produce json
// @Success 200 {object} response.Response{data=map[string]interface{}} "data.count"
// @Security BearerAuth
// @Router /notification/unread_count [get]
func (c *SocialEngine) GinHandleUnreadCount(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	cnt, err := c.NotificationService.UnreadCount(uid)
	if err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(map[string]any{"count": cnt}))
}
