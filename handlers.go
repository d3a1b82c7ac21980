package social_sdk

import (
	"net/http"
	"strconv"

	"github.com/cydxin/social-sdk/response"
	"github.com/cydxin/social-sdk/service"
	"github.com/gin-gonic/gin"
)

/* @title           Social SDK API
@version         1.0
@description     Social SDK API documentation
@host            localhost:6789
@BasePath        /api/v1
@securityDefinitions.apikey BearerAuth
@in header
@name Authorization
*/

// currentUID 从 gin context 取鉴权后的 user id。
func currentUID(ctx *gin.Context) (uint64, bool) {
	uidAny, exists := ctx.Get("user_id")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, response.Error(response.CodeTokenInvalid, "user_id not found"))
		return 0, false
	}
	return uidAny.(uint64), true
}

// viewerUID 可匿名访问的接口：没有鉴权信息时按游客（0）处理。
func viewerUID(ctx *gin.Context) uint64 {
	if uidAny, exists := ctx.Get("user_id"); exists {
		return uidAny.(uint64)
	}
	return 0
}

// svcError 业务错误统一出口：HTTP 200 + 业务状态码。
func svcError(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusOK, response.Error(service.CodeFor(err), err.Error()))
}

func paramUint64(ctx *gin.Context, name string) (uint64, bool) {
	v, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || v == 0 {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, "invalid "+name))
		return 0, false
	}
	return v, true
}

func queryInt(ctx *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(ctx.DefaultQuery(name, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	return v
}

// RegisterRoutes 把全部内置接口挂到一个路由组上（可选；也可以自己挑 handler 组路由）。
// authed 需要已经挂过 GinAuthMiddleware。
func (c *SocialEngine) RegisterRoutes(authed *gin.RouterGroup) {
	// 用户
	authed.GET("/user/profile/:username", c.GinHandleGetProfile)
	authed.PUT("/user/profile", c.GinHandleUpdateProfile)
	authed.GET("/user/search", c.GinHandleSearchUsers)
	authed.DELETE("/user/account", c.GinHandleDeleteAccount)
	authed.POST("/user/block/:id", c.GinHandleBlockUser)
	authed.DELETE("/user/block/:id", c.GinHandleUnblockUser)
	authed.GET("/user/blocked", c.GinHandleBlockedUsers)
	authed.POST("/user/avatar", c.GinHandleUploadAvatar)
	authed.PUT("/user/avatar/:id/primary", c.GinHandleSetPrimaryAvatar)
	authed.DELETE("/user/avatar/:id", c.GinHandleRemoveAvatar)

	// 关注
	authed.POST("/follow/:id", c.GinHandleFollowRequest)
	authed.DELETE("/follow/:id", c.GinHandleUnfollow)
	authed.POST("/follow/:id/accept", c.GinHandleAcceptFollow)
	authed.POST("/follow/:id/reject", c.GinHandleRejectFollow)
	authed.GET("/user/:id/followers", c.GinHandleFollowers)
	authed.GET("/user/:id/following", c.GinHandleFollowing)
	authed.GET("/user/:id/friends", c.GinHandleFriends)

	// 帖子与互动
	authed.POST("/post", c.GinHandleCreatePost)
	authed.GET("/post/:id", c.GinHandleGetPost)
	authed.GET("/feed", c.GinHandleFeed)
	authed.GET("/user/:id/posts", c.GinHandleUserPosts)
	authed.GET("/user/:id/likes", c.GinHandleUserLikes)
	authed.GET("/user/:id/reposts", c.GinHandleUserReposts)
	authed.POST("/post/:id/like", c.GinHandleLikePost)
	authed.DELETE("/post/:id/like", c.GinHandleUnlikePost)
	authed.POST("/post/:id/repost", c.GinHandleRepost)
	authed.DELETE("/post/:id/repost", c.GinHandleUnrepost)
	authed.POST("/post/:id/view", c.GinHandleViewPost)
	authed.POST("/post/:id/hide", c.GinHandleHidePost)
	authed.POST("/post/:id/comment", c.GinHandleAddComment)
	authed.GET("/post/:id/comments", c.GinHandleListComments)
	authed.POST("/comment/:id/like", c.GinHandleLikeComment)
	authed.DELETE("/comment/:id/like", c.GinHandleUnlikeComment)
	authed.POST("/comment/:id/hide", c.GinHandleHideComment)

	// 故事
	authed.POST("/story", c.GinHandleCreateStory)
	authed.GET("/story", c.GinHandleListStories)
	authed.DELETE("/story/:id", c.GinHandleDeleteStory)

	// 私信
	authed.POST("/message", c.GinHandleSendMessage)
	authed.PUT("/message/:id", c.GinHandleEditMessage)
	authed.PUT("/message/:id/pin", c.GinHandlePinMessage)
	authed.GET("/conversations", c.GinHandleConversations)
	authed.GET("/conversation/:id", c.GinHandleConversation)
	authed.POST("/conversation/:id/read", c.GinHandleMarkConversationRead)
	authed.DELETE("/conversation/:id", c.GinHandleHideConversation)

	// 通知
	authed.GET("/notification/list", c.GinHandleListNotifications)
	authed.POST("/notification/read", c.GinHandleMarkNotificationsRead)
	authed.GET("/notification/unread_count", c.GinHandleUnreadCount)

	// 举报 / 认证 / 申诉（普通用户）
	authed.POST("/report", c.GinHandleCreateReport)
	authed.POST("/verification", c.GinHandleRequestVerification)
	authed.POST("/appeal", c.GinHandleCreateAppeal)
}

// RegisterAdminRoutes 管理员接口，组上需要额外挂 GinAdminMiddleware。
func (c *SocialEngine) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/reports", c.GinHandleAdminPendingReports)
	admin.POST("/report/:id/resolve", c.GinHandleAdminResolveReport)
	admin.GET("/verifications", c.GinHandleAdminPendingVerifications)
	admin.POST("/verification/:id/approve", c.GinHandleAdminApproveVerification)
	admin.POST("/verification/:id/reject", c.GinHandleAdminRejectVerification)
	admin.GET("/appeals", c.GinHandleAdminPendingAppeals)
	admin.POST("/appeal/:id/resolve", c.GinHandleAdminResolveAppeal)
	admin.POST("/user/:id/block", c.GinHandleAdminBlockUser)
	admin.DELETE("/user/:id/block", c.GinHandleAdminUnblockUser)
	admin.POST("/post/:id/hide", c.GinHandleAdminHidePost)
	admin.POST("/release", c.GinHandleAdminAddRelease)
}
