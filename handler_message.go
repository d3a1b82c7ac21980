package social_sdk

import (
	"net/http"

	"github.com/cydxin/social-sdk/response"
	"github.com/gin-gonic/gin"
)

// -------------------- 私信（Message）相关接口 --------------------

type SendMessageReq struct {
	ReceiverID uint64  `json:"receiver_id" binding:"required"`
	Content    string  `json:"content" binding:"required"`
	ReplyToID  *uint64 `json:"reply_to_id"`
}

// GinHandleSendMessage 发私信
// @Summary 发送私信
// @Tags 私信
// @Accept json
// @Produce json
// @Param req body SendMessageReq true "私信内容"
// @Success 200 {object} response.Response{data=map[string]interface{}} "data.id"
// @Security BearerAuth
// @Router /message [post]
func (c *SocialEngine) GinHandleSendMessage(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	var req SendMessageReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}
	id, err := c.MessageService.Send(uid, req.ReceiverID, req.Content, req.ReplyToID)
	if err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(map[string]any{"id": id}))
}

type EditMessageReq struct {
	Content string `json:"content" binding:"required"`
}

// GinHandleEditMessage 编辑私信
// @Summary 编辑私信（仅发送者，记录编辑时间）
// @Tags 私信
// @Accept json
// @Produce json
// @Param id path uint64 true "消息ID"
// @Param req body EditMessageReq true "新内容"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /message/{id} [put]
func (c *SocialEngine) GinHandleEditMessage(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	mid, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	var req EditMessageReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}
	if err := c.MessageService.Edit(uid, mid, req.Content); err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil))
}

type PinMessageReq struct {
	Pinned *bool `json:"pinned" binding:"required"`
}

// GinHandlePinMessage 置顶私信
// @Summary 置顶/取消置顶（会话双方均可）
// @Tags 私信
// @Accept json
// @Produce json
// @Param id path uint64 true "消息ID"
// @Param req body PinMessageReq true "pinned"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /message/{id}/pin [put]
func (c *SocialEngine) GinHandlePinMessage(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	mid, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	var req PinMessageReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}
	if err := c.MessageService.Pin(uid, mid, *req.Pinned); err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil))
}

// GinHandleConversations 会话列表
// @Summary 会话列表（按最近消息倒序，带未读数）
// @Tags 私信
// @Produce json
// @Success 200 {object} response.Response{data=[]service.ConversationDTO}
// @Security BearerAuth
// @Router /conversations [get]
func (c *SocialEngine) GinHandleConversations(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	convs, err := c.MessageService.Conversations(uid)
	if err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(convs))
}

// GinHandleConversation 会话详情
// @Summary 与某用户的会话消息（时间升序）
// @Tags 私信
// @Produce json
// @Param id path uint64 true "对方用户ID"
// @Param limit query int false "条数(默认100)"
// @Success 200 {object} response.Response{data=[]service.MessageDTO}
// @Security BearerAuth
// @Router /conversation/{id} [get]
func (c *SocialEngine) GinHandleConversation(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	partner, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	msgs, err := c.MessageService.Conversation(uid, partner, queryInt(ctx, "limit", 100))
	if err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(msgs))
}

// GinHandleMarkConversationRead 标记已读
// @Summary 把来自对方的消息全部标记为已读
// @Tags 私信
// @Produce json
// @Param id path uint64 true "对方用户ID"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /conversation/{id}/read [post]
func (c *SocialEngine) GinHandleMarkConversationRead(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	partner, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	if err := c.MessageService.MarkRead(uid, partner); err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil))
}

// GinHandleHideConversation 删除会话
// @Summary 删除会话（只影响自己这一侧）
// @Tags 私信
// @Produce json
// @Param id path uint64 true "对方用户ID"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /conversation/{id} [delete]
func (c *SocialEngine) GinHandleHideConversation(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	partner, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	if err := c.MessageService.HideConversation(uid, partner); err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil))
}
