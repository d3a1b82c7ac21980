package social_sdk

import (
	"net/http"

	"github.com/cydxin/social-sdk/response"
	"github.com/gin-gonic/gin"
)

// -------------------- 举报/认证/申诉（普通用户入口） --------------------

type CreateReportReq struct {
	TargetType string `json:"target_type" binding:"required"` // user / post / comment
	TargetID   uint64 `json:"target_id" binding:"required"`
	Reason     string `json:"reason" binding:"required"`
}

// GinHandleCreateReport 举报
// @Summary 举报用户/帖子/评论
// @Tags 审核
// @Accept json
// @Produce json
// @Param req body CreateReportReq true "举报内容"
// @Success 200 {object} response.Response{data=map[string]interface{}} "data.id"
// @Security BearerAuth
// @Router /report [post]
func (c *SocialEngine) GinHandleCreateReport(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	var req CreateReportReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}
	id, err := c.ModerationService.CreateReport(uid, req.TargetType, req.TargetID, req.Reason)
	if err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(map[string]any{"id": id}))
}

type RequestVerificationReq struct {
	Type string `json:"type" binding:"required"` // standard / artist
}

// GinHandleRequestVerification 申请认证
// @Summary 申请认证（standard/artist，同时只允许一条 pending）
// @Tags 审核
// @Accept json
// @Produce json
// @Param req body RequestVerificationReq true "认证类型"
// @Success 200 {object} response.Response{data=map[string]interface{}} "data.id"
// @Security BearerAuth
// @Router /verification [post]
func (c *SocialEngine) GinHandleRequestVerification(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	var req RequestVerificationReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}
	id, err := c.ModerationService.RequestVerification(uid, req.Type)
	if err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(map[string]any{"id": id}))
}

type CreateAppealReq struct {
	Reason string `json:"reason" binding:"required"`
}

// GinHandleCreateAppeal 提交申诉
// @Summary 被封禁账号提交申诉
// @Tags 审核
// @Accept json
// @Produce json
// @Param req body CreateAppealReq true "申诉理由"
// @Success 200 {object} response.Response{data=map[string]interface{}} "data.id"
// @Security BearerAuth
// @Router /appeal [post]
func (c *SocialEngine) GinHandleCreateAppeal(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	var req CreateAppealReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}
	id, err := c.ModerationService.CreateAppeal(uid, req.Reason)
	if err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(map[string]any{"id": id}))
}

// -------------------- 管理员接口 --------------------

// GinHandleAdminPendingReports 待处理举报
// @Summary 待处理举报队列
// @Tags 管理员
// @Produce json
// @Success 200 {object} response.Response{data=[]models.Report}
// @Security BearerAuth
// @Router /admin/reports [get]
func (c *SocialEngine) GinHandleAdminPendingReports(ctx *gin.Context) {
	rows, err := c.ModerationService.PendingReports()
	if err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(rows))
}

type ResolveReportReq struct {
	Outcome string `json:"outcome" binding:"required"` // dismiss / action
}

// GinHandleAdminResolveReport 处理举报
// @Summary 处理举报（action 同时下架内容）
// @Tags 管理员
// @Accept json
// @Produce json
// @Param id path uint64 true "举报ID"
// @Param req body ResolveReportReq true "裁决"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /admin/report/{id}/resolve [post]
func (c *SocialEngine) GinHandleAdminResolveReport(ctx *gin.Context) {
	id, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	var req ResolveReportReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}
	if err := c.ModerationService.ResolveReport(id, req.Outcome); err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil))
}

// GinHandleAdminPendingVerifications 待审认证
// @Summary 待审认证队列
// @Tags 管理员
// @Produce json
// @Success 200 {object} response.Response{data=[]models.VerificationRequest}
// @Security BearerAuth
// @Router /admin/verifications [get]
func (c *SocialEngine) GinHandleAdminPendingVerifications(ctx *gin.Context) {
	rows, err := c.ModerationService.PendingVerifications()
	if err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(rows))
}

// GinHandleAdminApproveVerification 通过认证
// @Summary 通过认证（artist 同时点亮音乐人标记）
// @Tags 管理员
// @Produce json
// @Param id path uint64 true "申请ID"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /admin/verification/{id}/approve [post]
func (c *SocialEngine) GinHandleAdminApproveVerification(ctx *gin.Context) {
	id, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	if err := c.ModerationService.ApproveVerification(id); err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil))
}

// GinHandleAdminRejectVerification 驳回认证
// @Summary 驳回认证
// @Tags 管理员
// @Produce json
// @Param id path uint64 true "申请ID"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /admin/verification/{id}/reject [post]
func (c *SocialEngine) GinHandleAdminRejectVerification(ctx *gin.Context) {
	id, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	if err := c.ModerationService.RejectVerification(id); err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil))
}

// GinHandleAdminPendingAppeals 待审申诉
// @Summary 待审申诉队列
// @Tags 管理员
// @Produce json
// @Success 200 {object} response.Response{data=[]models.AppealRequest}
// @Security BearerAuth
// @Router /admin/appeals [get]
func (c *SocialEngine) GinHandleAdminPendingAppeals(ctx *gin.Context) {
	rows, err := c.ModerationService.PendingAppeals()
	if err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(rows))
}

type ResolveAppealReq struct {
	Approve *bool `json:"approve" binding:"required"`
}

// GinHandleAdminResolveAppeal 处理申诉
// @Summary 处理申诉（通过则解封）
// @Tags 管理员
// @Accept json
// @Produce json
// @Param id path uint64 true "申诉ID"
// @Param req body ResolveAppealReq true "裁决"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /admin/appeal/{id}/resolve [post]
func (c *SocialEngine) GinHandleAdminResolveAppeal(ctx *gin.Context) {
	id, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	var req ResolveAppealReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}
	if err := c.ModerationService.ResolveAppeal(id, *req.Approve); err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil))
}

// GinHandleAdminBlockUser 封禁用户
// @Summary 封禁用户（累计封禁次数）
// @Tags 管理员
// @Produce json
// @Param id path uint64 true "用户ID"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /admin/user/{id}/block [post]
func (c *SocialEngine) GinHandleAdminBlockUser(ctx *gin.Context) {
	id, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	if err := c.ModerationService.BlockUser(id); err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil))
}

// GinHandleAdminUnblockUser 解封用户
// @Summary 解封用户
// @Tags 管理员
// @Produce json
// @Param id path uint64 true "用户ID"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /admin/user/{id}/block [delete]
func (c *SocialEngine) GinHandleAdminUnblockUser(ctx *gin.Context) {
	id, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	if err := c.ModerationService.UnblockUser(id); err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil))
}

// GinHandleAdminHidePost 下架帖子
// @Summary 管理员下架帖子
// @Tags 管理员
// @Produce json
// @Param id path uint64 true "帖子ID"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /admin/post/{id}/hide [post]
func (c *SocialEngine) GinHandleAdminHidePost(ctx *gin.Context) {
	id, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	if err := c.ModerationService.HidePost(id); err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil))
}

type AddReleaseReq struct {
	ArtistID   uint64 `json:"artist_id" binding:"required"`
	Title      string `json:"title" binding:"required"`
	ArtistName string `json:"artist_name"`
	CoverURL   string `json:"cover_url"`
	AudioURL   string `json:"audio_url"`
}

// GinHandleAdminAddRelease 录入作品
// @Summary 给音乐人账号录入作品
// @Tags 管理员
// @Accept json
// @Produce json
// @Param req body AddReleaseReq true "作品信息"
// @Success 200 {object} response.Response{data=map[string]interface{}} "data.id"
// @Security BearerAuth
// @Router /admin/release [post]
func (c *SocialEngine) GinHandleAdminAddRelease(ctx *gin.Context) {
	var req AddReleaseReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}
	id, err := c.ModerationService.AddRelease(req.ArtistID, req.Title, req.ArtistName, req.CoverURL, req.AudioURL)
	if err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(map[string]any{"id": id}))
}
