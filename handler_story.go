package social_sdk

import (
	"net/http"

	"github.com/cydxin/social-sdk/response"
	"github.com/gin-gonic/gin"
)

// -------------------- 故事（Story）相关接口 --------------------

type CreateStoryReq struct {
	ImageURL   string `json:"image_url" binding:"required"`
	Visibility string `json:"visibility"` // all / followers / mutual，默认 all
}

// GinHandleCreateStory 发布故事
// @Summary 发布限时故事（24 小时过期）
// @Tags 故事
// @Accept json
// @Produce json
// @Param req body CreateStoryReq true "故事内容"
// @Success 200 {object} response.Response{data=map[string]interface{}} "data.id"
// @Security BearerAuth
// @Router /story [post]
func (c *SocialEngine) GinHandleCreateStory(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	var req CreateStoryReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Error(response.CodeParamError, err.Error()))
		return
	}
	id, err := c.StoryService.Create(uid, req.ImageURL, req.Visibility)
	if err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(map[string]any{"id": id}))
}

// GinHandleListStories 故事列表
// @Summary 当前可见的全部未过期故事
// @Tags 故事
// @Produce json
// @Success 200 {object} response.Response{data=[]service.StoryDTO}
// @Security BearerAuth
// @Router /story [get]
func (c *SocialEngine) GinHandleListStories(ctx *gin.Context) {
	stories, err := c.StoryService.List(viewerUID(ctx))
	if err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(stories))
}

// GinHandleDeleteStory 删除故事
// @Summary 删除自己的故事
// @Tags 故事
// @Produce json
// @Param id path uint64 true "故事ID"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /story/{id} [delete]
func (c *SocialEngine) GinHandleDeleteStory(ctx *gin.Context) {
	uid, ok := currentUID(ctx)
	if !ok {
		return
	}
	sid, ok := paramUint64(ctx, "id")
	if !ok {
		return
	}
	if err := c.StoryService.Delete(uid, sid); err != nil {
		svcError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response.Success(nil))
}
