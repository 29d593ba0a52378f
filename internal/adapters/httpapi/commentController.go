package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"welbex/internal/adapters/httpapi/middleware"
	"welbex/internal/core/errs"
)

type CommentController struct {
	cc     CommentUseCase
	logger *zap.Logger
}

func NewCommentController(cc CommentUseCase, logger *zap.Logger) *CommentController {
	return &CommentController{cc: cc, logger: logger}
}

type commentRequest struct {
	Text string `json:"text" form:"text" binding:"required"`
}

func (ctl *CommentController) CreateComment(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, ctl.logger, errs.Unauthenticated("authorization required"))
		return
	}
	var req commentRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "text is required")
		return
	}
	comment, err := ctl.cc.CreateComment(c.Request.Context(), c.Param("id"), userID, req.Text)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "comment added", "comment": comment})
}

func (ctl *CommentController) ListComments(c *gin.Context) {
	comments, err := ctl.cc.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "comments loaded", "comments": comments})
}

func (ctl *CommentController) DeleteComment(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, ctl.logger, errs.Unauthenticated("authorization required"))
		return
	}
	if err := ctl.cc.DeleteComment(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "comment deleted"})
}
