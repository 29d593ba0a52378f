package httpapi

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"welbex/internal/adapters/httpapi/middleware"
	"welbex/internal/core/attachment"
	"welbex/internal/core/errs"
)

type PostController struct {
	pc     PostUseCase
	logger *zap.Logger
}

func NewPostController(pc PostUseCase, logger *zap.Logger) *PostController {
	return &PostController{pc: pc, logger: logger}
}

// postForm is shared by create and update; create-only requirements are checked by the use case.
type postForm struct {
	Title   string                `form:"title" json:"title"`
	Content string                `form:"content" json:"content"`
	File    *multipart.FileHeader `form:"file" json:"-"`
}

func (ctl *PostController) CreatePost(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, ctl.logger, errs.Unauthenticated("authorization required"))
		return
	}
	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, "invalid input")
		return
	}

	upload, closeFile, err := openUpload(form.File)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	defer closeFile()

	p, err := ctl.pc.CreatePost(c.Request.Context(), userID, form.Title, form.Content, upload)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "post created", "post": p})
}

func (ctl *PostController) ListPosts(c *gin.Context) {
	posts, err := ctl.pc.ListPosts(c.Request.Context())
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "posts loaded", "posts": posts})
}

func (ctl *PostController) GetPost(c *gin.Context) {
	p, err := ctl.pc.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "post loaded", "post": p})
}

func (ctl *PostController) UpdatePost(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, ctl.logger, errs.Unauthenticated("authorization required"))
		return
	}
	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, "invalid input")
		return
	}

	upload, closeFile, err := openUpload(form.File)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	defer closeFile()

	p, err := ctl.pc.UpdatePost(c.Request.Context(), c.Param("id"), userID, form.Title, form.Content, upload)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "post updated", "post": p})
}

func (ctl *PostController) DeletePost(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, ctl.logger, errs.Unauthenticated("authorization required"))
		return
	}
	if err := ctl.pc.DeletePost(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "post deleted"})
}

// openUpload turns an optional multipart file into an Upload. The returned
// close function is always safe to call.
func openUpload(fh *multipart.FileHeader) (*attachment.Upload, func(), error) {
	if fh == nil {
		return nil, func() {}, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, errs.Validation("file could not be read")
	}
	return &attachment.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}, func() { f.Close() }, nil
}
