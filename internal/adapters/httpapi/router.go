package httpapi

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"welbex/internal/adapters/httpapi/middleware"
	"welbex/internal/core/attachment"
	commentPort "welbex/internal/ports/comment"
	postPort "welbex/internal/ports/post"
	userPort "welbex/internal/ports/user"
)

// UserUseCase: اینترفیسِ لازم برای کنترلر/روتر (Inbound Port)
type UserUseCase interface {
	RegisterUser(ctx context.Context, email, password string) (*userPort.UserDTO, error)
	CreateUser(ctx context.Context, name, email, password, gender string) (*userPort.UserDTO, error)
	LoginUser(ctx context.Context, email, password string) (*userPort.LoginResponse, error)
}

type PostUseCase interface {
	CreatePost(ctx context.Context, userID, title, content string, file *attachment.Upload) (*postPort.PostDTO, error)
	ListPosts(ctx context.Context) ([]*postPort.PostDTO, error)
	GetPost(ctx context.Context, id string) (*postPort.PostDTO, error)
	UpdatePost(ctx context.Context, id, userID, title, content string, file *attachment.Upload) (*postPort.PostDTO, error)
	DeletePost(ctx context.Context, id, userID string) error
}

type CommentUseCase interface {
	CreateComment(ctx context.Context, postID, userID, text string) (*commentPort.CommentDTO, error)
	ListComments(ctx context.Context, postID string) ([]*commentPort.CommentDTO, error)
	DeleteComment(ctx context.Context, id, userID string) error
}

type Options struct {
	Logger      *zap.Logger
	Tokens      middleware.TokenValidator
	CORSOrigins []string
	// UploadDir is served read-only under UploadPrefix; empty disables static serving.
	UploadDir          string
	UploadPrefix       string
	MaxMultipartMemory int64
}

// فقط روتینگ: UseCase از بیرون تزریق می‌شود
func SetupRoutes(opts Options, userUC UserUseCase, postUC PostUseCase, commentUC CommentUseCase) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(opts.Logger), middleware.Recovery(opts.Logger))
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))
	if opts.MaxMultipartMemory > 0 {
		r.MaxMultipartMemory = opts.MaxMultipartMemory
	}
	if opts.UploadDir != "" && opts.UploadPrefix != "" {
		r.Static(opts.UploadPrefix, opts.UploadDir)
	}

	uc := NewUserController(userUC, opts.Logger)
	pc := NewPostController(postUC, opts.Logger)
	cc := NewCommentController(commentUC, opts.Logger)

	// مسیرهای ثبت‌نام و ورود بدون JWT Middleware
	r.POST("/api/signup", uc.Signup)
	r.POST("/api/login", uc.LoginUser)
	r.POST("/logout", uc.Logout)
	r.POST("/new-user", uc.CreateUser)

	api := r.Group("/api", middleware.JWTAuthMiddleware(opts.Tokens))
	{
		api.POST("/posts", pc.CreatePost)
		api.GET("/posts", pc.ListPosts)
		api.GET("/posts/:id", pc.GetPost)
		api.PUT("/posts/:id", pc.UpdatePost)
		api.DELETE("/posts/:id", pc.DeletePost)

		api.POST("/posts/:id/comments", cc.CreateComment)
		api.GET("/posts/:id/comments", cc.ListComments)
		api.DELETE("/comments/:id", cc.DeleteComment)
	}
	return r
}

func corsConfig(origins []string) cors.Config {
	conf := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300 * time.Second,
	}
	for _, o := range origins {
		if o == "*" {
			conf.AllowAllOrigins = true
			return conf
		}
	}
	if len(origins) == 0 {
		conf.AllowAllOrigins = true
		return conf
	}
	conf.AllowOrigins = origins
	return conf
}
