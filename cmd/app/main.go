package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	dbadapter "welbex/internal/adapters/database"
	"welbex/internal/adapters/httpapi"
	minioadapter "welbex/internal/adapters/minio"
	redisadapter "welbex/internal/adapters/redis"
	"welbex/internal/adapters/storage"
	"welbex/internal/config"
	attachmentapp "welbex/internal/core/attachment/service"
	"welbex/internal/core/auth"
	commentapp "welbex/internal/core/comment/service"
	postapp "welbex/internal/core/post/service"
	userapp "welbex/internal/core/user/service"
	"welbex/internal/httpserver"
	attachmentPort "welbex/internal/ports/attachment"
	"welbex/internal/workers"
)

func main() {
	envFile := flag.String("env", ".env", "path to an optional .env file")
	flag.Parse()

	conf, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := config.NewLogger(conf.App.Env)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	if err := run(conf, logger); err != nil {
		logger.Fatal("Application stopped", zap.Error(err))
	}
}

func run(conf *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// اتصال به دیتابیس و اجرای مایگریشن‌ها
	db, err := config.OpenDB(conf.Database, logger)
	if err != nil {
		return err
	}
	defer closeDB(logger, db)

	if err := dbadapter.Migrate(db); err != nil {
		return err
	}
	logger.Info("Database migrations completed")

	redisClient, err := config.OpenRedis(ctx, conf.Redis, logger)
	if err != nil {
		return err
	}
	// بستن منابع بعد از اتمام کار سرور
	defer closeRedis(logger, redisClient)

	store, uploadDir, err := openStorage(ctx, conf, logger)
	if err != nil {
		return err
	}

	// آداپترهای خروجی
	userRepo := dbadapter.NewUserRepositoryDatabase(db)
	postRepo := dbadapter.NewPostRepositoryDatabase(db)
	commentRepo := dbadapter.NewCommentRepositoryDatabase(db)
	postCache := redisadapter.NewPostCacheRedis(redisClient, conf.Redis.PostCacheTTL, logger)

	hasher := auth.NewPasswordHasher(conf.Auth.BcryptCost)
	tokens := auth.NewTokenService([]byte(conf.Auth.SecretKey), conf.Auth.TokenTTL)
	attachments := attachmentapp.NewAttachmentService(store, conf.Uploads.MaxBytes, logger)

	// یوزکیس/سرویس
	userSvc := userapp.NewUserService(userRepo, hasher, tokens, logger)
	postSvc := postapp.NewPostService(postRepo, commentRepo, postCache, attachments, logger)
	commentSvc := commentapp.NewCommentService(commentRepo, postRepo, postCache, logger)

	if conf.App.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := httpapi.SetupRoutes(httpapi.Options{
		Logger:             logger,
		Tokens:             tokens,
		CORSOrigins:        conf.App.CORSOrigins,
		UploadDir:          uploadDir,
		UploadPrefix:       conf.Uploads.PublicPrefix,
		MaxMultipartMemory: 8 << 20,
	}, userSvc, postSvc, commentSvc) // تزریق یوزکیس به آداپتر ورودی

	// اجرای worker در پس‌زمینه
	sweeper := workers.NewAttachmentSweeper(postRepo, store, conf.Uploads.SweepInterval, conf.Uploads.SweepGrace, logger)
	go sweeper.Run(ctx)

	logger.Info("App is running...", zap.String("addr", conf.App.Addr()))
	return httpserver.New(conf.App, r, logger).Run(ctx)
}

// openStorage returns the attachment backend and, for the local backend, the
// directory to serve statically.
func openStorage(ctx context.Context, conf *config.Config, logger *zap.Logger) (attachmentPort.Storage, string, error) {
	if conf.Uploads.Backend == "minio" {
		ms, err := minioadapter.New(ctx, conf.MinIO, logger)
		if err != nil {
			return nil, "", err
		}
		return ms, "", nil
	}
	ls, err := storage.NewLocalStorage(conf.Uploads.Dir, conf.Uploads.PublicPrefix)
	if err != nil {
		return nil, "", err
	}
	return ls, ls.Dir(), nil
}

// closeResources بستن اتصالات به Redis و دیتابیس
func closeRedis(logger *zap.Logger, redisClient *redis.Client) {
	if redisClient == nil {
		return
	}
	if err := redisClient.Close(); err != nil {
		logger.Error("Error closing Redis connection", zap.Error(err))
	}
}

func closeDB(logger *zap.Logger, db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Error getting raw DB", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Error closing database connection", zap.Error(err))
	}
}
