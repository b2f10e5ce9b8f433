package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"catalog-svc/internal/cache"
	"catalog-svc/internal/cron"
	"catalog-svc/internal/handler"
	"catalog-svc/internal/middleware"
	"catalog-svc/internal/repository"
	"catalog-svc/internal/service"
	"catalog-svc/internal/storage"
	"catalog-svc/migrations"
	"catalog-svc/pkg/config"
	"catalog-svc/pkg/logger"
)

func main() {
	log.Println("Starting catalog-svc...")

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLog := logger.New(logger.DefaultConfig())

	db, err := initDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	blobStore, err := initBlobStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize blob store: %v", err)
	}

	redisClient := initRedis(cfg)
	defer redisClient.Close()

	songService, playlistService, catalogService, cleanupService := initServices(cfg, db, blobStore, redisClient, appLog)

	cronManager := cron.NewCronManager(cleanupService)
	if err := cronManager.Start(); err != nil {
		log.Fatalf("Failed to start cron manager: %v", err)
	}
	defer cronManager.Stop()

	httpServer := startHTTPServer(cfg, songService, playlistService, catalogService, appLog)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down catalog-svc...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server forced to shutdown: %v", err)
	}

	log.Println("catalog-svc stopped")
}

func initDatabase(cfg *config.Config) (*pgxpool.Pool, error) {
	dbCfg := &repository.DBConfig{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		Database:        cfg.Postgres.Database,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxConns:        cfg.Postgres.MaxConns,
		MinConns:        cfg.Postgres.MinConns,
		MaxConnLifetime: cfg.Postgres.ConnMaxLifetime,
	}

	if err := repository.Migrate(dbCfg, migrations.FS, "."); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	pool, err := repository.NewPool(context.Background(), dbCfg)
	if err != nil {
		return nil, err
	}

	log.Println("Database connected successfully")
	return pool, nil
}

func initBlobStore(cfg *config.Config) (*storage.MinioStore, error) {
	store, err := storage.NewMinioStore(&storage.MinioConfig{
		Endpoint:  cfg.Minio.Endpoint,
		AccessKey: cfg.Minio.AccessKey,
		SecretKey: cfg.Minio.SecretKey,
		Bucket:    cfg.Minio.Bucket,
		UseSSL:    cfg.Minio.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	if err := store.EnsureBucket(context.Background()); err != nil {
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}

	log.Println("Blob store connected successfully")
	return store, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
}

func initServices(
	cfg *config.Config,
	db *pgxpool.Pool,
	blobStore storage.BlobStore,
	redisClient *redis.Client,
	appLog logger.Logger,
) (*service.SongService, *service.PlaylistService, *service.CatalogService, *service.CleanupService) {
	// 初始化仓储层
	songRepo := repository.NewSongRepository(db)
	playlistRepo := repository.NewPlaylistRepository(db)
	entryRepo := repository.NewPlaylistEntryRepository(db)
	orphanRepo := repository.NewOrphanRepository(db)

	songCache := cache.NewSongCache(redisClient, cfg.Redis.SongTTL)

	// 初始化服务层
	songService := service.NewSongService(songRepo, blobStore, orphanRepo, songCache, appLog)
	playlistService := service.NewPlaylistService(playlistRepo, entryRepo, songRepo)
	catalogService := service.NewCatalogService(songRepo)
	cleanupService := service.NewCleanupService(orphanRepo, blobStore, appLog)

	return songService, playlistService, catalogService, cleanupService
}

func startHTTPServer(
	cfg *config.Config,
	songService *service.SongService,
	playlistService *service.PlaylistService,
	catalogService *service.CatalogService,
	appLog logger.Logger,
) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())

	songHandler := handler.NewSongHandler(songService, catalogService, appLog)
	playlistHandler := handler.NewPlaylistHandler(playlistService, appLog)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "catalog-svc"})
	})

	api := router.Group("/api")

	// 公开接口，可选认证（已登录用户可见自己的私有内容）
	public := api.Group("")
	public.Use(middleware.OptionalAuth(cfg.JWT.Secret, cfg.JWT.Issuer, appLog))
	{
		public.GET("/songs", songHandler.ListCatalog)
		public.GET("/songs/:id", songHandler.Get)
		public.POST("/songs/:id/play", songHandler.Play)
		public.GET("/playlists/public", playlistHandler.ListPublic)
		public.GET("/playlists/:id", playlistHandler.Get)
	}

	// 需要认证的接口
	authed := api.Group("")
	authed.Use(middleware.RequiredAuth(cfg.JWT.Secret, cfg.JWT.Issuer, appLog))
	{
		authed.POST("/songs", songHandler.Upload)
		authed.GET("/songs/my", songHandler.ListMine)
		authed.PUT("/songs/:id", songHandler.Update)
		authed.DELETE("/songs/:id", songHandler.Delete)

		authed.POST("/playlists", playlistHandler.Create)
		authed.GET("/playlists/my", playlistHandler.ListMine)
		authed.PUT("/playlists/:id", playlistHandler.Update)
		authed.DELETE("/playlists/:id", playlistHandler.Delete)
		authed.POST("/playlists/:id/songs", playlistHandler.AddSong)
		authed.DELETE("/playlists/:id/songs/:song_id", playlistHandler.RemoveSong)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("HTTP server listening on :%d", cfg.Server.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	return server
}
