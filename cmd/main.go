package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"house-design-backend/internal/config"
	"house-design-backend/internal/handler"
	"house-design-backend/internal/imagegen"
	"house-design-backend/internal/llm"
	"house-design-backend/internal/middleware"
	"house-design-backend/internal/render"
	"house-design-backend/internal/service"
	"house-design-backend/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./configs/config.yaml", "配置文件路径")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	ctx := context.Background()

	// 初始化模型与生成链
	chatModel, err := llm.NewChatModel(ctx, cfg)
	if err != nil {
		logger.Fatalf("Failed to create chat model: %v", err)
	}
	planChain, err := llm.NewPlanChain(ctx, chatModel, cfg.Model.Provider)
	if err != nil {
		logger.Fatalf("Failed to compile floor plan chain: %v", err)
	}

	converter, err := render.NewFromConfig(cfg.Render)
	if err != nil {
		logger.Fatalf("Failed to configure renderers: %v", err)
	}
	logger.Infof("SVG renderers in order: %v", converter.Backends())

	registry, err := imagegen.NewRegistry(cfg.Image)
	if err != nil {
		logger.Fatalf("Failed to configure image services: %v", err)
	}

	store, err := service.NewStorage(cfg.Storage)
	if err != nil {
		logger.Fatalf("Failed to init storage: %v", err)
	}
	defer store.Close()

	// 初始化服务与处理器
	designService := service.NewDesignService(planChain, converter)
	imageService := service.NewImageService(registry, store, cfg.Server.APIPrefix+"/get-image")
	houseHandler := handler.NewHouseHandler(designService, imageService)

	// 创建路由
	router := setupRouter(cfg, houseHandler)

	// 创建HTTP服务器
	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	// 启动服务器
	go func() {
		logger.Infof("服务器启动在端口 %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("服务器启动失败: %v", err)
		}
	}()

	// 等待信号优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("服务器正在关闭...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("服务器关闭失败: %v", err)
	}
	logger.Info("服务器已关闭")
}

func setupRouter(cfg *config.Config, houseHandler *handler.HouseHandler) *gin.Engine {
	// 设置gin模式
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// 中间件
	router.Use(middleware.RequestID())
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// CORS配置
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           time.Duration(cfg.CORS.MaxAge) * time.Second,
	}
	router.Use(cors.New(corsConfig))

	router.GET("/", houseHandler.Home)
	router.GET("/health", houseHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API路由
	api := router.Group(cfg.Server.APIPrefix)
	{
		generate := api.Group("", middleware.RateLimit(cfg.RateLimit))
		{
			generate.POST("/generate-house-svg", houseHandler.GenerateHouseSVG)
			generate.POST("/generate-house-image", houseHandler.GenerateHouseImage)
		}

		api.GET("/get-image/:filename", houseHandler.GetImage)
		api.GET("/images", houseHandler.ListImages)
	}

	return router
}
