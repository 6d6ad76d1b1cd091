package main

import (
	"blogicum/config"
	"blogicum/internal/api/blog"
	"blogicum/internal/api/user"
	"blogicum/internal/middleware"
	"blogicum/internal/repository/sqldb"
	"blogicum/internal/service"
	"blogicum/internal/storage"
	"blogicum/internal/util"
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			util.Logger.Error("程序发生严重错误", zap.Any("error", r))
		}
	}()

	// 初始化配置
	config.Init()

	// 初始化日志
	util.InitLogger(config.AppConfig.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("应用程序启动")

	// 连接数据库
	db, err := sqldb.Open()
	if err != nil {
		util.Logger.Fatal("连接数据库失败", zap.Error(err))
	}
	defer db.Close()

	// 建表并写入初始的分类和地点
	if err := sqldb.Migrate(db, config.AppConfig.DBDriver); err != nil {
		util.Logger.Fatal("数据库迁移失败", zap.Error(err))
	}
	if err := sqldb.Seed(db, config.AppConfig.DBDriver); err != nil {
		util.Logger.Fatal("写入初始数据失败", zap.Error(err))
	}
	util.Logger.Info("数据库准备完成")

	// 注册自定义验证器
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("datetime_local", util.ValidateDateTimeLocal)
	}

	// 确保上传文件夹存在
	ensureUploadsFolder()

	// 初始化文件存储后端
	store, err := storage.New()
	if err != nil {
		util.Logger.Fatal("初始化文件存储失败", zap.Error(err))
	}

	// 初始化存储库、服务和处理器
	userRepo := sqldb.NewUserRepository(db)
	postRepo := sqldb.NewPostRepository(db)
	commentRepo := sqldb.NewCommentRepository(db)
	categoryRepo := sqldb.NewCategoryRepository(db)
	locationRepo := sqldb.NewLocationRepository(db)

	emailService := service.NewEmailService()
	userService := service.NewUserService(userRepo, emailService)
	postService := service.NewPostService(postRepo, categoryRepo, locationRepo)
	commentService := service.NewCommentService(commentRepo, postRepo)

	blogHandler := blog.NewBlogHandler(postService, commentService, userService, store)
	authHandler := user.NewAuthHandler(userService)
	profileHandler := user.NewProfileHandler(userService)

	// 初始化错误监控
	errorMonitor := middleware.NewErrorMonitor()

	// 定时输出错误统计，便于在日志里观察错误趋势
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		for range ticker.C {
			counts := errorMonitor.GetErrorCounts()
			if len(counts) > 0 {
				util.Logger.Warn("近期错误统计", zap.Any("counts", counts))
			}
		}
	}()

	// 设置 Gin 路由
	r := gin.Default()

	// 加载页面模板
	r.SetFuncMap(util.TemplateFuncs())
	r.LoadHTMLGlob(config.AppConfig.TemplatesGlob)

	// 添加中间件
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.ErrorMonitorMiddleware(errorMonitor))

	// 配置 CORS，上传的图片允许被外部页面引用
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{config.AppConfig.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	r.Use(cors.New(corsConfig))

	// 解析会话 Cookie，把登录用户放进请求上下文
	r.Use(middleware.CurrentUser(userService))

	// 配置上传文件的静态服务
	r.Static("/uploads", config.AppConfig.LocalStoragePath)

	// 公开页面
	r.GET("/", blogHandler.Index)
	r.GET("/posts/:post_id/", blogHandler.PostDetail)
	r.GET("/category/:slug/", blogHandler.CategoryPosts)
	r.GET("/profile/:username/", blogHandler.Profile)

	// 需要登录的页面，未登录时跳转到登录页
	authorized := r.Group("/", middleware.LoginRequired())
	{
		authorized.GET("/posts/create/", blogHandler.CreatePostPage)
		authorized.POST("/posts/create/", blogHandler.CreatePost)
		authorized.GET("/profile/edit/", profileHandler.ProfileEditPage)
		authorized.POST("/profile/edit/", profileHandler.ProfileEdit)
	}

	// 归属检查在处理器内完成，非作者软重定向回详情页
	r.GET("/posts/:post_id/edit/", blogHandler.EditPostPage)
	r.POST("/posts/:post_id/edit/", blogHandler.EditPost)
	r.GET("/posts/:post_id/delete/", blogHandler.DeletePostPage)
	r.POST("/posts/:post_id/delete/", blogHandler.DeletePost)

	// 评论：添加评论先查文章是否存在，再检查登录状态
	r.POST("/posts/:post_id/comment/", blogHandler.AddComment)
	r.GET("/posts/:post_id/:comment_id/edit_comment/", blogHandler.EditCommentPage)
	r.POST("/posts/:post_id/:comment_id/edit_comment/", blogHandler.EditComment)
	r.GET("/posts/:post_id/delete_comment/:comment_id/", blogHandler.DeleteCommentPage)
	r.POST("/posts/:post_id/delete_comment/:comment_id/", blogHandler.DeleteComment)

	// 认证相关页面
	auth := r.Group("/auth")
	{
		auth.GET("/registration/", authHandler.RegisterPage)
		auth.POST("/registration/", authHandler.Register)
		auth.GET("/login/", authHandler.LoginPage)
		auth.POST("/login/", authHandler.Login)
		auth.GET("/logout/", authHandler.Logout)
		auth.POST("/logout/", authHandler.Logout)
		auth.GET("/password_reset/", authHandler.PasswordResetPage)
		auth.POST("/password_reset/", authHandler.RequestPasswordReset)
		auth.GET("/password_reset/confirm/", authHandler.PasswordResetConfirmPage)
		auth.POST("/password_reset/confirm/", authHandler.PasswordResetConfirm)
	}

	// 创建一个带有超时的 http.Server
	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	// 在一个新的 goroutine 中启动服务器
	go func() {
		util.Logger.Info("服务器正在启动，监听端口 :8080")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Logger.Fatal("启动服务器失败", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅地关闭服务器（设置 5 秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		util.Logger.Fatal("服务器强制关闭", zap.Error(err))
	}

	// 关闭前把累计的错误统计写进日志
	if counts := errorMonitor.GetErrorCounts(); len(counts) > 0 {
		util.Logger.Info("运行期间的错误统计", zap.Any("counts", counts))
	}

	util.Logger.Info("服务器已优雅关闭")
}

// 确保上传文件夹存在
func ensureUploadsFolder() {
	uploadsPath := config.AppConfig.LocalStoragePath
	if err := os.MkdirAll(uploadsPath, 0755); err != nil {
		util.Logger.Fatal("创建上传文件夹失败", zap.Error(err), zap.String("path", uploadsPath))
	}
	util.Logger.Info("上传文件夹已创建或已存在", zap.String("path", uploadsPath))
}
