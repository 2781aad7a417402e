package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ylbabygo/xuekework/internal/ai"
	"github.com/ylbabygo/xuekework/internal/config"
	"github.com/ylbabygo/xuekework/internal/middleware"
	"github.com/ylbabygo/xuekework/internal/models"
	"github.com/ylbabygo/xuekework/internal/repository"
	"github.com/ylbabygo/xuekework/internal/service"
	"github.com/ylbabygo/xuekework/internal/storage"
)

type HandlerSet struct {
	log            zerolog.Logger
	cfg            *config.AppConfig
	db             *pgxpool.Pool
	cache          *redis.Client
	registry       *ai.Registry
	authService    *service.AuthService
	chatService    *service.ChatService
	contentService *service.ContentService
	assetService   *service.AssetService
	users          *repository.UserRepository
	sessions       *repository.SessionRepository
	settings       *repository.SettingsRepository
	conversations  *repository.ConversationRepository
	messages       *repository.MessageRepository
	assets         *repository.AssetRepository
	notes          *repository.NoteRepository
	todos          *repository.TodoRepository
	aiTools        *repository.AIToolRepository
	learning       *repository.LearningRepository
	templates      *repository.TemplateRepository
}

func NewHandlerSet(
	log zerolog.Logger,
	db *pgxpool.Pool,
	cache *redis.Client,
	store *storage.ObjectStore,
	registry *ai.Registry,
	cfg *config.AppConfig,
) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	assetRepo := repository.NewAssetRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	todoRepo := repository.NewTodoRepository(db)
	aiToolRepo := repository.NewAIToolRepository(db)
	learningRepo := repository.NewLearningRepository(db)
	templateRepo := repository.NewTemplateRepository(db)

	auth := service.NewAuthService(userRepo, sessionRepo, cfg, log)
	chat := service.NewChatService(conversationRepo, messageRepo, registry, cache, cfg, log)
	content := service.NewContentService(templateRepo, registry, log)
	asset := service.NewAssetService(assetRepo, store, cache, cfg, log)

	return HandlerSet{
		log:            log,
		cfg:            cfg,
		db:             db,
		cache:          cache,
		registry:       registry,
		authService:    auth,
		chatService:    chat,
		contentService: content,
		assetService:   asset,
		users:          userRepo,
		sessions:       sessionRepo,
		settings:       settingsRepo,
		conversations:  conversationRepo,
		messages:       messageRepo,
		assets:         assetRepo,
		notes:          noteRepo,
		todos:          todoRepo,
		aiTools:        aiToolRepo,
		learning:       learningRepo,
		templates:      templateRepo,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")

	auth := v1.Group("/auth")
	auth.POST("/login", h.Login)

	requireAuth := middleware.Auth(h.cfg.Security.JWTSecret, h.users, h.sessions)

	authed := v1.Group("")
	authed.Use(requireAuth)

	{
		auth := authed.Group("/auth")
		auth.POST("/logout", h.Logout)
		auth.GET("/me", h.Me)
		auth.PUT("/change-password", h.ChangePassword)
		auth.GET("/settings", h.GetSettings)
		auth.PUT("/settings", h.UpdateSettings)
	}

	{
		aiGroup := authed.Group("/ai")
		aiGroup.GET("/models", h.ListModels)
		aiGroup.GET("/conversations", h.ListConversations)
		aiGroup.POST("/conversations", h.CreateConversation)
		aiGroup.GET("/conversations/:id", h.GetConversation)
		aiGroup.PUT("/conversations/:id", h.UpdateConversation)
		aiGroup.DELETE("/conversations/:id", h.DeleteConversation)
		aiGroup.GET("/conversations/:id/messages", h.ListMessages)
		aiGroup.POST("/conversations/:id/messages", h.SendMessage)
	}

	{
		content := authed.Group("/content")
		content.GET("/templates", h.ListTemplates)
		content.POST("/templates", h.CreateTemplate)
		content.DELETE("/templates/:id", h.DeleteTemplate)
		content.POST("/generate", h.GenerateContent)
		content.POST("/optimize", h.OptimizeContent)
	}

	{
		assets := authed.Group("/assets")
		assets.POST("/upload", h.UploadAsset)
		assets.GET("", h.ListAssets)
		assets.GET("/:id", h.GetAsset)
		assets.PUT("/:id", h.UpdateAsset)
		assets.DELETE("/:id", h.DeleteAsset)
	}

	{
		notes := authed.Group("/notes")
		notes.GET("", h.ListNotes)
		notes.POST("", h.CreateNote)
		notes.GET("/:id", h.GetNote)
		notes.PUT("/:id", h.UpdateNote)
		notes.DELETE("/:id", h.DeleteNote)
	}

	{
		todos := authed.Group("/todos")
		todos.GET("", h.ListTodoLists)
		todos.POST("", h.CreateTodoList)
		todos.PUT("/:listId", h.UpdateTodoList)
		todos.DELETE("/:listId", h.DeleteTodoList)
		todos.GET("/:listId/items", h.ListTodoItems)
		todos.POST("/:listId/items", h.CreateTodoItem)
		todos.PUT("/:listId/items/reorder", h.ReorderTodoItems)
		todos.PUT("/:listId/items/:itemId", h.UpdateTodoItem)
		todos.DELETE("/:listId/items/:itemId", h.DeleteTodoItem)
	}

	{
		tools := authed.Group("/ai-tools")
		tools.GET("", h.ListAITools)
		tools.POST("", h.CreateAITool)
		tools.GET("/:id", h.GetAITool)
		tools.PUT("/:id", h.UpdateAITool)
		tools.DELETE("/:id", h.DeleteAITool)
	}

	{
		learning := authed.Group("/learning/resources")
		learning.GET("", h.ListLearningResources)
		learning.POST("", h.CreateLearningResource)
		learning.GET("/:id", h.GetLearningResource)
		learning.PUT("/:id", h.UpdateLearningResource)
		learning.DELETE("/:id", h.DeleteLearningResource)
	}

	authed.GET("/system/info", h.SystemInfo)

	admin := v1.Group("/admin")
	admin.Use(requireAuth, middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.GET("/users", h.AdminListUsers)
		admin.POST("/users", h.AdminCreateUser)
		admin.PUT("/users/:id", h.AdminUpdateUser)
		admin.DELETE("/users/:id", h.AdminDeleteUser)
		admin.PUT("/users/:id/reset-password", h.AdminResetPassword)
	}
}
