package router

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	providerapp "github.com/opsconsole/backend/internal/application/provider"
	"github.com/opsconsole/backend/internal/infrastructure/config"
	applogger "github.com/opsconsole/backend/internal/infrastructure/logger"
	"github.com/opsconsole/backend/internal/interfaces/http/handler"
)

// Dependencies holds everything the router needs to wire up handlers
type Dependencies struct {
	Config      *config.Config
	Logger      *zap.Logger
	SyncService *providerapp.SyncService
}

// New builds the gin engine with middleware, validators and all routes
func New(deps Dependencies) *gin.Engine {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	registerValidators()

	engine := gin.New()
	engine.Use(applogger.GinMiddleware(deps.Logger))
	engine.Use(applogger.Recovery(deps.Logger))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")
	providerHandler := handler.NewProviderHandler(deps.SyncService)
	providerHandler.RegisterRoutes(api)

	return engine
}

// registerValidators installs custom binding validations on gin's validator
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("orderstatus", validOrderStatus)
}

func validOrderStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "draft", "sent", "accepted", "rejected", "in_transit", "delivered", "cancelled":
		return true
	}
	return false
}
