package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"portfolio-contact-backend/config"
	"portfolio-contact-backend/internal/delivery/http/middleware"
	"portfolio-contact-backend/internal/delivery/http/response"
	"portfolio-contact-backend/internal/domain"
	"portfolio-contact-backend/internal/usecase"
	"portfolio-contact-backend/pkg/audit"
	"portfolio-contact-backend/pkg/metrics"
)

const maxBodyBytes = 1 << 20 // 1 MiB

type RouterDeps struct {
	ContactUC domain.ContactUsecase
	AuthUC    domain.AuthUsecase
	AdminUC   domain.AdminUsecase
	HealthUC  usecase.HealthUsecase
	Tokens    middleware.TokenParser
	Redis     *goredis.Client // optional, rate limits fall back to memory
	Audit     *audit.Logger
	Config    *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL, deps.Config.IsRelease())) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config.IsRelease()))
	r.Use(middleware.MaxBodySize(maxBodyBytes))
	r.Use(middleware.ErrorHandler())

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", deps.HealthUC.Check(c.Request.Context()))
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public routes
	contactLimit := middleware.ContactRateLimitConfig(
		deps.Config.ContactRateLimit,
		time.Duration(deps.Config.ContactRateWindowSeconds)*time.Second,
	)
	contactLimit.Redis = deps.Redis
	contactLimit.Audit = deps.Audit
	NewContactHandler(v1, deps.ContactUC, middleware.RateLimitMiddleware(contactLimit))

	loginLimit := middleware.LoginRateLimitConfig()
	loginLimit.Redis = deps.Redis
	loginLimit.Audit = deps.Audit
	NewAuthHandler(v1, deps.AuthUC, middleware.RateLimitMiddleware(loginLimit))

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Tokens))
	{
		NewAdminHandler(protected, deps.AdminUC)
	}

	return r
}
