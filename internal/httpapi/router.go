package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kitbuilder587/news-digest/internal/metrics"
	"github.com/kitbuilder587/news-digest/internal/ratelimit"
	"github.com/kitbuilder587/news-digest/internal/service"
)

type RouterDeps struct {
	News        service.NewsService
	History     service.HistoryService
	Validator   *validator.Validate
	Logger      *zap.Logger
	Metrics     *metrics.Metrics
	Limiter     *ratelimit.Limiter // nil - без лимита
	CORSOrigins []string
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.History == nil {
		deps.History = service.NewHistoryService(nil, deps.Logger)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestLogger(deps.Logger))
	if deps.Metrics != nil {
		engine.Use(Metrics(deps.Metrics))
	}
	engine.Use(CORS(deps.CORSOrigins))

	h := NewHandler(deps.News, deps.History, deps.Validator, deps.Logger)

	// служебные маршруты не лимитируются
	engine.GET("/health", h.Health)
	if deps.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api := engine.Group("/")
	if deps.Limiter != nil {
		api.Use(RateLimit(deps.Limiter, deps.Metrics, deps.Logger))
	}
	h.RegisterRoutes(api)

	return engine
}
