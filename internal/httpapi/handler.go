package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kitbuilder587/news-digest/internal/domain"
	"github.com/kitbuilder587/news-digest/internal/service"
)

const (
	msgInvalidBody     = "invalid request body"
	msgInvalidDaysBack = "daysBack must be an integer"
	msgInvalidLimit    = "limit must be an integer"
	msgHistoryCleared  = "search history cleared"

	storageConnected    = "connected"
	storageDisconnected = "disconnected"
	storageDisabled     = "disabled"
)

type Handler struct {
	news    service.NewsService
	history service.HistoryService
	val     *validator.Validate
	logger  *zap.Logger
}

func NewHandler(news service.NewsService, history service.HistoryService, val *validator.Validate, logger *zap.Logger) *Handler {
	if val == nil {
		val = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if history == nil {
		history = service.NewHistoryService(nil, logger)
	}
	return &Handler{news: news, history: history, val: val, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.Root)
	rg.POST("/summarize-news", h.SummarizeNews)
	rg.GET("/search-news/:topic", h.SearchNews)
	rg.GET("/search-history", h.SearchHistory)
	rg.DELETE("/clear-history", h.ClearHistory)
}

// GET /
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, RootResponse{Message: "news digest service"})
}

// POST /summarize-news
func (h *Handler) SummarizeNews(c *gin.Context) {
	var req SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if err := h.val.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, validationMessage(err))
		return
	}

	res, err := h.news.Summarize(c.Request.Context(), req.toQuery())
	if handleError(c, err) {
		return
	}

	c.JSON(http.StatusOK, SummarizeResponse{
		Status:         res.Status,
		Summary:        res.Summary,
		ArticlesFound:  res.ArticlesFound,
		Topic:          res.Topic,
		StorageSuccess: res.StorageSuccess,
	})
}

// GET /search-news/:topic?daysBack=
func (h *Handler) SearchNews(c *gin.Context) {
	daysBack := domain.DefaultDaysBack
	if raw := c.Query("daysBack"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(c, http.StatusBadRequest, msgInvalidDaysBack)
			return
		}
		daysBack = n
	}

	res, err := h.news.Search(c.Request.Context(), c.Param("topic"), daysBack)
	if handleError(c, err) {
		return
	}

	c.JSON(http.StatusOK, SearchResponse{
		Topic:          res.Topic,
		ArticlesFound:  res.ArticlesFound,
		Articles:       res.Articles,
		StorageSuccess: res.StorageSuccess,
	})
}

// GET /search-history?limit=
// Ошибка хранилища не роняет запрос: отдаём пустую историю с описанием ошибки.
func (h *Handler) SearchHistory(c *gin.Context) {
	limit := service.DefaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(c, http.StatusBadRequest, msgInvalidLimit)
			return
		}
		limit = n
	}

	searches, err := h.history.ListRecent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusOK, HistoryResponse{
			History: []domain.StoredSearch{},
			Error:   err.Error(),
		})
		return
	}
	if searches == nil {
		searches = []domain.StoredSearch{}
	}

	c.JSON(http.StatusOK, HistoryResponse{History: searches})
}

// DELETE /clear-history
func (h *Handler) ClearHistory(c *gin.Context) {
	deleted, err := h.history.ClearAll(c.Request.Context())
	if handleError(c, err) {
		return
	}

	c.JSON(http.StatusOK, ClearHistoryResponse{
		Status:  service.StatusSuccess,
		Deleted: deleted,
		Message: msgHistoryCleared,
	})
}

// GET /health
func (h *Handler) Health(c *gin.Context) {
	storage := storageDisabled
	if h.history.Enabled() {
		storage = storageDisconnected
		if h.history.Healthy(c.Request.Context()) {
			storage = storageConnected
		}
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Storage: storage,
		Endpoints: map[string]string{
			"summarize":     "POST /summarize-news",
			"search":        "GET /search-news/{topic}",
			"history":       "GET /search-history",
			"clear_history": "DELETE /clear-history",
			"health":        "GET /health",
			"metrics":       "GET /metrics",
		},
	})
}

func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fieldName(fe.Field())+" is required")
		case "min":
			msgs = append(msgs, fieldName(fe.Field())+" must be at least "+fe.Param())
		default:
			msgs = append(msgs, fieldName(fe.Field())+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}

// fieldName переводит имя поля структуры в json вариант (MaxArticles -> maxArticles).
func fieldName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
