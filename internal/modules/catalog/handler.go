package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homecrew/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(public *gin.RouterGroup) {
	public.GET("/catalog", h.GetCatalog)
	public.GET("/catalog/skills/:skill/problems", h.GetProblems)
}

// GetCatalog handles GET /api/v1/catalog
func (h *Handler) GetCatalog(c *gin.Context) {
	response.Success(c, http.StatusOK, h.service.Catalog())
}

func (h *Handler) GetProblems(c *gin.Context) {
	problems, err := h.service.Problems(c.Param("skill"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, problems)
}
