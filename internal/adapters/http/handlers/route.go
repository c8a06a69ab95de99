package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/route-fetch-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/route-fetch-service/internal/domain"
	"github.com/jsamuelsen/route-fetch-service/internal/ports"
)

// RouteHandler serves the route fetch API.
type RouteHandler struct {
	routes ports.RouteRunner
}

// NewRouteHandler creates a route handler backed by routes.
func NewRouteHandler(routes ports.RouteRunner) *RouteHandler {
	return &RouteHandler{routes: routes}
}

// PlanRoute handles POST /api/v1/routes.
// It plans a new journey, or replays a stored one when the body carries an itinerary.
//
// @Summary Plan a route
// @Tags routes
// @Accept json
// @Produce json
// @Param request body dto.RouteRequest true "Route request"
// @Success 200 {object} domain.AppRouteDocument
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/routes [post]
func (h *RouteHandler) PlanRoute(c *gin.Context) {
	var body dto.RouteRequest

	err := dto.BindAndValidate(c, &body)
	if err != nil {
		dto.HandleBindError(c, err)
		return
	}

	req, err := body.ToDomain()
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	h.run(c, req)
}

// ReplayItinerary handles GET /api/v1/routes/itineraries/:id?kind=.
//
// @Summary Replay a stored itinerary
// @Tags routes
// @Produce json
// @Param id path int true "Itinerary ID"
// @Param kind query string false "Route kind" default(balanced)
// @Success 200 {object} domain.AppRouteDocument
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/routes/itineraries/{id} [get]
func (h *RouteHandler) ReplayItinerary(c *gin.Context) {
	var (
		path  dto.ItineraryPath
		query dto.ItineraryQuery
	)

	err := dto.BindURIAndValidate(c, &path)
	if err == nil {
		err = dto.BindQueryAndValidate(c, &query)
	}

	if err != nil {
		dto.HandleBindError(c, err)
		return
	}

	req, err := query.ToDomain(path.ID)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	h.run(c, req)
}

func (h *RouteHandler) run(c *gin.Context, req domain.RouteRequest) {
	data, err := h.routes.Run(c.Request.Context(), req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", data.JSON)
}

// RegisterRouteRoutes registers the route endpoints on the given router group.
func (h *RouteHandler) RegisterRouteRoutes(rg *gin.RouterGroup) {
	routes := rg.Group("/routes")
	routes.POST("", h.PlanRoute)
	routes.GET("/itineraries/:id", h.ReplayItinerary)
}
