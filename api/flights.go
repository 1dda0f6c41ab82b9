package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/Domenick1991/skyfare/internal/logger"
	"github.com/Domenick1991/skyfare/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
	log     *slog.Logger
}

type flightResponse struct {
	domain.Flight
	BasePriceDisplay string `json:"base_price_display"`
}

func NewFlightHandler(service flights.FlightUseCase, log *slog.Logger) *FlightHandler {
	if log == nil {
		log = logger.Discard()
	}
	return &FlightHandler{service: service, log: log}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
}

// list is always a limited search; without filters it pages the catalog.
func (h *FlightHandler) list(c *gin.Context) {
	departure := c.Query("departure")
	arrival := c.Query("arrival")
	rawLimit, hasLimit := c.GetQuery("limit")

	var limit int
	if hasLimit {
		n, err := strconv.Atoi(rawLimit)
		if err != nil || n <= 0 {
			badRequest(c, "invalid limit")
			return
		}
		limit = n
	}

	list, err := h.service.Search(c.Request.Context(), flights.SearchInput{
		Departure: departure,
		Arrival:   arrival,
		Limit:     limit,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	resp := make([]flightResponse, 0, len(list))
	for _, f := range list {
		resp = append(resp, toFlightResponse(f))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FlightHandler) get(c *gin.Context) {
	flight, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toFlightResponse(*flight))
}

func toFlightResponse(f domain.Flight) flightResponse {
	return flightResponse{Flight: f, BasePriceDisplay: domain.FormatMinor(f.BasePrice)}
}
