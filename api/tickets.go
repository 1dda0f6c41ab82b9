package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/Domenick1991/skyfare/internal/logger"
	"github.com/Domenick1991/skyfare/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type TicketRenderer interface {
	Render(b domain.BookingSummary) ([]byte, string, error)
}

// TicketHandler serves the e-ticket of a booking to its owner only.
type TicketHandler struct {
	bookings booking.BookingUseCase
	renderer TicketRenderer
	log      *slog.Logger
}

func NewTicketHandler(bookings booking.BookingUseCase, renderer TicketRenderer, log *slog.Logger) *TicketHandler {
	if log == nil {
		log = logger.Discard()
	}
	return &TicketHandler{bookings: bookings, renderer: renderer, log: log}
}

func (h *TicketHandler) Register(router *gin.RouterGroup) {
	router.GET("/:booking_id", h.download)
}

func (h *TicketHandler) download(c *gin.Context) {
	summary, err := h.bookings.GetBooking(c.Request.Context(), c.Param("booking_id"), userID(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	pdf, filename, err := h.renderer.Render(*summary)
	if err != nil {
		writeError(c, h.log, domain.InternalError{Msg: "failed to render ticket", Err: err})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
