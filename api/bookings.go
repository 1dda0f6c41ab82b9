package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/Domenick1991/skyfare/internal/logger"
	"github.com/Domenick1991/skyfare/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
	log     *slog.Logger
}

type createBookingRequest struct {
	FlightID      string `json:"flight_id"`
	PassengerName string `json:"passenger_name"`
}

type admissionResponse struct {
	Status            string     `json:"status"`
	BookingID         string     `json:"booking_id"`
	PNR               string     `json:"pnr"`
	FlightID          string     `json:"flight_id"`
	BasePrice         int64      `json:"base_price"`
	FinalPrice        int64      `json:"final_price"`
	FinalPriceDisplay string     `json:"final_price_display"`
	IsSurged          bool       `json:"is_surged"`
	SurgeResetsAt     *time.Time `json:"surge_resets_at,omitempty"`
	BookedAt          time.Time  `json:"booked_at"`
}

type bookingResponse struct {
	BookingID         string    `json:"booking_id"`
	PNR               string    `json:"pnr"`
	FlightID          string    `json:"flight_id"`
	PassengerName     string    `json:"passenger_name"`
	Airline           string    `json:"airline"`
	DepartureCity     string    `json:"departure_city"`
	ArrivalCity       string    `json:"arrival_city"`
	FinalPrice        int64     `json:"final_price"`
	FinalPriceDisplay string    `json:"final_price_display"`
	BookingDate       time.Time `json:"booking_date"`
}

func NewBookingHandler(service booking.BookingUseCase, log *slog.Logger) *BookingHandler {
	if log == nil {
		log = logger.Discard()
	}
	return &BookingHandler{service: service, log: log}
}

// Register expects the group to be behind Authenticate. submit, when given,
// wraps only the create route (the per-user rate limit).
func (h *BookingHandler) Register(router *gin.RouterGroup, submit ...gin.HandlerFunc) {
	router.POST("", append(submit, h.create)...)
	router.GET("", h.list)
	router.GET("/:booking_id", h.get)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	admission, err := h.service.SubmitBooking(c.Request.Context(), booking.SubmitBookingInput{
		UserID:        userID(c),
		FlightID:      req.FlightID,
		PassengerName: req.PassengerName,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, admissionResponse{
		Status:            string(admission.State),
		BookingID:         admission.BookingID,
		PNR:               admission.PNR,
		FlightID:          admission.FlightID,
		BasePrice:         admission.BasePrice,
		FinalPrice:        admission.FinalPrice,
		FinalPriceDisplay: domain.FormatMinor(admission.FinalPrice),
		IsSurged:          admission.IsSurged,
		SurgeResetsAt:     admission.SurgeResetsAt,
		BookedAt:          admission.BookedAt,
	})
}

func (h *BookingHandler) list(c *gin.Context) {
	summaries, err := h.service.ListBookings(c.Request.Context(), userID(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	resp := make([]bookingResponse, 0, len(summaries))
	for _, s := range summaries {
		resp = append(resp, toBookingResponse(s))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) get(c *gin.Context) {
	summary, err := h.service.GetBooking(c.Request.Context(), c.Param("booking_id"), userID(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(*summary))
}

func toBookingResponse(s domain.BookingSummary) bookingResponse {
	return bookingResponse{
		BookingID:         s.BookingID,
		PNR:               s.PNR,
		FlightID:          s.FlightID,
		PassengerName:     s.PassengerName,
		Airline:           s.Airline,
		DepartureCity:     s.DepartureCity,
		ArrivalCity:       s.ArrivalCity,
		FinalPrice:        s.FinalPrice,
		FinalPriceDisplay: domain.FormatMinor(s.FinalPrice),
		BookingDate:       s.BookingDate,
	}
}
