package booking

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/arogyahq/booking-api/internal/middleware"
	"github.com/arogyahq/booking-api/internal/model"
	"github.com/arogyahq/booking-api/internal/service/booking"
	"github.com/arogyahq/booking-api/pkg/httputil"
)

type Handler struct {
	service *booking.Service
}

func NewHandler(service *booking.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/bookings", h.CreateBooking)
	r.GET("/bookings", h.ListBookings)
	r.GET("/bookings/:id", h.GetBooking)
	r.DELETE("/bookings/:id", h.CancelBooking)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req model.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	patientID, err := uuid.Parse(c.GetString(middleware.ContextPatientID))
	if err != nil {
		httputil.RespondWithStatus(c, http.StatusUnauthorized, "invalid patient ID")
		return
	}

	state := model.CalendarConnectionState{}
	if id := c.Query("calendar_id"); id != "" {
		state = model.CalendarConnectionState{Connected: true, CalendarID: id}
	}

	created, err := h.service.CreateBooking(c.Request.Context(), patientID, &req, state)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, created)
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithStatus(c, http.StatusBadRequest, "invalid booking ID")
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, result)
}

func (h *Handler) ListBookings(c *gin.Context) {
	patientID, err := uuid.Parse(c.GetString(middleware.ContextPatientID))
	if err != nil {
		httputil.RespondWithStatus(c, http.StatusUnauthorized, "invalid patient ID")
		return
	}

	filters := &model.BookingFilters{PatientID: patientID}
	if status := c.Query("status"); status != "" {
		filters.Status = model.BookingStatus(status)
	}

	bookings, err := h.service.ListBookings(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, bookings)
}

func (h *Handler) CancelBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithStatus(c, http.StatusBadRequest, "invalid booking ID")
		return
	}

	var req model.CancelBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httputil.RespondWithStatus(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	cancelled, err := h.service.CancelBooking(c.Request.Context(), id, req.Reason)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, cancelled)
}
