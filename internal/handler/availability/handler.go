package availability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arogyahq/booking-api/internal/model"
	"github.com/arogyahq/booking-api/internal/service/availability"
	"github.com/arogyahq/booking-api/internal/service/pricing"
	"github.com/arogyahq/booking-api/pkg/httputil"
	"github.com/arogyahq/booking-api/pkg/timezone"
)

type Handler struct {
	service      *availability.Service
	pricing      *pricing.Resolver
	homeTimezone string
}

func NewHandler(service *availability.Service, pricingResolver *pricing.Resolver, homeTimezone string) *Handler {
	return &Handler{
		service:      service,
		pricing:      pricingResolver,
		homeTimezone: homeTimezone,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/availability/day/:date", h.GetDayAvailability)
	r.GET("/availability/month/:year/:month", h.GetMonthAvailability)
	r.GET("/availability/next", h.GetNextAvailable)
	r.GET("/pricing", h.GetPricing)
	r.GET("/slots/labels", h.GetSlotLabels)
}

// GetDayAvailability returns the full verdict grid for one date, disabled
// slots included; the booking page needs the whole grid to render.
func (h *Handler) GetDayAvailability(c *gin.Context) {
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		httputil.RespondWithStatus(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	kind := model.ConsultationKind(c.DefaultQuery("kind", string(model.ConsultationFollowUp)))
	state := calendarState(c)

	verdicts, err := h.service.GetDayAvailability(c.Request.Context(), date, kind, state)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{
		"date":  date.Format("2006-01-02"),
		"kind":  kind,
		"slots": verdicts,
	})
}

func (h *Handler) GetMonthAvailability(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 2000 || year > 2200 {
		httputil.RespondWithStatus(c, http.StatusBadRequest, "invalid year")
		return
	}
	monthNum, err := strconv.Atoi(c.Param("month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		httputil.RespondWithStatus(c, http.StatusBadRequest, "invalid month")
		return
	}

	kind := model.ConsultationKind(c.DefaultQuery("kind", string(model.ConsultationFollowUp)))
	state := calendarState(c)

	summaries, err := h.service.GetMonthAvailability(c.Request.Context(), year, time.Month(monthNum), kind, state)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, summaries)
}

func (h *Handler) GetNextAvailable(c *gin.Context) {
	start := time.Now()
	if from := c.Query("from"); from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			httputil.RespondWithStatus(c, http.StatusBadRequest, "invalid from date, expected YYYY-MM-DD")
			return
		}
		start = parsed
	}

	kind := model.ConsultationKind(c.DefaultQuery("kind", string(model.ConsultationFollowUp)))
	state := calendarState(c)

	slot, err := h.service.GetNextAvailable(c.Request.Context(), start, kind, state)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if slot == nil {
		httputil.RespondWithSuccess(c, gin.H{"found": false})
		return
	}
	httputil.RespondWithSuccess(c, gin.H{
		"found": true,
		"date":  slot.Date.Format("2006-01-02"),
		"time":  slot.Time,
	})
}

// GetPricing quotes a price for the caller's reported timezone. Always
// resolves; garbage input falls through to the global default.
func (h *Handler) GetPricing(c *gin.Context) {
	tz := c.DefaultQuery("timezone", h.homeTimezone)
	httputil.RespondWithSuccess(c, h.pricing.Resolve(tz))
}

// GetSlotLabels renders the operating hours as wall-clock labels in the
// caller's timezone for display next to the slot grid.
func (h *Handler) GetSlotLabels(c *gin.Context) {
	tz := c.DefaultQuery("timezone", h.homeTimezone)

	date := time.Now()
	if d := c.Query("date"); d != "" {
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			httputil.RespondWithStatus(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	labels := timezone.LabelsFor(h.service.Engine().Window(), h.homeTimezone, tz, date)
	httputil.RespondWithSuccess(c, gin.H{
		"timezone": tz,
		"labels":   labels,
	})
}

// calendarState reads the explicit calendar connection state from query
// params. The default is disconnected: no calendar, no conflicts.
func calendarState(c *gin.Context) model.CalendarConnectionState {
	id := c.Query("calendar_id")
	return model.CalendarConnectionState{
		Connected:  id != "",
		CalendarID: id,
	}
}
