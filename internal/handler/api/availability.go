package api

import (
	"errors"
	"net/http"
	"time"

	"eropoppin-booking/internal/domain/availability"
	"eropoppin-booking/internal/domain/booking"
	reqdto "eropoppin-booking/internal/handler/dto/request"
	resdto "eropoppin-booking/internal/handler/dto/response"
	"eropoppin-booking/internal/pkg/errs"
	"eropoppin-booking/internal/usecase/commands"
	"eropoppin-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	availabilityCommands commands.AvailabilityCommands
	availabilityQueries  queries.AvailabilityQueries
}

func NewAvailabilityHandler(
	availabilityCommands commands.AvailabilityCommands,
	availabilityQueries queries.AvailabilityQueries,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityCommands: availabilityCommands,
		availabilityQueries:  availabilityQueries,
	}
}

// @Summary List free slots
// @Description List the provider's bookable ranges within [from, to)
// @Tags availability
// @Produce json
// @Param id path string true "Provider ID"
// @Param from query string true "Range start (RFC 3339)"
// @Param to query string true "Range end (RFC 3339)"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /providers/{id}/availability [get]
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	providerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid provider ID format",
		})
		return
	}

	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid 'from' timestamp, expected RFC 3339",
		})
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid 'to' timestamp, expected RFC 3339",
		})
		return
	}

	slots, err := h.availabilityQueries.ListFreeSlots(c.Request.Context(), providerID, from, to)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrInvalidRange):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "'from' must be before 'to'",
			})
		case errors.Is(err, errs.ErrProviderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Provider not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromFreeSlots(slots))
}

// @Summary Replace schedule
// @Description Replace the provider's availability schedule wholesale
// @Tags availability
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Provider ID"
// @Param request body reqdto.ReplaceScheduleRequest true "Schedule"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /providers/{id}/availability [put]
func (h *AvailabilityHandler) ReplaceSchedule(c *gin.Context) {
	actorID, actorRole, ok := actor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	providerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid provider ID format",
		})
		return
	}

	var req reqdto.ReplaceScheduleRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	in := commands.ReplaceScheduleInput{
		ProviderID: providerID,
		ActorID:    actorID,
		ActorRole:  actorRole,
	}
	for _, w := range req.Weekly {
		in.Weekly = append(in.Weekly, commands.WeeklyWindowInput{
			Weekday:     w.Weekday,
			StartMinute: w.StartMinute,
			EndMinute:   w.EndMinute,
		})
	}
	for _, e := range req.Exceptions {
		in.Exceptions = append(in.Exceptions, commands.ExceptionInput{
			Kind:      e.Kind,
			StartTime: e.StartTime,
			EndTime:   e.EndTime,
		})
	}

	if err := h.availabilityCommands.ReplaceSchedule(c.Request.Context(), in); err != nil {
		switch {
		case errors.Is(err, errs.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Only the provider or an admin may edit the schedule",
			})
		case errors.Is(err, errs.ErrProviderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Provider not found",
			})
		case errors.Is(err, availability.ErrInvalidWindow),
			errors.Is(err, availability.ErrInvalidWeekday),
			errors.Is(err, booking.ErrInvalidRange):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid schedule definition",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
