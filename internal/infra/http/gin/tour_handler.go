package ginserver

import (
	"net/http"
	"strconv"
	"time"

	gin "github.com/gin-gonic/gin"

	"tourbook/internal/app/dto"
	tourapp "tourbook/internal/app/handlers/tour"
	"tourbook/internal/app/queries"
)

type TourHandler struct {
	Queries queries.Bus
}

func (h TourHandler) Catalog(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	query := tourapp.TourCatalogQuery{
		Region:     c.Query("region"),
		OperatorID: c.Query("operator_id"),
		Status:     c.Query("status"),
		Limit:      parseIntWithDefault(c.Query("limit"), 50),
	}
	if from, ok := parseFlexibleTime(c.Query("departure_from")); ok {
		query.DepartureFrom = from
	}
	if to, ok := parseFlexibleTime(c.Query("departure_to")); ok {
		query.DepartureTo = to
	}
	result, err := queries.Ask[tourapp.TourCatalogQuery, *dto.TourCatalog](c.Request.Context(), h.Queries, query)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h TourHandler) Overview(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	query := tourapp.TourOverviewQuery{TourID: c.Param("id")}
	if at, ok := parseFlexibleTime(c.Query("at")); ok {
		query.At = at
	}
	result, err := queries.Ask[tourapp.TourOverviewQuery, *dto.TourOverview](c.Request.Context(), h.Queries, query)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func parseIntWithDefault(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

// parseFlexibleTime accepts RFC3339 timestamps or plain dates.
func parseFlexibleTime(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

var _ TourHTTP = TourHandler{}
