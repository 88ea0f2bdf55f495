package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/venue-booking/internal/domain/booking"
	"github.com/BruksfildServices01/venue-booking/internal/httperr"
	"github.com/BruksfildServices01/venue-booking/internal/middleware"
	ucBooking "github.com/BruksfildServices01/venue-booking/internal/usecase/booking"
)

// EventDispatcher hands committed side effects to the notification worker.
type EventDispatcher interface {
	Dispatch(events ...domain.Event)
}

type noopDispatcher struct{}

func (noopDispatcher) Dispatch(...domain.Event) {}

func dispatcherOrNoop(d EventDispatcher) EventDispatcher {
	if d == nil {
		return noopDispatcher{}
	}
	return d
}

func actorFrom(c *gin.Context) ucBooking.Actor {
	return ucBooking.Actor{
		ID:   c.GetString(middleware.ContextUserID),
		Role: c.GetString(middleware.ContextUserRole),
	}
}

func bindFailed(c *gin.Context, err error) {
	httperr.BadRequest(c, "invalid_request", err.Error())
}

// pageParams reads page and limit, falling back to defaults on bad input.
func pageParams(c *gin.Context, defLimit, maxLimit int) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defLimit)))
	if limit <= 0 {
		limit = defLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
