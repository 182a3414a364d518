package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
)

// Auditor queues audit events; the write happens off the request path.
type Auditor interface {
	Dispatch(ev audit.Event)
}

func writeAudit(
	c *gin.Context,
	auditor Auditor,
	action string,
	entity string,
	entityID uint,
	meta any,
) {
	userID := middleware.UserIDFrom(c)

	ev := audit.Event{
		Action:   action,
		Entity:   entity,
		EntityID: &entityID,
		Metadata: meta,
	}
	if userID != 0 {
		ev.UserID = &userID
	}

	auditor.Dispatch(ev)
}
