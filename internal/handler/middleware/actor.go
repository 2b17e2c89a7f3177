package middleware

import (
	"net/http"

	"clinic-scheduler/internal/handler/httperr"
	"clinic-scheduler/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ActorHeader = "X-Actor-ID"

	ctxActorIDKey = "actor_id"
)

var errMissingActor = errs.New("missing or malformed actor header")

// RequireActor identifies the staff member acting on the request. Identity
// is asserted by the upstream gateway; this service does not authenticate.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.GetHeader(ActorHeader))
		if err != nil || id == uuid.Nil {
			httperr.AbortWithError(c, http.StatusBadRequest, errMissingActor, ActorHeader+" header required", nil)
			return
		}
		c.Set(ctxActorIDKey, id)
		c.Next()
	}
}

func GetActorID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ctxActorIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
