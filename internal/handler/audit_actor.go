package handler

import (
	"net/http"

	"candidate-registry/internal/middleware"
	"candidate-registry/internal/model"
)

// actorFromRequest names who performed a mutation. Unauthenticated routes yield an actor with only an IP.
func actorFromRequest(r *http.Request) model.AuditActor {
	actor := model.AuditActor{IP: middleware.ClientIP(r)}
	if claim, ok := middleware.ClaimsFromContext(r.Context()); ok {
		actor.UserID = claim.UserID
		actor.Email = claim.Email
	}
	return actor
}
