package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/gasana-dev/isoko-backend/api/middleware"
	pkgerrors "github.com/gasana-dev/isoko-backend/pkg/errors"
)

// actorUserID reads the authenticated user id the auth middleware stashed in
// the request context.
func actorUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return id, nil
}
