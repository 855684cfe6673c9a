package main

import (
	"context"
	"errors"
	"net/http"

	platformauth "github.com/parsa000721/CopTrack/platform/go/auth"
	"github.com/parsa000721/CopTrack/platform/go/datastore"
	"github.com/parsa000721/CopTrack/platform/go/models"
)

var errUnknownPrincipal = errors.New("unknown principal")

// buildAuthMiddleware constructs the JWT middleware. The token subject is resolved against the
// current state on every request, so deleted users lose access immediately.
func buildAuthMiddleware(db *datastore.DB, tokens *platformauth.Tokens) func(http.Handler) http.Handler {
	resolve := func(_ context.Context, userID string) (models.User, error) {
		user, _, ok := db.View().User(userID)
		if !ok {
			return models.User{}, errUnknownPrincipal
		}
		return user, nil
	}

	return platformauth.JWT(tokens.Verifier(), resolve)
}
