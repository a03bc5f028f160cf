package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"
	"github.com/tendant/content-workflow/pkg/contentworkflow"
)

// NewTokenAuth builds the JWT verifier used by the router. Tokens carry the
// actor identity in the "sub" claim and the role in the "role" claim.
func NewTokenAuth(secret string) *jwtauth.JWTAuth {
	return jwtauth.New("HS256", []byte(secret), nil)
}

// ActorFromRequest extracts the acting identity from the verified JWT. The
// core treats the actor as input; this is the only place claims are read.
func ActorFromRequest(r *http.Request) (contentworkflow.Actor, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return contentworkflow.Actor{}, fmt.Errorf("missing or invalid token: %w", err)
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return contentworkflow.Actor{}, errors.New("token has no subject claim")
	}
	actorID, err := uuid.Parse(sub)
	if err != nil {
		return contentworkflow.Actor{}, fmt.Errorf("invalid subject claim: %w", err)
	}

	role := contentworkflow.RoleUser
	if roleClaim, ok := claims["role"].(string); ok && roleClaim != "" {
		role = contentworkflow.Role(roleClaim)
	}

	return contentworkflow.Actor{ID: actorID, Role: role}, nil
}
