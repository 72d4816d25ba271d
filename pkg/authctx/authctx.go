// Package authctx adapts go-auth actor metadata to the activity module's
// ActorResolver contract so logged activities default their source to the
// authenticated actor.
package authctx

import (
	"context"

	"github.com/goliatone/go-activity/pkg/types"
	auth "github.com/goliatone/go-auth"
	"github.com/goliatone/go-errors"
)

const textCodeActorMissing = "ACTOR_CONTEXT_MISSING"

// DefaultActorType is the entity type recorded for resolved actors when the
// resolver is not configured with one.
const DefaultActorType = "user"

// ResolveActorContext returns the actor metadata stored by go-auth middleware
// or rebuilds it from JWT claims when the ContextEnricher hook was not
// configured.
func ResolveActorContext(ctx context.Context) (*auth.ActorContext, error) {
	if ctx == nil {
		return nil, errors.New("go-activity: missing request context", errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized).
			WithTextCode(textCodeActorMissing)
	}

	if actor, ok := auth.ActorFromContext(ctx); ok && actor != nil {
		return actor, nil
	}

	if claims, ok := auth.GetClaims(ctx); ok && claims != nil {
		if actor := auth.ActorContextFromClaims(claims); actor != nil {
			return actor, nil
		}
	}

	return nil, errors.New("go-activity: auth actor context not found on request", errors.CategoryAuth).
		WithCode(errors.CodeUnauthorized).
		WithTextCode(textCodeActorMissing)
}

// Resolver resolves the real authenticated actor from the request context.
// The ActorID carried by go-auth is the authenticated principal itself, not
// the subject being acted for, so impersonated sessions still resolve to the
// impersonator's identity.
type Resolver struct {
	// ActorType overrides the entity type stamped on resolved references.
	ActorType string
}

var _ types.ActorResolver = Resolver{}

// RealActor implements types.ActorResolver.
func (r Resolver) RealActor(ctx context.Context) (types.EntityRef, bool) {
	actor, err := ResolveActorContext(ctx)
	if err != nil || actor.ActorID == "" {
		return types.EntityRef{}, false
	}
	actorType := r.ActorType
	if actorType == "" {
		actorType = DefaultActorType
	}
	return types.NewEntityRef(actorType, actor.ActorID), true
}
