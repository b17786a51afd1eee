// Package access holds the premium recipe gate
package access

import (
	"github.com/bitebot/backend/internal/apperrors"
	"github.com/google/uuid"
)

// Requester is the identity asking for a recipe. A nil *Requester is an
// anonymous caller.
type Requester struct {
	ID         uuid.UUID
	Subscribed []uuid.UUID
}

// Gated is the part of a recipe the gate looks at
type Gated interface {
	Premium() bool
	Owner() uuid.UUID
}

// CanViewFullRecipe reports whether r may see the full body: the recipe is
// free, r owns it, or r subscribes to its chef.
func CanViewFullRecipe(recipe Gated, r *Requester) bool {
	if !recipe.Premium() {
		return true
	}
	if r == nil || r.ID == uuid.Nil {
		return false
	}
	chefID := recipe.Owner()
	if r.ID == chefID {
		return true
	}
	for _, id := range r.Subscribed {
		if id == chefID {
			return true
		}
	}
	return false
}

// Authorize is CanViewFullRecipe as an error carrying the chef id
func Authorize(recipe Gated, r *Requester) error {
	if CanViewFullRecipe(recipe, r) {
		return nil
	}
	return apperrors.SubscriptionRequired(recipe.Owner())
}
