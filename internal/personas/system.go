package personas

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/companion/pkg/pagination"
)

// System defines the public contract for persona operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Persona], error)

	Find(ctx context.Context, id uuid.UUID) (*Persona, error)
	Create(ctx context.Context, cmd CreateCommand) (*Persona, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Persona, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Activate(ctx context.Context, id uuid.UUID) (*Persona, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*Persona, error)

	// Instructions returns the active override for style, or the built-in
	// instructions when no persona is active.
	Instructions(ctx context.Context, style Style) (string, error)
}
