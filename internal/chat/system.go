package chat

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/companion/pkg/pagination"
)

// System defines the public contract for chat operations.
type System interface {
	Handler() *Handler

	// Send runs one user turn through the pipeline and persists the exchange.
	Send(ctx context.Context, cmd SendCommand) (*Exchange, error)

	History(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Message], error)

	// Conversation returns every message of a conversation, oldest first.
	Conversation(ctx context.Context, id uuid.UUID) ([]Message, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
