package personas

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/companion/pkg/pagination"
	"github.com/JaimeStill/companion/pkg/query"
	"github.com/JaimeStill/companion/pkg/repository"
)

var dbErrors = repository.Errors{
	NotFound:  ErrNotFound,
	Duplicate: ErrDuplicate,
	Invalid:   ErrInvalidStyle,
}

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a persona repository implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "personas"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Persona], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Description")

	result, err := repository.QueryPage(ctx, r.db, filters.Apply(qb), page, scanPersona)
	if err != nil {
		return nil, fmt.Errorf("list personas: %w", err)
	}
	return result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Persona, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanPersona)
	if err != nil {
		return nil, dbErrors.Map(err)
	}
	return &p, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Persona, error) {
	if err := validate(cmd.Name, cmd.Style, cmd.Instructions); err != nil {
		return nil, err
	}

	q := `
		INSERT INTO personas(name, style, instructions, description)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + columns

	args := []any{cmd.Name, cmd.Style, cmd.Instructions, cmd.Description}

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Persona, error) {
		return repository.QueryOne(ctx, tx, q, args, scanPersona)
	})
	if err != nil {
		return nil, dbErrors.Map(err)
	}

	r.logger.Info("persona created", "id", p.ID, "name", p.Name, "style", p.Style)
	return &p, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Persona, error) {
	if err := validate(cmd.Name, cmd.Style, cmd.Instructions); err != nil {
		return nil, err
	}

	// Moving an active persona to another style deactivates it so the
	// target style never ends up with two active overrides.
	q := `
		UPDATE personas
		SET name = $1,
		    active = active AND style = $2,
		    style = $2,
		    instructions = $3,
		    description = $4
		WHERE id = $5
		RETURNING ` + columns

	args := []any{cmd.Name, cmd.Style, cmd.Instructions, cmd.Description, id}

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Persona, error) {
		return repository.QueryOne(ctx, tx, q, args, scanPersona)
	})
	if err != nil {
		return nil, dbErrors.Map(err)
	}

	r.logger.Info("persona updated", "id", p.ID, "name", p.Name)
	return &p, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM personas WHERE id = $1",
			id,
		)
	})
	if err != nil {
		return dbErrors.Map(err)
	}

	r.logger.Info("persona deleted", "id", id)
	return nil
}

func (r *repo) Activate(ctx context.Context, id uuid.UUID) (*Persona, error) {
	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Persona, error) {
		findQ, findArgs := query.NewBuilder(projection).BuildSingle("ID", id)
		target, err := repository.QueryOne(ctx, tx, findQ, findArgs, scanPersona)
		if err != nil {
			return Persona{}, err
		}

		_, err = tx.ExecContext(
			ctx,
			"UPDATE personas SET active = false WHERE style = $1 AND active = true",
			target.Style,
		)
		if err != nil {
			return Persona{}, fmt.Errorf("deactivate current: %w", err)
		}

		activateQ := `
			UPDATE personas SET active = true
			WHERE id = $1
			RETURNING ` + columns

		return repository.QueryOne(ctx, tx, activateQ, []any{id}, scanPersona)
	})
	if err != nil {
		return nil, dbErrors.Map(err)
	}

	r.logger.Info("persona activated", "id", p.ID, "name", p.Name, "style", p.Style)
	return &p, nil
}

func (r *repo) Deactivate(ctx context.Context, id uuid.UUID) (*Persona, error) {
	q := `
		UPDATE personas SET active = false
		WHERE id = $1
		RETURNING ` + columns

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Persona, error) {
		return repository.QueryOne(ctx, tx, q, []any{id}, scanPersona)
	})
	if err != nil {
		return nil, dbErrors.Map(err)
	}

	r.logger.Info("persona deactivated", "id", p.ID, "name", p.Name, "style", p.Style)
	return &p, nil
}

func (r *repo) Instructions(ctx context.Context, style Style) (string, error) {
	fallback, err := DefaultInstructions(style)
	if err != nil {
		return "", err
	}

	var text string
	err = r.db.QueryRowContext(
		ctx,
		"SELECT instructions FROM personas WHERE style = $1 AND active = true",
		style,
	).Scan(&text)

	if errors.Is(err, sql.ErrNoRows) {
		return fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("query active persona: %w", err)
	}
	return text, nil
}
