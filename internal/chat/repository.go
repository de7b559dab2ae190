package chat

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/companion/internal/intent"
	"github.com/JaimeStill/companion/pkg/pagination"
	"github.com/JaimeStill/companion/pkg/query"
	"github.com/JaimeStill/companion/pkg/repository"
)

type repo struct {
	db         *sql.DB
	pipeline   *Pipeline
	cfg        Config
	transcript *Transcript
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a chat repository implementing the System interface.
func New(
	db *sql.DB,
	rt *Runtime,
	cfg Config,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	logger = logger.With("system", "chat")
	if rt.Logger == nil {
		rt.Logger = logger
	}
	return &repo{
		db:         db,
		pipeline:   NewPipeline(rt, cfg),
		cfg:        cfg,
		transcript: NewTranscript(cfg.TranscriptPath),
		logger:     logger,
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Send(ctx context.Context, cmd SendCommand) (*Exchange, error) {
	askedAt := time.Now().UTC()

	input, style, err := r.pipeline.Prepare(cmd)
	if err != nil {
		return nil, err
	}

	conversationID := uuid.New()
	if cmd.ConversationID != nil {
		conversationID = *cmd.ConversationID
	}

	window, err := r.window(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	result, err := r.pipeline.Run(ctx, window, input, style)
	if err != nil {
		return nil, err
	}
	answeredAt := time.Now().UTC()

	user := Message{
		ConversationID: conversationID,
		Speaker:        SpeakerUser,
		Content:        input,
		Style:          style,
		CreatedAt:      askedAt,
	}
	reply := Message{
		ConversationID: conversationID,
		Speaker:        SpeakerAssistant,
		Content:        result.Reply,
		Style:          style,
		CreatedAt:      answeredAt,
	}

	if result.Sentiment != nil {
		user.SentimentScore = &result.Sentiment.Score
		user.SentimentMagnitude = &result.Sentiment.Magnitude
	}
	if r.cfg.DecideOn == DecideOnReply {
		annotate(&reply, result.Decision)
	} else {
		annotate(&user, result.Decision)
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		for _, m := range []Message{user, reply} {
			if _, err := repository.QueryOne(ctx, tx, insertMessage, insertArgs(m), scanMessage); err != nil {
				return struct{}{}, fmt.Errorf("insert %s message: %w", m.Speaker, err)
			}
		}
		return struct{}{}, nil
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if r.transcript != nil {
		if err := r.transcript.Append(answeredAt, input, result.Reply); err != nil {
			r.logger.Warn("transcript append failed", "error", err)
		}
	}

	r.logger.Info("exchange completed",
		"conversation_id", conversationID,
		"style", style,
		"method", result.Decision.Method,
		"category", result.Decision.Category,
		"intensity", result.Decision.Intensity,
	)

	return &Exchange{
		ConversationID: conversationID,
		Response:       result.Reply,
		Style:          style,
		Sentiment:      result.Sentiment,
		Action:         actionOf(result.Decision),
		CreatedAt:      answeredAt,
	}, nil
}

const insertMessage = `
	INSERT INTO chat_messages(
		conversation_id, speaker, content, style,
		intent_label, intent_category, intent_method, intent_score, intensity,
		sentiment_score, sentiment_magnitude, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	RETURNING ` + columns

func insertArgs(m Message) []any {
	return []any{
		m.ConversationID, m.Speaker, m.Content, m.Style,
		m.IntentLabel, m.IntentCategory, m.IntentMethod, m.IntentScore, m.Intensity,
		m.SentimentScore, m.SentimentMagnitude, m.CreatedAt,
	}
}

func annotate(m *Message, d intent.Decision) {
	m.IntentLabel = d.Label
	m.IntentCategory = &d.Category
	m.IntentMethod = &d.Method
	m.IntentScore = &d.Score
	m.Intensity = &d.Intensity
}

// window loads the most recent turns of a conversation, oldest first.
func (r *repo) window(ctx context.Context, conversationID uuid.UUID) (*Conversation, error) {
	if r.cfg.HistoryTurns == 0 {
		return NewConversation(0), nil
	}

	q := `
		SELECT speaker, content FROM (
			SELECT speaker, content, created_at
			FROM chat_messages
			WHERE conversation_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC`

	turns, err := repository.QueryMany(
		ctx, r.db, q,
		[]any{conversationID, r.cfg.HistoryTurns},
		func(s repository.Scanner) (Turn, error) {
			var t Turn
			err := s.Scan(&t.Speaker, &t.Content)
			return t, err
		},
	)
	if err != nil {
		return nil, fmt.Errorf("load conversation window: %w", err)
	}

	return NewConversation(r.cfg.HistoryTurns, turns...), nil
}

func (r *repo) History(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Message], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Content")

	result, err := repository.QueryPage(ctx, r.db, filters.Apply(qb), page, scanMessage)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return result, nil
}

func (r *repo) Conversation(ctx context.Context, id uuid.UUID) ([]Message, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("ConversationID", id).
		Build()

	msgs, err := repository.QueryMany(ctx, r.db, q, args, scanMessage)
	if err != nil {
		return nil, fmt.Errorf("query conversation: %w", err)
	}
	if len(msgs) == 0 {
		return nil, ErrNotFound
	}
	return msgs, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (int64, error) {
		return repository.ExecCount(ctx, tx, "DELETE FROM chat_messages WHERE conversation_id = $1", id)
	})
	if err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	r.logger.Info("conversation deleted", "conversation_id", id, "messages", n)
	return nil
}
