package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/iho/finledger/internal/domain"
)

// ErrCacheMiss is returned when a statement is not cached.
var ErrCacheMiss = errors.New("statement not cached")

// StatementCache implements usecase.StatementCache using Redis.
type StatementCache struct {
	client *redis.Client
	prefix string
}

// NewStatementCache creates a new StatementCache.
func NewStatementCache(client *redis.Client) *StatementCache {
	return &StatementCache{
		client: client,
		prefix: "statement:",
	}
}

type cachedStatement struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"owner_id"`
	SenderID    *string         `json:"sender_id,omitempty"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Get retrieves a statement by ID.
func (c *StatementCache) Get(ctx context.Context, id string) (*domain.Statement, error) {
	raw, err := c.client.Get(ctx, c.prefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	var cs cachedStatement
	if err := json.Unmarshal(raw, &cs); err != nil {
		return nil, err
	}

	return &domain.Statement{
		ID:             cs.ID,
		OwnerID:        cs.OwnerID,
		CounterpartyID: cs.SenderID,
		Type:           domain.OperationType(cs.Type),
		Amount:         cs.Amount,
		Description:    cs.Description,
		CreatedAt:      cs.CreatedAt,
		UpdatedAt:      cs.UpdatedAt,
	}, nil
}

// Set stores a statement with TTL.
func (c *StatementCache) Set(ctx context.Context, statement *domain.Statement, ttl time.Duration) error {
	raw, err := json.Marshal(cachedStatement{
		ID:          statement.ID,
		OwnerID:     statement.OwnerID,
		SenderID:    statement.CounterpartyID,
		Type:        statement.Type.String(),
		Amount:      statement.Amount,
		Description: statement.Description,
		CreatedAt:   statement.CreatedAt,
		UpdatedAt:   statement.UpdatedAt,
	})
	if err != nil {
		return err
	}

	return c.client.Set(ctx, c.prefix+statement.ID, raw, ttl).Err()
}
