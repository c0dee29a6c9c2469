package recordstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type PostgresConfig struct {
	DSN     string        `envconfig:"DSN" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"5s"`
}

// recordRow stores one element of a collection as a JSONB payload.
type recordRow struct {
	bun.BaseModel `bun:"table:records,alias:r"`

	Collection string    `bun:"collection,pk"`
	Position   int       `bun:"position,pk"`
	Payload    string    `bun:"payload,type:jsonb,notnull"`
	UpdatedAt  time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// OpenPostgres connects to Postgres and makes sure the records table exists.
func OpenPostgres(ctx context.Context, cfg PostgresConfig) (*bun.DB, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithTimeout(timeout),
	))
	db := bun.NewDB(sqldb, pgdialect.New())

	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func Migrate(ctx context.Context, db bun.IDB) error {
	if _, err := db.NewCreateTable().Model((*recordRow)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("%w: create records table: %v", ErrPersistence, err)
	}
	return nil
}

// Postgres keeps one named collection in the shared records table.
type Postgres[T any] struct {
	db         *bun.DB
	collection string
	now        func() time.Time
}

var _ Store[struct{}] = (*Postgres[struct{}])(nil)

func NewPostgres[T any](db *bun.DB, collection string) (*Postgres[T], error) {
	if db == nil {
		return nil, errors.New("postgres db is required")
	}
	name := strings.TrimSpace(collection)
	if name == "" {
		return nil, errors.New("collection name is required")
	}
	return &Postgres[T]{db: db, collection: name, now: time.Now}, nil
}

func (p *Postgres[T]) Load(ctx context.Context) ([]T, error) {
	var rows []recordRow
	err := p.db.NewSelect().
		Model(&rows).
		Where("collection = ?", p.collection).
		Order("position ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: select %s: %v", ErrPersistence, p.collection, err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	records := make([]T, 0, len(rows))
	for _, row := range rows {
		var rec T
		if err := json.Unmarshal([]byte(row.Payload), &rec); err != nil {
			return nil, fmt.Errorf("%w: %w: decode %s[%d]: %v", ErrPersistence, ErrCorrupt, p.collection, row.Position, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Save replaces the collection inside one transaction.
// An empty collection is not representable and loads back as ErrNotFound.
func (p *Postgres[T]) Save(ctx context.Context, records []T) error {
	now := p.now().UTC()
	rows := make([]recordRow, 0, len(records))
	for i, rec := range records {
		payload, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("%w: encode %s[%d]: %v", ErrPersistence, p.collection, i, err)
		}
		rows = append(rows, recordRow{
			Collection: p.collection,
			Position:   i,
			Payload:    string(payload),
			UpdatedAt:  now,
		})
	}

	err := p.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*recordRow)(nil)).
			Where("collection = ?", p.collection).
			Exec(ctx); err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		_, err := tx.NewInsert().Model(&rows).Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: replace %s: %v", ErrPersistence, p.collection, err)
	}
	return nil
}
