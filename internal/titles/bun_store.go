package titles

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/goliatone/go-linkify/pkg/interfaces"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrStoreRequiresDB is returned when a BunStore has no database handle.
var ErrStoreRequiresDB = errors.New("titles: bun store requires a database")

// BunStore persists titles in the link_titles table so they survive restarts.
type BunStore struct {
	db  *bun.DB
	now func() time.Time
}

var _ interfaces.TitleStore = (*BunStore)(nil)

// NewBunStore constructs a Bun-backed title store.
func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// EnsureSchema creates the link_titles table when missing.
func (s *BunStore) EnsureSchema(ctx context.Context) error {
	if s.db == nil {
		return ErrStoreRequiresDB
	}
	_, err := s.db.NewCreateTable().Model((*titleRecord)(nil)).IfNotExists().Exec(ctx)
	return err
}

func (s *BunStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.db == nil {
		return "", false, ErrStoreRequiresDB
	}
	var record titleRecord
	err := s.db.NewSelect().Model(&record).Where("url = ?", key).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return record.Title, true, nil
}

func (s *BunStore) Set(ctx context.Context, key, title string) error {
	if s.db == nil {
		return ErrStoreRequiresDB
	}
	record := titleRecord{
		ID:         uuid.New(),
		URL:        key,
		Title:      title,
		ResolvedAt: s.now(),
	}
	_, err := s.db.NewInsert().
		Model(&record).
		On("CONFLICT (url) DO UPDATE").
		Set("title = EXCLUDED.title").
		Set("resolved_at = EXCLUDED.resolved_at").
		Exec(ctx)
	return err
}

func (s *BunStore) Has(ctx context.Context, key string) (bool, error) {
	if s.db == nil {
		return false, ErrStoreRequiresDB
	}
	return s.db.NewSelect().Model((*titleRecord)(nil)).Where("url = ?", key).Exists(ctx)
}

func (s *BunStore) Clear(ctx context.Context) error {
	if s.db == nil {
		return ErrStoreRequiresDB
	}
	_, err := s.db.NewDelete().Model((*titleRecord)(nil)).Where("1 = 1").Exec(ctx)
	return err
}

type titleRecord struct {
	bun.BaseModel `bun:"table:link_titles"`

	ID         uuid.UUID `bun:",pk,type:uuid"`
	URL        string    `bun:"url,notnull,unique"`
	Title      string    `bun:"title,notnull"`
	ResolvedAt time.Time `bun:"resolved_at,notnull"`
}
