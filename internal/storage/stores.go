package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"varejo-ai-web/internal/domain"
)

// ErrNotFound は所有者スコープ内に対象行が存在しないことを示します。
var ErrNotFound = errors.New("row not found")

// CreateStore は店舗プロフィールを 1 行挿入し、採番した ID を返します。
func (s *Store) CreateStore(ctx context.Context, store domain.Store) (domain.Store, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Store{}, err
	}
	store.Name = strings.TrimSpace(store.Name)
	store.OwnerUserID = strings.TrimSpace(store.OwnerUserID)
	if store.Name == "" {
		return domain.Store{}, fmt.Errorf("store name is required")
	}
	if store.OwnerUserID == "" {
		return domain.Store{}, fmt.Errorf("owner user id is required")
	}
	if store.ID == "" {
		store.ID = uuid.NewString()
	}
	if store.CreatedAt.IsZero() {
		store.CreatedAt = time.Now()
	}

	const q = `INSERT INTO stores (
		id, owner_user_id, name, city, state, main_segment, brand_positioning,
		tone_of_voice, phone, whatsapp, instagram, primary_color, secondary_color,
		logo_url, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.sqlDB.ExecContext(ctx, q,
		store.ID, store.OwnerUserID, store.Name, store.City, store.State,
		store.MainSegment, store.BrandPositioning, store.ToneOfVoice,
		store.Phone, store.WhatsApp, store.Instagram,
		store.PrimaryColor, store.SecondaryColor, store.LogoURL,
		toMillis(store.CreatedAt),
	)
	if err != nil {
		return domain.Store{}, fmt.Errorf("insert store: %w", err)
	}
	return store, nil
}

// GetStore は所有者スコープ付きのポイントリードです。他人の店舗は存在
// しないものとして扱います（スコープは再利用経路を含め常に適用します）。
func (s *Store) GetStore(ctx context.Context, ownerUserID, storeID string) (domain.Store, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Store{}, err
	}

	const q = `SELECT id, owner_user_id, name, city, state, main_segment,
		brand_positioning, tone_of_voice, phone, whatsapp, instagram,
		primary_color, secondary_color, logo_url, created_at
	FROM stores WHERE id = ? AND owner_user_id = ?`

	var store domain.Store
	var createdAt int64
	err := s.sqlDB.QueryRowContext(ctx, q, storeID, ownerUserID).Scan(
		&store.ID, &store.OwnerUserID, &store.Name, &store.City, &store.State,
		&store.MainSegment, &store.BrandPositioning, &store.ToneOfVoice,
		&store.Phone, &store.WhatsApp, &store.Instagram,
		&store.PrimaryColor, &store.SecondaryColor, &store.LogoURL, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Store{}, ErrNotFound
	}
	if err != nil {
		return domain.Store{}, fmt.Errorf("select store: %w", err)
	}
	store.CreatedAt = fromMillis(createdAt)
	return store, nil
}
