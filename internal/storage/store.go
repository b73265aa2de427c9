// Package storage は SQLite による永続化層です。ポイントリードと
// アーティファクトの一括書き込みだけを提供し、部分更新は存在しません。
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store は SQLite ハンドルを保持します。
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

const schema = `
CREATE TABLE IF NOT EXISTS stores (
	id TEXT PRIMARY KEY,
	owner_user_id TEXT NOT NULL,
	name TEXT NOT NULL,
	city TEXT NOT NULL DEFAULT '',
	state TEXT NOT NULL DEFAULT '',
	main_segment TEXT NOT NULL DEFAULT '',
	brand_positioning TEXT NOT NULL DEFAULT '',
	tone_of_voice TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	whatsapp TEXT NOT NULL DEFAULT '',
	instagram TEXT NOT NULL DEFAULT '',
	primary_color TEXT NOT NULL DEFAULT '',
	secondary_color TEXT NOT NULL DEFAULT '',
	logo_url TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_stores_owner ON stores(owner_user_id);

CREATE TABLE IF NOT EXISTS campaigns (
	id TEXT PRIMARY KEY,
	store_id TEXT NOT NULL REFERENCES stores(id),
	product_name TEXT NOT NULL,
	price REAL,
	audience TEXT NOT NULL DEFAULT '',
	objective TEXT NOT NULL DEFAULT '',
	product_positioning TEXT NOT NULL DEFAULT '',
	ai_caption TEXT,
	ai_text TEXT,
	ai_cta TEXT,
	ai_hashtags TEXT,
	ai_generated_at INTEGER,
	reels_hook TEXT,
	reels_script TEXT,
	reels_shotlist TEXT,
	reels_on_screen_text TEXT,
	reels_audio_suggestion TEXT,
	reels_duration_seconds INTEGER,
	reels_caption TEXT,
	reels_cta TEXT,
	reels_hashtags TEXT,
	reels_generated_at INTEGER,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_campaigns_store ON campaigns(store_id);

CREATE TABLE IF NOT EXISTS weekly_plans (
	id TEXT PRIMARY KEY,
	store_id TEXT NOT NULL REFERENCES stores(id),
	week_start TEXT NOT NULL,
	status TEXT NOT NULL,
	strategy TEXT,
	created_at INTEGER NOT NULL,
	UNIQUE(store_id, week_start)
);

CREATE TABLE IF NOT EXISTS weekly_plan_items (
	id TEXT PRIMARY KEY,
	plan_id TEXT NOT NULL REFERENCES weekly_plans(id),
	day_of_week INTEGER NOT NULL,
	content_type TEXT NOT NULL,
	theme TEXT NOT NULL,
	recommended_time TEXT NOT NULL,
	campaign_id TEXT REFERENCES campaigns(id),
	brief TEXT,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_plan_items_plan ON weekly_plan_items(plan_id);
`

// Open は SQLite ストアを開き、スキーマを適用します。
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := path
	if path != ":memory:" {
		cleanPath := filepath.Clean(path)
		dsn = cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == ":memory:" {
		// インメモリDBはコネクションごとに別実体になるため 1 本に固定する
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// OpenInMemory はテスト用のインメモリストアを開きます。
func OpenInMemory() (*Store, error) {
	return Open(":memory:")
}

// Close は SQLite ハンドルを閉じます。
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Ping はヘルスチェック用に接続を確認します。
func (s *Store) Ping(ctx context.Context) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	return s.sqlDB.PingContext(ctx)
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}
