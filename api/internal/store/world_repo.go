package store

import (
	"context"
	"database/sql"
	"time"
)

// WorldRecord is one generated world remembered for a chat.
type WorldRecord struct {
	WorldID      string
	ChatID       int64
	DisplayName  string
	PromptText   string
	Model        string
	MarbleURL    string
	ThumbnailURL string
	CreatedAt    time.Time
}

type WorldRepo struct{ DB *sql.DB }

func NewWorldRepo(db *sql.DB) *WorldRepo { return &WorldRepo{DB: db} }

// Upsert saves/refreshes a world. PK: world_id.
func (r *WorldRepo) Upsert(ctx context.Context, rec WorldRecord) error {
	const q = `
insert into worlds_cache(world_id, chat_id, display_name, prompt_text, model, marble_url, thumbnail_url)
values ($1,$2,$3,$4,$5,$6,$7)
on conflict (world_id)
do update set display_name=excluded.display_name,
              marble_url=excluded.marble_url,
              thumbnail_url=excluded.thumbnail_url`
	_, err := r.DB.ExecContext(ctx, q,
		rec.WorldID, rec.ChatID, rec.DisplayName, rec.PromptText, rec.Model, rec.MarbleURL, rec.ThumbnailURL)
	return err
}

// Recent returns the chat's latest worlds, newest first.
func (r *WorldRepo) Recent(ctx context.Context, chatID int64, limit int) ([]WorldRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	const q = `select world_id, chat_id, display_name, prompt_text, model, marble_url, thumbnail_url, created_at
	           from worlds_cache
	           where chat_id=$1
	           order by created_at desc
	           limit $2`
	rows, err := r.DB.QueryContext(ctx, q, chatID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WorldRecord
	for rows.Next() {
		var rec WorldRecord
		if err := rows.Scan(&rec.WorldID, &rec.ChatID, &rec.DisplayName, &rec.PromptText,
			&rec.Model, &rec.MarbleURL, &rec.ThumbnailURL, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Find returns a world by ID; sql.ErrNoRows when unknown.
func (r *WorldRepo) Find(ctx context.Context, worldID string) (WorldRecord, error) {
	const q = `select world_id, chat_id, display_name, prompt_text, model, marble_url, thumbnail_url, created_at
	           from worlds_cache
	           where world_id=$1`
	var rec WorldRecord
	err := r.DB.QueryRowContext(ctx, q, worldID).Scan(&rec.WorldID, &rec.ChatID, &rec.DisplayName,
		&rec.PromptText, &rec.Model, &rec.MarbleURL, &rec.ThumbnailURL, &rec.CreatedAt)
	return rec, err
}
