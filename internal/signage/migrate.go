package signage

import (
	"context"
)

// AutoMigrate creates the editor-service schema. Positions within a
// playlist are dense at rest; a plain (not unique) index backs the ordered
// fetch, since the position synchronizer updates rows independently and
// positions are transiently non-unique between those updates.
func AutoMigrate(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS pgcrypto`); err != nil {
		return err
	}

	if _, err := db.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS playlists (
          id               uuid PRIMARY KEY DEFAULT gen_random_uuid(),
          owner_id         TEXT NOT NULL,
          name             TEXT NOT NULL,
          description      TEXT NOT NULL DEFAULT '',
          shuffle          BOOLEAN NOT NULL DEFAULT FALSE,
          loop             BOOLEAN NOT NULL DEFAULT TRUE,
          default_duration INT NOT NULL DEFAULT 10,
          approval_status  TEXT NOT NULL DEFAULT 'draft',
          created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
      )
    `); err != nil {
		return err
	}

	if _, err := db.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS playlist_items (
          id          uuid PRIMARY KEY DEFAULT gen_random_uuid(),
          playlist_id uuid NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
          item_type   TEXT NOT NULL,
          content_ref uuid NOT NULL,
          position    INT NOT NULL,
          duration    INT,
          created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
      )
    `); err != nil {
		return err
	}

	if _, err := db.Exec(ctx, `
      CREATE INDEX IF NOT EXISTS idx_playlist_items_playlist_position
      ON playlist_items(playlist_id, position)
    `); err != nil {
		return err
	}

	if _, err := db.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS media (
          id            uuid PRIMARY KEY DEFAULT gen_random_uuid(),
          owner_id      TEXT NOT NULL,
          name          TEXT NOT NULL,
          type          TEXT NOT NULL,
          url           TEXT NOT NULL DEFAULT '',
          thumbnail_url TEXT NOT NULL DEFAULT '',
          duration      INT NOT NULL DEFAULT 0,
          folder_id     uuid,
          created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
      )
    `); err != nil {
		return err
	}

	if _, err := db.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS layouts (
          id            uuid PRIMARY KEY DEFAULT gen_random_uuid(),
          owner_id      TEXT NOT NULL,
          name          TEXT NOT NULL,
          orientation   TEXT NOT NULL DEFAULT 'landscape',
          thumbnail_url TEXT NOT NULL DEFAULT '',
          created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
      )
    `); err != nil {
		return err
	}

	return nil
}
