package signage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"editor-service/internal/editor"
)

// pgRepository implements editor.Repository on Postgres.
type pgRepository struct {
	db DB
}

func NewRepository(db DB) editor.Repository {
	return &pgRepository{db: db}
}

func (r *pgRepository) FetchPlaylist(ctx context.Context, id string) (editor.Playlist, error) {
	var pl editor.Playlist
	err := r.db.QueryRow(ctx, `
		SELECT id, owner_id, name, description, shuffle, loop, default_duration, approval_status, created_at
		FROM playlists
		WHERE id = $1
	`, id).Scan(
		&pl.ID,
		&pl.OwnerID,
		&pl.Name,
		&pl.Description,
		&pl.Shuffle,
		&pl.Loop,
		&pl.DefaultDuration,
		&pl.ApprovalStatus,
		&pl.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return editor.Playlist{}, editor.ErrNotFound
	}
	if err != nil {
		return editor.Playlist{}, err
	}
	return pl, nil
}

func (r *pgRepository) FetchItems(ctx context.Context, playlistID string) ([]editor.PlaylistItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, playlist_id, item_type, content_ref, position, duration, created_at
		FROM playlist_items
		WHERE playlist_id = $1
		ORDER BY position ASC
	`, playlistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []editor.PlaylistItem{}
	for rows.Next() {
		var it editor.PlaylistItem
		if err := rows.Scan(
			&it.ID,
			&it.PlaylistID,
			&it.ItemType,
			&it.ContentRef,
			&it.Position,
			&it.Duration,
			&it.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *pgRepository) InsertItem(ctx context.Context, p editor.InsertItemParams) (editor.PlaylistItem, error) {
	var it editor.PlaylistItem
	var err error
	if p.Position == nil {
		err = r.db.QueryRow(ctx, `
			INSERT INTO playlist_items (playlist_id, item_type, content_ref, position, duration)
			VALUES (
				$1, $2, $3,
				COALESCE(
					(SELECT MAX(position)+1 FROM playlist_items WHERE playlist_id = $1),
					0
				),
				$4
			)
			RETURNING id, playlist_id, item_type, content_ref, position, duration, created_at
		`, p.PlaylistID, p.ItemType, p.ContentRef, p.Duration).Scan(
			&it.ID, &it.PlaylistID, &it.ItemType, &it.ContentRef, &it.Position, &it.Duration, &it.CreatedAt,
		)
	} else {
		err = r.db.QueryRow(ctx, `
			INSERT INTO playlist_items (playlist_id, item_type, content_ref, position, duration)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, playlist_id, item_type, content_ref, position, duration, created_at
		`, p.PlaylistID, p.ItemType, p.ContentRef, *p.Position, p.Duration).Scan(
			&it.ID, &it.PlaylistID, &it.ItemType, &it.ContentRef, &it.Position, &it.Duration, &it.CreatedAt,
		)
	}
	if err != nil {
		return editor.PlaylistItem{}, err
	}
	return it, nil
}

func (r *pgRepository) UpdateItemPosition(ctx context.Context, itemID string, position int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE playlist_items
		SET position = $2
		WHERE id = $1
	`, itemID, position)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return editor.ErrNotFound
	}
	return nil
}

func (r *pgRepository) UpdateItemDuration(ctx context.Context, itemID string, seconds int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE playlist_items
		SET duration = $2
		WHERE id = $1
	`, itemID, seconds)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return editor.ErrNotFound
	}
	return nil
}

func (r *pgRepository) DeleteItem(ctx context.Context, itemID string) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM playlist_items
		WHERE id = $1
	`, itemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return editor.ErrNotFound
	}
	return nil
}

func (r *pgRepository) FetchMediaByIDs(ctx context.Context, ids []string) ([]editor.Media, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, type, url, thumbnail_url, duration, folder_id
		FROM media
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var media []editor.Media
	for rows.Next() {
		var m editor.Media
		if err := rows.Scan(&m.ID, &m.Name, &m.Type, &m.URL, &m.ThumbnailURL, &m.Duration, &m.FolderID); err != nil {
			return nil, err
		}
		media = append(media, m)
	}
	return media, rows.Err()
}

func (r *pgRepository) FetchLayoutsByIDs(ctx context.Context, ids []string) ([]editor.Layout, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, orientation, thumbnail_url
		FROM layouts
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var layouts []editor.Layout
	for rows.Next() {
		var l editor.Layout
		if err := rows.Scan(&l.ID, &l.Name, &l.Orientation, &l.ThumbnailURL); err != nil {
			return nil, err
		}
		layouts = append(layouts, l)
	}
	return layouts, rows.Err()
}
