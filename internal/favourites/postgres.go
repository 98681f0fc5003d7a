package favourites

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is the production Store.
//
// Schema:
//
//	CREATE TABLE favourites (
//	  user_id             TEXT NOT NULL,
//	  show_id             TEXT NOT NULL,
//	  show_title          TEXT NOT NULL,
//	  show_updated        TIMESTAMPTZ NOT NULL,
//	  season_id           TEXT NOT NULL,
//	  episode_id          TEXT NOT NULL,
//	  episode_title       TEXT NOT NULL,
//	  episode_description TEXT NOT NULL DEFAULT '',
//	  episode_file        TEXT NOT NULL,
//	  created_at          TIMESTAMPTZ NOT NULL,
//	  PRIMARY KEY (user_id, show_id, season_id, episode_id)
//	);
type PostgresStore struct {
	DB *pgxpool.Pool
}

func (s PostgresStore) List(ctx context.Context, userID string) ([]Favourite, error) {
	q := `
SELECT show_id, show_title, show_updated, season_id, episode_id,
       episode_title, episode_description, episode_file, created_at
FROM favourites
WHERE user_id = $1
ORDER BY show_id, season_id;
`
	rows, err := s.DB.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list favourites: %w", err)
	}
	defer rows.Close()

	var out []Favourite
	for rows.Next() {
		f := Favourite{UserID: userID}
		if err := rows.Scan(&f.ShowID, &f.ShowTitle, &f.ShowUpdated, &f.SeasonID, &f.EpisodeID,
			&f.EpisodeTitle, &f.EpisodeDescription, &f.EpisodeFile, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan favourite: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s PostgresStore) Add(ctx context.Context, f Favourite) error {
	q := `
INSERT INTO favourites (user_id, show_id, show_title, show_updated, season_id, episode_id,
                        episode_title, episode_description, episode_file, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	_, err := s.DB.Exec(ctx, q, f.UserID, f.ShowID, f.ShowTitle, f.ShowUpdated, f.SeasonID, f.EpisodeID,
		f.EpisodeTitle, f.EpisodeDescription, f.EpisodeFile, f.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("add favourite: %w", err)
	}
	return nil
}

func (s PostgresStore) Remove(ctx context.Context, userID string, key Key) error {
	q := `DELETE FROM favourites WHERE user_id = $1 AND show_id = $2 AND season_id = $3 AND episode_id = $4;`
	ct, err := s.DB.Exec(ctx, q, userID, key.ShowID, key.SeasonID, key.EpisodeID)
	if err != nil {
		return fmt.Errorf("remove favourite: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
