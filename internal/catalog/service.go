package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jpillora/backoff"
	"go.uber.org/zap"
)

// ErrSeasonNotFound marks a season lookup on a show that exists but has no
// such season.
var ErrSeasonNotFound = errors.New("season not found")

const (
	cacheKeyShows = "shows"
	cacheKeyShow  = "show:"
	refreshEvery  = 5 * time.Minute
)

// Service is the read side of the catalog: cached directory listings with
// genre filtering, sorting and fuzzy search on top of the upstream client.
type Service struct {
	client *Client
	cache  Cache
	log    *zap.Logger
}

func NewService(client *Client, cache Cache, log *zap.Logger) *Service {
	return &Service{client: client, cache: cache, log: log}
}

// Shows lists previews, filtered by genre when genreID is non-nil and
// ordered by opt.
func (s *Service) Shows(ctx context.Context, genreID *int, opt SortOption) ([]Preview, error) {
	previews, err := s.allShows(ctx)
	if err != nil {
		return nil, err
	}
	if genreID != nil {
		previews = FilterByGenre(previews, *genreID)
	}
	return SortPreviews(previews, opt), nil
}

// Show returns the full detail record for one show.
func (s *Service) Show(ctx context.Context, showID string) (*Show, error) {
	key := cacheKeyShow + showID
	if v, ok := s.cache.Get(key); ok {
		if show, ok := v.(*Show); ok {
			return show, nil
		}
	}
	show, err := s.client.GetShow(ctx, showID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, show)
	return show, nil
}

// Season returns one season of a show.
func (s *Service) Season(ctx context.Context, showID string, number int) (Season, error) {
	show, err := s.Show(ctx, showID)
	if err != nil {
		return Season{}, err
	}
	season, ok := show.SeasonByNumber(number)
	if !ok {
		return Season{}, fmt.Errorf("show %s season %d: %w", showID, number, ErrSeasonNotFound)
	}
	return season, nil
}

// Search ranks the directory by fuzzy title match.
func (s *Service) Search(ctx context.Context, query string) ([]Preview, error) {
	previews, err := s.allShows(ctx)
	if err != nil {
		return nil, err
	}
	return SearchPreviews(previews, query), nil
}

func (s *Service) allShows(ctx context.Context) ([]Preview, error) {
	if v, ok := s.cache.Get(cacheKeyShows); ok {
		if previews, ok := v.([]Preview); ok {
			return previews, nil
		}
	}
	previews, err := s.client.ListShows(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(cacheKeyShows, previews)
	return previews, nil
}

// StartRefresher keeps the show listing warm in the background so listing
// requests rarely pay the upstream round trip. Fetch failures back off and
// the stale cache entry keeps serving.
func (s *Service) StartRefresher(ctx context.Context) {
	go func() {
		boff := &backoff.Backoff{
			Min:    5 * time.Second,
			Max:    refreshEvery,
			Jitter: true,
		}
		for {
			previews, err := s.client.ListShows(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				dur := boff.Duration()
				s.log.Warn("catalog: refresh failed",
					zap.Error(err), zap.Duration("retry_in", dur))
				select {
				case <-ctx.Done():
					return
				case <-time.After(dur):
				}
				continue
			}
			s.cache.Set(cacheKeyShows, previews)
			boff.Reset()

			select {
			case <-ctx.Done():
				return
			case <-time.After(refreshEvery):
			}
		}
	}()
}
