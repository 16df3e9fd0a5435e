package service

import (
	"context"
	"fmt"

	"tourops/internal/logger"
	"tourops/internal/models"
	"tourops/internal/repository"
	"tourops/internal/search"
)

type DepartureService struct {
	departureRepo *repository.DepartureRepository
	searchClient  *search.DepartureSearchClient
}

func NewDepartureService(departureRepo *repository.DepartureRepository, searchClient *search.DepartureSearchClient) *DepartureService {
	return &DepartureService{
		departureRepo: departureRepo,
		searchClient:  searchClient,
	}
}

// List serves the departures quick-search. Free-text queries go through
// Elasticsearch when it is configured, with the hits hydrated from
// Postgres; otherwise, and for plain listing, it falls back to an ILIKE
// scan.
func (s *DepartureService) List(ctx context.Context, query, status string, page, pageSize int) ([]models.ListDeparturesResponseItem, error) {
	var departures []models.Departure
	var err error

	if s.searchClient != nil && query != "" {
		departures, err = s.searchList(ctx, query, status, page, pageSize)
		if err != nil {
			logger.WithContext(ctx).Error("Search backend failed, falling back to SQL",
				"error", err, "query", query)
			departures = nil
		}
	}

	if departures == nil {
		departures, err = s.departureRepo.List(ctx, query, status, page, pageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to list departures: %w", err)
		}
	}

	items := make([]models.ListDeparturesResponseItem, len(departures))
	for i, d := range departures {
		items[i] = models.ListDeparturesResponseItem{
			ID:            d.ID,
			DepartureCode: d.DepartureCode,
			Title:         d.Title,
			DepartureDate: d.DepartureDate.Format("2006-01-02"),
			ReturnDate:    d.ReturnDate.Format("2006-01-02"),
			Status:        d.Status,
		}
	}
	return items, nil
}

func (s *DepartureService) searchList(ctx context.Context, query, status string, page, pageSize int) ([]models.Departure, error) {
	ids, err := s.searchClient.Search(ctx, query, status, page, pageSize)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.Departure{}, nil
	}

	departures, err := s.departureRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// Keep the search engine's relevance ordering.
	byID := make(map[int64]models.Departure, len(departures))
	for _, d := range departures {
		byID[d.ID] = d
	}
	ordered := make([]models.Departure, 0, len(ids))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			ordered = append(ordered, d)
		}
	}
	return ordered, nil
}

// ReindexAll pushes every departure into the search index. Used by the
// sync job after bulk data loads.
func (s *DepartureService) ReindexAll(ctx context.Context) (int, error) {
	if s.searchClient == nil {
		return 0, nil
	}

	const pageSize = 500
	indexed := 0
	for page := 1; ; page++ {
		departures, err := s.departureRepo.List(ctx, "", "", page, pageSize)
		if err != nil {
			return indexed, fmt.Errorf("failed to list departures: %w", err)
		}
		if len(departures) == 0 {
			return indexed, nil
		}
		for i := range departures {
			if err := s.searchClient.Index(ctx, &departures[i]); err != nil {
				return indexed, fmt.Errorf("failed to index departure %d: %w", departures[i].ID, err)
			}
			indexed++
		}
		if len(departures) < pageSize {
			return indexed, nil
		}
	}
}
