// internal/core/services/locations.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/mfriesen/barstock-be/internal/core/domain"
	"github.com/mfriesen/barstock-be/internal/core/ports"
)

// LocationService provides typed access to the location collection. Each
// location document carries its full counter/area/entry tree, so a Save
// rewrites the whole tree.
type LocationService struct {
	gateway ports.StorageGateway
	logger  *slog.Logger
}

var _ ports.LocationStore = (*LocationService)(nil)

func NewLocationService(gateway ports.StorageGateway, logger *slog.Logger) *LocationService {
	return &LocationService{
		gateway: gateway,
		logger:  logger.With(slog.String("service", "locations")),
	}
}

func (s *LocationService) Save(ctx context.Context, l *domain.Location) error {
	if err := l.Validate(); err != nil {
		return fmt.Errorf("validating location: %w", err)
	}
	l.PrepareForStorage()

	if _, err := s.gateway.Put(ctx, ports.CollectionLocations, l); err != nil {
		return fmt.Errorf("saving location %s: %w", l.ID, err)
	}

	s.logger.InfoContext(ctx, "location saved",
		slog.String("location_id", l.ID),
		slog.String("name", l.Name),
		slog.Int("counters", len(l.Counters)))
	return nil
}

// GetByID returns the location stored under id, or nil when absent.
func (s *LocationService) GetByID(ctx context.Context, id string) (*domain.Location, error) {
	doc, err := s.gateway.Get(ctx, ports.CollectionLocations, id)
	if err != nil {
		return nil, fmt.Errorf("fetching location %s: %w", id, err)
	}
	if doc == nil {
		return nil, nil
	}

	var l domain.Location
	if err := json.Unmarshal(doc, &l); err != nil {
		return nil, fmt.Errorf("decoding location %s: %w", id, err)
	}
	return &l, nil
}

// List returns every location sorted by name.
func (s *LocationService) List(ctx context.Context) ([]domain.Location, error) {
	docs, err := s.gateway.GetAll(ctx, ports.CollectionLocations)
	if err != nil {
		return nil, fmt.Errorf("listing locations: %w", err)
	}

	locations := make([]domain.Location, 0, len(docs))
	for _, doc := range docs {
		var l domain.Location
		if err := json.Unmarshal(doc, &l); err != nil {
			s.logger.WarnContext(ctx, "skipping undecodable location record",
				slog.Any("error", err))
			continue
		}
		locations = append(locations, l)
	}

	sort.SliceStable(locations, func(i, j int) bool {
		return strings.ToLower(locations[i].Name) < strings.ToLower(locations[j].Name)
	})
	return locations, nil
}

// Delete removes the location and everything nested under it.
func (s *LocationService) Delete(ctx context.Context, id string) error {
	if err := s.gateway.Delete(ctx, ports.CollectionLocations, id); err != nil {
		return fmt.Errorf("deleting location %s: %w", id, err)
	}
	s.logger.InfoContext(ctx, "location deleted", slog.String("location_id", id))
	return nil
}
