package service

import (
	"context"
	"sync"

	"burger/pkg/domain/model"
)

type Event interface {
	Type() string
}

type EventDispatcher interface {
	Dispatch(event Event) error
}

type CatalogService interface {
	Load(ctx context.Context) error
	Parts() []model.Part
	ByCategory(category model.Category) []model.Part
	Find(id string) (model.Part, error)
	IsFrame(id string) bool
	Loading() bool
	Err() error
}

func NewCatalogService(gateway model.CatalogGateway) CatalogService {
	return &catalogService{gateway: gateway}
}

type catalogService struct {
	gateway model.CatalogGateway

	mu      sync.Mutex
	parts   []model.Part
	byID    map[string]model.Part
	loaded  bool
	loading bool
	err     error
}

// Load fetches the catalog on the first successful call only.
func (s *catalogService) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.loaded {
		s.mu.Unlock()
		return nil
	}
	if s.loading {
		s.mu.Unlock()
		return model.ErrRequestInFlight
	}
	s.loading = true
	s.err = nil
	s.mu.Unlock()

	parts, err := s.gateway.FetchCatalog(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = err
		return err
	}

	s.parts = parts
	s.byID = make(map[string]model.Part, len(parts))
	for _, part := range parts {
		s.byID[part.ID] = part
	}
	s.loaded = true
	return nil
}

func (s *catalogService) Parts() []model.Part {
	s.mu.Lock()
	defer s.mu.Unlock()
	parts := make([]model.Part, len(s.parts))
	copy(parts, s.parts)
	return parts
}

func (s *catalogService) ByCategory(category model.Category) []model.Part {
	s.mu.Lock()
	defer s.mu.Unlock()
	var parts []model.Part
	for _, part := range s.parts {
		if part.Category == category {
			parts = append(parts, part)
		}
	}
	return parts
}

func (s *catalogService) Find(id string) (model.Part, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	part, ok := s.byID[id]
	if !ok {
		return model.Part{}, model.ErrPartNotFound
	}
	return part, nil
}

func (s *catalogService) IsFrame(id string) bool {
	part, err := s.Find(id)
	if err != nil {
		return false
	}
	_, ok := model.Place(part).(model.Frame)
	return ok
}

func (s *catalogService) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *catalogService) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
