package service

import (
	"context"
	"sync"

	"burger/pkg/domain/model"
)

type FeedService interface {
	Refresh(ctx context.Context) (model.FeedSnapshot, error)
	Snapshot() (model.FeedSnapshot, bool)
	Loading() bool
	Err() error
}

func NewFeedService(gateway model.FeedGateway, dispatcher EventDispatcher) FeedService {
	return &feedService{gateway: gateway, dispatcher: dispatcher}
}

type feedService struct {
	gateway    model.FeedGateway
	dispatcher EventDispatcher

	mu       sync.Mutex
	snapshot *model.FeedSnapshot
	loading  bool
	err      error
}

func (s *feedService) Refresh(ctx context.Context) (model.FeedSnapshot, error) {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return model.FeedSnapshot{}, model.ErrRequestInFlight
	}
	s.loading = true
	s.err = nil
	s.mu.Unlock()

	snapshot, err := s.gateway.FetchFeed(ctx)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.err = err
		s.mu.Unlock()
		return model.FeedSnapshot{}, err
	}
	s.snapshot = &snapshot
	s.mu.Unlock()

	_ = s.dispatcher.Dispatch(model.FeedRefreshed{Total: snapshot.Total, TotalToday: snapshot.TotalToday})
	return snapshot, nil
}

// Snapshot returns the last successful feed and false when none was fetched yet.
func (s *feedService) Snapshot() (model.FeedSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return model.FeedSnapshot{}, false
	}
	snapshot := *s.snapshot
	snapshot.Orders = cloneOrders(s.snapshot.Orders)
	return snapshot, true
}

func (s *feedService) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *feedService) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
