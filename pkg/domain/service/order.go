package service

import (
	"context"
	"sync"

	"burger/pkg/domain/model"
)

type SessionReader interface {
	IsAuthenticated() bool
}

// OrderState is a read-only copy of the order lifecycle.
type OrderState struct {
	History        []model.Order
	Modal          *model.Order
	Submitting     bool
	LoadingNumber  bool
	LoadingHistory bool
	Err            error
}

type OrderService interface {
	Submit(ctx context.Context, partIDs []string) (model.Order, error)
	Checkout(ctx context.Context) (model.Order, error)
	FetchByNumber(ctx context.Context, number int) (model.Order, error)
	FetchHistory(ctx context.Context) ([]model.Order, error)
	CloseModal()

	Snapshot() OrderState
}

func NewOrderService(
	gateway model.OrderGateway,
	catalog CatalogService,
	builder BuilderService,
	session SessionReader,
	dispatcher EventDispatcher,
) OrderService {
	return &orderService{
		gateway:    gateway,
		catalog:    catalog,
		builder:    builder,
		session:    session,
		dispatcher: dispatcher,
		state: OrderState{
			LoadingNumber:  true,
			LoadingHistory: true,
		},
	}
}

type orderService struct {
	gateway    model.OrderGateway
	catalog    CatalogService
	builder    BuilderService
	session    SessionReader
	dispatcher EventDispatcher

	mu              sync.Mutex
	state           OrderState
	submitInFlight  bool
	numberInFlight  bool
	historyInFlight bool
}

func (s *orderService) Submit(ctx context.Context, partIDs []string) (model.Order, error) {
	if !s.containsFrame(partIDs) {
		return model.Order{}, model.ErrAssemblyIncomplete
	}

	s.mu.Lock()
	if s.submitInFlight {
		s.mu.Unlock()
		return model.Order{}, model.ErrRequestInFlight
	}
	s.submitInFlight = true
	s.state.Submitting = true
	s.state.Err = nil
	s.mu.Unlock()

	order, err := s.gateway.SubmitOrder(ctx, partIDs)

	s.mu.Lock()
	s.submitInFlight = false
	s.state.Submitting = false
	if err != nil {
		s.state.Err = err
		s.mu.Unlock()
		_ = s.dispatcher.Dispatch(model.OrderSubmissionFailed{Reason: err.Error()})
		return model.Order{}, err
	}
	s.state.Modal = &order
	s.mu.Unlock()

	s.builder.Clear()
	_ = s.dispatcher.Dispatch(model.OrderCreated{Number: order.Number, Name: order.Name})
	return order, nil
}

func (s *orderService) Checkout(ctx context.Context) (model.Order, error) {
	if !s.session.IsAuthenticated() {
		return model.Order{}, model.ErrUnauthorized
	}
	return s.Submit(ctx, s.builder.Assembly().PartIDs())
}

func (s *orderService) containsFrame(partIDs []string) bool {
	for _, id := range partIDs {
		if s.catalog.IsFrame(id) {
			return true
		}
	}
	return false
}

func (s *orderService) FetchByNumber(ctx context.Context, number int) (model.Order, error) {
	s.mu.Lock()
	if s.numberInFlight {
		s.mu.Unlock()
		return model.Order{}, model.ErrRequestInFlight
	}
	s.numberInFlight = true
	s.state.LoadingNumber = true
	s.state.Err = nil
	s.mu.Unlock()

	order, err := s.gateway.FetchOrderByNumber(ctx, number)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.numberInFlight = false
	s.state.LoadingNumber = false
	if err != nil {
		s.state.Err = err
		return model.Order{}, err
	}
	s.state.Modal = &order
	return order, nil
}

func (s *orderService) FetchHistory(ctx context.Context) ([]model.Order, error) {
	s.mu.Lock()
	if s.historyInFlight {
		s.mu.Unlock()
		return nil, model.ErrRequestInFlight
	}
	s.historyInFlight = true
	s.state.LoadingHistory = true
	s.state.Err = nil
	s.mu.Unlock()

	orders, err := s.gateway.FetchOwnOrders(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.historyInFlight = false
	s.state.LoadingHistory = false
	if err != nil {
		s.state.Err = err
		return nil, err
	}
	s.state.History = orders
	return cloneOrders(orders), nil
}

// CloseModal resets what the modal shows. A submission still in flight keeps
// blocking new ones.
func (s *orderService) CloseModal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Modal = nil
	s.state.Submitting = false
	s.state.LoadingNumber = false
}

func (s *orderService) Snapshot() OrderState {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.state
	snapshot.History = cloneOrders(s.state.History)
	if s.state.Modal != nil {
		modal := *s.state.Modal
		snapshot.Modal = &modal
	}
	return snapshot
}

func cloneOrders(orders []model.Order) []model.Order {
	clone := make([]model.Order, len(orders))
	copy(clone, orders)
	return clone
}
