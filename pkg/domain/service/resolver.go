package service

import (
	"context"

	"burger/pkg/domain/model"
)

type FallbackPolicy int

const (
	// FallbackAny returns the last modal order even when its number differs,
	// so a fresh submission never shows as missing.
	FallbackAny FallbackPolicy = iota
	// FallbackMatching returns the last modal order only on a number match.
	FallbackMatching
)

type OrderSources struct {
	History   []model.Order
	Feed      []model.Order
	LastModal *model.Order
}

// ResolveOrder searches personal history, then the public feed, then falls
// back to the last modal order. It reports false when nothing qualifies.
func ResolveOrder(number int, sources OrderSources, policy FallbackPolicy) (model.Order, bool) {
	if order, ok := model.FindByNumber(sources.History, number); ok {
		return order, true
	}
	if order, ok := model.FindByNumber(sources.Feed, number); ok {
		return order, true
	}
	if sources.LastModal == nil {
		return model.Order{}, false
	}
	if policy == FallbackMatching && sources.LastModal.Number != number {
		return model.Order{}, false
	}
	return *sources.LastModal, true
}

type OrderLookup interface {
	Resolve(number int) (model.Order, bool)
	Lookup(ctx context.Context, number int) (model.Order, error)
}

func NewOrderLookup(orders OrderService, feed FeedService, policy FallbackPolicy) OrderLookup {
	return &orderLookup{orders: orders, feed: feed, policy: policy}
}

type orderLookup struct {
	orders OrderService
	feed   FeedService
	policy FallbackPolicy
}

func (l *orderLookup) sources() OrderSources {
	state := l.orders.Snapshot()
	snapshot, _ := l.feed.Snapshot()
	return OrderSources{
		History:   state.History,
		Feed:      snapshot.Orders,
		LastModal: state.Modal,
	}
}

func (l *orderLookup) Resolve(number int) (model.Order, bool) {
	return ResolveOrder(number, l.sources(), l.policy)
}

// Lookup resolves locally first and fetches the order by number on a miss.
func (l *orderLookup) Lookup(ctx context.Context, number int) (model.Order, error) {
	if order, ok := l.Resolve(number); ok {
		return order, nil
	}
	if _, err := l.orders.FetchByNumber(ctx, number); err != nil {
		return model.Order{}, err
	}
	if order, ok := l.Resolve(number); ok {
		return order, nil
	}
	return model.Order{}, model.ErrOrderNotFound
}
