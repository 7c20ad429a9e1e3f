package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"burger/pkg/domain/model"
	"burger/pkg/domain/service"
)

func TestResolveOrder(t *testing.T) {
	fromHistory := sampleOrder(7, model.Done)
	fromHistory.Name = "history"
	fromFeed := sampleOrder(9, model.Done)
	fromFeed.Name = "feed"
	modal := sampleOrder(9, model.Created)
	modal.Name = "modal"

	sources := service.OrderSources{
		History:   []model.Order{fromHistory},
		Feed:      []model.Order{fromFeed},
		LastModal: &modal,
	}

	t.Run("History first", func(t *testing.T) {
		order, ok := service.ResolveOrder(7, sources, service.FallbackAny)
		require.True(t, ok)
		assert.Equal(t, "history", order.Name)
	})

	t.Run("Feed after history", func(t *testing.T) {
		order, ok := service.ResolveOrder(9, sources, service.FallbackAny)
		require.True(t, ok)
		assert.Equal(t, "feed", order.Name)
	})

	t.Run("History wins over feed", func(t *testing.T) {
		dup := sampleOrder(7, model.Pending)
		dup.Name = "feed-duplicate"
		both := service.OrderSources{History: []model.Order{fromHistory}, Feed: []model.Order{dup}}

		order, ok := service.ResolveOrder(7, both, service.FallbackAny)
		require.True(t, ok)
		assert.Equal(t, "history", order.Name)
	})

	t.Run("Last modal regardless of number", func(t *testing.T) {
		onlyModal := service.OrderSources{LastModal: &modal}

		order, ok := service.ResolveOrder(42, onlyModal, service.FallbackAny)
		require.True(t, ok)
		assert.Equal(t, "modal", order.Name)
		assert.Equal(t, 9, order.Number)
	})

	t.Run("Strict policy requires matching number", func(t *testing.T) {
		onlyModal := service.OrderSources{LastModal: &modal}

		_, ok := service.ResolveOrder(42, onlyModal, service.FallbackMatching)
		assert.False(t, ok)

		order, ok := service.ResolveOrder(9, onlyModal, service.FallbackMatching)
		require.True(t, ok)
		assert.Equal(t, "modal", order.Name)
	})

	t.Run("Not found", func(t *testing.T) {
		_, ok := service.ResolveOrder(999, service.OrderSources{}, service.FallbackAny)
		assert.False(t, ok)
	})
}

func TestOrderLookup(t *testing.T) {
	setup := func(t *testing.T) (service.OrderLookup, orderFixture, *mockFeedGateway) {
		f := setupOrders(t)
		feedGateway := &mockFeedGateway{}
		feed := service.NewFeedService(feedGateway, &mockEventDispatcher{})
		feedGateway.snapshot = model.FeedSnapshot{Orders: []model.Order{sampleOrder(9, model.Done)}, Total: 1}
		_, err := feed.Refresh(context.Background())
		require.NoError(t, err)
		return service.NewOrderLookup(f.service, feed, service.FallbackMatching), f, feedGateway
	}

	t.Run("Resolves from feed without fetching", func(t *testing.T) {
		lookup, f, _ := setup(t)
		f.gateway.numberErr = model.ErrTransport

		order, err := lookup.Lookup(context.Background(), 9)

		require.NoError(t, err)
		assert.Equal(t, 9, order.Number)
	})

	t.Run("Fetches by number on a miss", func(t *testing.T) {
		lookup, f, _ := setup(t)
		f.gateway.byNumber[40763] = sampleOrder(40763, model.Pending)

		order, err := lookup.Lookup(context.Background(), 40763)

		require.NoError(t, err)
		assert.Equal(t, 40763, order.Number)
		assert.Equal(t, 40763, f.service.Snapshot().Modal.Number)
	})

	t.Run("Not found after fetch", func(t *testing.T) {
		lookup, _, _ := setup(t)

		_, err := lookup.Lookup(context.Background(), 1)

		assert.ErrorIs(t, err, model.ErrOrderNotFound)
	})
}
