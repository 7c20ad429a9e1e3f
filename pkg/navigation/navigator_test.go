package navigation

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSession struct {
	authenticated bool
}

func (m *mockSession) IsAuthenticated() bool { return m.authenticated }

type mockMounter struct {
	mounted []string
	err     error
}

func (m *mockMounter) Mount(_ context.Context, match Match) error {
	m.mounted = append(m.mounted, match.Path)
	return m.err
}

func (m *mockMounter) count(path string) int {
	n := 0
	for _, p := range m.mounted {
		if p == path {
			n++
		}
	}
	return n
}

func setup(t *testing.T, authenticated bool) (*Navigator, *mockMounter) {
	t.Helper()
	mounter := &mockMounter{}
	return NewNavigator(NewRoutes(), &mockSession{authenticated: authenticated}, mounter), mounter
}

func TestRoutesMatch(t *testing.T) {
	routes := NewRoutes()

	cases := []struct {
		path   string
		view   View
		params map[string]string
	}{
		{"/", BuilderPage, nil},
		{"/feed", FeedPage, nil},
		{"/feed/40763", FeedOrder, map[string]string{"number": "40763"}},
		{"/ingredients/643d69a5c3f7b9001cfa093c", PartDetail, map[string]string{"id": "643d69a5c3f7b9001cfa093c"}},
		{"/profile", ProfilePage, nil},
		{"/profile/orders", HistoryPage, nil},
		{"/profile/orders/12", HistoryOrder, map[string]string{"number": "12"}},
		{"/login", LoginPage, nil},
		{"/feed/abc", NotFound, nil},
		{"/nowhere", NotFound, nil},
	}
	for _, c := range cases {
		t.Run(c.path, func(t *testing.T) {
			match := routes.Match(c.path)
			assert.Equal(t, c.view, match.View)
			if c.params != nil {
				assert.Equal(t, c.params, match.Params)
			}
		})
	}

	t.Run("Query string is ignored", func(t *testing.T) {
		assert.Equal(t, FeedPage, routes.Match("/feed?page=2").View)
	})
}

func TestRoutesURL(t *testing.T) {
	routes := NewRoutes()

	path, err := routes.URL(FeedOrder, "number", "40763")
	require.NoError(t, err)
	assert.Equal(t, "/feed/40763", path)

	_, err = routes.URL(NotFound)
	assert.Error(t, err)
}

func TestOverlayOverPage(t *testing.T) {
	nav, mounter := setup(t, false)

	_, err := nav.Open(context.Background(), "/")
	require.NoError(t, err)

	screen, err := nav.OpenOverlay(context.Background(), "/ingredients/bun-1")
	require.NoError(t, err)
	assert.Equal(t, BuilderPage, screen.Page.View)
	require.NotNil(t, screen.Overlay)
	assert.Equal(t, PartDetail, screen.Overlay.View)
	assert.Equal(t, "bun-1", screen.Overlay.Params["id"])

	loc, _ := nav.Location()
	require.NotNil(t, loc.Background)
	assert.Equal(t, "/", loc.Background.Path)

	for _, trigger := range []CloseTrigger{CloseButton, Escape, OutsideClick} {
		screen, err = nav.Close(context.Background(), trigger)
		require.NoError(t, err)
		assert.Equal(t, BuilderPage, screen.Page.View)
		assert.Nil(t, screen.Overlay)

		_, err = nav.OpenOverlay(context.Background(), "/ingredients/bun-1")
		require.NoError(t, err)
	}

	assert.Equal(t, 1, mounter.count("/"), "builder page must not be remounted")
	assert.Equal(t, 4, mounter.count("/ingredients/bun-1"))
}

func TestDirectDetailLinkIsStandalone(t *testing.T) {
	nav, mounter := setup(t, false)

	screen, err := nav.Open(context.Background(), "/feed/40763")
	require.NoError(t, err)

	assert.Equal(t, FeedOrder, screen.Page.View)
	assert.Nil(t, screen.Overlay)
	assert.Equal(t, []string{"/feed/40763"}, mounter.mounted)

	t.Run("Close without background has no implicit target", func(t *testing.T) {
		screen, err := nav.Close(context.Background(), Escape)
		require.NoError(t, err)
		assert.Equal(t, FeedOrder, screen.Page.View)
	})
}

func TestCloseFallsBackToHistory(t *testing.T) {
	nav, _ := setup(t, false)
	_, _ = nav.Open(context.Background(), "/feed")
	_, _ = nav.Open(context.Background(), "/feed/7")

	screen, err := nav.Close(context.Background(), CloseButton)

	require.NoError(t, err)
	assert.Equal(t, FeedPage, screen.Page.View)
}

func TestOverlayFromOverlayKeepsPage(t *testing.T) {
	nav, _ := setup(t, false)
	_, _ = nav.Open(context.Background(), "/feed")
	_, _ = nav.OpenOverlay(context.Background(), "/feed/1")

	screen, err := nav.OpenOverlay(context.Background(), "/feed/2")
	require.NoError(t, err)
	assert.Equal(t, FeedPage, screen.Page.View)
	assert.Equal(t, "/feed/2", screen.Overlay.Path)

	screen, err = nav.Close(context.Background(), CloseButton)
	require.NoError(t, err)
	assert.Equal(t, FeedPage, screen.Page.View)
	assert.Nil(t, screen.Overlay)
}

func TestOverlayOnNonDetailIsPageNavigation(t *testing.T) {
	nav, _ := setup(t, false)
	_, _ = nav.Open(context.Background(), "/")

	screen, err := nav.OpenOverlay(context.Background(), "/feed")

	require.NoError(t, err)
	assert.Equal(t, FeedPage, screen.Page.View)
	assert.Nil(t, screen.Overlay)
}

func TestGuards(t *testing.T) {
	t.Run("Protected view redirects anonymous user", func(t *testing.T) {
		nav, _ := setup(t, false)
		screen, err := nav.Open(context.Background(), "/profile/orders")
		require.NoError(t, err)
		assert.Equal(t, LoginPage, screen.Page.View)
	})

	t.Run("Protected overlay redirects as page", func(t *testing.T) {
		nav, _ := setup(t, false)
		_, _ = nav.Open(context.Background(), "/")
		screen, err := nav.OpenOverlay(context.Background(), "/profile/orders/3")
		require.NoError(t, err)
		assert.Equal(t, LoginPage, screen.Page.View)
		assert.Nil(t, screen.Overlay)
	})

	t.Run("Anonymous-only view redirects signed-in user", func(t *testing.T) {
		nav, _ := setup(t, true)
		screen, err := nav.Open(context.Background(), "/login")
		require.NoError(t, err)
		assert.Equal(t, BuilderPage, screen.Page.View)
	})

	t.Run("Signed-in user sees history overlay", func(t *testing.T) {
		nav, _ := setup(t, true)
		_, _ = nav.Open(context.Background(), "/profile/orders")
		screen, err := nav.OpenOverlay(context.Background(), "/profile/orders/3")
		require.NoError(t, err)
		assert.Equal(t, HistoryPage, screen.Page.View)
		assert.Equal(t, HistoryOrder, screen.Overlay.View)
	})
}

func TestMountErrorStillNavigates(t *testing.T) {
	nav, mounter := setup(t, false)
	mounter.err = errors.New("fetch failed")

	screen, err := nav.Open(context.Background(), "/feed")

	assert.Error(t, err)
	assert.Equal(t, FeedPage, screen.Page.View)
	current, ok := nav.Screen()
	require.True(t, ok)
	assert.Equal(t, FeedPage, current.Page.View)
}

type blockingMounter struct {
	path     string
	started  chan struct{}
	released chan struct{}
}

func (m *blockingMounter) Mount(_ context.Context, match Match) error {
	if match.Path == m.path {
		close(m.started)
		<-m.released
	}
	return nil
}

func TestMountRunsOutsideLock(t *testing.T) {
	mounter := &blockingMounter{path: "/feed", started: make(chan struct{}), released: make(chan struct{})}
	nav := NewNavigator(NewRoutes(), &mockSession{}, mounter)

	opened := make(chan error, 1)
	go func() {
		_, err := nav.Open(context.Background(), "/feed")
		opened <- err
	}()
	<-mounter.started

	screenDone := make(chan Screen, 1)
	go func() {
		screen, _ := nav.Screen()
		screenDone <- screen
	}()

	select {
	case screen := <-screenDone:
		assert.Equal(t, FeedPage, screen.Page.View)
	case <-time.After(time.Second):
		t.Fatal("Screen waited for a pending mount")
	}

	location, ok := nav.Location()
	require.True(t, ok)
	assert.Equal(t, "/feed", location.Path)

	close(mounter.released)
	require.NoError(t, <-opened)
}

func TestParseCloseTrigger(t *testing.T) {
	trigger, ok := ParseCloseTrigger("escape")
	assert.True(t, ok)
	assert.Equal(t, Escape, trigger)

	_, ok = ParseCloseTrigger("swipe")
	assert.False(t, ok)
}
