package tests

import (
	"context"

	"github.com/google/uuid"

	"burger/pkg/domain/model"
	"burger/pkg/domain/service"
)

var (
	frameBun = model.Part{ID: "bun-1", Name: "Crater bun N-200i", Category: model.FrameCategory, Price: 1255}
	otherBun = model.Part{ID: "bun-2", Name: "Fluorescent bun R2-D3", Category: model.FrameCategory, Price: 988}
	patty    = model.Part{ID: "main-1", Name: "Magnolia bio-patty", Category: model.SolidFilling, Price: 424}
	sauce    = model.Part{ID: "sauce-1", Name: "Spicy-X sauce", Category: model.SauceFilling, Price: 90}
)

func catalogParts() []model.Part {
	return []model.Part{frameBun, otherBun, patty, sauce}
}

var _ model.CatalogGateway = &mockCatalogGateway{}

type mockCatalogGateway struct {
	parts []model.Part
	err   error
	calls int
}

func (m *mockCatalogGateway) FetchCatalog(_ context.Context) ([]model.Part, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.parts, nil
}

var _ model.OrderGateway = &mockOrderGateway{}

type mockOrderGateway struct {
	submitted  [][]string
	order      model.Order
	submitErr  error
	byNumber   map[int]model.Order
	numberErr  error
	own        []model.Order
	ownErr     error
	onSubmit   func()
	onNumber   func()
	onHistory  func()
	historyHit int
}

func (m *mockOrderGateway) SubmitOrder(_ context.Context, partIDs []string) (model.Order, error) {
	m.submitted = append(m.submitted, partIDs)
	if m.onSubmit != nil {
		m.onSubmit()
	}
	if m.submitErr != nil {
		return model.Order{}, m.submitErr
	}
	return m.order, nil
}

func (m *mockOrderGateway) FetchOrderByNumber(_ context.Context, number int) (model.Order, error) {
	if m.onNumber != nil {
		m.onNumber()
	}
	if m.numberErr != nil {
		return model.Order{}, m.numberErr
	}
	order, ok := m.byNumber[number]
	if !ok {
		return model.Order{}, model.ErrOrderNotFound
	}
	return order, nil
}

func (m *mockOrderGateway) FetchOwnOrders(_ context.Context) ([]model.Order, error) {
	m.historyHit++
	if m.onHistory != nil {
		m.onHistory()
	}
	if m.ownErr != nil {
		return nil, m.ownErr
	}
	return m.own, nil
}

var _ model.FeedGateway = &mockFeedGateway{}

type mockFeedGateway struct {
	snapshot model.FeedSnapshot
	err      error
	calls    int
}

func (m *mockFeedGateway) FetchFeed(_ context.Context) (model.FeedSnapshot, error) {
	m.calls++
	if m.err != nil {
		return model.FeedSnapshot{}, m.err
	}
	return m.snapshot, nil
}

var _ model.AuthGateway = &mockAuthGateway{}

type mockAuthGateway struct {
	user      model.User
	err       error
	logoutErr error
	loggedOut bool
}

func (m *mockAuthGateway) Register(_ context.Context, r model.Registration) (model.User, error) {
	if m.err != nil {
		return model.User{}, m.err
	}
	return model.User{Name: r.Name, Email: r.Email}, nil
}

func (m *mockAuthGateway) Login(_ context.Context, c model.Credentials) (model.User, error) {
	if m.err != nil {
		return model.User{}, m.err
	}
	return model.User{Name: m.user.Name, Email: c.Email}, nil
}

func (m *mockAuthGateway) Logout(_ context.Context) error {
	if m.logoutErr != nil {
		return m.logoutErr
	}
	m.loggedOut = true
	return nil
}

func (m *mockAuthGateway) FetchUser(_ context.Context) (model.User, error) {
	if m.err != nil {
		return model.User{}, m.err
	}
	return m.user, nil
}

func (m *mockAuthGateway) UpdateUser(_ context.Context, u model.UserUpdate) (model.User, error) {
	if m.err != nil {
		return model.User{}, m.err
	}
	return model.User{Name: u.Name, Email: u.Email}, nil
}

var _ service.EventDispatcher = &mockEventDispatcher{}

type mockEventDispatcher struct {
	events []service.Event
}

func (m *mockEventDispatcher) Dispatch(event service.Event) error {
	m.events = append(m.events, event)
	return nil
}

func (m *mockEventDispatcher) Reset() {
	m.events = nil
}

var _ service.SessionReader = &mockSession{}

type mockSession struct {
	authenticated bool
}

func (m *mockSession) IsAuthenticated() bool { return m.authenticated }

var _ service.BuilderService = &mockBuilder{}

// mockBuilder records Clear calls and lets tests observe the order state at
// the moment Clear runs.
type mockBuilder struct {
	assembly model.Assembly
	cleared  int
	onClear  func()
}

func (m *mockBuilder) SetFrame(part *model.Part) { m.assembly.Frame = part }

func (m *mockBuilder) AddEntry(part model.Part) (model.Entry, bool) {
	entry := model.Entry{InstanceID: uuid.New(), Part: part}
	m.assembly.Entries = append(m.assembly.Entries, entry)
	return entry, true
}

func (m *mockBuilder) AddByID(string) (model.Entry, bool, error) {
	return model.Entry{}, false, model.ErrPartNotFound
}

func (m *mockBuilder) RemoveEntry(uuid.UUID) {}
func (m *mockBuilder) MoveEntry(int, model.Direction) {}
func (m *mockBuilder) Assembly() model.Assembly { return m.assembly.Clone() }
func (m *mockBuilder) Count() int { return m.assembly.Count() }
func (m *mockBuilder) Price() int64 { return m.assembly.Price() }

func (m *mockBuilder) Clear() {
	if m.onClear != nil {
		m.onClear()
	}
	m.cleared++
	m.assembly = model.Assembly{}
}
