package service

import (
	"context"
	"sync"

	"burger/pkg/domain/model"
)

type requestKind int

const (
	registerRequest requestKind = iota
	loginRequest
	logoutRequest
	fetchUserRequest
	updateUserRequest
)

type SessionService interface {
	SessionReader

	Register(ctx context.Context, registration model.Registration) (model.User, error)
	Login(ctx context.Context, credentials model.Credentials) (model.User, error)
	Logout(ctx context.Context) error
	FetchUser(ctx context.Context) (model.User, error)
	UpdateUser(ctx context.Context, update model.UserUpdate) (model.User, error)

	User() (model.User, bool)
	LoginErr() error
	RegisterErr() error
	UpdateErr() error
}

func NewSessionService(gateway model.AuthGateway, dispatcher EventDispatcher) SessionService {
	return &sessionService{
		gateway:    gateway,
		dispatcher: dispatcher,
		inFlight:   make(map[requestKind]bool),
	}
}

type sessionService struct {
	gateway    model.AuthGateway
	dispatcher EventDispatcher

	mu          sync.Mutex
	user        *model.User
	inFlight    map[requestKind]bool
	loginErr    error
	registerErr error
	updateErr   error
}

func (s *sessionService) Register(ctx context.Context, registration model.Registration) (model.User, error) {
	if err := s.begin(registerRequest); err != nil {
		return model.User{}, err
	}
	s.setErr(&s.registerErr, nil)

	user, err := s.gateway.Register(ctx, registration)
	return s.finishAuth(registerRequest, &s.registerErr, user, err)
}

func (s *sessionService) Login(ctx context.Context, credentials model.Credentials) (model.User, error) {
	if err := s.begin(loginRequest); err != nil {
		return model.User{}, err
	}
	s.setErr(&s.loginErr, nil)

	user, err := s.gateway.Login(ctx, credentials)
	return s.finishAuth(loginRequest, &s.loginErr, user, err)
}

func (s *sessionService) finishAuth(kind requestKind, errField *error, user model.User, err error) (model.User, error) {
	s.mu.Lock()
	delete(s.inFlight, kind)
	if err != nil {
		*errField = err
		s.mu.Unlock()
		return model.User{}, err
	}
	s.user = &user
	s.mu.Unlock()

	_ = s.dispatcher.Dispatch(model.SessionStarted{Email: user.Email})
	return user, nil
}

func (s *sessionService) Logout(ctx context.Context) error {
	if err := s.begin(logoutRequest); err != nil {
		return err
	}

	err := s.gateway.Logout(ctx)

	s.mu.Lock()
	delete(s.inFlight, logoutRequest)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.user = nil
	s.mu.Unlock()

	_ = s.dispatcher.Dispatch(model.SessionEnded{})
	return nil
}

// FetchUser restores the session from stored credentials. Any failure leaves
// the session anonymous.
func (s *sessionService) FetchUser(ctx context.Context) (model.User, error) {
	if err := s.begin(fetchUserRequest); err != nil {
		return model.User{}, err
	}

	user, err := s.gateway.FetchUser(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, fetchUserRequest)
	if err != nil {
		s.user = nil
		return model.User{}, err
	}
	s.user = &user
	return user, nil
}

func (s *sessionService) UpdateUser(ctx context.Context, update model.UserUpdate) (model.User, error) {
	if !s.IsAuthenticated() {
		return model.User{}, model.ErrUnauthorized
	}
	if err := s.begin(updateUserRequest); err != nil {
		return model.User{}, err
	}
	s.setErr(&s.updateErr, nil)

	user, err := s.gateway.UpdateUser(ctx, update)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, updateUserRequest)
	if err != nil {
		s.updateErr = err
		return model.User{}, err
	}
	s.user = &user
	return user, nil
}

func (s *sessionService) begin(kind requestKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[kind] {
		return model.ErrRequestInFlight
	}
	s.inFlight[kind] = true
	return nil
}

func (s *sessionService) setErr(field *error, err error) {
	s.mu.Lock()
	*field = err
	s.mu.Unlock()
}

func (s *sessionService) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

func (s *sessionService) User() (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

func (s *sessionService) LoginErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loginErr
}

func (s *sessionService) RegisterErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registerErr
}

func (s *sessionService) UpdateErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateErr
}
