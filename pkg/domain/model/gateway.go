package model

import "context"

type CatalogGateway interface {
	FetchCatalog(ctx context.Context) ([]Part, error)
}

type OrderGateway interface {
	SubmitOrder(ctx context.Context, partIDs []string) (Order, error)
	FetchOrderByNumber(ctx context.Context, number int) (Order, error)
	FetchOwnOrders(ctx context.Context) ([]Order, error)
}

type FeedGateway interface {
	FetchFeed(ctx context.Context) (FeedSnapshot, error)
}

type AuthGateway interface {
	Register(ctx context.Context, registration Registration) (User, error)
	Login(ctx context.Context, credentials Credentials) (User, error)
	Logout(ctx context.Context) error
	FetchUser(ctx context.Context) (User, error)
	UpdateUser(ctx context.Context, update UserUpdate) (User, error)
}
