package mystore

import (
	"context"
)

//go:generate mockgen -source=api.go -package mystore -destination store_mock.go Store
type Store[T any] interface {
	Put(c context.Context, uid string, value T) error
	Get(c context.Context, uid string) (T, bool, error)
	List(c context.Context) ([]T, error)
}

// New returns a datastore backed store when a cloud project is configured, an in-memory one otherwise.
func New[T any](c context.Context, projectID string) (Store[T], func(), error) {
	if projectID != "" {
		return newGcloudStore[T](c, projectID)
	}

	return NewInMemoryStore[T](c)
}
