package db

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"
)

// Cursor defines the interface for cursor operations.
type Cursor interface {
	All(ctx context.Context, out interface{}) error
	Close(ctx context.Context) error
}

// Finder defines the read access the artifact sources need from a collection.
type Finder interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (Cursor, error)
}
