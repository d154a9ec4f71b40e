package storage

import (
	"context"
	"fmt"
)

// Adapter wraps a caller-owned connection handle.
type Adapter interface {
	Dialect() string
}

// Driver implements schema management and fact persistence for one dialect.
type Driver interface {
	Dialect() string
	Migrate(ctx context.Context) error
	Facts() FactRepo
}

type adapterMatcher func(conn any) bool
type adapterFactory func(conn any) (Adapter, error)
type driverFactory func(adapter Adapter) (Driver, error)

type adapterEntry struct {
	match   adapterMatcher
	factory adapterFactory
}

var (
	adapterRegistry []adapterEntry
	driverRegistry  = make(map[string]driverFactory)
)

func RegisterAdapter(match adapterMatcher, factory adapterFactory) {
	adapterRegistry = append(adapterRegistry, adapterEntry{match: match, factory: factory})
}

func RegisterDriver(dialect string, factory driverFactory) {
	driverRegistry[dialect] = factory
}

// RegistryAdapter returns an adapter for the first matcher accepting conn.
func RegistryAdapter(conn any) (Adapter, error) {
	for _, entry := range adapterRegistry {
		if entry.match(conn) {
			return entry.factory(conn)
		}
	}
	return nil, fmt.Errorf("%w: %T", ErrNoAdapter, conn)
}

func RegistryDriver(adapter Adapter) (Driver, error) {
	dialect := adapter.Dialect()
	f, ok := driverRegistry[dialect]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDialect, dialect)
	}
	return f(adapter)
}
