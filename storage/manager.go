package storage

import (
	"context"
	"errors"
)

var (
	ErrNoAdapter          = errors.New("no adapter registered for connection type")
	ErrUnsupportedDialect = errors.New("unsupported dialect")
	ErrNotStarted         = errors.New("storage manager not started")
)

// Manager resolves a connection handle to a Driver.
// The connection itself stays owned by the caller.
type Manager struct {
	adapter Adapter
	driver  Driver
}

func NewManager() *Manager {
	return &Manager{}
}

// Start binds the manager to conn, a *sql.DB or *mongo.Database.
func (m *Manager) Start(conn any) error {
	if conn == nil {
		return ErrNotStarted
	}
	a, err := RegistryAdapter(conn)
	if err != nil {
		return err
	}
	d, err := RegistryDriver(a)
	if err != nil {
		return err
	}
	m.adapter = a
	m.driver = d
	return nil
}

func (m *Manager) Adapter() Adapter { return m.adapter }
func (m *Manager) Driver() Driver   { return m.driver }

func (m *Manager) Dialect() string {
	if m.adapter == nil {
		return ""
	}
	return m.adapter.Dialect()
}

// Build applies pending schema migrations.
func (m *Manager) Build(ctx context.Context) error {
	if m.driver == nil {
		return ErrNotStarted
	}
	return m.driver.Migrate(ctx)
}

// Facts returns the fact repository of the bound driver.
func (m *Manager) Facts() (FactRepo, error) {
	if m.driver == nil {
		return nil, ErrNotStarted
	}
	return m.driver.Facts(), nil
}
