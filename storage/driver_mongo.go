package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

type MongoDriver struct {
	a *MongoAdapter
}

func newMongoDriver(adapter Adapter) (Driver, error) {
	a, ok := adapter.(*MongoAdapter)
	if !ok {
		return nil, fmt.Errorf("mongo driver expects *MongoAdapter, got %T", adapter)
	}
	return &MongoDriver{a: a}, nil
}

func (d *MongoDriver) Dialect() string { return DialectMongo }

func (d *MongoDriver) Migrate(ctx context.Context) error {
	if d.a == nil || d.a.DB == nil {
		return ErrNotStarted
	}
	return d.migrateMongo(ctx)
}

func (d *MongoDriver) Facts() FactRepo {
	return &mongoFactRepo{db: d.db()}
}

func (d *MongoDriver) db() *mongo.Database { return d.a.DB }
