package storage

import (
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoAdapter struct {
	DB *mongo.Database
}

func (a *MongoAdapter) Dialect() string { return DialectMongo }

func isMongoDB(conn any) bool {
	db, ok := conn.(*mongo.Database)
	return ok && db != nil
}

func newMongoAdapter(conn any) (Adapter, error) {
	return &MongoAdapter{DB: conn.(*mongo.Database)}, nil
}
