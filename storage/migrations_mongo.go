package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const schemaVersionCollection = "histfacts_schema_version"

type mongoMigrationOp struct {
	Collection string
	Index      mongo.IndexModel
}

var mongoMigrations = map[int][]mongoMigrationOp{
	1: {
		{schemaVersionCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "num", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{factCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{factCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "uuid", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{factCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "position", Value: 1}, {Key: "id", Value: 1}},
			Options: options.Index().SetName("idx_histfacts_fact_position"),
		}},
	},
}

func (d *MongoDriver) migrateMongo(ctx context.Context) error {
	currentVersion, err := d.schemaVersion(ctx)
	if err != nil {
		return err
	}
	if currentVersion >= schemaVersion {
		return nil
	}

	for v := currentVersion + 1; v <= schemaVersion; v++ {
		for _, op := range mongoMigrations[v] {
			coll := d.db().Collection(op.Collection)
			if _, err := coll.Indexes().CreateOne(ctx, op.Index); err != nil && !mongo.IsDuplicateKeyError(err) {
				return fmt.Errorf("migration %d failed: %w", v, err)
			}
		}

		_, err := d.db().Collection(schemaVersionCollection).ReplaceOne(
			ctx,
			bson.M{"num": currentVersion},
			bson.M{"num": v},
			options.Replace().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		currentVersion = v
	}
	return nil
}

func (d *MongoDriver) schemaVersion(ctx context.Context) (int, error) {
	var doc struct {
		Num int `bson:"num"`
	}
	err := d.db().Collection(schemaVersionCollection).FindOne(ctx, bson.M{}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return doc.Num, nil
}
