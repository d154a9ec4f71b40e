package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const factCollection = "histfacts_fact"

type mongoFactDoc struct {
	ID          int       `bson:"id"`
	UUID        string    `bson:"uuid"`
	Position    int       `bson:"position"`
	Text        string    `bson:"text"`
	ImageURL    string    `bson:"image_url"`
	Tags        []string  `bson:"tags"`
	Period      string    `bson:"period"`
	Year        int       `bson:"year"`
	IsExplicit  bool      `bson:"is_explicit"`
	DateCreated time.Time `bson:"date_created"`
}

func (d mongoFactDoc) record() FactRecord {
	return FactRecord(d)
}

type mongoFactRepo struct {
	db *mongo.Database
}

func (r *mongoFactRepo) coll() *mongo.Collection { return r.db.Collection(factCollection) }

func (r *mongoFactRepo) Upsert(ctx context.Context, rec FactRecord) error {
	next, err := r.nextPosition(ctx)
	if err != nil {
		return err
	}
	stamp(&rec, time.Now().UTC())
	_, err = r.coll().UpdateOne(ctx,
		bson.M{"id": rec.ID},
		bson.M{
			"$set": bson.M{
				"text":        rec.Text,
				"image_url":   rec.ImageURL,
				"tags":        rec.Tags,
				"period":      rec.Period,
				"year":        rec.Year,
				"is_explicit": rec.IsExplicit,
			},
			"$setOnInsert": bson.M{
				"position":     next,
				"uuid":         rec.UUID,
				"date_created": rec.DateCreated,
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert fact %d: %w", rec.ID, err)
	}
	return nil
}

// nextPosition returns the position after the highest stored one.
func (r *mongoFactRepo) nextPosition(ctx context.Context) (int, error) {
	var last struct {
		Position int `bson:"position"`
	}
	err := r.coll().FindOne(ctx, bson.M{},
		options.FindOne().SetSort(bson.D{{Key: "position", Value: -1}}).SetProjection(bson.M{"position": 1}),
	).Decode(&last)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("next fact position: %w", err)
	}
	return last.Position + 1, nil
}

// ReplaceAll is not atomic: readers may observe an empty collection between
// the delete and the insert.
func (r *mongoFactRepo) ReplaceAll(ctx context.Context, recs []FactRecord) error {
	if err := r.DeleteAll(ctx); err != nil {
		return err
	}
	if len(recs) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]any, 0, len(recs))
	for i, rec := range recs {
		rec.Position = i
		stamp(&rec, now)
		docs = append(docs, mongoFactDoc(rec))
	}
	if _, err := r.coll().InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert facts: %w", err)
	}
	return nil
}

func (r *mongoFactRepo) List(ctx context.Context) ([]FactRecord, error) {
	cur, err := r.coll().Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "position", Value: 1}, {Key: "id", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	var docs []mongoFactDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]FactRecord, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.record())
	}
	return out, nil
}

func (r *mongoFactRepo) Count(ctx context.Context) (int64, error) {
	return r.coll().CountDocuments(ctx, bson.M{})
}

func (r *mongoFactRepo) DeleteAll(ctx context.Context) error {
	_, err := r.coll().DeleteMany(ctx, bson.M{})
	return err
}
