package handlers

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// pairCollection is the slice of *mongo.Collection the toggle path needs.
type pairCollection interface {
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

var _ pairCollection = (*mongo.Collection)(nil)

// togglePairRow flips the presence of the association row identified by
// pair, inserting doc when the delete matched nothing.
//
// Two concurrent toggles can both miss on the delete and race to insert;
// the unique index rejects the loser, which is folded into the same active
// outcome since exactly one row exists either way. The returned count is
// always recomputed from the rows, never kept as a counter.
func togglePairRow(ctx context.Context, col pairCollection, pair bson.M, doc interface{}, countFilter bson.M) (bool, int64, error) {
	res, err := col.DeleteOne(ctx, pair)
	if err != nil {
		return false, 0, err
	}

	active := false
	if res.DeletedCount == 0 {
		if _, err := col.InsertOne(ctx, doc); err != nil && !isDuplicateKey(err) {
			return false, 0, err
		}
		active = true
	}

	count, err := col.CountDocuments(ctx, countFilter)
	if err != nil {
		return false, 0, err
	}
	return active, count, nil
}
