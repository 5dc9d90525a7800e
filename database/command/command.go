package command

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func InsertOne[T any](ctx context.Context, collection *mongo.Collection, document T) (*mongo.InsertOneResult, error) {
	return collection.InsertOne(ctx, document)
}

func UpdateByID(ctx context.Context, collection *mongo.Collection, id string, update bson.M) (*mongo.UpdateResult, error) {
	return collection.UpdateOne(ctx, bson.M{"_id": id}, update)
}

// ReplaceByID writes the whole document under id, creating it if absent.
func ReplaceByID[T any](ctx context.Context, collection *mongo.Collection, id string, document T) (*mongo.UpdateResult, error) {
	return collection.ReplaceOne(ctx, bson.M{"_id": id}, document, options.Replace().SetUpsert(true))
}

func DeleteByID(ctx context.Context, collection *mongo.Collection, id string) (*mongo.DeleteResult, error) {
	return collection.DeleteOne(ctx, bson.M{"_id": id})
}

// UpdateBuilder accumulates a $set document field by field.
type UpdateBuilder struct {
	update bson.M
}

func NewUpdateBuilder() *UpdateBuilder {
	return &UpdateBuilder{update: bson.M{}}
}

func (u *UpdateBuilder) Set(key string, value any) *UpdateBuilder {
	if u.update["$set"] == nil {
		u.update["$set"] = bson.M{}
	}
	u.update["$set"].(bson.M)[key] = value
	return u
}

func (u *UpdateBuilder) Unset(key string) *UpdateBuilder {
	if u.update["$unset"] == nil {
		u.update["$unset"] = bson.M{}
	}
	u.update["$unset"].(bson.M)[key] = ""
	return u
}

func (u *UpdateBuilder) Build() bson.M {
	return u.update
}
