package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ristinalapbulan-create/sipandusd/config"
)

var (
	Client *mongo.Client
	DB     *mongo.Database
)

// Connect opens the Mongo connection and prepares indexes. Fails fast if
// the store is unreachable.
func Connect(cfg *config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("database ping failed: %v", err)
	}

	Client = client
	DB = client.Database(cfg.MongoDB)

	ensureIndexes(ctx)
}

// ensureIndexes is our AutoMigrate: the store itself never rejects a
// duplicate report, so reports only get a non-unique period index.
func ensureIndexes(ctx context.Context) {
	schools := DB.Collection("schools")
	if _, err := schools.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "npsn", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		log.Printf("[migrate] warn: schools npsn index: %v", err)
	}

	reports := DB.Collection("reports")
	if _, err := reports.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "npsn", Value: 1}, {Key: "month", Value: 1}, {Key: "year", Value: 1}},
	}); err != nil {
		log.Printf("[migrate] warn: reports period index: %v", err)
	}

	users := DB.Collection("users")
	if _, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "username", Value: 1}},
	}); err != nil {
		log.Printf("[migrate] warn: users username index: %v", err)
	}
}

// Disconnect closes the client; used by scripts and tests.
func Disconnect(ctx context.Context) {
	if Client != nil {
		_ = Client.Disconnect(ctx)
	}
}
