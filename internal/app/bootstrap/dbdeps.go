// internal/app/bootstrap/dbdeps.go
package bootstrap

import "go.mongodb.org/mongo-driver/mongo"

// DBDeps bundles the database handles WAFFLE threads through the
// lifecycle hooks. Everything downstream (stores, handlers, workers)
// receives the database from here.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
}
