// Package mongo implements the remote document store on MongoDB. Each
// restaurant is one document keyed by its URL; dotted-path $set updates give
// merge-patch semantics and $unset gives field deletion.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/menupilot/menupilot/internal/schema"
)

// restaurantDoc is the remote document shape.
type restaurantDoc struct {
	URL         string                       `bson:"_id"`
	Name        string                       `bson:"name"`
	Info        schema.RestaurantProfile     `bson:"info"`
	Menu        schema.Menu                  `bson:"menu"`
	LinkedUsers map[string]schema.LinkedUser `bson:"linkedUsers"`
}

// DocumentStore implements store.DocumentStore backed by a MongoDB
// collection.
type DocumentStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// Connect dials MongoDB and returns a DocumentStore over the given database
// and collection.
func Connect(ctx context.Context, uri, database, collection string) (*DocumentStore, error) {
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	clientOptions := options.Client().ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("cannot ping MongoDB: %w", err)
	}

	return &DocumentStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

// Close disconnects the underlying client.
func (s *DocumentStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("cannot disconnect from MongoDB: %w", err)
	}
	return nil
}

func (s *DocumentStore) get(ctx context.Context, url string) (*restaurantDoc, error) {
	var doc restaurantDoc
	err := s.collection.FindOne(ctx, bson.M{"_id": url}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &schema.NotFoundError{What: "restaurant " + url}
		}
		return nil, &schema.StoreError{Op: "find restaurant", Err: err}
	}
	return &doc, nil
}

// GetMenu returns the menu of the restaurant at url.
func (s *DocumentStore) GetMenu(ctx context.Context, url string) (schema.Menu, error) {
	doc, err := s.get(ctx, url)
	if err != nil {
		return nil, err
	}
	if doc.Menu == nil {
		return schema.Menu{}, nil
	}
	return doc.Menu, nil
}

// GetProfile returns the restaurant profile at url.
func (s *DocumentStore) GetProfile(ctx context.Context, url string) (schema.RestaurantProfile, error) {
	doc, err := s.get(ctx, url)
	if err != nil {
		return schema.RestaurantProfile{}, err
	}
	return doc.Info, nil
}

// GetLinkedUsers returns the staff accounts linked to the restaurant.
func (s *DocumentStore) GetLinkedUsers(ctx context.Context, url string) (map[string]schema.LinkedUser, error) {
	doc, err := s.get(ctx, url)
	if err != nil {
		return nil, err
	}
	return doc.LinkedUsers, nil
}

// ApplyMenuPatch merges fields into the document at the dotted path without
// touching sibling dishes or categories. The document is upserted so a first
// mutation works against a fresh restaurant.
func (s *DocumentStore) ApplyMenuPatch(ctx context.Context, url, path string, fields map[string]any) error {
	set := bson.M{}
	for k, v := range fields {
		set[path+"."+k] = v
	}

	_, err := s.collection.UpdateOne(
		ctx,
		bson.M{"_id": url},
		bson.M{"$set": set},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return &schema.StoreError{Op: "apply menu patch", Err: err}
	}
	return nil
}

// DeleteMenuField removes the field at the dotted path. $unset on an absent
// path matches nothing and is not an error, which gives the delete-if-exists
// semantics callers rely on.
func (s *DocumentStore) DeleteMenuField(ctx context.Context, url, path string) error {
	_, err := s.collection.UpdateOne(
		ctx,
		bson.M{"_id": url},
		bson.M{"$unset": bson.M{path: ""}},
	)
	if err != nil {
		return &schema.StoreError{Op: "delete menu field", Err: err}
	}
	return nil
}
