package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"medlicense/internal/license/models"
)

const collectionName = "licenses"

// MongoStore persists license records in a MongoDB collection. Folio
// uniqueness is enforced by a unique index, which is the real guard against
// concurrent creations racing past the generation loop.
type MongoStore struct {
	coll   *mongo.Collection
	client *mongo.Client
}

// NewMongo creates a store backed by the given database.
func NewMongo(db *mongo.Database) *MongoStore {
	return &MongoStore{
		coll:   db.Collection(collectionName),
		client: db.Client(),
	}
}

// EnsureIndexes creates the unique folio index and the patient listing
// index. Call once at startup.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "folio", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "patientId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("create license indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) Insert(ctx context.Context, license *models.License) error {
	_, err := s.coll.InsertOne(ctx, license)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateFolio
		}
		return fmt.Errorf("insert license: %w", err)
	}
	return nil
}

func (s *MongoStore) FindByFolio(ctx context.Context, folio string) (*models.License, error) {
	var license models.License
	err := s.coll.FindOne(ctx, bson.M{"folio": folio}).Decode(&license)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find license by folio: %w", err)
	}
	return &license, nil
}

func (s *MongoStore) FindByPatient(ctx context.Context, patientID string) ([]*models.License, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{"patientId": patientID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find licenses by patient: %w", err)
	}
	defer cursor.Close(ctx)

	licenses := make([]*models.License, 0)
	if err := cursor.All(ctx, &licenses); err != nil {
		return nil, fmt.Errorf("decode licenses: %w", err)
	}
	return licenses, nil
}

func (s *MongoStore) DeleteByFolio(ctx context.Context, folio string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"folio": folio}); err != nil {
		return fmt.Errorf("delete license by folio: %w", err)
	}
	return nil
}

func (s *MongoStore) DeleteByPatient(ctx context.Context, patientID string) error {
	if _, err := s.coll.DeleteMany(ctx, bson.M{"patientId": patientID}); err != nil {
		return fmt.Errorf("delete licenses by patient: %w", err)
	}
	return nil
}

// Ping drives the health endpoint's database field.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}
