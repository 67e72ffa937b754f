package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fleetcrm/fleetcrm/application/port/outbound"
	"github.com/fleetcrm/fleetcrm/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type auditRepository struct {
	collection *mongo.Collection
}

// NewAuditRepository stores audit records as documents in collection
func NewAuditRepository(collection *mongo.Collection) outbound.AuditRepository {
	return &auditRepository{collection: collection}
}

// Connect opens a client and verifies the deployment is reachable
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

// AuditIndexes are the secondary indexes matching the audit filters
func AuditIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "entity_type", Value: 1}, {Key: "entity_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "action", Value: 1}, {Key: "timestamp", Value: -1}}},
	}
}

// EnsureIndexes creates the audit indexes if they are missing
func EnsureIndexes(ctx context.Context, collection *mongo.Collection) error {
	if _, err := collection.Indexes().CreateMany(ctx, AuditIndexes()); err != nil {
		return fmt.Errorf("failed to create audit indexes: %w", err)
	}
	return nil
}

func (r *auditRepository) Insert(ctx context.Context, record *domain.AuditRecord) error {
	if _, err := r.collection.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to insert audit record: %w", err)
	}
	return nil
}

func (r *auditRepository) FindByID(ctx context.Context, id string) (*domain.AuditRecord, error) {
	var record domain.AuditRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, outbound.ErrAuditRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find audit record: %w", err)
	}
	record.Timestamp = record.Timestamp.UTC()
	return &record, nil
}

func (r *auditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditRecord, int, error) {
	query := buildAuditQuery(filter)

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count audit records: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(filter.Offset))
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer cursor.Close(ctx)

	records := make([]*domain.AuditRecord, 0)
	for cursor.Next(ctx) {
		var rec domain.AuditRecord
		if err := cursor.Decode(&rec); err != nil {
			return nil, 0, fmt.Errorf("failed to decode audit record: %w", err)
		}
		rec.Timestamp = rec.Timestamp.UTC()
		records = append(records, &rec)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate audit records: %w", err)
	}

	return records, int(total), nil
}

func buildAuditQuery(filter domain.AuditFilter) bson.M {
	query := bson.M{}
	if filter.Action != "" {
		query["action"] = filter.Action
	}
	if filter.EntityType != "" {
		query["entity_type"] = filter.EntityType
	}
	if filter.EntityID != "" {
		query["entity_id"] = filter.EntityID
	}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}
	if filter.From != nil || filter.To != nil {
		ts := bson.M{}
		if filter.From != nil {
			ts["$gte"] = filter.From.UTC()
		}
		if filter.To != nil {
			ts["$lte"] = filter.To.UTC()
		}
		query["timestamp"] = ts
	}
	return query
}
