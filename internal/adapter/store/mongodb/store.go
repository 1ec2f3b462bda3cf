package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/domain"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/platform/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	zap "go.uber.org/zap"
)

// codeUnauthorized is the server error code for a denied operation.
const codeUnauthorized = 13

const fallbackPollInterval = 2 * time.Second

// Store implements domain.RecordStore on top of MongoDB. Each record
// collection maps to a Mongo collection keyed by a string _id.
type Store struct {
	db           *mongo.Database
	policy       domain.AccessPolicy
	logger       *logger.Logger
	pollInterval time.Duration
}

// NewStore creates a MongoDB record store. A nil policy allows everything.
func NewStore(db *mongo.Database, policy domain.AccessPolicy, log *logger.Logger) *Store {
	if policy == nil {
		policy = domain.AllowAll{}
	}
	return &Store{
		db:           db,
		policy:       policy,
		logger:       log.Named("MongoRecordStore"),
		pollInterval: fallbackPollInterval,
	}
}

// EnsureIndexes creates the lookup indexes used by the directory matcher and
// the feed ordering. Failures are logged, not returned.
func (s *Store) EnsureIndexes(ctx context.Context) {
	indexes := map[string][]mongo.IndexModel{
		domain.CollectionDirectoryBuyers: {
			{Keys: bson.D{{Key: "normalizedPhone", Value: 1}}},
			{Keys: bson.D{{Key: "normalizedEmail", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: 1}}},
		},
		domain.CollectionAds: {
			{Keys: bson.D{{Key: "createdAt", Value: 1}}},
		},
		domain.CollectionDirectoryClaims: {
			{Keys: bson.D{{Key: "directoryBuyerId", Value: 1}}},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	for name, models := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			s.logger.Error("Failed to create indexes", zap.String("collection", name), zap.Error(err))
			continue
		}
		s.logger.Info("Successfully ensured indexes", zap.String("collection", name))
	}
}

// GenerateID returns a new ObjectID hex string. ObjectIDs grow with time,
// so ordering by id follows insertion order.
func (s *Store) GenerateID(string) string {
	return primitive.NewObjectID().Hex()
}

func (s *Store) Get(ctx context.Context, collection, id string) (domain.Record, error) {
	var doc bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Record{}, fmt.Errorf("%w: %s/%s", domain.ErrNotFound, collection, id)
		}
		s.logger.Error("Failed to get record", zap.String("collection", collection), zap.String("id", id), zap.Error(err))
		return domain.Record{}, s.translate(err)
	}
	return toRecord(doc), nil
}

// QueryByField returns matching records ordered by ascending _id.
func (s *Store) QueryByField(ctx context.Context, collection, field string, value interface{}) ([]domain.Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{field: value}, opts)
	if err != nil {
		s.logger.Error("Failed to query records", zap.String("collection", collection), zap.String("field", field), zap.Error(err))
		return nil, s.translate(err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		s.logger.Error("Failed to decode queried records", zap.String("collection", collection), zap.Error(err))
		return nil, s.translate(err)
	}
	return toRecords(docs), nil
}

// Write replaces the document at id, creating it when missing.
func (s *Store) Write(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	if err := domain.CheckNoAbsentFields(fields); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: empty record id", domain.ErrInvalidInput)
	}
	if !s.policy.AllowWrite(collection, id) {
		return fmt.Errorf("%w: write %s/%s", domain.ErrAccessDenied, collection, id)
	}

	doc := toDocument(fields)
	_, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		s.logger.Error("Failed to write record", zap.String("collection", collection), zap.String("id", id), zap.Error(err))
		return s.translate(err)
	}
	s.logger.Debug("Record written", zap.String("collection", collection), zap.String("id", id))
	return nil
}

// Update sets the given fields on an existing document.
func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	if err := domain.CheckNoAbsentFields(fields); err != nil {
		return err
	}
	if _, open := s.policy.(domain.AllowAll); !open {
		current, err := s.Get(ctx, collection, id)
		if err != nil {
			return err
		}
		if !s.policy.AllowUpdate(collection, current) {
			s.logger.Debug("Update denied by access policy", zap.String("collection", collection), zap.String("id", id))
			return fmt.Errorf("%w: update %s/%s", domain.ErrAccessDenied, collection, id)
		}
	}

	result, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": toDocument(fields)})
	if err != nil {
		s.logger.Warn("Failed to update record", zap.String("collection", collection), zap.String("id", id), zap.Error(err))
		return s.translate(err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s/%s", domain.ErrNotFound, collection, id)
	}
	s.logger.Debug("Record updated", zap.String("collection", collection), zap.String("id", id))
	return nil
}

// translate maps driver errors onto the domain sentinels.
func (s *Store) translate(err error) error {
	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) && serverErr.HasErrorCode(codeUnauthorized) {
		return fmt.Errorf("%w: %v", domain.ErrAccessDenied, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}

func (s *Store) snapshot(ctx context.Context, collection, orderField string) (domain.Snapshot, error) {
	sortKeys := bson.D{}
	if orderField != "" {
		sortKeys = append(sortKeys, bson.E{Key: orderField, Value: 1})
	}
	sortKeys = append(sortKeys, bson.E{Key: "_id", Value: 1})

	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{}, options.Find().SetSort(sortKeys))
	if err != nil {
		return nil, s.translate(err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, s.translate(err)
	}
	return domain.Snapshot(toRecords(docs)), nil
}
