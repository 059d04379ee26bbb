package study

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CollectionName is the MongoDB collection study records live in.
const CollectionName = "study_sessions"

type studyDocument struct {
	ID        bson.ObjectID `bson:"_id"`
	Email     string        `bson:"email"`
	Title     string        `bson:"title"`
	Time      float64       `bson:"time"`
	CreatedAt time.Time     `bson:"created_at"`
}

func (d studyDocument) record() Record {
	return Record{
		StudyData: StudyData{
			ID:    d.ID.Hex(),
			Email: d.Email,
			Title: d.Title,
			Time:  d.Time,
		},
		CreatedAt: d.CreatedAt,
	}
}

// MongoStorage stores records in the study_sessions collection, keyed by
// ObjectID. Record IDs are the ObjectID hex.
type MongoStorage struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoStorage(db *mongo.Database) *MongoStorage {
	return &MongoStorage{coll: db.Collection(CollectionName), now: time.Now}
}

// EnsureIndexes creates the email/created_at index used by ListByEmail.
func (s *MongoStorage) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("email_created_at"),
	})
	return err
}

func (s *MongoStorage) Create(ctx context.Context, rec Record) (Record, error) {
	doc := studyDocument{
		ID:        bson.NewObjectID(),
		Email:     rec.Email,
		Title:     rec.Title,
		Time:      rec.Time,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return Record{}, err
	}
	return doc.record(), nil
}

func (s *MongoStorage) Get(ctx context.Context, id string) (Record, error) {
	oid, err := parseID(id)
	if err != nil {
		return Record{}, err
	}
	var doc studyDocument
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return doc.record(), nil
}

func (s *MongoStorage) ListByEmail(ctx context.Context, email string, limit int) ([]Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.coll.Find(ctx, bson.M{"email": email}, opts)
	if err != nil {
		return nil, err
	}
	var docs []studyDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.record())
	}
	return out, nil
}

func (s *MongoStorage) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func parseID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, errors.Join(ErrInvalidID, err)
	}
	return oid, nil
}
