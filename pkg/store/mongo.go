package store

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/xdsm/pkg/errors"
	"github.com/matzehuels/xdsm/pkg/io"
)

// Mongo defaults.
const (
	DefaultMongoDatabase   = "xdsm"
	DefaultMongoCollection = "diagrams"
)

// MongoOptions configures a MongoStore.
type MongoOptions struct {
	URI        string
	Database   string // Defaults to DefaultMongoDatabase
	Collection string // Defaults to DefaultMongoCollection
}

// MongoStore stores diagrams in a MongoDB collection.
//
// Definitions are kept as JSON text: their labels and options are untyped,
// and BSON would decode them into driver-specific container types.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoDiagram struct {
	ID         string    `bson:"_id"`
	Name       string    `bson:"name"`
	Definition string    `bson:"definition"`
	CreatedAt  time.Time `bson:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at"`
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	if opts.URI == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "mongo uri is required")
	}
	if opts.Database == "" {
		opts.Database = DefaultMongoDatabase
	}
	if opts.Collection == "" {
		opts.Collection = DefaultMongoCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "ping mongo")
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(opts.Database).Collection(opts.Collection),
	}, nil
}

func (s *MongoStore) Put(ctx context.Context, rec *Diagram) error {
	if err := validateRecord(rec); err != nil {
		return err
	}
	def, err := json.Marshal(rec.Definition)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal definition")
	}
	doc := mongoDiagram{
		ID:         rec.ID,
		Name:       rec.Name,
		Definition: string(def),
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": rec.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "store diagram %s", rec.ID)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Diagram, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	var doc mongoDiagram
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load diagram %s", id)
	}
	return doc.record()
}

func (s *MongoStore) List(ctx context.Context) ([]*Diagram, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list diagrams")
	}
	defer cur.Close(ctx)

	var docs []mongoDiagram
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode diagrams")
	}
	out := make([]*Diagram, 0, len(docs))
	for _, doc := range docs {
		rec, err := doc.record()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete diagram %s", id)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

// Drop removes the whole collection. It is used by tests.
func (s *MongoStore) Drop(ctx context.Context) error {
	return s.coll.Drop(ctx)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (d mongoDiagram) record() (*Diagram, error) {
	var def io.Definition
	if err := json.Unmarshal([]byte(d.Definition), &def); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode definition of %s", d.ID)
	}
	return &Diagram{
		ID:         d.ID,
		Name:       d.Name,
		Definition: &def,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}, nil
}

var _ Store = (*MongoStore)(nil)
