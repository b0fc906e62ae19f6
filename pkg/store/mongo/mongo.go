// Package mongo stores glossary nodes in a MongoDB collection.
//
// Each node is one document keyed by a unique nodeUri index. Subtree queries
// use an anchored regex on the indexed path field, which MongoDB serves as a
// range scan.
package mongo

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/catalogtree/pkg/cache"
	"github.com/matzehuels/catalogtree/pkg/errors"
	"github.com/matzehuels/catalogtree/pkg/glossary"
	"github.com/matzehuels/catalogtree/pkg/observability"
	"github.com/matzehuels/catalogtree/pkg/store"
)

const backend = store.BackendMongo

// Defaults applied by Connect.
const (
	DefaultDatabase   = "catalogtree"
	DefaultCollection = "glossary_nodes"
)

// Config locates the collection.
type Config struct {
	URI        string
	Database   string
	Collection string
}

// Store is a store.Store backed by MongoDB.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Connect dials cfg.URI, pings the server with retries and ensures indexes.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "connect %s", cfg.URI)
	}
	err = cache.RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx, nil); err != nil {
			return cache.Retryable(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "ping %s", cfg.URI)
	}

	s := &Store{client: client, coll: client.Database(cfg.Database).Collection(cfg.Collection)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "nodeUri", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "path", Value: 1}}},
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "create indexes")
	}
	return nil
}

// ListNodes implements store.Store.
func (s *Store) ListNodes(ctx context.Context, q store.Query) (nodes []glossary.Node, err error) {
	start := time.Now()
	observability.Store().OnQueryStart(ctx, backend, q.RootPath)
	defer func() {
		observability.Store().OnQueryComplete(ctx, backend, q.RootPath, len(nodes), time.Since(start), err)
	}()

	opts := options.Find().SetSort(bson.D{{Key: "path", Value: 1}, {Key: "nodeUri", Value: 1}})
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	cur, err := s.coll.Find(ctx, filter(q), opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "find nodes")
	}
	nodes = []glossary.Node{}
	if err := cur.All(ctx, &nodes); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "decode nodes")
	}
	return nodes, nil
}

// PutNodes implements store.Store with one unordered bulk upsert.
func (s *Store) PutNodes(ctx context.Context, nodes []glossary.Node) error {
	if len(nodes) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, len(nodes))
	for i, n := range nodes {
		models[i] = mongo.NewReplaceOneModel().
			SetFilter(bson.M{"nodeUri": n.NodeURI}).
			SetReplacement(n).
			SetUpsert(true)
	}
	if _, err := s.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "write %d nodes", len(nodes))
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// filter translates q into a MongoDB query document.
func filter(q store.Query) bson.M {
	f := bson.M{}
	if q.RootPath != "" && q.RootPath != "/" {
		f["$or"] = bson.A{
			bson.M{"path": q.RootPath},
			bson.M{"path": bson.M{"$regex": "^" + regexp.QuoteMeta(store.PathPrefix(q.RootPath))}},
		}
	}
	if !q.IncludeDeleted {
		// Missing fields compare equal to null.
		f["deleted"] = bson.M{"$in": bson.A{"", nil}}
	}
	return f
}

var _ store.Store = (*Store)(nil)
