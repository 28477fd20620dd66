// Package mongodb owns the process-wide MongoDB connection and defines the
// narrow driver surface that the operation gateway dispatches against.
//
// The Database and Collection interfaces exist so that the gateway can be
// tested without a live server; the only production implementation wraps
// *mongo.Database and *mongo.Collection from the official driver.
package mongodb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

//go:generate mockgen -destination mock_mongodb/mock_mongodb.go . Database,Collection

// Database is the database-level surface used by the gateway.
type Database interface {
	// Name returns the name of the target database.
	Name() string
	// Collection resolves a collection handle by name.
	Collection(name string) Collection
	// ListCollectionNames returns the names of the collections matching filter.
	ListCollectionNames(ctx context.Context, filter any) ([]string, error)
	// RunCommand runs a database command and returns its decoded reply with
	// field order preserved.
	RunCommand(ctx context.Context, cmd any) (bson.D, error)
}

// Collection is the collection-level surface used by the gateway.
type Collection interface {
	// Name returns the collection name.
	Name() string
	// Find returns a cursor over the documents matching filter.
	Find(ctx context.Context, filter any, opts FindOptions) (*mongo.Cursor, error)
	// Aggregate runs an aggregation pipeline and returns a cursor over its output.
	Aggregate(ctx context.Context, pipeline any) (*mongo.Cursor, error)
	// CountDocuments counts the documents matching filter.
	CountDocuments(ctx context.Context, filter any) (int64, error)
	// Distinct returns the distinct values of field across documents matching filter.
	Distinct(ctx context.Context, field string, filter any) ([]any, error)
	// UpdateOne applies update to the first document matching filter.
	UpdateOne(ctx context.Context, filter, update any, upsert bool) (*mongo.UpdateResult, error)
	// UpdateMany applies update to every document matching filter.
	UpdateMany(ctx context.Context, filter, update any, upsert bool) (*mongo.UpdateResult, error)
	// InsertMany inserts docs and returns the assigned document IDs in order.
	// ordered stops the insert at the first failure, matching the server's
	// default behavior.
	InsertMany(ctx context.Context, docs []any, ordered bool) ([]any, error)
	// CreateIndex creates an index with the given key specification.
	CreateIndex(ctx context.Context, keys any, opts IndexOptions) (string, error)
	// Indexes returns the collection's current index catalog.
	Indexes(ctx context.Context) ([]IndexSpec, error)
}

// FindOptions carries the normalized options for a Find call.  Zero values
// mean "not set".
type FindOptions struct {
	Projection any
	Sort       any
	Limit      int64
	Skip       int64
}

// IndexOptions carries the subset of index options accepted by the
// createIndex operation.
type IndexOptions struct {
	Name               string
	Unique             bool
	Sparse             bool
	ExpireAfterSeconds *int32
}

// IndexSpec describes one entry of a collection's index catalog.
type IndexSpec struct {
	Name string `bson:"name" json:"name"`
	Keys bson.D `bson:"key" json:"keySpec"`
}

// MarshalJSON renders the key specification as a document with field order
// preserved instead of encoding/json's slice-of-pairs form for bson.D.
func (s IndexSpec) MarshalJSON() ([]byte, error) {
	name, err := json.Marshal(s.Name)
	if err != nil {
		return nil, err
	}
	keys := []byte("{}")
	if len(s.Keys) > 0 {
		keys, err = bson.MarshalExtJSON(s.Keys, false, false)
		if err != nil {
			return nil, err
		}
	}
	var buf bytes.Buffer
	buf.WriteString(`{"name":`)
	buf.Write(name)
	buf.WriteString(`,"keySpec":`)
	buf.Write(keys)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Conn is the process-wide connection to a single MongoDB database.  It is
// created once at startup and is immutable afterwards.
type Conn struct {
	client   *mongo.Client
	db       *mongo.Database
	readOnly bool
}

// Connect establishes the connection described by uri and verifies it with a
// ping.  The database is taken from the URI path.  In read-only mode reads
// prefer a secondary replica; otherwise the primary is used.
func Connect(ctx context.Context, uri string, readOnly bool) (*Conn, error) {
	dbName, err := databaseName(uri)
	if err != nil {
		return nil, err
	}

	rp := readpref.Primary()
	if readOnly {
		rp = readpref.SecondaryPreferred()
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri).SetReadPreference(rp))
	if err != nil {
		return nil, fmt.Errorf("mongodb: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb: ping: %w", err)
	}

	return &Conn{
		client:   client,
		db:       client.Database(dbName),
		readOnly: readOnly,
	}, nil
}

// Close releases the underlying client connection.
func (c *Conn) Close(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongodb: disconnect: %w", err)
	}
	return nil
}

// ReadOnly reports whether the connection was opened in read-only mode.
func (c *Conn) ReadOnly() bool { return c.readOnly }

// Name returns the name of the connected database.
func (c *Conn) Name() string { return c.db.Name() }

// Database returns the database handle for the gateway.  It panics if the
// connection was not established; calling it before a successful Connect is
// a programming error.
func (c *Conn) Database() Database {
	if c == nil || c.db == nil {
		panic("mongodb: Database called before Connect")
	}
	return &liveDatabase{db: c.db}
}

// databaseName extracts the database name from the connection string path.
// Both mongodb:// and mongodb+srv:// schemes are accepted.
func databaseName(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("mongodb: malformed connection string: %w", err)
	}
	if u.Scheme != "mongodb" && u.Scheme != "mongodb+srv" {
		return "", fmt.Errorf("mongodb: unsupported scheme %q", u.Scheme)
	}
	name := strings.TrimPrefix(u.Path, "/")
	if name == "" {
		return "", errors.New("mongodb: connection string must name a database, e.g. mongodb://localhost:27017/mydb")
	}
	return name, nil
}

// liveDatabase adapts *mongo.Database to the Database interface.
type liveDatabase struct {
	db *mongo.Database
}

func (d *liveDatabase) Name() string { return d.db.Name() }

func (d *liveDatabase) Collection(name string) Collection {
	return &liveCollection{col: d.db.Collection(name)}
}

func (d *liveDatabase) ListCollectionNames(ctx context.Context, filter any) ([]string, error) {
	return d.db.ListCollectionNames(ctx, filter)
}

func (d *liveDatabase) RunCommand(ctx context.Context, cmd any) (bson.D, error) {
	var reply bson.D
	if err := d.db.RunCommand(ctx, cmd).Decode(&reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// liveCollection adapts *mongo.Collection to the Collection interface.
type liveCollection struct {
	col *mongo.Collection
}

func (c *liveCollection) Name() string { return c.col.Name() }

func (c *liveCollection) Find(ctx context.Context, filter any, opts FindOptions) (*mongo.Cursor, error) {
	fo := options.Find()
	if opts.Projection != nil {
		fo.SetProjection(opts.Projection)
	}
	if opts.Sort != nil {
		fo.SetSort(opts.Sort)
	}
	if opts.Limit > 0 {
		fo.SetLimit(opts.Limit)
	}
	if opts.Skip > 0 {
		fo.SetSkip(opts.Skip)
	}
	return c.col.Find(ctx, filter, fo)
}

func (c *liveCollection) Aggregate(ctx context.Context, pipeline any) (*mongo.Cursor, error) {
	return c.col.Aggregate(ctx, pipeline)
}

func (c *liveCollection) CountDocuments(ctx context.Context, filter any) (int64, error) {
	return c.col.CountDocuments(ctx, filter)
}

func (c *liveCollection) Distinct(ctx context.Context, field string, filter any) ([]any, error) {
	var values []any
	if err := c.col.Distinct(ctx, field, filter).Decode(&values); err != nil {
		return nil, err
	}
	return values, nil
}

func (c *liveCollection) UpdateOne(ctx context.Context, filter, update any, upsert bool) (*mongo.UpdateResult, error) {
	return c.col.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(upsert))
}

func (c *liveCollection) UpdateMany(ctx context.Context, filter, update any, upsert bool) (*mongo.UpdateResult, error) {
	return c.col.UpdateMany(ctx, filter, update, options.UpdateMany().SetUpsert(upsert))
}

func (c *liveCollection) InsertMany(ctx context.Context, docs []any, ordered bool) ([]any, error) {
	res, err := c.col.InsertMany(ctx, docs, options.InsertMany().SetOrdered(ordered))
	if err != nil {
		return nil, err
	}
	return res.InsertedIDs, nil
}

func (c *liveCollection) CreateIndex(ctx context.Context, keys any, opts IndexOptions) (string, error) {
	io := options.Index()
	if opts.Name != "" {
		io.SetName(opts.Name)
	}
	if opts.Unique {
		io.SetUnique(true)
	}
	if opts.Sparse {
		io.SetSparse(true)
	}
	if opts.ExpireAfterSeconds != nil {
		io.SetExpireAfterSeconds(*opts.ExpireAfterSeconds)
	}
	return c.col.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys, Options: io})
}

func (c *liveCollection) Indexes(ctx context.Context) ([]IndexSpec, error) {
	cur, err := c.col.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	var specs []IndexSpec
	if err := cur.All(ctx, &specs); err != nil {
		return nil, err
	}
	return specs, nil
}
