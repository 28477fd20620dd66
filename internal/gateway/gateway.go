package gateway

// In this file: the operation dispatcher.  Each operation applies the guard,
// normalizes its arguments, drives the database and formats the outcome.

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/satyajeetjadhav/mcp-mongo-server/internal/mongodb"
)

// Gateway executes named operations against a single MongoDB database.  All
// fields are set at construction and never mutated; a Gateway is safe for
// use across requests.
type Gateway struct {
	db       mongodb.Database
	readOnly bool
	debug    bool
	logger   *slog.Logger
}

// Config configures a Gateway.
type Config struct {
	// DB is the database handle all operations run against.
	DB mongodb.Database
	// ReadOnly blocks write operations and is reported by serverInfo.
	ReadOnly bool
	// Debug includes extended diagnostics in serverInfo replies.
	Debug bool
	// Logger receives per-operation debug logging.  Defaults to
	// slog.Default when nil.
	Logger *slog.Logger
}

// New creates a Gateway from cfg.
func New(cfg Config) *Gateway {
	lg := cfg.Logger
	if lg == nil {
		lg = slog.Default()
	}
	return &Gateway{
		db:       cfg.DB,
		readOnly: cfg.ReadOnly,
		debug:    cfg.Debug,
		logger:   lg,
	}
}

// ReadOnly reports whether the gateway denies write operations.
func (g *Gateway) ReadOnly() bool { return g.readOnly }

// DatabaseName returns the name of the target database.
func (g *Gateway) DatabaseName() string { return g.db.Name() }

// Dispatch runs the operation named op with the given argument bag and
// returns the formatted result.
func (g *Gateway) Dispatch(ctx context.Context, op Operation, args Args) (string, *Error) {
	switch op {
	case OpQuery:
		return g.Query(ctx, args)
	case OpAggregate:
		return g.Aggregate(ctx, args)
	case OpCount:
		return g.Count(ctx, args)
	case OpDistinct:
		return g.Distinct(ctx, args)
	case OpUpdate:
		return g.Update(ctx, args)
	case OpInsert:
		return g.Insert(ctx, args)
	case OpCreateIndex:
		return g.CreateIndex(ctx, args)
	case OpServerInfo:
		return g.ServerInfo(ctx, args)
	default:
		return "", errf(CodeInvalidQuery, "unknown operation %q", op)
	}
}

// ListCollections returns the names of the database's collections, with
// reserved system namespaces filtered out.
func (g *Gateway) ListCollections(ctx context.Context) ([]string, *Error) {
	names, err := g.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, reclassify(OpQuery, "", err)
	}
	visible := names[:0]
	for _, name := range names {
		if g.Authorize(OpQuery, name) == nil {
			visible = append(visible, name)
		}
	}
	return visible, nil
}

// Query materializes the documents matching the filter, bounded by the
// default limit of 100 unless the caller gives one, preserving natural
// cursor order.
func (g *Gateway) Query(ctx context.Context, args Args) (string, *Error) {
	coll, gwErr := args.collection()
	if gwErr != nil {
		return "", gwErr
	}
	if gwErr := g.Authorize(OpQuery, coll); gwErr != nil {
		return "", gwErr
	}
	filter, gwErr := parseFilter(args["filter"])
	if gwErr != nil {
		return "", gwErr
	}
	projection, gwErr := parseProjection(args["projection"])
	if gwErr != nil {
		return "", gwErr
	}
	sort, gwErr := parseSort(args["sort"])
	if gwErr != nil {
		return "", gwErr
	}
	limit, gwErr := parseLimit(args["limit"], defQueryLimit)
	if gwErr != nil {
		return "", gwErr
	}
	skip, gwErr := parseSkip(args["skip"])
	if gwErr != nil {
		return "", gwErr
	}

	g.logger.DebugContext(ctx, "query", "collection", coll, "limit", limit, "skip", skip)

	cur, err := g.db.Collection(coll).Find(ctx, filter, mongodb.FindOptions{
		Projection: projection,
		Sort:       sort,
		Limit:      limit,
		Skip:       skip,
	})
	if err != nil {
		return "", reclassify(OpQuery, coll, err)
	}
	var docs []bson.D
	if err := cur.All(ctx, &docs); err != nil {
		return "", reclassify(OpQuery, coll, err)
	}
	return format(OpQuery, coll, docs)
}

// Aggregate runs the validated pipeline and materializes all results.  It
// carries no default result bound.
func (g *Gateway) Aggregate(ctx context.Context, args Args) (string, *Error) {
	coll, gwErr := args.collection()
	if gwErr != nil {
		return "", gwErr
	}
	if gwErr := g.Authorize(OpAggregate, coll); gwErr != nil {
		return "", gwErr
	}
	pipeline, gwErr := parsePipeline(args["pipeline"])
	if gwErr != nil {
		return "", gwErr
	}

	g.logger.DebugContext(ctx, "aggregate", "collection", coll, "stages", len(pipeline))

	cur, err := g.db.Collection(coll).Aggregate(ctx, pipeline)
	if err != nil {
		return "", reclassify(OpAggregate, coll, err)
	}
	var docs []bson.D
	if err := cur.All(ctx, &docs); err != nil {
		return "", reclassify(OpAggregate, coll, err)
	}
	return format(OpAggregate, coll, docs)
}

// Count returns the number of documents matching the filter.
func (g *Gateway) Count(ctx context.Context, args Args) (string, *Error) {
	coll, gwErr := args.collection()
	if gwErr != nil {
		return "", gwErr
	}
	if gwErr := g.Authorize(OpCount, coll); gwErr != nil {
		return "", gwErr
	}
	filter, gwErr := parseFilter(args["filter"])
	if gwErr != nil {
		return "", gwErr
	}

	n, err := g.db.Collection(coll).CountDocuments(ctx, filter)
	if err != nil {
		return "", reclassify(OpCount, coll, err)
	}
	return format(OpCount, coll, n)
}

// Distinct returns the distinct values of the named field.
func (g *Gateway) Distinct(ctx context.Context, args Args) (string, *Error) {
	coll, gwErr := args.collection()
	if gwErr != nil {
		return "", gwErr
	}
	if gwErr := g.Authorize(OpDistinct, coll); gwErr != nil {
		return "", gwErr
	}
	field, gwErr := args.field()
	if gwErr != nil {
		return "", gwErr
	}
	filter, gwErr := parseFilter(args["filter"])
	if gwErr != nil {
		return "", gwErr
	}

	values, err := g.db.Collection(coll).Distinct(ctx, field, filter)
	if err != nil {
		return "", reclassify(OpDistinct, coll, err)
	}
	if values == nil {
		values = []any{}
	}
	return format(OpDistinct, coll, values)
}

// Update applies the update specification to matching documents, honoring
// the upsert and multi flags, and reports the matched, modified and
// upserted counts.
func (g *Gateway) Update(ctx context.Context, args Args) (string, *Error) {
	coll, gwErr := args.collection()
	if gwErr != nil {
		return "", gwErr
	}
	if gwErr := g.Authorize(OpUpdate, coll); gwErr != nil {
		return "", gwErr
	}
	filter, gwErr := requireFilter(args["filter"])
	if gwErr != nil {
		return "", gwErr
	}
	update, gwErr := parseUpdate(args["update"])
	if gwErr != nil {
		return "", gwErr
	}
	upsert, _ := args["upsert"].(bool)
	multi, _ := args["multi"].(bool)

	g.logger.DebugContext(ctx, "update", "collection", coll, "upsert", upsert, "multi", multi)

	c := g.db.Collection(coll)
	var (
		res *mongo.UpdateResult
		err error
	)
	if multi {
		res, err = c.UpdateMany(ctx, filter, update, upsert)
	} else {
		res, err = c.UpdateOne(ctx, filter, update, upsert)
	}
	if err != nil {
		return "", reclassify(OpUpdate, coll, err)
	}

	out := bson.D{
		{Key: "matchedCount", Value: res.MatchedCount},
		{Key: "modifiedCount", Value: res.ModifiedCount},
		{Key: "upsertedCount", Value: res.UpsertedCount},
	}
	if res.UpsertedID != nil {
		out = append(out, bson.E{Key: "upsertedId", Value: res.UpsertedID})
	}
	return format(OpUpdate, coll, out)
}

// Insert inserts the document sequence and returns the assigned IDs in
// order.
func (g *Gateway) Insert(ctx context.Context, args Args) (string, *Error) {
	coll, gwErr := args.collection()
	if gwErr != nil {
		return "", gwErr
	}
	if gwErr := g.Authorize(OpInsert, coll); gwErr != nil {
		return "", gwErr
	}
	docs, gwErr := parseDocuments(args["documents"])
	if gwErr != nil {
		return "", gwErr
	}
	ordered, gwErr := parseWriteOptions(args["writeOptions"])
	if gwErr != nil {
		return "", gwErr
	}

	g.logger.DebugContext(ctx, "insert", "collection", coll, "documents", len(docs))

	ids, err := g.db.Collection(coll).InsertMany(ctx, docs, ordered)
	if err != nil {
		return "", reclassify(OpInsert, coll, err)
	}
	return format(OpInsert, coll, bson.D{{Key: "insertedIds", Value: ids}})
}

// CreateIndex creates an index from the key specification and returns its
// name.
func (g *Gateway) CreateIndex(ctx context.Context, args Args) (string, *Error) {
	coll, gwErr := args.collection()
	if gwErr != nil {
		return "", gwErr
	}
	if gwErr := g.Authorize(OpCreateIndex, coll); gwErr != nil {
		return "", gwErr
	}
	keys, gwErr := parseIndexKeys(args["keys"])
	if gwErr != nil {
		return "", gwErr
	}
	opts, gwErr := parseIndexOptions(args["options"])
	if gwErr != nil {
		return "", gwErr
	}

	g.logger.DebugContext(ctx, "createIndex", "collection", coll)

	name, err := g.db.Collection(coll).CreateIndex(ctx, keys, opts)
	if err != nil {
		return "", reclassify(OpCreateIndex, coll, err)
	}
	return format(OpCreateIndex, coll, bson.D{{Key: "indexName", Value: name}})
}

// ServerInfo reports server build information and the gateway's read-only
// status.  Extended diagnostics are included when requested by argument or
// when the process-wide debug flag is set.
func (g *Gateway) ServerInfo(ctx context.Context, args Args) (string, *Error) {
	build, err := g.db.RunCommand(ctx, bson.D{{Key: "buildInfo", Value: 1}})
	if err != nil {
		return "", reclassify(OpServerInfo, "", err)
	}

	out := bson.D{
		{Key: "buildInfo", Value: build},
		{Key: "readOnly", Value: g.readOnly},
	}

	debug, _ := args["debugInfo"].(bool)
	if debug || g.debug {
		status, err := g.db.RunCommand(ctx, bson.D{{Key: "serverStatus", Value: 1}})
		if err != nil {
			return "", reclassify(OpServerInfo, "", err)
		}
		out = append(out, bson.E{Key: "serverStatus", Value: status})
	}
	return format(OpServerInfo, "", out)
}
