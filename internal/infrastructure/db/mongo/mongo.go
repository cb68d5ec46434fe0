package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/vendorsaathi/vendor-admin/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

const (
	collUsers           = "users"
	collVendors         = "vendors"
	collLicenseRequests = "license_requests"
	collLicenses        = "licenses"
	collAuditLogs       = "audit_logs"
	collCounters        = "counters"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// Store implements ports.Store on a MongoDB replica set. Transactions
// require a replica set or sharded cluster.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	log    zerolog.Logger
}

func New(client *mongo.Client, db *mongo.Database, log zerolog.Logger) *Store {
	return &Store{client: client, db: db, log: log}
}

// EnsureIndexes creates the collections and unique indexes the repositories rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	unique := map[string]string{
		collUsers:    "email",
		collVendors:  "user_id",
		collLicenses: "license_uid",
	}
	for coll, field := range unique {
		_, err := s.db.Collection(coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return fmt.Errorf("create %s.%s index: %w", coll, field, err)
		}
	}

	_, err := s.db.Collection(collLicenseRequests).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "vendor_id", Value: 1}, {Key: "status", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create license_requests index: %w", err)
	}

	// Collections cannot be created implicitly inside a transaction on older servers.
	for _, coll := range []string{collAuditLogs, collCounters} {
		if err := s.db.CreateCollection(ctx, coll); err != nil && !isNamespaceExists(err) {
			return fmt.Errorf("create %s collection: %w", coll, err)
		}
	}
	return nil
}

// Do runs fn inside a multi-document transaction with snapshot reads and
// majority writes. WithTransaction retries fn on transient errors such as
// write conflicts, which is how concurrent approvals of one request resolve.
func (s *Store) Do(ctx context.Context, fn ports.TxFunc) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(context.WithoutCancel(ctx))

	txOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc, s.Repositories())
	}, txOpts)
	return err
}

func (s *Store) Repositories() ports.Repositories {
	return ports.Repositories{
		Users:           NewUserRepository(s.db),
		Vendors:         NewVendorRepository(s.db),
		LicenseRequests: NewLicenseRequestRepository(s.db),
		Licenses:        NewLicenseRepository(s.db),
		Audit:           NewAuditRepository(s.db),
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// nextID hands out sequential integer ids per collection from the counters
// collection, keeping ids identical in shape to the SQL store.
func nextID(ctx context.Context, db *mongo.Database, name string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := db.Collection(collCounters).FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", name, err)
	}
	return counter.Seq, nil
}

func isNamespaceExists(err error) bool {
	var cmdErr mongo.CommandError
	return errors.As(err, &cmdErr) && cmdErr.Code == 48
}
