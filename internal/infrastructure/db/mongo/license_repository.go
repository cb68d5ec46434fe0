package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vendorsaathi/vendor-admin/internal/core/domain"
)

type LicenseRequestRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewLicenseRequestRepository(db *mongo.Database) *LicenseRequestRepository {
	return &LicenseRequestRepository{db: db, coll: db.Collection(collLicenseRequests)}
}

type requestDoc struct {
	ID          int64      `bson:"_id"`
	VendorID    int64      `bson:"vendor_id"`
	Status      string     `bson:"status"`
	ReviewedBy  *int64     `bson:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time `bson:"reviewed_at,omitempty"`
	CreatedAt   time.Time  `bson:"created_at"`
	LockVersion int64      `bson:"lock_version"`
}

func (d requestDoc) toDomain() *domain.LicenseRequest {
	req := &domain.LicenseRequest{
		RequestID:  d.ID,
		VendorID:   d.VendorID,
		Status:     domain.RequestStatus(d.Status),
		ReviewedBy: d.ReviewedBy,
		CreatedAt:  d.CreatedAt.UTC(),
	}
	if d.ReviewedAt != nil {
		at := d.ReviewedAt.UTC()
		req.ReviewedAt = &at
	}
	return req
}

func (r *LicenseRequestRepository) Create(ctx context.Context, req *domain.LicenseRequest) error {
	id, err := nextID(ctx, r.db, collLicenseRequests)
	if err != nil {
		return err
	}
	if req.Status == "" {
		req.Status = domain.RequestPending
	}

	_, err = r.coll.InsertOne(ctx, requestDoc{
		ID:        id,
		VendorID:  req.VendorID,
		Status:    string(req.Status),
		CreatedAt: req.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert license request: %w", err)
	}
	req.RequestID = id
	return nil
}

// FindForUpdate bumps lock_version while reading, so any other transaction
// touching the same request hits a write conflict and is retried.
func (r *LicenseRequestRepository) FindForUpdate(ctx context.Context, id int64) (*domain.LicenseRequest, error) {
	var doc requestDoc
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"lock_version": int64(1)}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("find license request: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *LicenseRequestRepository) MarkReviewed(ctx context.Context, id int64, status domain.RequestStatus, adminID int64, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": string(domain.RequestPending)},
		bson.M{"$set": bson.M{
			"status":      string(status),
			"reviewed_by": adminID,
			"reviewed_at": at,
		}},
	)
	if err != nil {
		return fmt.Errorf("update license request: %w", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("count license request: %w", err)
	}
	if n == 0 {
		return domain.ErrRequestNotFound
	}
	return domain.ErrRequestNotPending
}

type LicenseRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewLicenseRepository(db *mongo.Database) *LicenseRepository {
	return &LicenseRepository{db: db, coll: db.Collection(collLicenses)}
}

type licenseDoc struct {
	ID         int64     `bson:"_id"`
	LicenseUID string    `bson:"license_uid"`
	VendorID   int64     `bson:"vendor_id"`
	IssueDate  time.Time `bson:"issue_date"`
	ExpiryDate time.Time `bson:"expiry_date"`
	Status     string    `bson:"status"`
	CreatedBy  int64     `bson:"created_by"`
}

func (r *LicenseRepository) Create(ctx context.Context, l *domain.License) error {
	id, err := nextID(ctx, r.db, collLicenses)
	if err != nil {
		return err
	}

	_, err = r.coll.InsertOne(ctx, licenseDoc{
		ID:         id,
		LicenseUID: l.LicenseUID,
		VendorID:   l.VendorID,
		IssueDate:  l.IssueDate,
		ExpiryDate: l.ExpiryDate,
		Status:     string(l.Status),
		CreatedBy:  l.CreatedBy,
	})
	if err != nil {
		return fmt.Errorf("insert license: %w", err)
	}
	l.LicenseID = id
	return nil
}

type AuditRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{db: db, coll: db.Collection(collAuditLogs)}
}

type auditDoc struct {
	ID         int64     `bson:"_id"`
	AdminID    int64     `bson:"admin_id"`
	Action     string    `bson:"action"`
	EntityType string    `bson:"entity_type"`
	EntityID   int64     `bson:"entity_id"`
	CreatedAt  time.Time `bson:"created_at"`
}

func (r *AuditRepository) Append(ctx context.Context, e *domain.AuditLog) error {
	id, err := nextID(ctx, r.db, collAuditLogs)
	if err != nil {
		return err
	}

	_, err = r.coll.InsertOne(ctx, auditDoc{
		ID:         id,
		AdminID:    e.AdminID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		CreatedAt:  e.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	e.AuditID = id
	return nil
}
