package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vendorsaathi/vendor-admin/internal/core/domain"
)

type VendorRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewVendorRepository(db *mongo.Database) *VendorRepository {
	return &VendorRepository{db: db, coll: db.Collection(collVendors)}
}

type vendorDoc struct {
	ID            int64     `bson:"_id"`
	UserID        int64     `bson:"user_id"`
	FullName      string    `bson:"full_name"`
	DOB           time.Time `bson:"dob"`
	PhoneNumber   string    `bson:"phone_number"`
	AadhaarNumber string    `bson:"aadhaar_number"`
	PanNumber     string    `bson:"pan_number"`
	Address       string    `bson:"address"`
	CreatedAt     time.Time `bson:"created_at"`
}

func (d vendorDoc) toDomain() domain.Vendor {
	return domain.Vendor{
		VendorID:      d.ID,
		UserID:        d.UserID,
		FullName:      d.FullName,
		DOB:           d.DOB.UTC(),
		PhoneNumber:   d.PhoneNumber,
		AadhaarNumber: d.AadhaarNumber,
		PanNumber:     d.PanNumber,
		Address:       d.Address,
		CreatedAt:     d.CreatedAt.UTC(),
	}
}

// vendorListingDoc is the shape produced by the List aggregation.
type vendorListingDoc struct {
	Vendor vendorDoc `bson:",inline"`
	User   struct {
		Email    string `bson:"email"`
		Role     string `bson:"role"`
		IsActive bool   `bson:"is_active"`
	} `bson:"user"`
}

func (r *VendorRepository) Create(ctx context.Context, v *domain.Vendor) error {
	id, err := nextID(ctx, r.db, collVendors)
	if err != nil {
		return err
	}

	_, err = r.coll.InsertOne(ctx, vendorDoc{
		ID:            id,
		UserID:        v.UserID,
		FullName:      v.FullName,
		DOB:           v.DOB,
		PhoneNumber:   v.PhoneNumber,
		AadhaarNumber: v.AadhaarNumber,
		PanNumber:     v.PanNumber,
		Address:       v.Address,
		CreatedAt:     v.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert vendor: %w", err)
	}
	v.VendorID = id
	return nil
}

func (r *VendorRepository) FindByUserID(ctx context.Context, userID int64) (*domain.Vendor, error) {
	var doc vendorDoc
	if err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVendorNotFound
		}
		return nil, fmt.Errorf("find vendor: %w", err)
	}
	v := doc.toDomain()
	return &v, nil
}

func (r *VendorRepository) List(ctx context.Context) ([]domain.VendorListing, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collUsers},
			{Key: "localField", Value: "user_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "user"},
		}}},
		{{Key: "$unwind", Value: "$user"}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer cur.Close(ctx)

	out := []domain.VendorListing{}
	for cur.Next(ctx) {
		var doc vendorListingDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode vendor: %w", err)
		}
		out = append(out, domain.VendorListing{
			Vendor: doc.Vendor.toDomain(),
			User: domain.VendorAccount{
				Email:    doc.User.Email,
				Role:     domain.Role(doc.User.Role),
				IsActive: doc.User.IsActive,
			},
		})
	}
	return out, cur.Err()
}
