package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/huddleapp/community-api/internal/core/domain"
)

const userCollection = "users"

// MongoUserRepository persists user accounts in the users collection.
type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(userCollection)}
}

// EnsureIndexes creates the unique indexes on email and username. Called once
// at startup.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

type mongoUser struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Username        string             `bson:"username"`
	Email           string             `bson:"email"`
	Name            string             `bson:"name"`
	PasswordHash    string             `bson:"password_hash"`
	Role            string             `bson:"role"`
	Verified        bool               `bson:"verified"`
	VerifyDigest    string             `bson:"verify_digest,omitempty"`
	VerifyExpiresAt *time.Time         `bson:"verify_expires_at,omitempty"`
	ResetDigest     string             `bson:"reset_digest,omitempty"`
	ResetExpiresAt  *time.Time         `bson:"reset_expires_at,omitempty"`
	ImageURL        string             `bson:"image_url,omitempty"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
}

func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := mongoUser{
		Username:        user.Username,
		Email:           user.Email,
		Name:            user.Name,
		PasswordHash:    user.PasswordHash,
		Role:            string(user.Role),
		Verified:        user.Verified,
		VerifyDigest:    user.VerifyDigest,
		VerifyExpiresAt: user.VerifyExpiresAt,
		ResetDigest:     user.ResetDigest,
		ResetExpiresAt:  user.ResetExpiresAt,
		ImageURL:        user.ImageURL,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if dup := duplicateKeyError(err); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"email": identifier},
		bson.M{"username": identifier},
	}})
}

func (r *MongoUserRepository) FindByVerifyDigest(ctx context.Context, digest string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"verify_digest": digest})
}

func (r *MongoUserRepository) FindByResetDigest(ctx context.Context, digest string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"reset_digest": digest})
}

func (r *MongoUserRepository) SetVerified(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.M{
		"$set":   bson.M{"verified": true, "updated_at": time.Now().UTC()},
		"$unset": bson.M{"verify_digest": "", "verify_expires_at": ""},
	})
}

func (r *MongoUserRepository) SetVerifyToken(ctx context.Context, id, digest string, expiresAt time.Time) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{
			"verify_digest":     digest,
			"verify_expires_at": expiresAt,
			"updated_at":        time.Now().UTC(),
		},
	})
}

func (r *MongoUserRepository) SetResetToken(ctx context.Context, id, digest string, expiresAt time.Time) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{
			"reset_digest":     digest,
			"reset_expires_at": expiresAt,
			"updated_at":       time.Now().UTC(),
		},
	})
}

func (r *MongoUserRepository) ClearResetToken(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.M{
		"$set":   bson.M{"updated_at": time.Now().UTC()},
		"$unset": bson.M{"reset_digest": "", "reset_expires_at": ""},
	})
}

func (r *MongoUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.updateByID(ctx, id, bson.M{
		"$set":   bson.M{"password_hash": passwordHash, "updated_at": time.Now().UTC()},
		"$unset": bson.M{"reset_digest": "", "reset_expires_at": ""},
	})
}

// duplicateKeyError maps a unique-index violation to the sentinel for the
// field that collided. The server names the offending index (email_1 or
// username_1) in the error message.
func duplicateKeyError(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return nil
	}
	if strings.Contains(err.Error(), "username_1") {
		return domain.ErrUsernameTaken
	}
	return domain.ErrEmailTaken
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *MongoUserRepository) updateByID(ctx context.Context, id string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}
	res, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (mu *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:              mu.ID.Hex(),
		Username:        mu.Username,
		Email:           mu.Email,
		Name:            mu.Name,
		PasswordHash:    mu.PasswordHash,
		Role:            domain.Role(mu.Role),
		Verified:        mu.Verified,
		VerifyDigest:    mu.VerifyDigest,
		VerifyExpiresAt: mu.VerifyExpiresAt,
		ResetDigest:     mu.ResetDigest,
		ResetExpiresAt:  mu.ResetExpiresAt,
		ImageURL:        mu.ImageURL,
		CreatedAt:       mu.CreatedAt,
		UpdatedAt:       mu.UpdatedAt,
	}
}
