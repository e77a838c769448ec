package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SundayYogurt/account_service/internal/domain"
)

var (
	// ErrDuplicate means the unique index on username or email rejected
	// the write. The pre-checks in the service are a UX nicety; this is
	// the correctness guarantee.
	ErrDuplicate = errors.New("username or email already exists")
	ErrNotFound  = errors.New("user not found")
)

type UserRepository interface {
	EnsureIndexes(ctx context.Context) error
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	SetVerificationCode(ctx context.Context, id, code string, expiresAt time.Time) error
	ConsumeVerificationCode(ctx context.Context, username, code string, now time.Time) (*domain.User, error)
	SetResetPasswordCode(ctx context.Context, id, code string, expiresAt time.Time) error
	ConsumeResetPasswordCode(ctx context.Context, code, newDigest string, now time.Time) (*domain.User, error)
}

type userRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{col: db.Collection("users")}
}

func (r *userRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return err
}

func (r *userRepository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("nil user")
	}

	now := time.Now()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		log.Printf("create user error: %v", err)
		return nil, errors.New("failed to create user")
	}

	return user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	user := &domain.User{}
	if err := r.col.FindOne(ctx, filter).Decode(user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		log.Printf("find user error: %v", err)
		return nil, errors.New("failed to find user")
	}
	return user, nil
}

func (r *userRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []domain.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) SetVerificationCode(ctx context.Context, id, code string, expiresAt time.Time) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{
			"verification_code":            code,
			"verification_code_expires_at": expiresAt,
			"updated_at":                   time.Now(),
		},
	})
}

// ConsumeVerificationCode matches the code by value AND non-expiry and
// flips the account to verified in the same document operation, so a
// code can never be consumed twice.
func (r *userRepository) ConsumeVerificationCode(ctx context.Context, username, code string, now time.Time) (*domain.User, error) {
	filter := bson.M{
		"username":                     username,
		"verification_code":            code,
		"verification_code_expires_at": bson.M{"$gt": now},
	}
	update := bson.M{
		"$set": bson.M{
			"verified":   true,
			"updated_at": now,
		},
		"$unset": bson.M{
			"verification_code":            "",
			"verification_code_expires_at": "",
		},
	}
	return r.findOneAndUpdate(ctx, filter, update)
}

func (r *userRepository) SetResetPasswordCode(ctx context.Context, id, code string, expiresAt time.Time) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{
			"reset_password_code":            code,
			"reset_password_code_expires_at": expiresAt,
			"updated_at":                     time.Now(),
		},
	})
}

// ConsumeResetPasswordCode replaces the digest and clears the reset
// fields atomically, keyed on the unexpired token. Single-use by
// construction.
func (r *userRepository) ConsumeResetPasswordCode(ctx context.Context, code, newDigest string, now time.Time) (*domain.User, error) {
	filter := bson.M{
		"reset_password_code":            code,
		"reset_password_code_expires_at": bson.M{"$gt": now},
	}
	update := bson.M{
		"$set": bson.M{
			"password":   newDigest,
			"updated_at": now,
		},
		"$unset": bson.M{
			"reset_password_code":            "",
			"reset_password_code_expires_at": "",
		},
	}
	return r.findOneAndUpdate(ctx, filter, update)
}

func (r *userRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*domain.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	user := &domain.User{}
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		log.Printf("conditional update error: %v", err)
		return nil, errors.New("failed to update user")
	}
	return user, nil
}

func (r *userRepository) updateByID(ctx context.Context, id string, update bson.M) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		log.Printf("update user error: %v", err)
		return errors.New("failed to update user")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
