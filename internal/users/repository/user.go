package repository

import (
	"context"
	"errors"
	"fmt"

	"venuebook/pkg/config"
	mongotx "venuebook/pkg/db/mongo"
	"venuebook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "Users"

var ErrNotFound = errors.New("user not found")

// UserRepository reads the profiles written by the sign-in flow. It never
// writes.
type UserRepository interface {
	FindByUID(ctx context.Context, uid string) (*model.User, error)
	AdminEmails(ctx context.Context) ([]string, error)
}

type mongoUserRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoUserRepository(cfg *config.Config) UserRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoUserRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoUserRepository) FindByUID(ctx context.Context, uid string) (*model.User, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var user model.User
	if err := r.collection.FindOne(ctx, bson.M{"uid": uid}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// AdminEmails lists the addresses of users whose effective role is admin,
// including legacy records flagged with is_admin only.
func (r *mongoUserRepository) AdminEmails(ctx context.Context) ([]string, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"$or": bson.A{
		bson.M{"role": model.RoleAdmin},
		bson.M{"is_admin": true},
	}}
	opts := options.Find().SetProjection(bson.M{"email": 1, "role": 1, "is_admin": 1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find admins: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode admins: %w", err)
	}
	return adminEmails(users), nil
}

func adminEmails(users []*model.User) []string {
	seen := make(map[string]bool)
	emails := make([]string, 0, len(users))
	for _, u := range users {
		if u.Email == "" || u.EffectiveRole() != model.RoleAdmin || seen[u.Email] {
			continue
		}
		seen[u.Email] = true
		emails = append(emails, u.Email)
	}
	return emails
}
