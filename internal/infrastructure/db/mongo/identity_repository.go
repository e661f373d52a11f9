package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/raylene/casework/internal/core/domain"
)

const (
	collectionUsers          = "users"
	collectionRoles          = "roles"
	collectionUserRoles      = "user_roles"
	collectionClientProfiles = "client_profiles"
	collectionStaffProfiles  = "staff_profiles"
)

// IdentityRepository stores accounts, profiles and role grants.
type IdentityRepository struct {
	users     *mongo.Collection
	roles     *mongo.Collection
	userRoles *mongo.Collection
	clients   *mongo.Collection
	staff     *mongo.Collection
}

func NewIdentityRepository(db *mongo.Database) *IdentityRepository {
	return &IdentityRepository{
		users:     db.Collection(collectionUsers),
		roles:     db.Collection(collectionRoles),
		userRoles: db.Collection(collectionUserRoles),
		clients:   db.Collection(collectionClientProfiles),
		staff:     db.Collection(collectionStaffProfiles),
	}
}

func (r *IdentityRepository) CreateUser(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *IdentityRepository) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	if err := findOne(ctx, r.users, bson.M{"_id": id}, &u, domain.ErrUserNotFound); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *IdentityRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := findOne(ctx, r.users, bson.M{"email": email}, &u, domain.ErrUserNotFound); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *IdentityRepository) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	return r.setUserField(ctx, userID, "last_login", at)
}

func (r *IdentityRepository) UpdatePassword(ctx context.Context, userID, hash string) error {
	return r.setUserField(ctx, userID, "password_hash", hash)
}

func (r *IdentityRepository) setUserField(ctx context.Context, userID, field string, value any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{field: value}})
	if err != nil {
		return fmt.Errorf("update user %s: %w", field, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *IdentityRepository) UpsertRole(ctx context.Context, role domain.Role) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.roles.UpdateOne(ctx,
		bson.M{"_id": role.Code},
		bson.M{"$set": bson.M{"name": role.Name, "description": role.Description}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *IdentityRepository) ListRoles(ctx context.Context, userID string) ([]domain.RoleCode, error) {
	grants, err := findAll[domain.UserRole](ctx, r.userRoles, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	codes := make([]domain.RoleCode, 0, len(grants))
	for _, g := range grants {
		codes = append(codes, g.Role)
	}
	return codes, nil
}

func (r *IdentityRepository) AssignRole(ctx context.Context, ur *domain.UserRole) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.userRoles.InsertOne(ctx, ur); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("assign role: %w", err)
	}
	return nil
}

func (r *IdentityRepository) RevokeRole(ctx context.Context, userID string, role domain.RoleCode) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.userRoles.DeleteOne(ctx, bson.M{"user_id": userID, "role": role})
	return err
}

func (r *IdentityRepository) CreateClientProfile(ctx context.Context, p *domain.ClientProfile) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.clients.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("client profile for %s: %w", p.UserID, domain.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *IdentityRepository) FindClientProfile(ctx context.Context, userID string) (*domain.ClientProfile, error) {
	var p domain.ClientProfile
	if err := findOne(ctx, r.clients, bson.M{"user_id": userID}, &p, domain.ErrNotFound); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *IdentityRepository) UpdateClientProfile(ctx context.Context, p *domain.ClientProfile) error {
	return replaceByID(ctx, r.clients, p.ID, p, domain.ErrNotFound)
}

func (r *IdentityRepository) FindStaffProfile(ctx context.Context, userID string) (*domain.StaffProfile, error) {
	var p domain.StaffProfile
	if err := findOne(ctx, r.staff, bson.M{"user_id": userID}, &p, domain.ErrNotFound); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *IdentityRepository) UpdateStaffProfile(ctx context.Context, p *domain.StaffProfile) error {
	return replaceByID(ctx, r.staff, p.ID, p, domain.ErrNotFound)
}

// EnsureIndexes enforces unique emails, one grant per (user, role) and at
// most one profile of each kind per user.
func (r *IdentityRepository) EnsureIndexes(ctx context.Context) error {
	if err := createIndexes(ctx, r.users, uniqueIndex(bson.D{{Key: "email", Value: 1}})); err != nil {
		return err
	}
	if err := createIndexes(ctx, r.userRoles, uniqueIndex(bson.D{{Key: "user_id", Value: 1}, {Key: "role", Value: 1}})); err != nil {
		return err
	}
	if err := createIndexes(ctx, r.clients, uniqueIndex(bson.D{{Key: "user_id", Value: 1}})); err != nil {
		return err
	}
	return createIndexes(ctx, r.staff, uniqueIndex(bson.D{{Key: "user_id", Value: 1}}))
}

func replaceByID(ctx context.Context, col *mongo.Collection, id string, doc any, notFound error) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return notFound
	}
	return nil
}
