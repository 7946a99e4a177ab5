package repository

import (
	"context"
	"fmt"

	"notetaker/apperr"
	"notetaker/model"
	"notetaker/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepo struct {
	MongoCollection *mongo.Collection
}

func NewUserRepo(client *mongo.Client, dbName string) *UserRepo {
	return &UserRepo{
		MongoCollection: client.Database(dbName).Collection("users"),
	}
}

func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	timer := utils.TrackDBOperation("insert", "users")
	defer timer.ObserveDuration()

	if _, err := r.MongoCollection.InsertOne(ctx, user); err != nil {
		utils.TrackError("database", "user_creation_failed")
		return fmt.Errorf("%w: insert user: %v", apperr.ErrStoreUnavailable, err)
	}
	return nil
}

// FindByUsername returns (nil, nil) when no user matches.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	var user model.User
	err := r.MongoCollection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "user_lookup_error")
		return nil, fmt.Errorf("%w: find user: %v", apperr.ErrStoreUnavailable, err)
	}
	return &user, nil
}

func (r *UserRepo) FindByID(ctx context.Context, userID string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	var user model.User
	err := r.MongoCollection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.ErrUserNotFound
		}
		utils.TrackError("database", "user_lookup_error")
		return nil, fmt.Errorf("%w: find user: %v", apperr.ErrStoreUnavailable, err)
	}
	return &user, nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, userID, hashedPassword string) error {
	timer := utils.TrackDBOperation("update", "users")
	defer timer.ObserveDuration()

	update := bson.M{"$set": bson.M{"password": hashedPassword}}
	result, err := r.MongoCollection.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	if err != nil {
		utils.TrackError("database", "password_update_failed")
		return fmt.Errorf("%w: update password: %v", apperr.ErrStoreUnavailable, err)
	}
	if result.MatchedCount == 0 {
		return apperr.ErrUserNotFound
	}
	return nil
}

// SetTwoFactor stores the TOTP secret and enabled flag for a user.
func (r *UserRepo) SetTwoFactor(ctx context.Context, userID, secret string, enabled bool) error {
	timer := utils.TrackDBOperation("update", "users")
	defer timer.ObserveDuration()

	update := bson.M{"$set": bson.M{
		"two_factor_secret":  secret,
		"two_factor_enabled": enabled,
	}}
	result, err := r.MongoCollection.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	if err != nil {
		utils.TrackError("database", "two_factor_update_failed")
		return fmt.Errorf("%w: update two-factor: %v", apperr.ErrStoreUnavailable, err)
	}
	if result.MatchedCount == 0 {
		return apperr.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("delete", "users")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		utils.TrackError("database", "user_deletion_failed")
		return fmt.Errorf("%w: delete user: %v", apperr.ErrStoreUnavailable, err)
	}
	if result.DeletedCount == 0 {
		return apperr.ErrUserNotFound
	}
	return nil
}
