package repository

import (
	"context"
	"fmt"
	"time"

	"notetaker/apperr"
	"notetaker/model"
	"notetaker/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SessionRepo struct {
	MongoCollection *mongo.Collection
}

func NewSessionRepo(client *mongo.Client, dbName string) *SessionRepo {
	return &SessionRepo{
		MongoCollection: client.Database(dbName).Collection("sessions"),
	}
}

func (r *SessionRepo) CreateSession(ctx context.Context, session *model.Session) error {
	timer := utils.TrackDBOperation("insert", "sessions")
	defer timer.ObserveDuration()

	if _, err := r.MongoCollection.InsertOne(ctx, session); err != nil {
		utils.TrackError("database", "session_creation_failed")
		return fmt.Errorf("%w: insert session: %v", apperr.ErrStoreUnavailable, err)
	}
	utils.ActiveSessions.Inc()
	return nil
}

func (r *SessionRepo) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	timer := utils.TrackDBOperation("find", "sessions")
	defer timer.ObserveDuration()

	var session model.Session
	err := r.MongoCollection.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.ErrSessionNotFound
		}
		utils.TrackError("database", "session_lookup_error")
		return nil, fmt.Errorf("%w: find session: %v", apperr.ErrStoreUnavailable, err)
	}
	return &session, nil
}

func (r *SessionRepo) UpdateSession(ctx context.Context, session *model.Session) error {
	timer := utils.TrackDBOperation("update", "sessions")
	defer timer.ObserveDuration()

	update := bson.M{"$set": bson.M{
		"last_activity_at": session.LastActivityAt,
		"is_active":        session.IsActive,
	}}
	_, err := r.MongoCollection.UpdateOne(ctx, bson.M{"session_id": session.SessionID}, update)
	if err != nil {
		utils.TrackError("database", "session_update_failed")
		return fmt.Errorf("%w: update session: %v", apperr.ErrStoreUnavailable, err)
	}
	return nil
}

// EndSession marks a session inactive. The document is kept for audit.
func (r *SessionRepo) EndSession(ctx context.Context, sessionID string) error {
	timer := utils.TrackDBOperation("update", "sessions")
	defer timer.ObserveDuration()

	update := bson.M{"$set": bson.M{"is_active": false}}
	result, err := r.MongoCollection.UpdateOne(ctx, bson.M{"session_id": sessionID}, update)
	if err != nil {
		utils.TrackError("database", "session_end_failed")
		return fmt.Errorf("%w: end session: %v", apperr.ErrStoreUnavailable, err)
	}
	if result.MatchedCount > 0 {
		utils.ActiveSessions.Dec()
	}
	return nil
}

func (r *SessionRepo) GetUserActiveSessions(ctx context.Context, userID string) ([]*model.Session, error) {
	timer := utils.TrackDBOperation("find", "sessions")
	defer timer.ObserveDuration()

	filter := bson.M{
		"user_id":    userID,
		"is_active":  true,
		"expires_at": bson.M{"$gt": time.Now()},
	}
	opts := options.Find().SetSort(bson.D{{Key: "last_activity_at", Value: -1}})

	cursor, err := r.MongoCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.TrackError("database", "session_list_error")
		return nil, fmt.Errorf("%w: list sessions: %v", apperr.ErrStoreUnavailable, err)
	}
	defer cursor.Close(ctx)

	var sessions []*model.Session
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("%w: decode sessions: %v", apperr.ErrStoreUnavailable, err)
	}
	return sessions, nil
}

func (r *SessionRepo) CountActiveSessions(ctx context.Context, userID string) (int, error) {
	timer := utils.TrackDBOperation("count", "sessions")
	defer timer.ObserveDuration()

	filter := bson.M{
		"user_id":    userID,
		"is_active":  true,
		"expires_at": bson.M{"$gt": time.Now()},
	}
	count, err := r.MongoCollection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("%w: count sessions: %v", apperr.ErrStoreUnavailable, err)
	}
	return int(count), nil
}

// EndLeastActiveSession ends the session with the oldest activity, used when a
// user hits the active session cap.
func (r *SessionRepo) EndLeastActiveSession(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("update", "sessions")
	defer timer.ObserveDuration()

	filter := bson.M{"user_id": userID, "is_active": true}
	opts := options.FindOneAndUpdate().SetSort(bson.D{{Key: "last_activity_at", Value: 1}})
	update := bson.M{"$set": bson.M{"is_active": false}}

	err := r.MongoCollection.FindOneAndUpdate(ctx, filter, update, opts).Err()
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil
		}
		utils.TrackError("database", "session_end_failed")
		return fmt.Errorf("%w: end least active session: %v", apperr.ErrStoreUnavailable, err)
	}
	utils.ActiveSessions.Dec()
	return nil
}

func (r *SessionRepo) EndAllUserSessions(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("update", "sessions")
	defer timer.ObserveDuration()

	update := bson.M{"$set": bson.M{"is_active": false}}
	_, err := r.MongoCollection.UpdateMany(ctx, bson.M{"user_id": userID, "is_active": true}, update)
	if err != nil {
		utils.TrackError("database", "session_end_failed")
		return fmt.Errorf("%w: end user sessions: %v", apperr.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *SessionRepo) DeleteUserSessions(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("delete", "sessions")
	defer timer.ObserveDuration()

	if _, err := r.MongoCollection.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		utils.TrackError("database", "session_deletion_failed")
		return fmt.Errorf("%w: delete user sessions: %v", apperr.ErrStoreUnavailable, err)
	}
	return nil
}
