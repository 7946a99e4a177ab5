package repository

import (
	"context"
	"fmt"

	"notetaker/apperr"
	"notetaker/model"
	"notetaker/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NoteRepo struct {
	MongoCollection *mongo.Collection
}

func NewNoteRepo(client *mongo.Client, dbName string) *NoteRepo {
	return &NoteRepo{
		MongoCollection: client.Database(dbName).Collection("notes"),
	}
}

// Create inserts a new note and returns the assigned id.
// Timestamps are expected to be set by the service layer.
func (r *NoteRepo) Create(ctx context.Context, note *model.Note) (string, error) {
	timer := utils.TrackDBOperation("insert", "notes")
	defer timer.ObserveDuration()

	if note.ID == "" {
		note.ID = uuid.New().String()
	}

	if _, err := r.MongoCollection.InsertOne(ctx, note); err != nil {
		utils.TrackError("database", "note_creation_failed")
		return "", fmt.Errorf("%w: insert note: %v", apperr.ErrStoreUnavailable, err)
	}

	return note.ID, nil
}

// GetByID retrieves a note by id, without an ownership filter.
// Ownership is enforced by the service layer on every mutation path.
func (r *NoteRepo) GetByID(ctx context.Context, noteID string) (*model.Note, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()

	var note model.Note
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": noteID}).Decode(&note)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.ErrNoteNotFound
		}
		utils.TrackError("database", "note_lookup_error")
		return nil, fmt.Errorf("%w: find note: %v", apperr.ErrStoreUnavailable, err)
	}
	return &note, nil
}

// ListByUser retrieves all notes owned by userID, most recently updated first.
func (r *NoteRepo) ListByUser(ctx context.Context, userID string) ([]*model.Note, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		utils.TrackError("database", "note_list_error")
		return nil, fmt.Errorf("%w: list notes: %v", apperr.ErrStoreUnavailable, err)
	}
	defer cursor.Close(ctx)

	var notes []*model.Note
	if err = cursor.All(ctx, &notes); err != nil {
		utils.TrackError("database", "note_list_error")
		return nil, fmt.Errorf("%w: decode notes: %v", apperr.ErrStoreUnavailable, err)
	}
	return notes, nil
}

// Update replaces the mutable fields of a note. Fields not listed here
// (id, user_id, created_at) are never touched by an update.
func (r *NoteRepo) Update(ctx context.Context, noteID string, note *model.Note) error {
	timer := utils.TrackDBOperation("update", "notes")
	defer timer.ObserveDuration()

	update := bson.M{
		"$set": bson.M{
			"title":      note.Title,
			"content":    note.Content,
			"tags":       note.Tags,
			"updated_at": note.UpdatedAt,
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, bson.M{"_id": noteID}, update)
	if err != nil {
		utils.TrackError("database", "note_update_failed")
		return fmt.Errorf("%w: update note: %v", apperr.ErrStoreUnavailable, err)
	}
	if result.MatchedCount == 0 {
		return apperr.ErrNoteNotFound
	}
	return nil
}

// Delete hard-deletes a note. There is no tombstone.
func (r *NoteRepo) Delete(ctx context.Context, noteID string) error {
	timer := utils.TrackDBOperation("delete", "notes")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": noteID})
	if err != nil {
		utils.TrackError("database", "note_deletion_failed")
		return fmt.Errorf("%w: delete note: %v", apperr.ErrStoreUnavailable, err)
	}
	if result.DeletedCount == 0 {
		return apperr.ErrNoteNotFound
	}
	return nil
}

// DeleteByUser removes every note owned by a user in one pass.
func (r *NoteRepo) DeleteByUser(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("delete", "notes")
	defer timer.ObserveDuration()

	if _, err := r.MongoCollection.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		utils.TrackError("database", "note_purge_failed")
		return fmt.Errorf("%w: delete user notes: %v", apperr.ErrStoreUnavailable, err)
	}
	return nil
}

// CountByUser counts the notes owned by a user.
func (r *NoteRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	timer := utils.TrackDBOperation("count", "notes")
	defer timer.ObserveDuration()

	count, err := r.MongoCollection.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("%w: count notes: %v", apperr.ErrStoreUnavailable, err)
	}
	return count, nil
}
