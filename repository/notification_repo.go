package repository

import (
	"context"
	"time"

	"github.com/Euroteck-developer/Reminder-App/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type NotificationRepo interface {
	InsertNotification(ctx context.Context, n *types.Notification) error
	ListByUser(ctx context.Context, userID int64) ([]types.Notification, error)
	LatestUnopened(ctx context.Context, userID int64) (*types.Notification, error)
	Unread(ctx context.Context, userID int64) ([]types.Notification, error)
	MarkOpened(ctx context.Context, id string, userID int64) error
	MarkRead(ctx context.Context, id string, userID int64, at time.Time) error
	MarkDelivered(ctx context.Context, ids []string) error
	DeleteNotification(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
	DeleteByTask(ctx context.Context, taskID int64) (int64, error)
	DeleteByMeeting(ctx context.Context, meetingID int64) (int64, error)
}

type notificationRepo struct {
	collection *mongo.Collection
}

func NewNotificationRepo(collection *mongo.Collection) NotificationRepo {
	return &notificationRepo{
		collection: collection,
	}
}

// EnsureNotificationIndexes creates the indexes the feed queries rely on.
func EnsureNotificationIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "task_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "meeting_id", Value: 1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *notificationRepo) InsertNotification(ctx context.Context, n *types.Notification) error {
	n.ID = ""
	res, err := r.collection.InsertOne(ctx, n)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		n.ID = oid.Hex()
	}
	return nil
}

func (r *notificationRepo) find(ctx context.Context, filter bson.M, opts ...options.Lister[options.FindOptions]) ([]types.Notification, error) {
	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notifications := make([]types.Notification, 0)
	for cursor.Next(ctx) {
		var n types.Notification
		if err := cursor.Decode(&n); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, cursor.Err()
}

func newestFirst() *options.FindOptionsBuilder {
	return options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
}

func (r *notificationRepo) ListByUser(ctx context.Context, userID int64) ([]types.Notification, error) {
	return r.find(ctx, bson.M{"user_id": userID}, newestFirst())
}

func (r *notificationRepo) LatestUnopened(ctx context.Context, userID int64) (*types.Notification, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var n types.Notification
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID, "opened_by_user": false}, opts).Decode(&n)
	if err != nil {
		return nil, translate(err)
	}
	return &n, nil
}

func (r *notificationRepo) Unread(ctx context.Context, userID int64) ([]types.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	return r.find(ctx, bson.M{"user_id": userID, "is_read": false}, opts)
}

// updateOwned applies update to one notification of userID.
func (r *notificationRepo) updateOwned(ctx context.Context, id string, userID int64, update bson.M) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid, "user_id": userID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *notificationRepo) MarkOpened(ctx context.Context, id string, userID int64) error {
	return r.updateOwned(ctx, id, userID, bson.M{"$set": bson.M{"opened_by_user": true}})
}

func (r *notificationRepo) MarkRead(ctx context.Context, id string, userID int64, at time.Time) error {
	return r.updateOwned(ctx, id, userID, bson.M{"$set": bson.M{
		"is_read":      true,
		"read_by_user": true,
		"read_at":      at,
	}})
}

func (r *notificationRepo) MarkDelivered(ctx context.Context, ids []string) error {
	oids := make([]bson.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := bson.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return nil
	}
	_, err := r.collection.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": oids}}, bson.M{"$set": bson.M{"is_read": true}})
	return err
}

func (r *notificationRepo) DeleteNotification(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *notificationRepo) deleteMany(ctx context.Context, filter bson.M) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *notificationRepo) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	return r.deleteMany(ctx, bson.M{"user_id": userID})
}

func (r *notificationRepo) DeleteByTask(ctx context.Context, taskID int64) (int64, error) {
	return r.deleteMany(ctx, bson.M{"task_id": taskID})
}

func (r *notificationRepo) DeleteByMeeting(ctx context.Context, meetingID int64) (int64, error) {
	return r.deleteMany(ctx, bson.M{"meeting_id": meetingID})
}
