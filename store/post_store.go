package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"linklet/apperr"
	"linklet/models"
)

type PostStore struct {
	coll *mongo.Collection
}

func NewPostStore(coll *mongo.Collection) *PostStore {
	return &PostStore{coll: coll}
}

// Create inserts a new post with empty like and comment state.
func (s *PostStore) Create(ctx context.Context, authorID primitive.ObjectID, authorName, content, imageURL string) (*models.Post, error) {
	now := time.Now()
	post := &models.Post{
		ID:        primitive.NewObjectID(),
		UserID:    authorID,
		Username:  authorName,
		Content:   content,
		ImageURL:  imageURL,
		Likes:     0,
		LikedBy:   []primitive.ObjectID{},
		Comments:  []models.Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.coll.InsertOne(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdateContent replaces the post content. Ownership is checked by
// the caller before this runs.
func (s *PostStore) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*models.Post, error) {
	var post models.Post
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"content": content, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *PostStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// ToggleLike flips the caller's membership in likedBy. Each branch is
// a single document update whose filter encodes the current
// membership, so two users toggling the same post concurrently can
// never lose each other's update, and likes stays equal to the
// cardinality of likedBy.
func (s *PostStore) ToggleLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	for {
		now := time.Now()

		var post models.Post
		err := s.coll.FindOneAndUpdate(ctx,
			bson.M{"_id": postID, "likedBy": bson.M{"$ne": userID}},
			bson.M{
				"$addToSet": bson.M{"likedBy": userID},
				"$inc":      bson.M{"likes": 1},
				"$set":      bson.M{"updatedAt": now},
			},
			opts,
		).Decode(&post)
		if err == nil {
			return &post, nil
		}
		if err != mongo.ErrNoDocuments {
			return nil, err
		}

		err = s.coll.FindOneAndUpdate(ctx,
			bson.M{"_id": postID, "likedBy": userID},
			bson.M{
				"$pull": bson.M{"likedBy": userID},
				"$inc":  bson.M{"likes": -1},
				"$set":  bson.M{"updatedAt": now},
			},
			opts,
		).Decode(&post)
		if err == nil {
			return &post, nil
		}
		if err != mongo.ErrNoDocuments {
			return nil, err
		}

		// Neither branch matched: the post is gone, or a concurrent
		// toggle by the same user flipped membership between the two
		// attempts. Distinguish and retry the latter.
		if err := s.coll.FindOne(ctx, bson.M{"_id": postID}).Err(); err == mongo.ErrNoDocuments {
			return nil, apperr.ErrNotFound
		} else if err != nil {
			return nil, err
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
}

// AddComment appends a comment atomically and returns the updated
// post.
func (s *PostStore) AddComment(ctx context.Context, postID primitive.ObjectID, comment models.Comment) (*models.Post, error) {
	var post models.Post
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": postID},
		bson.M{
			"$push": bson.M{"comments": comment},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// RemoveComment pulls one comment out of the array atomically. The
// filter requires the comment to still be present, so a repeated
// delete reports NotFound instead of silently matching.
func (s *PostStore) RemoveComment(ctx context.Context, postID, commentID primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": postID, "comments._id": commentID},
		bson.M{
			"$pull": bson.M{"comments": bson.M{"_id": commentID}},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListAll returns every post, newest first.
func (s *PostStore) ListAll(ctx context.Context) ([]models.Post, error) {
	return s.list(ctx, bson.M{})
}

// ListByAuthor returns one author's posts, newest first.
func (s *PostStore) ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Post, error) {
	return s.list(ctx, bson.M{"userId": authorID})
}

func (s *PostStore) list(ctx context.Context, filter bson.M) ([]models.Post, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.coll.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}
