// internal/database/post_repository.go
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"inkwell/internal/models"
	"inkwell/internal/utils"
)

// PostDocument represents the MongoDB schema for a post.
type PostDocument struct {
	ID             string    `bson:"_id"`
	Title          string    `bson:"title"`
	Content        string    `bson:"content"`
	AuthorID       string    `bson:"authorId"`
	AuthorUsername string    `bson:"authorUsername"`
	Likes          []string  `bson:"likes"`
	Bookmarks      []string  `bson:"bookmarks"`
	Tags           []string  `bson:"tags"`
	Views          int       `bson:"views"`
	CreatedAt      time.Time `bson:"createdAt"`
}

func postModelToDocument(post *models.Post) *PostDocument {
	return &PostDocument{
		ID:             post.ID.String(),
		Title:          post.Title,
		Content:        post.Content,
		AuthorID:       post.AuthorID.String(),
		AuthorUsername: post.AuthorUsername,
		Likes:          uuidsToStrings(post.Likes),
		Bookmarks:      uuidsToStrings(post.Bookmarks),
		Tags:           post.Tags,
		Views:          post.Views,
		CreatedAt:      post.CreatedAt,
	}
}

func postDocumentToModel(doc *PostDocument) (*models.Post, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID: %v", err)
	}

	authorID, err := uuid.Parse(doc.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("invalid author ID: %v", err)
	}

	likes, err := stringsToUUIDs(doc.Likes)
	if err != nil {
		return nil, err
	}

	bookmarks, err := stringsToUUIDs(doc.Bookmarks)
	if err != nil {
		return nil, err
	}

	tags := doc.Tags
	if tags == nil {
		tags = []string{}
	}

	return &models.Post{
		ID:             id,
		Title:          doc.Title,
		Content:        doc.Content,
		AuthorID:       authorID,
		AuthorUsername: doc.AuthorUsername,
		Likes:          likes,
		Bookmarks:      bookmarks,
		Tags:           tags,
		Views:          doc.Views,
		CreatedAt:      doc.CreatedAt,
	}, nil
}

// SavePost creates or updates a post in MongoDB.
func (m *MongoDB) SavePost(ctx context.Context, post *models.Post) error {
	doc := postModelToDocument(post)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": doc.ID}
	update := bson.M{"$set": doc}

	_, err := m.Posts.UpdateOne(ctx, filter, update, opts)
	return err
}

// GetPost retrieves a post by its ID without touching the view counter.
func (m *MongoDB) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var doc PostDocument

	err := m.Posts.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "Post not found", err)
	}
	if err != nil {
		return nil, err
	}

	return postDocumentToModel(&doc)
}

// GetPostAndCountView retrieves a post and increments its view counter in a
// single atomic $inc, returning the post-increment document.
func (m *MongoDB) GetPostAndCountView(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	filter := bson.M{"_id": id.String()}
	update := bson.M{"$inc": bson.M{"views": 1}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc PostDocument
	err := m.Posts.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "Post not found", err)
	}
	if err != nil {
		return nil, err
	}

	return postDocumentToModel(&doc)
}

// UpdatePost overwrites title, content and tags. Omitted tags become empty;
// partial update is not supported.
func (m *MongoDB) UpdatePost(ctx context.Context, id uuid.UUID, title, content string, tags []string) (*models.Post, error) {
	if tags == nil {
		tags = []string{}
	}

	filter := bson.M{"_id": id.String()}
	update := bson.M{"$set": bson.M{
		"title":   title,
		"content": content,
		"tags":    tags,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc PostDocument
	err := m.Posts.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "Post not found", err)
	}
	if err != nil {
		return nil, err
	}

	return postDocumentToModel(&doc)
}

// DeletePost removes a post. Comments referencing the post are left in place.
func (m *MongoDB) DeletePost(ctx context.Context, id uuid.UUID) error {
	result, err := m.Posts.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return utils.NewAppError(utils.ErrNotFound, "Post not found", nil)
	}
	return nil
}

// ListPosts returns one page of posts sorted by creation time descending,
// along with the full collection count.
func (m *MongoDB) ListPosts(ctx context.Context, page, limit int) ([]*models.Post, int64, error) {
	skip := int64((page - 1) * limit)

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(limit))

	posts, err := m.findPosts(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}

	total, err := m.Posts.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// GetPostsByAuthor retrieves an author's posts, newest first.
func (m *MongoDB) GetPostsByAuthor(ctx context.Context, authorID uuid.UUID) ([]*models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return m.findPosts(ctx, bson.M{"authorId": authorID.String()}, opts)
}

// GetPostsByTag retrieves posts carrying the given tag, newest first.
func (m *MongoDB) GetPostsByTag(ctx context.Context, tag string) ([]*models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return m.findPosts(ctx, bson.M{"tags": tag}, opts)
}

// SearchPosts performs a case-insensitive substring match on title or
// content, newest first.
func (m *MongoDB) SearchPosts(ctx context.Context, query string) ([]*models.Post, error) {
	pattern := primitive.Regex{Pattern: query, Options: "i"}
	filter := bson.M{"$or": []bson.M{
		{"title": bson.M{"$regex": pattern}},
		{"content": bson.M{"$regex": pattern}},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return m.findPosts(ctx, filter, opts)
}

func (m *MongoDB) findPosts(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Post, error) {
	cursor, err := m.Posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %v", err)
	}
	defer cursor.Close(ctx)

	posts := []*models.Post{}
	for cursor.Next(ctx) {
		var doc PostDocument
		if err := cursor.Decode(&doc); err != nil {
			log.Printf("Error decoding post document: %v", err)
			continue
		}

		post, err := postDocumentToModel(&doc)
		if err != nil {
			log.Printf("Error converting document to model: %v", err)
			continue
		}
		posts = append(posts, post)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor iteration failed: %v", err)
	}

	return posts, nil
}

// TogglePostLike flips the actor's membership in the likes set as one
// pipeline update: remove when present, prepend when absent. Returns the
// resulting set.
func (m *MongoDB) TogglePostLike(ctx context.Context, id, userID uuid.UUID) ([]uuid.UUID, error) {
	return m.togglePostSet(ctx, id, userID, "likes")
}

// TogglePostBookmark is TogglePostLike for the bookmarks set.
func (m *MongoDB) TogglePostBookmark(ctx context.Context, id, userID uuid.UUID) ([]uuid.UUID, error) {
	return m.togglePostSet(ctx, id, userID, "bookmarks")
}

func (m *MongoDB) togglePostSet(ctx context.Context, id, userID uuid.UUID, field string) ([]uuid.UUID, error) {
	doc, err := toggleSetMember(ctx, m.Posts, id.String(), userID.String(), field)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewAppError(utils.ErrNotFound, "Post not found", err)
		}
		return nil, err
	}

	var ids []string
	if err := doc.Lookup(field).Unmarshal(&ids); err != nil {
		return nil, fmt.Errorf("failed to decode %s set: %v", field, err)
	}
	return stringsToUUIDs(ids)
}

// toggleSetMember runs a single FindOneAndUpdate with an aggregation
// pipeline: if member is in the array field it is removed, otherwise it is
// prepended. The post-update document is returned.
func toggleSetMember(ctx context.Context, coll *mongo.Collection, docID, member, field string) (bson.Raw, error) {
	fieldRef := "$" + field
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.M{
			field: bson.M{"$cond": bson.A{
				bson.M{"$in": bson.A{member, fieldRef}},
				bson.M{"$setDifference": bson.A{fieldRef, bson.A{member}}},
				bson.M{"$concatArrays": bson.A{bson.A{member}, fieldRef}},
			}},
		}}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	result := coll.FindOneAndUpdate(ctx, bson.M{"_id": docID}, pipeline, opts)

	return result.Raw()
}
