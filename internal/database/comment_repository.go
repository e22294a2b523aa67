// internal/database/comment_repository.go
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"inkwell/internal/models"
	"inkwell/internal/utils"
)

// CommentDocument represents comment data in MongoDB
type CommentDocument struct {
	ID             string    `bson:"_id"`
	Content        string    `bson:"content"`
	AuthorID       string    `bson:"authorId"`
	AuthorUsername string    `bson:"authorUsername"`
	PostID         string    `bson:"postId"`
	ParentID       *string   `bson:"parentId,omitempty"`
	Likes          []string  `bson:"likes"`
	CreatedAt      time.Time `bson:"createdAt"`
}

func commentModelToDocument(comment *models.Comment) *CommentDocument {
	doc := &CommentDocument{
		ID:             comment.ID.String(),
		Content:        comment.Content,
		AuthorID:       comment.AuthorID.String(),
		AuthorUsername: comment.AuthorUsername,
		PostID:         comment.PostID.String(),
		Likes:          uuidsToStrings(comment.Likes),
		CreatedAt:      comment.CreatedAt,
	}

	if comment.ParentID != nil {
		parentIDStr := comment.ParentID.String()
		doc.ParentID = &parentIDStr
	}

	return doc
}

func commentDocumentToModel(doc *CommentDocument) (*models.Comment, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid comment ID: %v", err)
	}

	authorID, err := uuid.Parse(doc.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("invalid author ID: %v", err)
	}

	postID, err := uuid.Parse(doc.PostID)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID: %v", err)
	}

	likes, err := stringsToUUIDs(doc.Likes)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:             id,
		Content:        doc.Content,
		AuthorID:       authorID,
		AuthorUsername: doc.AuthorUsername,
		PostID:         postID,
		Likes:          likes,
		CreatedAt:      doc.CreatedAt,
	}

	if doc.ParentID != nil {
		parentID, err := uuid.Parse(*doc.ParentID)
		if err != nil {
			return nil, fmt.Errorf("invalid parent comment ID: %v", err)
		}
		comment.ParentID = &parentID
	}

	return comment, nil
}

// SaveComment creates or updates a comment in MongoDB
func (m *MongoDB) SaveComment(ctx context.Context, comment *models.Comment) error {
	doc := commentModelToDocument(comment)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": doc.ID}
	update := bson.M{"$set": doc}

	_, err := m.Comments.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to save comment: %v", err)
	}
	return nil
}

// GetComment retrieves a comment by ID
func (m *MongoDB) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var doc CommentDocument

	err := m.Comments.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "Comment not found", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %v", err)
	}

	return commentDocumentToModel(&doc)
}

// GetPostComments retrieves the top-level comments of a post, newest first.
// Replies are materialized separately via GetCommentReplies.
func (m *MongoDB) GetPostComments(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	filter := bson.M{"postId": postID.String(), "parentId": nil}
	return m.findComments(ctx, filter)
}

// GetCommentReplies retrieves the direct replies of a comment, newest first.
// It does not recurse.
func (m *MongoDB) GetCommentReplies(ctx context.Context, commentID uuid.UUID) ([]*models.Comment, error) {
	filter := bson.M{"parentId": commentID.String()}
	return m.findComments(ctx, filter)
}

func (m *MongoDB) findComments(ctx context.Context, filter bson.M) ([]*models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := m.Comments.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %v", err)
	}
	defer cursor.Close(ctx)

	comments := []*models.Comment{}
	for cursor.Next(ctx) {
		var doc CommentDocument
		if err := cursor.Decode(&doc); err != nil {
			log.Printf("Error decoding comment document: %v", err)
			continue
		}

		comment, err := commentDocumentToModel(&doc)
		if err != nil {
			log.Printf("Error converting document to model: %v", err)
			continue
		}
		comments = append(comments, comment)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor iteration failed: %v", err)
	}

	return comments, nil
}

// UpdateComment replaces a comment's content.
func (m *MongoDB) UpdateComment(ctx context.Context, id uuid.UUID, content string) (*models.Comment, error) {
	filter := bson.M{"_id": id.String()}
	update := bson.M{"$set": bson.M{"content": content}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc CommentDocument
	err := m.Comments.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "Comment not found", err)
	}
	if err != nil {
		return nil, err
	}

	return commentDocumentToModel(&doc)
}

// DeleteCommentTree removes a comment and its direct replies. Replies of
// replies, if any exist, are left orphaned.
func (m *MongoDB) DeleteCommentTree(ctx context.Context, id uuid.UUID) error {
	if _, err := m.Comments.DeleteMany(ctx, bson.M{"parentId": id.String()}); err != nil {
		return fmt.Errorf("failed to delete replies: %v", err)
	}

	result, err := m.Comments.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("failed to delete comment: %v", err)
	}
	if result.DeletedCount == 0 {
		return utils.NewAppError(utils.ErrNotFound, "Comment not found", nil)
	}
	return nil
}

// ToggleCommentLike flips the actor's membership in the comment's likes set
// in one pipeline update and returns the resulting set.
func (m *MongoDB) ToggleCommentLike(ctx context.Context, id, userID uuid.UUID) ([]uuid.UUID, error) {
	doc, err := toggleSetMember(ctx, m.Comments, id.String(), userID.String(), "likes")
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewAppError(utils.ErrNotFound, "Comment not found", err)
		}
		return nil, err
	}

	var ids []string
	if err := doc.Lookup("likes").Unmarshal(&ids); err != nil {
		return nil, fmt.Errorf("failed to decode likes set: %v", err)
	}
	return stringsToUUIDs(ids)
}
