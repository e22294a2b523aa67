// internal/database/user_repository.go
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

// UserDocument represents the MongoDB schema for a user
type UserDocument struct {
	ID             string    `bson:"_id"`            // MongoDB primary key
	Username       string    `bson:"username"`       // Username
	Email          string    `bson:"email"`          // Email address
	HashedPassword string    `bson:"hashedPassword"` // Hashed password
	Bio            string    `bson:"bio"`            // Short profile text
	ProfilePicture string    `bson:"profilePicture"` // Picture URL
	Followers      []string  `bson:"followers"`      // IDs of users following this user
	Following      []string  `bson:"following"`      // IDs of users this user follows
	CreatedAt      time.Time `bson:"createdAt"`      // Account creation timestamp
}

func userModelToDocument(user *models.User) *UserDocument {
	return &UserDocument{
		ID:             user.ID.String(),
		Username:       user.Username,
		Email:          user.Email,
		HashedPassword: user.HashedPassword,
		Bio:            user.Bio,
		ProfilePicture: user.ProfilePicture,
		Followers:      uuidsToStrings(user.Followers),
		Following:      uuidsToStrings(user.Following),
		CreatedAt:      user.CreatedAt,
	}
}

func userDocumentToModel(doc *UserDocument) (*models.User, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in database: %v", err)
	}

	followers, err := stringsToUUIDs(doc.Followers)
	if err != nil {
		return nil, err
	}

	following, err := stringsToUUIDs(doc.Following)
	if err != nil {
		return nil, err
	}

	return &models.User{
		ID:             id,
		Username:       doc.Username,
		Email:          doc.Email,
		HashedPassword: doc.HashedPassword,
		Bio:            doc.Bio,
		ProfilePicture: doc.ProfilePicture,
		Followers:      followers,
		Following:      following,
		CreatedAt:      doc.CreatedAt,
	}, nil
}

// SaveUser creates or updates a user in MongoDB
func (m *MongoDB) SaveUser(ctx context.Context, user *models.User) error {
	doc := userModelToDocument(user)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": doc.ID}
	update := bson.M{"$set": doc}

	_, err := m.Users.UpdateOne(ctx, filter, update, opts)
	if mongo.IsDuplicateKeyError(err) {
		return utils.NewAppError(utils.ErrDuplicateUser, "User already exists", err)
	}
	return err
}

// GetUser retrieves a user from MongoDB by their ID
func (m *MongoDB) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var doc UserDocument

	err := m.Users.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrUserNotFound, "User not found", err)
	}
	if err != nil {
		return nil, err
	}

	return userDocumentToModel(&doc)
}

// GetUserByEmail retrieves a user from MongoDB by their email address
func (m *MongoDB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var doc UserDocument

	err := m.Users.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrUserNotFound, "User not found", err)
	}
	if err != nil {
		return nil, err
	}

	return userDocumentToModel(&doc)
}

// UpdateUserProfile applies a partial profile update. Empty fields are left
// unchanged. Username uniqueness is not re-checked here.
func (m *MongoDB) UpdateUserProfile(ctx context.Context, id uuid.UUID, username, bio string) (*models.User, error) {
	set := bson.M{}
	if username != "" {
		set["username"] = username
	}
	if bio != "" {
		set["bio"] = bio
	}

	filter := bson.M{"_id": id.String()}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	if len(set) == 0 {
		return m.GetUser(ctx, id)
	}

	var doc UserDocument
	err := m.Users.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrUserNotFound, "User not found", err)
	}
	if err != nil {
		return nil, err
	}

	return userDocumentToModel(&doc)
}

// SetProfilePicture updates the user's profile picture URL
func (m *MongoDB) SetProfilePicture(ctx context.Context, id uuid.UUID, url string) (*models.User, error) {
	filter := bson.M{"_id": id.String()}
	update := bson.M{"$set": bson.M{"profilePicture": url}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc UserDocument
	err := m.Users.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrUserNotFound, "User not found", err)
	}
	if err != nil {
		return nil, err
	}

	return userDocumentToModel(&doc)
}

// FollowUser adds targetID to the actor's following set and actorID to the
// target's followers set. The two writes use $addToSet; if the mirror write
// fails the first write is compensated with a $pull so the graph cannot be
// left asymmetric.
func (m *MongoDB) FollowUser(ctx context.Context, actorID, targetID uuid.UUID) error {
	actor, err := m.GetUser(ctx, actorID)
	if err != nil {
		return err
	}
	if _, err := m.GetUser(ctx, targetID); err != nil {
		return err
	}

	for _, id := range actor.Following {
		if id == targetID {
			return utils.NewAppError(utils.ErrAlreadyFollowing, "You are already following this user", nil)
		}
	}

	_, err = m.Users.UpdateOne(ctx,
		bson.M{"_id": actorID.String()},
		bson.M{"$addToSet": bson.M{"following": targetID.String()}})
	if err != nil {
		return err
	}

	_, err = m.Users.UpdateOne(ctx,
		bson.M{"_id": targetID.String()},
		bson.M{"$addToSet": bson.M{"followers": actorID.String()}})
	if err != nil {
		// Roll back the first write so both sides stay mirrored.
		if _, rbErr := m.Users.UpdateOne(ctx,
			bson.M{"_id": actorID.String()},
			bson.M{"$pull": bson.M{"following": targetID.String()}}); rbErr != nil {
			log.Printf("Failed to roll back follow of %s by %s: %v", targetID, actorID, rbErr)
		}
		return err
	}

	return nil
}

// UnfollowUser removes the mirrored follow entries, compensating the first
// removal if the second one fails.
func (m *MongoDB) UnfollowUser(ctx context.Context, actorID, targetID uuid.UUID) error {
	actor, err := m.GetUser(ctx, actorID)
	if err != nil {
		return err
	}
	if _, err := m.GetUser(ctx, targetID); err != nil {
		return err
	}

	following := false
	for _, id := range actor.Following {
		if id == targetID {
			following = true
			break
		}
	}
	if !following {
		return utils.NewAppError(utils.ErrNotFollowing, "You are not following this user", nil)
	}

	_, err = m.Users.UpdateOne(ctx,
		bson.M{"_id": actorID.String()},
		bson.M{"$pull": bson.M{"following": targetID.String()}})
	if err != nil {
		return err
	}

	_, err = m.Users.UpdateOne(ctx,
		bson.M{"_id": targetID.String()},
		bson.M{"$pull": bson.M{"followers": actorID.String()}})
	if err != nil {
		if _, rbErr := m.Users.UpdateOne(ctx,
			bson.M{"_id": actorID.String()},
			bson.M{"$addToSet": bson.M{"following": targetID.String()}}); rbErr != nil {
			log.Printf("Failed to roll back unfollow of %s by %s: %v", targetID, actorID, rbErr)
		}
		return err
	}

	return nil
}

// GetProfileSummaries resolves user IDs to profile summaries, preserving the
// order of the input slice (insertion order of the stored array).
func (m *MongoDB) GetProfileSummaries(ctx context.Context, ids []uuid.UUID) ([]models.ProfileSummary, error) {
	if len(ids) == 0 {
		return []models.ProfileSummary{}, nil
	}

	cursor, err := m.Users.Find(ctx,
		bson.M{"_id": bson.M{"$in": uuidsToStrings(ids)}},
		options.Find().SetProjection(bson.M{"_id": 1, "username": 1, "bio": 1, "profilePicture": 1}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	byID := make(map[uuid.UUID]models.ProfileSummary, len(ids))
	for cursor.Next(ctx) {
		var doc UserDocument
		if err := cursor.Decode(&doc); err != nil {
			log.Printf("Error decoding user document: %v", err)
			continue
		}
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			log.Printf("Invalid user ID in database: %v", err)
			continue
		}
		byID[id] = models.ProfileSummary{
			ID:             id,
			Username:       doc.Username,
			Bio:            doc.Bio,
			ProfilePicture: doc.ProfilePicture,
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	// $in does not preserve order; reassemble in input order.
	summaries := make([]models.ProfileSummary, 0, len(ids))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			summaries = append(summaries, s)
		}
	}

	return summaries, nil
}
