package frameflow

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Comments is the comment repository.
type Comments interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Comment, error)
	ForPost(ctx context.Context, postID uuid.UUID) ([]*Comment, error)
	Create(ctx context.Context, comment *Comment) (*Comment, error)
	ReplaceLikedBy(ctx context.Context, id uuid.UUID, likedBy IDList) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CommentsRepository implements Comments using bun.
type CommentsRepository struct {
	db *bun.DB
}

var _ Comments = (*CommentsRepository)(nil)

// NewCommentsRepository creates a new repository.
func NewCommentsRepository(db *bun.DB) *CommentsRepository {
	return &CommentsRepository{db: db}
}

// GetByID implements Comments.
func (r *CommentsRepository) GetByID(ctx context.Context, id uuid.UUID) (*Comment, error) {
	comment := &Comment{}
	err := r.db.NewSelect().
		Model(comment).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String()})
		}
		return nil, err
	}
	return comment, nil
}

// ForPost returns a post's comments, newest first.
func (r *CommentsRepository) ForPost(ctx context.Context, postID uuid.UUID) ([]*Comment, error) {
	var comments []*Comment
	err := r.db.NewSelect().
		Model(&comments).
		Where("post = ?", postID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return []*Comment{}, nil
		}
		return nil, err
	}
	return comments, nil
}

// Create implements Comments.
func (r *CommentsRepository) Create(ctx context.Context, comment *Comment) (*Comment, error) {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	if comment.LikedBy == nil {
		comment.LikedBy = IDList{}
	}
	if comment.CreatedAt == nil {
		now := time.Now()
		comment.CreatedAt = &now
	}

	_, err := r.db.NewInsert().
		Model(comment).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// ReplaceLikedBy overwrites the comment's likedBy set.
func (r *CommentsRepository) ReplaceLikedBy(ctx context.Context, id uuid.UUID, likedBy IDList) error {
	if likedBy == nil {
		likedBy = IDList{}
	}
	res, err := r.db.NewUpdate().
		Model((*Comment)(nil)).
		Set("liked_by = ?", likedBy).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id.String()})
	}

	return nil
}

// Delete implements Comments.
func (r *CommentsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*Comment)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
