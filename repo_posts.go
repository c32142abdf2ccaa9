package frameflow

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Posts is the post repository.
type Posts interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Post, error)
	List(ctx context.Context) ([]*Post, error)
	ListByAuthor(ctx context.Context, author uuid.UUID) ([]*Post, error)
	Create(ctx context.Context, post *Post) (*Post, error)
	ReplaceLikedBy(ctx context.Context, id uuid.UUID, likedBy IDList) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PostsRepository implements Posts using bun.
type PostsRepository struct {
	db *bun.DB
}

var _ Posts = (*PostsRepository)(nil)

// NewPostsRepository creates a new repository.
func NewPostsRepository(db *bun.DB) *PostsRepository {
	return &PostsRepository{db: db}
}

// GetByID implements Posts.
func (r *PostsRepository) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	post := &Post{}
	err := r.db.NewSelect().
		Model(post).
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
	return post, nil
}

// List returns all posts, newest first.
func (r *PostsRepository) List(ctx context.Context) ([]*Post, error) {
	var posts []*Post
	err := r.db.NewSelect().
		Model(&posts).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return []*Post{}, nil
		}
		return nil, err
	}
	return posts, nil
}

// ListByAuthor returns the author's posts, newest first.
func (r *PostsRepository) ListByAuthor(ctx context.Context, author uuid.UUID) ([]*Post, error) {
	var posts []*Post
	err := r.db.NewSelect().
		Model(&posts).
		Where("author = ?", author).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return []*Post{}, nil
		}
		return nil, err
	}
	return posts, nil
}

// Create implements Posts.
func (r *PostsRepository) Create(ctx context.Context, post *Post) (*Post, error) {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	if post.LikedBy == nil {
		post.LikedBy = IDList{}
	}
	if post.CreatedAt == nil {
		now := time.Now()
		post.CreatedAt = &now
	}

	_, err := r.db.NewInsert().
		Model(post).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return post, nil
}

// ReplaceLikedBy overwrites the post's likedBy set.
func (r *PostsRepository) ReplaceLikedBy(ctx context.Context, id uuid.UUID, likedBy IDList) error {
	if likedBy == nil {
		likedBy = IDList{}
	}
	res, err := r.db.NewUpdate().
		Model((*Post)(nil)).
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

// Delete implements Posts.
func (r *PostsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*Post)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
