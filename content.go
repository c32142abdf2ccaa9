package frameflow

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// PostDraft is a post submission before its images are uploaded.
// ImagePaths point at the request's temporary files.
type PostDraft struct {
	Text       string
	Location   string
	ImagePaths []string
}

// Validate runs validation rules.
func (d PostDraft) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(
			&d.ImagePaths,
			validation.Required.Error("At least one image is required"),
			validation.Length(1, 9).Error("More than 9 images is not allowed"),
		),
	)
}

// Content creates posts and comments. Uploads go through the blob-upload
// collaborator; only the returned URLs are persisted.
type Content struct {
	repo     RepositoryManager
	uploader BlobUploader
	logger   Logger
}

// NewContent wires the content service.
func NewContent(repo RepositoryManager, uploader BlobUploader) *Content {
	return &Content{
		repo:     repo,
		uploader: uploader,
		logger:   defLogger{},
	}
}

// WithLogger replaces the default logger.
func (c *Content) WithLogger(logger Logger) *Content {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// CreatePost validates the draft, uploads its images, and persists the
// post. Every image must sniff as PNG or JPEG before any upload starts.
func (c *Content) CreatePost(ctx context.Context, author *User, draft PostDraft) (*Post, error) {
	if author == nil {
		return nil, errors.New("acting principal is required", errors.CategoryInternal)
	}

	if err := draft.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "invalid post payload")
	}

	for _, path := range draft.ImagePaths {
		ok, err := SupportedImageType(path)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.New("Invalid file type. Only PNG and JPEG images are supported", errors.CategoryValidation).
				WithCode(errors.CodeBadRequest)
		}
	}

	urls := make([]string, 0, len(draft.ImagePaths))
	for _, path := range draft.ImagePaths {
		url, err := c.uploader.Upload(ctx, path)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "image upload failed")
		}
		urls = append(urls, url)
	}

	post := &Post{
		Author:   author.ID,
		Images:   urls,
		Text:     strings.TrimSpace(draft.Text),
		Location: strings.TrimSpace(draft.Location),
		LikedBy:  IDList{},
	}

	post, err := c.repo.Posts().Create(ctx, post)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create post")
	}

	return post, nil
}

// AddComment creates a comment under a post. Text must be non-empty after
// trimming.
func (c *Content) AddComment(ctx context.Context, author *User, postID uuid.UUID, text string) (*Comment, error) {
	if author == nil {
		return nil, errors.New("acting principal is required", errors.CategoryInternal)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("Comment text is required", errors.CategoryValidation).
			WithCode(errors.CodeBadRequest)
	}

	if _, err := c.repo.Posts().GetByID(ctx, postID); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Wrap(err, errors.CategoryNotFound, "post not found")
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load post")
	}

	comment := &Comment{
		Author:  author.ID,
		Post:    postID,
		Text:    text,
		LikedBy: IDList{},
	}

	comment, err := c.repo.Comments().Create(ctx, comment)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create comment")
	}

	return comment, nil
}

// DeleteComment removes a comment. Only its author may do so.
func (c *Content) DeleteComment(ctx context.Context, actor *User, commentID uuid.UUID) error {
	if actor == nil {
		return errors.New("acting principal is required", errors.CategoryInternal)
	}

	comment, err := c.repo.Comments().GetByID(ctx, commentID)
	if err != nil {
		if errors.IsNotFound(err) {
			return errors.Wrap(err, errors.CategoryNotFound, "comment not found")
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to load comment")
	}

	if comment.Author != actor.ID {
		return errors.New("cannot delete another user's comment", errors.CategoryAuthz).
			WithCode(errors.CodeForbidden)
	}

	return c.repo.Comments().Delete(ctx, commentID)
}
