package frameflow_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	frameflow "github.com/frameflow/frameflow"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}
var jpegHeader = []byte{0xff, 0xd8, 0xff, 0xe0, 0, 0x10, 'J', 'F', 'I', 'F', 0}

func writeTempImage(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func TestSupportedImageType(t *testing.T) {
	t.Run("png", func(t *testing.T) {
		ok, err := frameflow.SupportedImageType(writeTempImage(t, "a.png", pngHeader))
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("jpeg", func(t *testing.T) {
		ok, err := frameflow.SupportedImageType(writeTempImage(t, "a.jpg", jpegHeader))
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("text masquerading as an image", func(t *testing.T) {
		ok, err := frameflow.SupportedImageType(writeTempImage(t, "fake.png", []byte("plain text file")))
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestContentCreatePost(t *testing.T) {
	ctx := context.Background()
	author := testUser()

	newService := func(posts *MockPosts) (*frameflow.Content, string) {
		uploadDir := filepath.Join(os.TempDir(), "frameflow-test-"+uuid.NewString())
		uploader, err := frameflow.NewLocalUploader(uploadDir, "/uploads")
		if err != nil {
			panic(err)
		}
		repo := &testRepoManager{posts: posts, comments: new(MockComments), notifications: newMemNotifications()}
		return frameflow.NewContent(repo, uploader), uploadDir
	}

	t.Run("uploads images and persists the post", func(t *testing.T) {
		posts := new(MockPosts)
		posts.On("Create", ctx, mock.AnythingOfType("*frameflow.Post")).Return(nil, nil)

		svc, uploadDir := newService(posts)
		defer os.RemoveAll(uploadDir)

		post, err := svc.CreatePost(ctx, author, frameflow.PostDraft{
			Text:       "  golden hour  ",
			Location:   "Yosemite",
			ImagePaths: []string{writeTempImage(t, "a.png", pngHeader), writeTempImage(t, "b.jpg", jpegHeader)},
		})
		require.NoError(t, err)

		assert.Equal(t, author.ID, post.Author)
		assert.Equal(t, "golden hour", post.Text)
		assert.Len(t, post.Images, 2)
		assert.NotNil(t, post.LikedBy)
		for _, url := range post.Images {
			assert.Contains(t, url, "/uploads/")
		}
	})

	t.Run("requires at least one image", func(t *testing.T) {
		posts := new(MockPosts)
		svc, uploadDir := newService(posts)
		defer os.RemoveAll(uploadDir)

		_, err := svc.CreatePost(ctx, author, frameflow.PostDraft{Text: "no photos"})
		assert.Error(t, err)
		posts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects more than nine images", func(t *testing.T) {
		posts := new(MockPosts)
		svc, uploadDir := newService(posts)
		defer os.RemoveAll(uploadDir)

		paths := make([]string, 10)
		for i := range paths {
			paths[i] = writeTempImage(t, uuid.NewString()+".png", pngHeader)
		}

		_, err := svc.CreatePost(ctx, author, frameflow.PostDraft{ImagePaths: paths})
		assert.Error(t, err)
	})

	t.Run("rejects non-image files before uploading anything", func(t *testing.T) {
		posts := new(MockPosts)
		svc, uploadDir := newService(posts)
		defer os.RemoveAll(uploadDir)

		_, err := svc.CreatePost(ctx, author, frameflow.PostDraft{
			ImagePaths: []string{writeTempImage(t, "fake.png", []byte("not an image"))},
		})
		require.Error(t, err)

		entries, readErr := os.ReadDir(uploadDir)
		require.NoError(t, readErr)
		assert.Empty(t, entries)
	})
}

func TestContentAddComment(t *testing.T) {
	ctx := context.Background()
	author := testUser()
	postID := uuid.New()

	t.Run("creates a trimmed comment", func(t *testing.T) {
		posts := new(MockPosts)
		posts.On("GetByID", ctx, postID).Return(&frameflow.Post{ID: postID}, nil)
		comments := new(MockComments)
		comments.On("Create", ctx, mock.AnythingOfType("*frameflow.Comment")).Return(nil, nil)

		repo := &testRepoManager{posts: posts, comments: comments, notifications: newMemNotifications()}
		svc := frameflow.NewContent(repo, nil)

		comment, err := svc.AddComment(ctx, author, postID, "  nice shot  ")
		require.NoError(t, err)
		assert.Equal(t, "nice shot", comment.Text)
		assert.Equal(t, postID, comment.Post)
	})

	t.Run("rejects empty text", func(t *testing.T) {
		repo := &testRepoManager{posts: new(MockPosts), comments: new(MockComments)}
		svc := frameflow.NewContent(repo, nil)

		_, err := svc.AddComment(ctx, author, postID, "   ")
		assert.Error(t, err)
	})

	t.Run("rejects unknown post", func(t *testing.T) {
		posts := new(MockPosts)
		posts.On("GetByID", ctx, postID).Return(nil, repository.NewRecordNotFound())

		repo := &testRepoManager{posts: posts, comments: new(MockComments)}
		svc := frameflow.NewContent(repo, nil)

		_, err := svc.AddComment(ctx, author, postID, "hello")
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestContentDeleteComment(t *testing.T) {
	ctx := context.Background()
	owner := testUser()
	commentID := uuid.New()

	t.Run("author can delete", func(t *testing.T) {
		comments := new(MockComments)
		comments.On("GetByID", ctx, commentID).
			Return(&frameflow.Comment{ID: commentID, Author: owner.ID}, nil)
		comments.On("Delete", ctx, commentID).Return(nil)

		repo := &testRepoManager{comments: comments}
		svc := frameflow.NewContent(repo, nil)

		require.NoError(t, svc.DeleteComment(ctx, owner, commentID))
		comments.AssertExpectations(t)
	})

	t.Run("non-author is rejected", func(t *testing.T) {
		comments := new(MockComments)
		comments.On("GetByID", ctx, commentID).
			Return(&frameflow.Comment{ID: commentID, Author: uuid.New()}, nil)

		repo := &testRepoManager{comments: comments}
		svc := frameflow.NewContent(repo, nil)

		err := svc.DeleteComment(ctx, owner, commentID)
		require.Error(t, err)

		var rich *errors.Error
		require.True(t, errors.As(err, &rich))
		assert.Equal(t, errors.CodeForbidden, rich.Code)
		comments.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
