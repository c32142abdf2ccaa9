package httpapi

import (
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"

	frameflow "github.com/frameflow/frameflow"
)

type PostsControllerRoutes struct {
	List     string
	Show     string
	Likes    string
	Comments string
}

// PostsController serves the photo feed: post creation with image upload,
// listing, like toggles, and comments.
type PostsController struct {
	Repo         frameflow.RepositoryManager
	Content      *frameflow.Content
	Interactions *frameflow.Interactions
	Logger       frameflow.Logger
	Routes       *PostsControllerRoutes
}

func NewPostsController(repo frameflow.RepositoryManager, content *frameflow.Content, interactions *frameflow.Interactions, logger frameflow.Logger) *PostsController {
	return &PostsController{
		Repo:         repo,
		Content:      content,
		Interactions: interactions,
		Logger:       logger,
		Routes: &PostsControllerRoutes{
			List:     "/posts",
			Show:     "/posts/:id",
			Likes:    "/posts/:id/likes",
			Comments: "/posts/:id/comments",
		},
	}
}

func (p *PostsController) List(c *fiber.Ctx) error {
	if author := c.Query("author"); author != "" {
		id, err := uuid.Parse(author)
		if err != nil {
			return errors.Wrap(err, errors.CategoryBadInput, "invalid author id").
				WithCode(errors.CodeBadRequest)
		}
		posts, err := p.Repo.Posts().ListByAuthor(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(posts)
	}

	posts, err := p.Repo.Posts().List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(posts)
}

func (p *PostsController) Show(c *fiber.Ctx) error {
	id, err := parseEntityID(c)
	if err != nil {
		return err
	}

	post, err := p.Repo.Posts().GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(post)
}

// CreatePost accepts a multipart form with 1 to 9 image files and
// optional text and location fields. Files are staged to a temp directory
// for content sniffing before the uploader takes over.
func (p *PostsController) CreatePost(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "Error parsing form").
			WithCode(errors.CodeBadRequest)
	}

	files := form.File["images"]

	tmpDir, err := os.MkdirTemp("", "frameflow-upload-*")
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to stage uploads")
	}
	defer os.RemoveAll(tmpDir)

	paths := make([]string, 0, len(files))
	for i, fh := range files {
		dst := filepath.Join(tmpDir, uuid.NewString()+filepath.Ext(fh.Filename))
		if err := c.SaveFile(fh, dst); err != nil {
			p.Logger.Error("stage upload", "index", i, "error", err)
			return errors.Wrap(err, errors.CategoryInternal, "failed to stage uploads")
		}
		paths = append(paths, dst)
	}

	draft := frameflow.PostDraft{
		Text:       c.FormValue("text"),
		Location:   c.FormValue("location"),
		ImagePaths: paths,
	}

	post, err := p.Content.CreatePost(c.UserContext(), actor, draft)
	if err != nil {
		p.Logger.Error("create post", "error", err)
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

func (p *PostsController) LikesShow(c *fiber.Ctx) error {
	id, err := parseEntityID(c)
	if err != nil {
		return err
	}

	post, err := p.Repo.Posts().GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(post.LikedBy)
}

// LikesPut replaces the post's likedBy set through the toggle pipeline.
func (p *PostsController) LikesPut(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}

	id, err := parseEntityID(c)
	if err != nil {
		return err
	}

	proposed, err := parseIDListBody(c)
	if err != nil {
		return err
	}

	toggle, err := p.Interactions.ApplyPostLikeToggle(c.UserContext(), actor, id, proposed)
	if err != nil {
		p.Logger.Error("post like toggle", "error", err)
		return err
	}

	return c.JSON(fiber.Map{
		"kind":   toggle.Kind.String(),
		"member": toggle.Member,
	})
}

func (p *PostsController) CommentsList(c *fiber.Ctx) error {
	id, err := parseEntityID(c)
	if err != nil {
		return err
	}

	comments, err := p.Repo.Comments().ForPost(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(comments)
}

// CommentPayload is the JSON body of a comment creation request.
type CommentPayload struct {
	Text string `json:"text"`
}

func (p *PostsController) CommentsPost(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}

	id, err := parseEntityID(c)
	if err != nil {
		return err
	}

	payload := new(CommentPayload)
	if err := c.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "Error parsing body").
			WithCode(errors.CodeBadRequest)
	}

	comment, err := p.Content.AddComment(c.UserContext(), actor, id, payload.Text)
	if err != nil {
		p.Logger.Error("create comment", "error", err)
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}
