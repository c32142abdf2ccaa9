package httpapi

import (
	"github.com/gofiber/fiber/v2"

	frameflow "github.com/frameflow/frameflow"
)

type CommentsControllerRoutes struct {
	Delete string
	Likes  string
}

// CommentsController serves the comment-scoped endpoints. Deletion is
// author-only; likes follow the same toggle pipeline as posts.
type CommentsController struct {
	Repo         frameflow.RepositoryManager
	Content      *frameflow.Content
	Interactions *frameflow.Interactions
	Logger       frameflow.Logger
	Routes       *CommentsControllerRoutes
}

func NewCommentsController(repo frameflow.RepositoryManager, content *frameflow.Content, interactions *frameflow.Interactions, logger frameflow.Logger) *CommentsController {
	return &CommentsController{
		Repo:         repo,
		Content:      content,
		Interactions: interactions,
		Logger:       logger,
		Routes: &CommentsControllerRoutes{
			Delete: "/comments/:id",
			Likes:  "/comments/:id/likes",
		},
	}
}

func (cc *CommentsController) Delete(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}

	id, err := parseEntityID(c)
	if err != nil {
		return err
	}

	if err := cc.Content.DeleteComment(c.UserContext(), actor, id); err != nil {
		cc.Logger.Error("delete comment", "error", err)
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (cc *CommentsController) LikesShow(c *fiber.Ctx) error {
	id, err := parseEntityID(c)
	if err != nil {
		return err
	}

	comment, err := cc.Repo.Comments().GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(comment.LikedBy)
}

func (cc *CommentsController) LikesPut(c *fiber.Ctx) error {
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

	toggle, err := cc.Interactions.ApplyCommentLikeToggle(c.UserContext(), actor, id, proposed)
	if err != nil {
		cc.Logger.Error("comment like toggle", "error", err)
		return err
	}

	return c.JSON(fiber.Map{
		"kind":   toggle.Kind.String(),
		"member": toggle.Member,
	})
}
