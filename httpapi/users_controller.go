package httpapi

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"

	frameflow "github.com/frameflow/frameflow"
)

type UsersControllerRoutes struct {
	Show       string
	Follows    string
	Visited    string
	SavedPosts string
}

// UsersController serves user lookup and the three replaceable id sets.
// Follows replacement goes through the toggle pipeline so notifications
// stay mirrored; visited and saved posts are plain replacements.
type UsersController struct {
	Repo         frameflow.RepositoryManager
	Interactions *frameflow.Interactions
	Logger       frameflow.Logger
	Routes       *UsersControllerRoutes
}

func NewUsersController(repo frameflow.RepositoryManager, interactions *frameflow.Interactions, logger frameflow.Logger) *UsersController {
	return &UsersController{
		Repo:         repo,
		Interactions: interactions,
		Logger:       logger,
		Routes: &UsersControllerRoutes{
			Show:       "/users/:id",
			Follows:    "/users/:id/follows",
			Visited:    "/users/:id/visited",
			SavedPosts: "/users/:id/saved-posts",
		},
	}
}

// IDListPayload is the JSON body of a set replacement request. The body
// is the full proposed set, not a delta.
type IDListPayload struct {
	IDs frameflow.IDList `json:"ids"`
}

func parseEntityID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, errors.Wrap(err, errors.CategoryBadInput, "invalid entity id").
			WithCode(errors.CodeBadRequest)
	}
	return id, nil
}

func parseIDListBody(c *fiber.Ctx) (frameflow.IDList, error) {
	payload := new(IDListPayload)
	if err := c.BodyParser(payload); err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "Error parsing body").
			WithCode(errors.CodeBadRequest)
	}
	if payload.IDs == nil {
		payload.IDs = frameflow.IDList{}
	}
	return payload.IDs, nil
}

func principal(c *fiber.Ctx) (*frameflow.User, error) {
	user, ok := frameflow.PrincipalFromContext(c.UserContext())
	if !ok {
		return nil, frameflow.ErrUserNotFound
	}
	return user, nil
}

func (u *UsersController) Show(c *fiber.Ctx) error {
	id, err := parseEntityID(c)
	if err != nil {
		return err
	}

	user, err := u.Repo.Users().GetByID(c.UserContext(), id.String())
	if err != nil {
		if errors.IsNotFound(err) {
			return frameflow.ErrUserNotFound
		}
		return err
	}

	return c.JSON(user)
}

// FollowsPut replaces the acting user's follows set. The change must
// differ from the stored set by at most one member.
func (u *UsersController) FollowsPut(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}

	target, err := parseEntityID(c)
	if err != nil {
		return err
	}

	proposed, err := parseIDListBody(c)
	if err != nil {
		return err
	}

	toggle, err := u.Interactions.ApplyFollowToggle(c.UserContext(), actor, target, proposed)
	if err != nil {
		u.Logger.Error("follows toggle", "error", err)
		return err
	}

	return c.JSON(fiber.Map{
		"kind":   toggle.Kind.String(),
		"member": toggle.Member,
	})
}

func (u *UsersController) VisitedPut(c *fiber.Ctx) error {
	return u.plainReplace(c, u.Repo.Users().ReplaceVisited)
}

func (u *UsersController) SavedPostsPut(c *fiber.Ctx) error {
	return u.plainReplace(c, u.Repo.Users().ReplaceSavedPosts)
}

// plainReplace handles the sets that carry no social meaning. Owners may
// only touch their own record.
func (u *UsersController) plainReplace(c *fiber.Ctx, replace func(ctx context.Context, id uuid.UUID, list frameflow.IDList) error) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}

	target, err := parseEntityID(c)
	if err != nil {
		return err
	}

	if actor.ID != target {
		return errors.New("cannot modify another user's record", errors.CategoryAuthz).
			WithCode(errors.CodeForbidden)
	}

	list, err := parseIDListBody(c)
	if err != nil {
		return err
	}

	if err := replace(c.UserContext(), target, list); err != nil {
		if errors.IsNotFound(err) {
			return frameflow.ErrUserNotFound
		}
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
