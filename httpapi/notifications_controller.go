package httpapi

import (
	"github.com/gofiber/fiber/v2"

	frameflow "github.com/frameflow/frameflow"
)

// NotificationsController lists the notifications addressed to the
// authenticated user.
type NotificationsController struct {
	Repo   frameflow.RepositoryManager
	Logger frameflow.Logger
	Route  string
}

func NewNotificationsController(repo frameflow.RepositoryManager, logger frameflow.Logger) *NotificationsController {
	return &NotificationsController{
		Repo:   repo,
		Logger: logger,
		Route:  "/notifications",
	}
}

func (n *NotificationsController) List(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}

	notifications, err := n.Repo.Notifications().ListForUser(c.UserContext(), actor.ID)
	if err != nil {
		n.Logger.Error("list notifications", "error", err)
		return err
	}

	return c.JSON(notifications)
}
