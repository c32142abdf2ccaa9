package httpapi

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	frameflow "github.com/frameflow/frameflow"
)

type AuthControllerRoutes struct {
	Login    string
	Register string
	Profile  string
}

// AuthController serves credential and session endpoints.
type AuthController struct {
	Auth   frameflow.Authenticator
	Logger frameflow.Logger
	Routes *AuthControllerRoutes
}

func NewAuthController(auth frameflow.Authenticator, logger frameflow.Logger) *AuthController {
	return &AuthController{
		Auth:   auth,
		Logger: logger,
		Routes: &AuthControllerRoutes{
			Login:    "/auth/login",
			Register: "/auth/register",
			Profile:  "/auth/profile",
		},
	}
}

// LoginPayload is the JSON body of a login request.
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate will validate the payload
func (p LoginPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Username, validation.Required.Error("Username is required")),
		validation.Field(&p.Password, validation.Required.Error("Password is required")),
	)
}

// TokenResponse carries the signed session token back to the client.
type TokenResponse struct {
	Token string `json:"token"`
}

func (a *AuthController) LoginPost(c *fiber.Ctx) error {
	payload := new(LoginPayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload", "error", err)
		return errors.Wrap(err, errors.CategoryBadInput, "Error parsing body").
			WithCode(errors.CodeBadRequest)
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	token, err := a.Auth.Login(c.UserContext(), payload.Username, payload.Password)
	if err != nil {
		a.Logger.Error("login error", "error", err)
		return err
	}

	return c.JSON(TokenResponse{Token: token})
}

func (a *AuthController) RegisterPost(c *fiber.Ctx) error {
	payload := new(frameflow.RegisterPayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("register parse payload", "error", err)
		return errors.Wrap(err, errors.CategoryBadInput, "Error parsing body").
			WithCode(errors.CodeBadRequest)
	}

	token, err := a.Auth.Register(c.UserContext(), *payload)
	if err != nil {
		a.Logger.Error("register error", "error", err)
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(TokenResponse{Token: token})
}

// ProfileShow returns the authenticated user. The password hash never
// renders; the model excludes it from JSON.
func (a *AuthController) ProfileShow(c *fiber.Ctx) error {
	user, ok := frameflow.PrincipalFromContext(c.UserContext())
	if !ok {
		return frameflow.ErrUserNotFound
	}
	return c.JSON(user)
}
