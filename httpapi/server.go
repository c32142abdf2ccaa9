package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/goliatone/go-errors"
	"github.com/prometheus/client_golang/prometheus"

	frameflow "github.com/frameflow/frameflow"
	"github.com/frameflow/frameflow/metrics"
	"github.com/frameflow/frameflow/middleware/tokenauth"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Auth         frameflow.Authenticator
	Tokens       frameflow.TokenService
	Repo         frameflow.RepositoryManager
	Content      *frameflow.Content
	Interactions *frameflow.Interactions
	Gatherer     prometheus.Gatherer
	Logger       frameflow.Logger
}

// Server owns the fiber app and its route wiring.
type Server struct {
	app  *fiber.App
	deps Deps
}

// New builds the app, installs the shared error handler, and registers
// every route.
func New(deps Deps) *Server {
	app := fiber.New(fiber.Config{
		ErrorHandler: RenderError,
	})
	app.Use(recover.New())

	s := &Server{app: app, deps: deps}
	s.registerRoutes()
	return s
}

// App exposes the underlying fiber app, mostly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving HTTP on addr.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

func (s *Server) registerRoutes() {
	authController := NewAuthController(s.deps.Auth, s.deps.Logger)
	usersController := NewUsersController(s.deps.Repo, s.deps.Interactions, s.deps.Logger)
	postsController := NewPostsController(s.deps.Repo, s.deps.Content, s.deps.Interactions, s.deps.Logger)
	commentsController := NewCommentsController(s.deps.Repo, s.deps.Content, s.deps.Interactions, s.deps.Logger)
	notificationsController := NewNotificationsController(s.deps.Repo, s.deps.Logger)

	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if s.deps.Gatherer != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler(s.deps.Gatherer)))
	}

	s.app.Post(authController.Routes.Login, authController.LoginPost)
	s.app.Post(authController.Routes.Register, authController.RegisterPost)

	protect := tokenauth.New(tokenauth.Config{
		TokenValidator:    s.deps.Tokens,
		PrincipalResolver: s.resolvePrincipal,
		ErrorHandler:      s.bearerErrorHandler,
	})

	s.app.Get(authController.Routes.Profile, protect, authController.ProfileShow)

	s.app.Get(usersController.Routes.Show, protect, usersController.Show)
	s.app.Put(usersController.Routes.Follows, protect, usersController.FollowsPut)
	s.app.Put(usersController.Routes.Visited, protect, usersController.VisitedPut)
	s.app.Put(usersController.Routes.SavedPosts, protect, usersController.SavedPostsPut)

	s.app.Get(postsController.Routes.List, protect, postsController.List)
	s.app.Post(postsController.Routes.List, protect, postsController.CreatePost)
	s.app.Get(postsController.Routes.Show, protect, postsController.Show)
	s.app.Get(postsController.Routes.Likes, protect, postsController.LikesShow)
	s.app.Put(postsController.Routes.Likes, protect, postsController.LikesPut)
	s.app.Get(postsController.Routes.Comments, protect, postsController.CommentsList)
	s.app.Post(postsController.Routes.Comments, protect, postsController.CommentsPost)

	s.app.Delete(commentsController.Routes.Delete, protect, commentsController.Delete)
	s.app.Get(commentsController.Routes.Likes, protect, commentsController.LikesShow)
	s.app.Put(commentsController.Routes.Likes, protect, commentsController.LikesPut)

	s.app.Get(notificationsController.Route, protect, notificationsController.List)
}

func (s *Server) resolvePrincipal(c *fiber.Ctx, claims frameflow.AuthClaims) (*frameflow.User, error) {
	user, err := s.deps.Repo.Users().GetByID(c.UserContext(), claims.UserID())
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, frameflow.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// bearerErrorHandler normalizes middleware failures to the rich error
// contract before the shared renderer takes over.
func (s *Server) bearerErrorHandler(c *fiber.Ctx, err error) error {
	var richErr *errors.Error

	if frameflow.IsTokenExpiredError(err) {
		richErr = frameflow.ErrTokenExpired
	} else if frameflow.IsMalformedError(err) {
		richErr = frameflow.ErrTokenMalformed
	} else if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryAuth, "Invalid authentication token").
			WithCode(errors.CodeUnauthorized)
	}

	return RenderError(c, richErr)
}
