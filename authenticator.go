package frameflow

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
)

// Auther implements the Authenticator surface: it establishes sessions
// (login, register) and gates established ones (bearer). "Login" issues a
// token; no server-side session state exists between requests.
type Auther struct {
	users      Users
	strategies *StrategyRegistry
	hasher     PasswordHasher
	tokens     TokenService
	logger     Logger
	sink       ActivitySink
}

// NewAuthenticator wires the authenticator from its collaborators.
func NewAuthenticator(users Users, strategies *StrategyRegistry, hasher PasswordHasher, tokens TokenService) *Auther {
	return &Auther{
		users:      users,
		strategies: strategies,
		hasher:     hasher,
		tokens:     tokens,
		logger:     defLogger{},
		sink:       noopActivitySink{},
	}
}

// WithLogger replaces the default logger.
func (a *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// WithActivitySink configures an ActivitySink for auth events.
func (a *Auther) WithActivitySink(sink ActivitySink) *Auther {
	a.sink = normalizeActivitySink(sink)
	return a
}

// Login authenticates via the password strategy and issues a session token.
func (a *Auther) Login(ctx context.Context, username, password string) (string, error) {
	strategy, err := a.strategies.Get(StrategyPassword)
	if err != nil {
		return "", err
	}

	user, err := strategy.Authenticate(ctx, Credentials{Username: username, Password: password})
	if err != nil {
		if !IsAuthFailure(err) {
			a.logger.Error("login hard failure", "username", username, "error", err)
		}
		recordActivity(ctx, a.sink, ActivityEvent{EventType: ActivityEventLoginFailure})
		return "", err
	}

	recordActivity(ctx, a.sink, ActivityEvent{
		EventType: ActivityEventLoginSuccess,
		Actor:     user.ID,
	})

	return a.tokens.Generate(user)
}

// RegisterPayload is the registration request.
type RegisterPayload struct {
	Username   string `json:"username" form:"username"`
	Password   string `json:"password" form:"password"`
	PublicName string `json:"public_name" form:"public_name"`
}

// Validate runs validation rules.
func (p RegisterPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(
			&p.Username,
			validation.Required.Error("Username is required"),
			validation.Length(1, 64),
		),
		validation.Field(
			&p.Password,
			validation.Required.Error("Password is required"),
		),
	)
}

// Register creates an account and issues a session token. Username
// availability is checked before any hashing work so a doomed registration
// never pays the bcrypt cost; the store's unique index remains the final
// arbiter under races.
func (a *Auther) Register(ctx context.Context, payload RegisterPayload) (string, error) {
	payload.Username = strings.TrimSpace(payload.Username)

	if err := payload.Validate(); err != nil {
		return "", errors.Wrap(err, errors.CategoryValidation, "invalid registration payload")
	}

	if _, err := a.users.GetByUsername(ctx, payload.Username); err == nil {
		return "", ErrUsernameTaken
	} else if !errors.IsNotFound(err) {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to check username availability")
	}

	hash, err := a.hasher.HashPassword(payload.Password)
	if err != nil {
		var rich *errors.Error
		if errors.As(err, &rich) && rich.Category == errors.CategoryBadInput {
			return "", errors.Wrap(err, errors.CategoryValidation, "invalid password provided")
		}
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	user := &User{
		Username:     payload.Username,
		PublicName:   payload.PublicName,
		PasswordHash: hash,
		Follows:      IDList{},
		Visited:      IDList{},
		SavedPosts:   IDList{},
	}
	if id, err := hashid.NewUUID(payload.Username); err == nil {
		user.ID = id
	}

	user, err = a.users.Register(ctx, user)
	if err != nil {
		if isDuplicateKeyError(err) {
			return "", errors.Wrap(err, errors.CategoryConflict, "User with this name already exists").
				WithTextCode(TextCodeUsernameTaken)
		}
		return "", errors.Wrap(err, errors.CategoryInternal, "could not create user")
	}

	a.logger.Info("user registered", "username", user.Username, "id", user.ID.String())
	recordActivity(ctx, a.sink, ActivityEvent{
		EventType: ActivityEventUserRegistered,
		Actor:     user.ID,
	})

	return a.tokens.Generate(user)
}

// AuthenticateBearer gates a request carrying an established session token.
// It returns the live principal, not the token's snapshot.
func (a *Auther) AuthenticateBearer(ctx context.Context, token string) (*User, error) {
	strategy, err := a.strategies.Get(StrategyBearer)
	if err != nil {
		return nil, err
	}
	return strategy.Authenticate(ctx, Credentials{Token: token})
}

var _ Authenticator = (*Auther)(nil)
