package frameflow

import (
	"context"

	"github.com/goliatone/go-errors"
)

// Credentials carries the request material a strategy consumes. Password
// strategies read Username/Password, bearer strategies read Token.
type Credentials struct {
	Username string
	Password string
	Token    string
}

// Strategy authenticates a request and yields the principal. Rejections come
// back as CategoryAuth errors with fixed client-facing messages; anything
// else is a hard failure the caller must not show to the client.
type Strategy interface {
	Name() string
	Authenticate(ctx context.Context, creds Credentials) (*User, error)
}

// StrategyRegistry resolves strategies by name. It is built once at startup
// and passed by reference; nothing mutates it afterwards.
type StrategyRegistry struct {
	strategies map[string]Strategy
	logger     Logger
}

// NewStrategyRegistry returns an empty registry.
func NewStrategyRegistry(logger Logger) *StrategyRegistry {
	if logger == nil {
		logger = defLogger{}
	}
	return &StrategyRegistry{
		strategies: map[string]Strategy{},
		logger:     logger,
	}
}

// Use registers a strategy under its name, replacing any previous one.
func (r *StrategyRegistry) Use(s Strategy) *StrategyRegistry {
	if s != nil {
		r.strategies[s.Name()] = s
	}
	return r
}

// Get resolves a strategy by name.
func (r *StrategyRegistry) Get(name string) (Strategy, error) {
	s, ok := r.strategies[name]
	if !ok {
		return nil, errors.New("unknown authentication strategy", errors.CategoryInternal).
			WithMetadata(map[string]any{"strategy": name})
	}
	return s, nil
}

const (
	// StrategyPassword establishes a session from username and password.
	StrategyPassword = "password"
	// StrategyBearer authenticates an established session token.
	StrategyBearer = "bearer"
)

// PasswordStrategy verifies a username/password pair against the store.
type PasswordStrategy struct {
	users  UserStore
	hasher PasswordHasher
}

// NewPasswordStrategy wires the password strategy.
func NewPasswordStrategy(users UserStore, hasher PasswordHasher) *PasswordStrategy {
	return &PasswordStrategy{users: users, hasher: hasher}
}

// Name implements Strategy.
func (s *PasswordStrategy) Name() string { return StrategyPassword }

// Authenticate resolves the username and verifies the password. The two
// rejection messages are a deliberate, preserved disclosure trade-off: they
// reveal whether the username half was wrong, and nothing more.
func (s *PasswordStrategy) Authenticate(ctx context.Context, creds Credentials) (*User, error) {
	user, err := s.users.GetByUsername(ctx, creds.Username)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrUserNotExist
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if err := s.hasher.ComparePasswordAndHash(creds.Password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrMismatchedHashAndPassword) {
			return nil, ErrIncorrectPassword
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "password verification failed")
	}

	return user, nil
}

// BearerStrategy verifies a signed session token and re-resolves the
// principal against the store, so authorization decisions never trust the
// snapshot embedded at issuance time.
type BearerStrategy struct {
	tokens TokenValidator
	users  UserStore
}

// NewBearerStrategy wires the bearer strategy.
func NewBearerStrategy(tokens TokenValidator, users UserStore) *BearerStrategy {
	return &BearerStrategy{tokens: tokens, users: users}
}

// Name implements Strategy.
func (s *BearerStrategy) Name() string { return StrategyBearer }

// Authenticate validates the token and loads the live principal.
func (s *BearerStrategy) Authenticate(ctx context.Context, creds Credentials) (*User, error) {
	claims, err := s.tokens.Validate(creds.Token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID())
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to resolve token principal")
	}

	return user, nil
}
