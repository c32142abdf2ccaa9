package frameflow

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the user repository. It owns the follows/visited/savedPosts
// lists; replacements are unconditional overwrites of the submitted list.
type Users interface {
	UserStore

	Register(ctx context.Context, user *User) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)

	ReplaceFollows(ctx context.Context, id uuid.UUID, follows IDList) error
	ReplaceVisited(ctx context.Context, id uuid.UUID, visited IDList) error
	ReplaceSavedPosts(ctx context.Context, id uuid.UUID, savedPosts IDList) error

	UpdateProfile(ctx context.Context, user *User) (*User, error)
}

type users struct {
	repo repository.Repository[*User]
	db   *bun.DB
}

var _ Users = (*users)(nil)

// NewUsersRepository builds the user repository over bun.
func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "username"
		},
	})

	return &users{repo: repo, db: db}
}

func (a *users) GetByID(ctx context.Context, id string) (*User, error) {
	return a.repo.GetByID(ctx, id)
}

// GetByUsername resolves a user by exact, case-sensitive username.
func (a *users) GetByUsername(ctx context.Context, username string) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.username = ?", username).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"username": username})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	prepareUserDefaults(user)
	return a.repo.CreateTx(ctx, tx, user)
}

func (a *users) ReplaceFollows(ctx context.Context, id uuid.UUID, follows IDList) error {
	return a.replaceList(ctx, id, "follows", follows)
}

func (a *users) ReplaceVisited(ctx context.Context, id uuid.UUID, visited IDList) error {
	return a.replaceList(ctx, id, "visited", visited)
}

func (a *users) ReplaceSavedPosts(ctx context.Context, id uuid.UUID, savedPosts IDList) error {
	return a.replaceList(ctx, id, "saved_posts", savedPosts)
}

func (a *users) replaceList(ctx context.Context, id uuid.UUID, column string, list IDList) error {
	if list == nil {
		list = IDList{}
	}
	res, err := a.db.NewUpdate().
		Model((*User)(nil)).
		Set("? = ?", bun.Ident(column), list).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id.String()})
	}

	return nil
}

// UpdateProfile persists the mutable profile fields.
func (a *users) UpdateProfile(ctx context.Context, user *User) (*User, error) {
	now := time.Now()
	user.UpdatedAt = &now
	_, err := a.db.NewUpdate().
		Model(user).
		Column("public_name", "description", "avatar", "updated_at").
		Where("id = ?", user.ID).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func prepareUserDefaults(user *User) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Follows == nil {
		user.Follows = IDList{}
	}
	if user.Visited == nil {
		user.Visited = IDList{}
	}
	if user.SavedPosts == nil {
		user.SavedPosts = IDList{}
	}
	if user.CreatedAt == nil {
		now := time.Now()
		user.CreatedAt = &now
	}
}
