package httpapi_test

import (
	"context"
	"database/sql"
	"sync"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	frameflow "github.com/frameflow/frameflow"
)

// memUsers is an in-memory Users implementation so the HTTP tests can run
// full register/login/toggle flows without a database.
type memUsers struct {
	mu     sync.Mutex
	byID   map[uuid.UUID]*frameflow.User
	byName map[string]*frameflow.User
}

func newMemUsers() *memUsers {
	return &memUsers{
		byID:   map[uuid.UUID]*frameflow.User{},
		byName: map[string]*frameflow.User{},
	}
}

var _ frameflow.Users = (*memUsers)(nil)

func (s *memUsers) GetByUsername(ctx context.Context, username string) (*frameflow.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.byName[username]
	if !ok {
		return nil, repository.NewRecordNotFound()
	}
	return user, nil
}

func (s *memUsers) GetByID(ctx context.Context, id string) (*frameflow.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, repository.NewRecordNotFound()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.byID[uid]
	if !ok {
		return nil, repository.NewRecordNotFound()
	}
	return user, nil
}

func (s *memUsers) Register(ctx context.Context, user *frameflow.User) (*frameflow.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	s.byID[user.ID] = user
	s.byName[user.Username] = user
	return user, nil
}

func (s *memUsers) RegisterTx(ctx context.Context, tx bun.IDB, user *frameflow.User) (*frameflow.User, error) {
	return s.Register(ctx, user)
}

func (s *memUsers) ReplaceFollows(ctx context.Context, id uuid.UUID, follows frameflow.IDList) error {
	return s.replace(id, func(u *frameflow.User) { u.Follows = follows.Clone() })
}

func (s *memUsers) ReplaceVisited(ctx context.Context, id uuid.UUID, visited frameflow.IDList) error {
	return s.replace(id, func(u *frameflow.User) { u.Visited = visited.Clone() })
}

func (s *memUsers) ReplaceSavedPosts(ctx context.Context, id uuid.UUID, savedPosts frameflow.IDList) error {
	return s.replace(id, func(u *frameflow.User) { u.SavedPosts = savedPosts.Clone() })
}

func (s *memUsers) replace(id uuid.UUID, apply func(*frameflow.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.byID[id]
	if !ok {
		return repository.NewRecordNotFound()
	}
	apply(user)
	return nil
}

func (s *memUsers) UpdateProfile(ctx context.Context, user *frameflow.User) (*frameflow.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.byID[user.ID]
	if !ok {
		return nil, repository.NewRecordNotFound()
	}
	stored.PublicName = user.PublicName
	stored.Description = user.Description
	stored.Avatar = user.Avatar
	return stored, nil
}

type memPosts struct {
	mu    sync.Mutex
	items map[uuid.UUID]*frameflow.Post
}

func newMemPosts() *memPosts {
	return &memPosts{items: map[uuid.UUID]*frameflow.Post{}}
}

var _ frameflow.Posts = (*memPosts)(nil)

func (s *memPosts) GetByID(ctx context.Context, id uuid.UUID) (*frameflow.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.items[id]
	if !ok {
		return nil, repository.NewRecordNotFound()
	}
	return post, nil
}

func (s *memPosts) List(ctx context.Context) ([]*frameflow.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*frameflow.Post, 0, len(s.items))
	for _, post := range s.items {
		out = append(out, post)
	}
	return out, nil
}

func (s *memPosts) ListByAuthor(ctx context.Context, author uuid.UUID) ([]*frameflow.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*frameflow.Post
	for _, post := range s.items {
		if post.Author == author {
			out = append(out, post)
		}
	}
	return out, nil
}

func (s *memPosts) Create(ctx context.Context, post *frameflow.Post) (*frameflow.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	s.items[post.ID] = post
	return post, nil
}

func (s *memPosts) ReplaceLikedBy(ctx context.Context, id uuid.UUID, likedBy frameflow.IDList) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.items[id]
	if !ok {
		return repository.NewRecordNotFound()
	}
	post.LikedBy = likedBy.Clone()
	return nil
}

func (s *memPosts) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

type memComments struct {
	mu    sync.Mutex
	items map[uuid.UUID]*frameflow.Comment
}

func newMemComments() *memComments {
	return &memComments{items: map[uuid.UUID]*frameflow.Comment{}}
}

var _ frameflow.Comments = (*memComments)(nil)

func (s *memComments) GetByID(ctx context.Context, id uuid.UUID) (*frameflow.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	comment, ok := s.items[id]
	if !ok {
		return nil, repository.NewRecordNotFound()
	}
	return comment, nil
}

func (s *memComments) ForPost(ctx context.Context, postID uuid.UUID) ([]*frameflow.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*frameflow.Comment
	for _, comment := range s.items {
		if comment.Post == postID {
			out = append(out, comment)
		}
	}
	return out, nil
}

func (s *memComments) Create(ctx context.Context, comment *frameflow.Comment) (*frameflow.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	s.items[comment.ID] = comment
	return comment, nil
}

func (s *memComments) ReplaceLikedBy(ctx context.Context, id uuid.UUID, likedBy frameflow.IDList) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	comment, ok := s.items[id]
	if !ok {
		return repository.NewRecordNotFound()
	}
	comment.LikedBy = likedBy.Clone()
	return nil
}

func (s *memComments) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

type memNotifications struct {
	mu    sync.Mutex
	items map[frameflow.NotificationKey]*frameflow.Notification
}

func newMemNotifications() *memNotifications {
	return &memNotifications{items: map[frameflow.NotificationKey]*frameflow.Notification{}}
}

var _ frameflow.Notifications = (*memNotifications)(nil)

func (s *memNotifications) CreateIfAbsent(ctx context.Context, key frameflow.NotificationKey) (*frameflow.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.items[key]; ok {
		return existing, nil
	}
	n := &frameflow.Notification{
		ID:        uuid.New(),
		To:        key.To,
		From:      key.From,
		Action:    key.Action,
		LikedPost: key.LikedPost,
	}
	s.items[key] = n
	return n, nil
}

func (s *memNotifications) DeleteByKey(ctx context.Context, key frameflow.NotificationKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

func (s *memNotifications) ExistsByKey(ctx context.Context, key frameflow.NotificationKey) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[key]
	return ok, nil
}

func (s *memNotifications) ListForUser(ctx context.Context, userID uuid.UUID) ([]*frameflow.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*frameflow.Notification{}
	for _, n := range s.items {
		if n.To == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *memNotifications) CountForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	list, err := s.ListForUser(ctx, userID)
	return len(list), err
}

// memRepo satisfies RepositoryManager over the in-memory stores.
type memRepo struct {
	users         *memUsers
	posts         *memPosts
	comments      *memComments
	notifications *memNotifications
}

func newMemRepo() *memRepo {
	return &memRepo{
		users:         newMemUsers(),
		posts:         newMemPosts(),
		comments:      newMemComments(),
		notifications: newMemNotifications(),
	}
}

var _ frameflow.RepositoryManager = (*memRepo)(nil)

func (m *memRepo) Validate() error { return nil }
func (m *memRepo) MustValidate()   {}

func (m *memRepo) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	return f(ctx, bun.Tx{})
}

func (m *memRepo) Users() frameflow.Users                 { return m.users }
func (m *memRepo) Posts() frameflow.Posts                 { return m.posts }
func (m *memRepo) Comments() frameflow.Comments           { return m.comments }
func (m *memRepo) Notifications() frameflow.Notifications { return m.notifications }
