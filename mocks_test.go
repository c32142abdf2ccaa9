package frameflow_test

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"

	frameflow "github.com/frameflow/frameflow"
)

// MockUsers implements frameflow.Users
type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) GetByUsername(ctx context.Context, username string) (*frameflow.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*frameflow.User)
	return user, args.Error(1)
}

func (m *MockUsers) GetByID(ctx context.Context, id string) (*frameflow.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*frameflow.User)
	return user, args.Error(1)
}

func (m *MockUsers) Register(ctx context.Context, user *frameflow.User) (*frameflow.User, error) {
	args := m.Called(ctx, user)
	out, _ := args.Get(0).(*frameflow.User)
	if out == nil && args.Error(1) == nil {
		// Echo the prepared record, the way the SQL repository does.
		out = user
	}
	return out, args.Error(1)
}

func (m *MockUsers) RegisterTx(ctx context.Context, tx bun.IDB, user *frameflow.User) (*frameflow.User, error) {
	args := m.Called(ctx, tx, user)
	out, _ := args.Get(0).(*frameflow.User)
	return out, args.Error(1)
}

func (m *MockUsers) ReplaceFollows(ctx context.Context, id uuid.UUID, follows frameflow.IDList) error {
	args := m.Called(ctx, id, follows)
	return args.Error(0)
}

func (m *MockUsers) ReplaceVisited(ctx context.Context, id uuid.UUID, visited frameflow.IDList) error {
	args := m.Called(ctx, id, visited)
	return args.Error(0)
}

func (m *MockUsers) ReplaceSavedPosts(ctx context.Context, id uuid.UUID, savedPosts frameflow.IDList) error {
	args := m.Called(ctx, id, savedPosts)
	return args.Error(0)
}

func (m *MockUsers) UpdateProfile(ctx context.Context, user *frameflow.User) (*frameflow.User, error) {
	args := m.Called(ctx, user)
	out, _ := args.Get(0).(*frameflow.User)
	return out, args.Error(1)
}

// MockPosts implements frameflow.Posts
type MockPosts struct {
	mock.Mock
}

func (m *MockPosts) GetByID(ctx context.Context, id uuid.UUID) (*frameflow.Post, error) {
	args := m.Called(ctx, id)
	post, _ := args.Get(0).(*frameflow.Post)
	return post, args.Error(1)
}

func (m *MockPosts) List(ctx context.Context) ([]*frameflow.Post, error) {
	args := m.Called(ctx)
	posts, _ := args.Get(0).([]*frameflow.Post)
	return posts, args.Error(1)
}

func (m *MockPosts) ListByAuthor(ctx context.Context, author uuid.UUID) ([]*frameflow.Post, error) {
	args := m.Called(ctx, author)
	posts, _ := args.Get(0).([]*frameflow.Post)
	return posts, args.Error(1)
}

func (m *MockPosts) Create(ctx context.Context, post *frameflow.Post) (*frameflow.Post, error) {
	args := m.Called(ctx, post)
	out, _ := args.Get(0).(*frameflow.Post)
	if out == nil && args.Error(1) == nil {
		out = post
	}
	return out, args.Error(1)
}

func (m *MockPosts) ReplaceLikedBy(ctx context.Context, id uuid.UUID, likedBy frameflow.IDList) error {
	args := m.Called(ctx, id, likedBy)
	return args.Error(0)
}

func (m *MockPosts) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockComments implements frameflow.Comments
type MockComments struct {
	mock.Mock
}

func (m *MockComments) GetByID(ctx context.Context, id uuid.UUID) (*frameflow.Comment, error) {
	args := m.Called(ctx, id)
	comment, _ := args.Get(0).(*frameflow.Comment)
	return comment, args.Error(1)
}

func (m *MockComments) ForPost(ctx context.Context, postID uuid.UUID) ([]*frameflow.Comment, error) {
	args := m.Called(ctx, postID)
	comments, _ := args.Get(0).([]*frameflow.Comment)
	return comments, args.Error(1)
}

func (m *MockComments) Create(ctx context.Context, comment *frameflow.Comment) (*frameflow.Comment, error) {
	args := m.Called(ctx, comment)
	out, _ := args.Get(0).(*frameflow.Comment)
	if out == nil && args.Error(1) == nil {
		out = comment
	}
	return out, args.Error(1)
}

func (m *MockComments) ReplaceLikedBy(ctx context.Context, id uuid.UUID, likedBy frameflow.IDList) error {
	args := m.Called(ctx, id, likedBy)
	return args.Error(0)
}

func (m *MockComments) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// memNotifications is an in-memory notification store with the same
// uniqueness semantics as the SQL one. It counts raw create attempts so
// tests can assert idempotence.
type memNotifications struct {
	mu      sync.Mutex
	rows    map[frameflow.NotificationKey]*frameflow.Notification
	creates int
}

func newMemNotifications() *memNotifications {
	return &memNotifications{rows: map[frameflow.NotificationKey]*frameflow.Notification{}}
}

func (m *memNotifications) CreateIfAbsent(_ context.Context, key frameflow.NotificationKey) (*frameflow.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	if existing, ok := m.rows[key]; ok {
		return existing, nil
	}
	row := &frameflow.Notification{
		ID:        uuid.New(),
		To:        key.To,
		From:      key.From,
		Action:    key.Action,
		LikedPost: key.LikedPost,
	}
	m.rows[key] = row
	return row, nil
}

func (m *memNotifications) DeleteByKey(_ context.Context, key frameflow.NotificationKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, key)
	return nil
}

func (m *memNotifications) ExistsByKey(_ context.Context, key frameflow.NotificationKey) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[key]
	return ok, nil
}

func (m *memNotifications) ListForUser(_ context.Context, userID uuid.UUID) ([]*frameflow.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*frameflow.Notification{}
	for _, row := range m.rows {
		if row.To == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *memNotifications) CountForUser(_ context.Context, userID uuid.UUID) (int, error) {
	list, _ := m.ListForUser(context.Background(), userID)
	return len(list), nil
}

func (m *memNotifications) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// testRepoManager bundles per-store doubles behind the manager interface.
type testRepoManager struct {
	users         frameflow.Users
	posts         frameflow.Posts
	comments      frameflow.Comments
	notifications frameflow.Notifications
}

func (t *testRepoManager) Validate() error { return nil }
func (t *testRepoManager) MustValidate()   {}

func (t *testRepoManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	return f(ctx, bun.Tx{})
}

func (t *testRepoManager) Users() frameflow.Users                 { return t.users }
func (t *testRepoManager) Posts() frameflow.Posts                 { return t.posts }
func (t *testRepoManager) Comments() frameflow.Comments           { return t.comments }
func (t *testRepoManager) Notifications() frameflow.Notifications { return t.notifications }

// captureSink records activity events in order.
type captureSink struct {
	mu     sync.Mutex
	events []frameflow.ActivityEvent
}

func (c *captureSink) Record(_ context.Context, event frameflow.ActivityEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *captureSink) byType(eventType frameflow.ActivityEventType) []frameflow.ActivityEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := []frameflow.ActivityEvent{}
	for _, ev := range c.events {
		if ev.EventType == eventType {
			out = append(out, ev)
		}
	}
	return out
}

// countingHasher wraps the bcrypt hasher and counts HashPassword calls.
type countingHasher struct {
	inner frameflow.PasswordHasher
	calls int
}

func (c *countingHasher) HashPassword(password string) (string, error) {
	c.calls++
	return c.inner.HashPassword(password)
}

func (c *countingHasher) ComparePasswordAndHash(password, hash string) error {
	return c.inner.ComparePasswordAndHash(password, hash)
}
