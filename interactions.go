package frameflow

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// Interactions applies follow/like toggles: it loads the stored
// relationship set, classifies the submitted replacement, persists it, and
// mirrors the change into the notification store. Application is serialized
// per entity id because the read-classify-write is not atomic in the store.
type Interactions struct {
	repo    RepositoryManager
	emitter *NotificationEmitter
	locks   *keyedMutex
	logger  Logger
	sink    ActivitySink
}

// NewInteractions wires the interaction service.
func NewInteractions(repo RepositoryManager, emitter *NotificationEmitter) *Interactions {
	return &Interactions{
		repo:    repo,
		emitter: emitter,
		locks:   newKeyedMutex(),
		logger:  defLogger{},
		sink:    noopActivitySink{},
	}
}

// WithLogger replaces the default logger.
func (s *Interactions) WithLogger(logger Logger) *Interactions {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithActivitySink configures an ActivitySink for toggle events.
func (s *Interactions) WithActivitySink(sink ActivitySink) *Interactions {
	s.sink = normalizeActivitySink(sink)
	return s
}

// ApplyFollowToggle replaces the actor's follows list and mirrors the
// change as a Follow notification to the followed (or unfollowed) user.
// Only the list owner may replace it.
func (s *Interactions) ApplyFollowToggle(ctx context.Context, actor *User, targetUserID uuid.UUID, proposed IDList) (Toggle, error) {
	if actor == nil {
		return Toggle{}, errors.New("acting principal is required", errors.CategoryInternal)
	}
	if actor.ID != targetUserID {
		return Toggle{}, errors.New("cannot replace another user's follows", errors.CategoryAuthz).
			WithCode(errors.CodeForbidden)
	}

	unlock := s.locks.Lock(targetUserID)
	defer unlock()

	user, err := s.repo.Users().GetByID(ctx, targetUserID.String())
	if err != nil {
		if errors.IsNotFound(err) {
			return Toggle{}, errors.Wrap(err, errors.CategoryNotFound, "user not found")
		}
		return Toggle{}, errors.Wrap(err, errors.CategoryInternal, "failed to load follows")
	}

	toggle := DetectToggle(user.Follows, proposed)
	if err := s.guard(ctx, actor, ActionFollow, toggle); err != nil {
		return toggle, err
	}
	if toggle.Kind == ToggleNoop {
		return toggle, nil
	}

	if err := s.repo.Users().ReplaceFollows(ctx, targetUserID, proposed); err != nil {
		return toggle, errors.Wrap(err, errors.CategoryInternal, "failed to persist follows")
	}

	key := NotificationKey{To: toggle.Member, From: actor.ID, Action: ActionFollow}
	if err := s.emitter.Apply(ctx, toggle, key); err != nil {
		return toggle, err
	}

	s.recordToggle(ctx, actor, ActionFollow, toggle)
	return toggle, nil
}

// ApplyPostLikeToggle replaces a post's likedBy set and mirrors the change
// as a Like notification to the post's author, carrying the post id.
// The notification actor is the toggled member, per the last-element
// convention, not necessarily the submitting principal.
func (s *Interactions) ApplyPostLikeToggle(ctx context.Context, actor *User, postID uuid.UUID, proposed IDList) (Toggle, error) {
	if actor == nil {
		return Toggle{}, errors.New("acting principal is required", errors.CategoryInternal)
	}

	unlock := s.locks.Lock(postID)
	defer unlock()

	post, err := s.repo.Posts().GetByID(ctx, postID)
	if err != nil {
		if errors.IsNotFound(err) {
			return Toggle{}, errors.Wrap(err, errors.CategoryNotFound, "post not found")
		}
		return Toggle{}, errors.Wrap(err, errors.CategoryInternal, "failed to load post")
	}

	toggle := DetectToggle(post.LikedBy, proposed)
	if err := s.guard(ctx, actor, ActionLike, toggle); err != nil {
		return toggle, err
	}
	if toggle.Kind == ToggleNoop {
		return toggle, nil
	}

	if err := s.repo.Posts().ReplaceLikedBy(ctx, postID, proposed); err != nil {
		return toggle, errors.Wrap(err, errors.CategoryInternal, "failed to persist post likes")
	}

	key := NotificationKey{To: post.Author, From: toggle.Member, Action: ActionLike, LikedPost: post.ID}
	if err := s.emitter.Apply(ctx, toggle, key); err != nil {
		return toggle, err
	}

	s.recordToggle(ctx, actor, ActionLike, toggle)
	return toggle, nil
}

// ApplyCommentLikeToggle replaces a comment's likedBy set and mirrors the
// change as a Like notification to the comment's author, carrying the
// comment id.
func (s *Interactions) ApplyCommentLikeToggle(ctx context.Context, actor *User, commentID uuid.UUID, proposed IDList) (Toggle, error) {
	if actor == nil {
		return Toggle{}, errors.New("acting principal is required", errors.CategoryInternal)
	}

	unlock := s.locks.Lock(commentID)
	defer unlock()

	comment, err := s.repo.Comments().GetByID(ctx, commentID)
	if err != nil {
		if errors.IsNotFound(err) {
			return Toggle{}, errors.Wrap(err, errors.CategoryNotFound, "comment not found")
		}
		return Toggle{}, errors.Wrap(err, errors.CategoryInternal, "failed to load comment")
	}

	toggle := DetectToggle(comment.LikedBy, proposed)
	if err := s.guard(ctx, actor, ActionLike, toggle); err != nil {
		return toggle, err
	}
	if toggle.Kind == ToggleNoop {
		return toggle, nil
	}

	if err := s.repo.Comments().ReplaceLikedBy(ctx, commentID, proposed); err != nil {
		return toggle, errors.Wrap(err, errors.CategoryInternal, "failed to persist comment likes")
	}

	key := NotificationKey{To: comment.Author, From: toggle.Member, Action: ActionLike, LikedPost: comment.ID}
	if err := s.emitter.Apply(ctx, toggle, key); err != nil {
		return toggle, err
	}

	s.recordToggle(ctx, actor, ActionLike, toggle)
	return toggle, nil
}

// guard rejects ambiguous replacements before anything is persisted.
func (s *Interactions) guard(ctx context.Context, actor *User, action NotificationAction, toggle Toggle) error {
	if toggle.Kind != ToggleInvalid {
		return nil
	}

	recordActivity(ctx, s.sink, ActivityEvent{
		EventType:  ActivityEventToggleRejected,
		Actor:      actor.ID,
		Action:     action,
		ToggleKind: toggle.Kind,
	})

	return ErrAmbiguousToggle
}

func (s *Interactions) recordToggle(ctx context.Context, actor *User, action NotificationAction, toggle Toggle) {
	recordActivity(ctx, s.sink, ActivityEvent{
		EventType:  ActivityEventToggleApplied,
		Actor:      actor.ID,
		Action:     action,
		ToggleKind: toggle.Kind,
	})
}
