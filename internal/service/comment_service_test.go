package service

import (
	"context"
	"testing"

	"flowtasks/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCommentServiceForTest() (*CommentService, *MockCommentStore, *MockTaskStore, *MockMembershipStore, *MockNotifier) {
	comments := new(MockCommentStore)
	tasks := new(MockTaskStore)
	members := new(MockMembershipStore)
	notifier := new(MockNotifier)
	return NewCommentService(comments, tasks, members, notifier), comments, tasks, members, notifier
}

func TestExtractMentions(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"no mentions", "just a comment", nil},
		{"single", "ping @alice@example.com please", []string{"alice@example.com"}},
		{"multiple", "@alice@example.com and @bob@dev.io", []string{"alice@example.com", "bob@dev.io"}},
		{"duplicates collapse", "@alice@example.com again @alice@example.com", []string{"alice@example.com"}},
		{"bare at sign", "me @ home", nil},
		{"order of first appearance", "@b@x.io then @a@x.io then @b@x.io", []string{"b@x.io", "a@x.io"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractMentions(tt.content))
		})
	}
}

func TestCommentService_Add(t *testing.T) {
	ctx := context.Background()
	task := &domain.Task{ID: "task-1", Key: "FLOW-1", ProjectID: "proj-1"}

	t.Run("stores mentions and notifies", func(t *testing.T) {
		svc, comments, tasks, members, notifier := newCommentServiceForTest()
		tasks.On("GetByID", mock.Anything, "task-1").Return(task, nil)
		members.On("IsMember", mock.Anything, "proj-1", "alice").Return(true, nil)

		comments.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			c := args.Get(1).(*domain.TaskComment)
			c.ID = "comment-1"
			assert.Equal(t, []string{"bob@example.com"}, c.Mentions)
		}).Return(nil)
		comments.On("GetByID", mock.Anything, "comment-1").
			Return(&domain.TaskComment{ID: "comment-1", Content: "cc @bob@example.com"}, nil)
		notifier.On("CommentAdded", "proj-1", "FLOW-1", "comment-1").Return()

		result, err := svc.Add(ctx, "task-1", "alice", CommentRequest{Content: "cc @bob@example.com"})

		require.NoError(t, err)
		assert.Equal(t, "comment-1", result.ID)
		notifier.AssertExpectations(t)
	})

	t.Run("non-member rejected before write", func(t *testing.T) {
		svc, comments, tasks, members, notifier := newCommentServiceForTest()
		tasks.On("GetByID", mock.Anything, "task-1").Return(task, nil)
		members.On("IsMember", mock.Anything, "proj-1", "stranger").Return(false, nil)

		_, err := svc.Add(ctx, "task-1", "stranger", CommentRequest{Content: "hi"})

		require.ErrorIs(t, err, domain.ErrForbidden)
		comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		assert.Empty(t, notifier.Events)
	})

	t.Run("blank content rejected", func(t *testing.T) {
		svc, comments, tasks, members, _ := newCommentServiceForTest()
		tasks.On("GetByID", mock.Anything, "task-1").Return(task, nil)
		members.On("IsMember", mock.Anything, "proj-1", "alice").Return(true, nil)

		_, err := svc.Add(ctx, "task-1", "alice", CommentRequest{Content: "  "})

		require.ErrorIs(t, err, domain.ErrValidation)
		comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestCommentService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("author edits and mentions are re-extracted", func(t *testing.T) {
		svc, comments, _, _, _ := newCommentServiceForTest()
		comments.On("GetByID", mock.Anything, "comment-1").
			Return(&domain.TaskComment{ID: "comment-1", TaskID: "task-1", UserID: "alice", Content: "old"}, nil).Once()
		comments.On("Update", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			c := args.Get(1).(*domain.TaskComment)
			assert.Equal(t, "now @bob@example.com", c.Content)
			assert.Equal(t, []string{"bob@example.com"}, c.Mentions)
		}).Return(nil)
		comments.On("GetByID", mock.Anything, "comment-1").
			Return(&domain.TaskComment{ID: "comment-1", Content: "now @bob@example.com"}, nil).Once()

		_, err := svc.Update(ctx, "comment-1", "alice", CommentRequest{Content: "now @bob@example.com"})
		require.NoError(t, err)
		comments.AssertExpectations(t)
	})

	t.Run("only the author can edit", func(t *testing.T) {
		svc, comments, _, _, _ := newCommentServiceForTest()
		comments.On("GetByID", mock.Anything, "comment-1").
			Return(&domain.TaskComment{ID: "comment-1", UserID: "alice"}, nil)

		_, err := svc.Update(ctx, "comment-1", "bob", CommentRequest{Content: "edit"})

		require.ErrorIs(t, err, domain.ErrForbidden)
		comments.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestCommentService_Delete(t *testing.T) {
	ctx := context.Background()
	comment := &domain.TaskComment{ID: "comment-1", TaskID: "task-1", UserID: "alice"}
	task := &domain.Task{ID: "task-1", ProjectID: "proj-1"}

	t.Run("author deletes own comment", func(t *testing.T) {
		svc, comments, _, _, _ := newCommentServiceForTest()
		comments.On("GetByID", mock.Anything, "comment-1").Return(comment, nil)
		comments.On("Delete", mock.Anything, "comment-1").Return(nil)

		require.NoError(t, svc.Delete(ctx, "comment-1", "alice"))
	})

	t.Run("project admin deletes another user's comment", func(t *testing.T) {
		svc, comments, tasks, members, _ := newCommentServiceForTest()
		comments.On("GetByID", mock.Anything, "comment-1").Return(comment, nil)
		tasks.On("GetByID", mock.Anything, "task-1").Return(task, nil)
		members.On("IsAdmin", mock.Anything, "proj-1", "admin").Return(true, nil)
		comments.On("Delete", mock.Anything, "comment-1").Return(nil)

		require.NoError(t, svc.Delete(ctx, "comment-1", "admin"))
	})

	t.Run("plain member cannot delete someone else's comment", func(t *testing.T) {
		svc, comments, tasks, members, _ := newCommentServiceForTest()
		comments.On("GetByID", mock.Anything, "comment-1").Return(comment, nil)
		tasks.On("GetByID", mock.Anything, "task-1").Return(task, nil)
		members.On("IsAdmin", mock.Anything, "proj-1", "bob").Return(false, nil)

		err := svc.Delete(ctx, "comment-1", "bob")

		require.ErrorIs(t, err, domain.ErrForbidden)
		comments.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
