package service

import (
	"context"
	"regexp"
	"strings"

	"flowtasks/internal/domain"
)

type CommentRequest struct {
	Content string `json:"content"`
}

// mentionPattern matches @email references inside comment text.
var mentionPattern = regexp.MustCompile(`@(\w+@[\w.-]+\.\w+)`)

type CommentService struct {
	comments CommentStore
	tasks    TaskStore
	members  MembershipStore
	notifier Notifier
}

func NewCommentService(comments CommentStore, tasks TaskStore, members MembershipStore, notifier Notifier) *CommentService {
	return &CommentService{
		comments: comments,
		tasks:    tasks,
		members:  members,
		notifier: notifier,
	}
}

func (s *CommentService) Add(ctx context.Context, taskID, userID string, req CommentRequest) (*domain.TaskComment, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	ok, err := s.members.IsMember(ctx, task.ProjectID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewForbiddenError("you are not a member of this project")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, domain.NewValidationError("comment content is required")
	}

	comment := &domain.TaskComment{
		TaskID:   taskID,
		UserID:   userID,
		Content:  req.Content,
		Mentions: ExtractMentions(req.Content),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.notifier.CommentAdded(task.ProjectID, task.Key, comment.ID)

	return s.comments.GetByID(ctx, comment.ID)
}

func (s *CommentService) ListByTask(ctx context.Context, taskID, userID string) ([]*domain.TaskComment, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	ok, err := s.members.IsMember(ctx, task.ProjectID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewForbiddenError("you are not a member of this project")
	}
	return s.comments.ListByTask(ctx, taskID)
}

// Update is author-only. CreatedAt is preserved, mentions are re-extracted.
func (s *CommentService) Update(ctx context.Context, commentID, userID string, req CommentRequest) (*domain.TaskComment, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, domain.NewForbiddenError("you can only update your own comments")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, domain.NewValidationError("comment content is required")
	}

	comment.Content = req.Content
	comment.Mentions = ExtractMentions(req.Content)
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}

	return s.comments.GetByID(ctx, commentID)
}

// Delete is allowed for the author or a project admin.
func (s *CommentService) Delete(ctx context.Context, commentID, userID string) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.UserID != userID {
		task, err := s.tasks.GetByID(ctx, comment.TaskID)
		if err != nil {
			return err
		}
		admin, err := s.members.IsAdmin(ctx, task.ProjectID, userID)
		if err != nil {
			return err
		}
		if !admin {
			return domain.NewForbiddenError("you can only delete your own comments")
		}
	}

	return s.comments.Delete(ctx, commentID)
}

// ExtractMentions returns the distinct @email references in content, in
// order of first appearance.
func ExtractMentions(content string) []string {
	var mentions []string
	seen := make(map[string]struct{})
	for _, m := range mentionPattern.FindAllStringSubmatch(content, -1) {
		if len(m) < 2 {
			continue
		}
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		mentions = append(mentions, m[1])
	}
	return mentions
}
