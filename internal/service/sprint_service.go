package service

import (
	"context"
	"strings"
	"time"

	"flowtasks/internal/domain"
)

type SprintRequest struct {
	Name      string    `json:"name"`
	Goal      *string   `json:"goal,omitempty"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type SprintService struct {
	sprints SprintStore
	members MembershipStore
}

func NewSprintService(sprints SprintStore, members MembershipStore) *SprintService {
	return &SprintService{sprints: sprints, members: members}
}

// Create requires admin. The new sprint starts active and deactivates all
// other active sprints of the project atomically.
func (s *SprintService) Create(ctx context.Context, projectID, userID string, req SprintRequest) (*domain.Sprint, error) {
	ok, err := s.members.IsAdmin(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewForbiddenError("only project admins can create sprints")
	}
	if err := validateSprint(req); err != nil {
		return nil, err
	}

	sprint := &domain.Sprint{
		ProjectID: projectID,
		Name:      req.Name,
		Goal:      req.Goal,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if err := s.sprints.CreateActivating(ctx, sprint); err != nil {
		return nil, err
	}

	return s.sprints.GetByID(ctx, sprint.ID)
}

func (s *SprintService) Get(ctx context.Context, id, userID string) (*domain.Sprint, error) {
	sprint, err := s.sprints.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.members.IsMember(ctx, sprint.ProjectID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewForbiddenError("you are not a member of this project")
	}
	return sprint, nil
}

func (s *SprintService) ListByProject(ctx context.Context, projectID, userID string) ([]*domain.Sprint, error) {
	ok, err := s.members.IsMember(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewForbiddenError("you are not a member of this project")
	}
	return s.sprints.ListByProject(ctx, projectID)
}

func (s *SprintService) Update(ctx context.Context, id, userID string, req SprintRequest) (*domain.Sprint, error) {
	sprint, err := s.sprints.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.members.IsAdmin(ctx, sprint.ProjectID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewForbiddenError("only project admins can update sprints")
	}
	if err := validateSprint(req); err != nil {
		return nil, err
	}

	sprint.Name = req.Name
	sprint.Goal = req.Goal
	sprint.StartDate = req.StartDate
	sprint.EndDate = req.EndDate
	if err := s.sprints.Update(ctx, sprint); err != nil {
		return nil, err
	}

	return s.sprints.GetByID(ctx, id)
}

func (s *SprintService) Delete(ctx context.Context, id, userID string) error {
	sprint, err := s.sprints.GetByID(ctx, id)
	if err != nil {
		return err
	}
	ok, err := s.members.IsAdmin(ctx, sprint.ProjectID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewForbiddenError("only project admins can delete sprints")
	}
	return s.sprints.Delete(ctx, id)
}

func validateSprint(req SprintRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return domain.NewValidationError("sprint name is required")
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return domain.NewValidationError("start and end dates are required")
	}
	if req.EndDate.Before(req.StartDate) {
		return domain.NewValidationError("end date must not precede start date")
	}
	return nil
}
