package service

import (
	"context"
	"strings"

	"flowtasks/internal/domain"
)

type CreateProjectRequest struct {
	Key         string  `json:"key"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

type UpdateProjectRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

type ProjectService struct {
	projects ProjectStore
	members  MembershipStore
}

func NewProjectService(projects ProjectStore, members MembershipStore) *ProjectService {
	return &ProjectService{projects: projects, members: members}
}

// Create validates the key/name, upper-cases the key and persists the project
// together with the owner's admin membership.
func (s *ProjectService) Create(ctx context.Context, userID string, req CreateProjectRequest) (*domain.Project, error) {
	key := strings.ToUpper(strings.TrimSpace(req.Key))
	if key == "" {
		return nil, domain.NewValidationError("project key is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, domain.NewValidationError("project name is required")
	}

	project := &domain.Project{
		Key:         key,
		Name:        req.Name,
		Description: req.Description,
		AvatarURL:   req.AvatarURL,
		OwnerID:     userID,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}

	return s.projects.GetByID(ctx, project.ID)
}

// Get gates membership before reading: a non-member receives Forbidden
// whether or not the project exists.
func (s *ProjectService) Get(ctx context.Context, id, userID string) (*domain.Project, error) {
	ok, err := s.members.IsMember(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewForbiddenError("you are not a member of this project")
	}
	return s.projects.GetByID(ctx, id)
}

func (s *ProjectService) ListForUser(ctx context.Context, userID string) ([]*domain.Project, error) {
	return s.projects.ListByUser(ctx, userID)
}

func (s *ProjectService) Update(ctx context.Context, id, userID string, req UpdateProjectRequest) (*domain.Project, error) {
	ok, err := s.members.IsAdmin(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewForbiddenError("only project admins can update projects")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, domain.NewValidationError("project name is required")
	}

	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	project.Name = req.Name
	project.Description = req.Description
	project.AvatarURL = req.AvatarURL
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}

	return s.projects.GetByID(ctx, id)
}

// Delete removes the project; members, tasks and sprints cascade.
func (s *ProjectService) Delete(ctx context.Context, id, userID string) error {
	ok, err := s.members.IsAdmin(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewForbiddenError("only project admins can delete projects")
	}
	return s.projects.Delete(ctx, id)
}
