package service

import (
	"context"

	"flowtasks/internal/domain"
)

type AddMemberRequest struct {
	UserID string             `json:"user_id"`
	Role   domain.ProjectRole `json:"role"`
}

// MemberService manages project membership rows and answers the
// member/admin questions the other services gate on.
type MemberService struct {
	members MembershipStore
	users   UserStore
}

func NewMemberService(members MembershipStore, users UserStore) *MemberService {
	return &MemberService{members: members, users: users}
}

func (s *MemberService) IsMember(ctx context.Context, projectID, userID string) (bool, error) {
	return s.members.IsMember(ctx, projectID, userID)
}

func (s *MemberService) IsAdmin(ctx context.Context, projectID, userID string) (bool, error) {
	return s.members.IsAdmin(ctx, projectID, userID)
}

func (s *MemberService) Add(ctx context.Context, projectID, actorID string, req AddMemberRequest) (*domain.ProjectMember, error) {
	ok, err := s.members.IsAdmin(ctx, projectID, actorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewForbiddenError("only project admins can add members")
	}

	if req.UserID == "" {
		return nil, domain.NewValidationError("user_id is required")
	}
	role := req.Role
	if role == "" {
		role = domain.RoleMember
	}
	if !role.Valid() {
		return nil, domain.NewValidationError("invalid role")
	}

	user, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	member := &domain.ProjectMember{
		ProjectID: projectID,
		UserID:    user.ID,
		Role:      role,
	}
	if err := s.members.Add(ctx, member); err != nil {
		return nil, err
	}
	member.User = user
	return member, nil
}

func (s *MemberService) List(ctx context.Context, projectID, actorID string) ([]*domain.ProjectMember, error) {
	ok, err := s.members.IsMember(ctx, projectID, actorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewForbiddenError("you are not a member of this project")
	}
	return s.members.ListByProject(ctx, projectID)
}

func (s *MemberService) Remove(ctx context.Context, projectID, userID, actorID string) error {
	ok, err := s.members.IsAdmin(ctx, projectID, actorID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewForbiddenError("only project admins can remove members")
	}
	return s.members.Remove(ctx, projectID, userID)
}
