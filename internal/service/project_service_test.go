package service

import (
	"context"
	"testing"

	"flowtasks/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProjectService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("uppercases the key and adds the owner as admin", func(t *testing.T) {
		projects := new(MockProjectStore)
		members := new(MockMembershipStore)
		svc := NewProjectService(projects, members)

		projects.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			p := args.Get(1).(*domain.Project)
			p.ID = "proj-1"
			assert.Equal(t, "FLOW", p.Key)
			assert.Equal(t, "owner", p.OwnerID)
		}).Return(nil)
		projects.On("GetByID", mock.Anything, "proj-1").
			Return(&domain.Project{ID: "proj-1", Key: "FLOW", MemberCount: 1}, nil)

		project, err := svc.Create(ctx, "owner", CreateProjectRequest{Key: " flow ", Name: "Flow"})

		require.NoError(t, err)
		assert.Equal(t, "FLOW", project.Key)
		projects.AssertExpectations(t)
	})

	t.Run("empty key rejected", func(t *testing.T) {
		projects := new(MockProjectStore)
		svc := NewProjectService(projects, new(MockMembershipStore))

		_, err := svc.Create(ctx, "owner", CreateProjectRequest{Name: "No key"})

		require.ErrorIs(t, err, domain.ErrValidation)
		projects.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate key surfaces as conflict", func(t *testing.T) {
		projects := new(MockProjectStore)
		svc := NewProjectService(projects, new(MockMembershipStore))

		projects.On("Create", mock.Anything, mock.Anything).
			Return(domain.NewConflictError("project key already exists"))

		_, err := svc.Create(ctx, "owner", CreateProjectRequest{Key: "FLOW", Name: "Flow"})

		require.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestProjectService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("non-member gets forbidden even for missing project", func(t *testing.T) {
		projects := new(MockProjectStore)
		members := new(MockMembershipStore)
		svc := NewProjectService(projects, members)

		members.On("IsMember", mock.Anything, "ghost", "user-1").Return(false, nil)

		_, err := svc.Get(ctx, "ghost", "user-1")

		require.ErrorIs(t, err, domain.ErrForbidden)
		projects.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("member reads", func(t *testing.T) {
		projects := new(MockProjectStore)
		members := new(MockMembershipStore)
		svc := NewProjectService(projects, members)

		members.On("IsMember", mock.Anything, "proj-1", "user-1").Return(true, nil)
		projects.On("GetByID", mock.Anything, "proj-1").
			Return(&domain.Project{ID: "proj-1", Key: "FLOW"}, nil)

		project, err := svc.Get(ctx, "proj-1", "user-1")

		require.NoError(t, err)
		assert.Equal(t, "FLOW", project.Key)
	})
}

func TestProjectService_AdminGates(t *testing.T) {
	ctx := context.Background()

	t.Run("update requires admin", func(t *testing.T) {
		projects := new(MockProjectStore)
		members := new(MockMembershipStore)
		svc := NewProjectService(projects, members)

		members.On("IsAdmin", mock.Anything, "proj-1", "member").Return(false, nil)

		_, err := svc.Update(ctx, "proj-1", "member", UpdateProjectRequest{Name: "New"})

		require.ErrorIs(t, err, domain.ErrForbidden)
		projects.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("delete requires admin", func(t *testing.T) {
		projects := new(MockProjectStore)
		members := new(MockMembershipStore)
		svc := NewProjectService(projects, members)

		members.On("IsAdmin", mock.Anything, "proj-1", "member").Return(false, nil)

		err := svc.Delete(ctx, "proj-1", "member")

		require.ErrorIs(t, err, domain.ErrForbidden)
		projects.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
