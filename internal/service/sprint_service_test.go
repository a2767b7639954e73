package service

import (
	"context"
	"testing"
	"time"

	"flowtasks/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sprintReq() SprintRequest {
	return SprintRequest{
		Name:      "Sprint 1",
		StartDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC),
	}
}

func TestSprintService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("admin creates activating sprint", func(t *testing.T) {
		sprints := new(MockSprintStore)
		members := new(MockMembershipStore)
		svc := NewSprintService(sprints, members)

		members.On("IsAdmin", mock.Anything, "proj-1", "admin").Return(true, nil)
		sprints.On("CreateActivating", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			s := args.Get(1).(*domain.Sprint)
			s.ID = "sprint-1"
			assert.Equal(t, "proj-1", s.ProjectID)
		}).Return(nil)
		sprints.On("GetByID", mock.Anything, "sprint-1").
			Return(&domain.Sprint{ID: "sprint-1", Name: "Sprint 1", IsActive: true}, nil)

		sprint, err := svc.Create(ctx, "proj-1", "admin", sprintReq())

		require.NoError(t, err)
		assert.True(t, sprint.IsActive)
		sprints.AssertExpectations(t)
	})

	t.Run("member without admin role rejected", func(t *testing.T) {
		sprints := new(MockSprintStore)
		members := new(MockMembershipStore)
		svc := NewSprintService(sprints, members)

		members.On("IsAdmin", mock.Anything, "proj-1", "member").Return(false, nil)

		_, err := svc.Create(ctx, "proj-1", "member", sprintReq())

		require.ErrorIs(t, err, domain.ErrForbidden)
		sprints.AssertNotCalled(t, "CreateActivating", mock.Anything, mock.Anything)
	})

	t.Run("end before start rejected", func(t *testing.T) {
		sprints := new(MockSprintStore)
		members := new(MockMembershipStore)
		svc := NewSprintService(sprints, members)

		members.On("IsAdmin", mock.Anything, "proj-1", "admin").Return(true, nil)

		req := sprintReq()
		req.StartDate, req.EndDate = req.EndDate, req.StartDate
		_, err := svc.Create(ctx, "proj-1", "admin", req)

		require.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("missing dates rejected", func(t *testing.T) {
		sprints := new(MockSprintStore)
		members := new(MockMembershipStore)
		svc := NewSprintService(sprints, members)

		members.On("IsAdmin", mock.Anything, "proj-1", "admin").Return(true, nil)

		_, err := svc.Create(ctx, "proj-1", "admin", SprintRequest{Name: "Sprint 1"})

		require.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestSprintService_Update(t *testing.T) {
	ctx := context.Background()
	existing := &domain.Sprint{ID: "sprint-1", ProjectID: "proj-1", Name: "Old"}

	t.Run("admin updates", func(t *testing.T) {
		sprints := new(MockSprintStore)
		members := new(MockMembershipStore)
		svc := NewSprintService(sprints, members)

		s := *existing
		sprints.On("GetByID", mock.Anything, "sprint-1").Return(&s, nil)
		members.On("IsAdmin", mock.Anything, "proj-1", "admin").Return(true, nil)
		sprints.On("Update", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			updated := args.Get(1).(*domain.Sprint)
			assert.Equal(t, "Sprint 1", updated.Name)
		}).Return(nil)

		_, err := svc.Update(ctx, "sprint-1", "admin", sprintReq())
		require.NoError(t, err)
		sprints.AssertExpectations(t)
	})

	t.Run("missing sprint is not found before forbidden", func(t *testing.T) {
		sprints := new(MockSprintStore)
		members := new(MockMembershipStore)
		svc := NewSprintService(sprints, members)

		sprints.On("GetByID", mock.Anything, "ghost").Return(nil, domain.NewNotFoundError("sprint"))

		_, err := svc.Update(ctx, "ghost", "anyone", sprintReq())

		require.ErrorIs(t, err, domain.ErrNotFound)
		members.AssertNotCalled(t, "IsAdmin", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSprintService_Delete(t *testing.T) {
	ctx := context.Background()
	existing := &domain.Sprint{ID: "sprint-1", ProjectID: "proj-1"}

	sprints := new(MockSprintStore)
	members := new(MockMembershipStore)
	svc := NewSprintService(sprints, members)

	sprints.On("GetByID", mock.Anything, "sprint-1").Return(existing, nil)
	members.On("IsAdmin", mock.Anything, "proj-1", "member").Return(false, nil)

	err := svc.Delete(ctx, "sprint-1", "member")

	require.ErrorIs(t, err, domain.ErrForbidden)
	sprints.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
