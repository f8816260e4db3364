package core

import (
	"context"
	"strings"

	"questrpg/internal/notify"
	"questrpg/pkg/models"
	"questrpg/pkg/utils"
)

// Goal and milestone edits are plain remote calls: no optimistic preview,
// the goals view is refetched after each success. Input is validated before
// any request and validation errors are returned for inline display.

// CreateGoal validates and creates a goal. req.Milestones is cleaned in
// place.
func (s *Service) CreateGoal(ctx context.Context, req models.GoalCreate) (*models.Goal, error) {
	if err := utils.ValidateGoal(&req); err != nil {
		return nil, err
	}
	var g *models.Goal
	err := s.goalCall(ctx, "create_goal", "Failed to create goal", func(ctx context.Context) (err error) {
		g, err = s.backend.CreateGoal(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	g.SortMilestones()
	s.notify(notify.LevelSuccess, "Epic quest created: %s", g.Title)
	return g, nil
}

// UpdateGoal changes the non-nil fields of req.
func (s *Service) UpdateGoal(ctx context.Context, goalID string, req models.GoalUpdate) (*models.Goal, error) {
	if err := validateGoalUpdate(&req); err != nil {
		return nil, err
	}
	var g *models.Goal
	err := s.goalCall(ctx, "update_goal", "Failed to update goal", func(ctx context.Context) (err error) {
		g, err = s.backend.UpdateGoal(ctx, goalID, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	g.SortMilestones()
	s.notify(notify.LevelSuccess, "Goal updated")
	return g, nil
}

func validateGoalUpdate(req *models.GoalUpdate) error {
	if req.Title != nil {
		if err := utils.ValidateTitle("title", *req.Title); err != nil {
			return err
		}
		t := strings.TrimSpace(*req.Title)
		req.Title = &t
	}
	if req.Category != nil && !models.IsGoalCategory(*req.Category) {
		return models.NewValidationError("category", "category must be one of "+strings.Join(models.GoalCategories, ", "))
	}
	if req.TargetDate != nil {
		if err := utils.ValidateDate("target_date", *req.TargetDate); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) DeleteGoal(ctx context.Context, goalID string) error {
	err := s.goalCall(ctx, "delete_goal", "Failed to delete goal", func(ctx context.Context) error {
		return s.backend.DeleteGoal(ctx, goalID)
	})
	if err != nil {
		return err
	}
	s.notify(notify.LevelSuccess, "Goal deleted")
	return nil
}

// AddMilestone appends a milestone after the goal's last one.
func (s *Service) AddMilestone(ctx context.Context, goalID, title string) (*models.Goal, error) {
	if err := utils.ValidateTitle("title", title); err != nil {
		return nil, err
	}
	var g *models.Goal
	err := s.goalCall(ctx, "add_milestone", "Failed to add milestone", func(ctx context.Context) (err error) {
		g, err = s.backend.AddMilestone(ctx, goalID, strings.TrimSpace(title))
		return err
	})
	if err != nil {
		return nil, err
	}
	g.SortMilestones()
	return g, nil
}

func (s *Service) UpdateMilestone(ctx context.Context, milestoneID, title string) (*models.Milestone, error) {
	if err := utils.ValidateTitle("title", title); err != nil {
		return nil, err
	}
	var m *models.Milestone
	err := s.goalCall(ctx, "update_milestone", "Failed to update milestone", func(ctx context.Context) (err error) {
		m, err = s.backend.UpdateMilestone(ctx, milestoneID, strings.TrimSpace(title))
		return err
	})
	return m, err
}

func (s *Service) DeleteMilestone(ctx context.Context, milestoneID string) error {
	return s.goalCall(ctx, "delete_milestone", "Failed to delete milestone", func(ctx context.Context) error {
		return s.backend.DeleteMilestone(ctx, milestoneID)
	})
}

// ToggleMilestone flips a milestone. Completing a goal's last milestone
// pays XP, so the profile is refetched too.
func (s *Service) ToggleMilestone(ctx context.Context, milestoneID string) (*models.Goal, error) {
	var g *models.Goal
	err := s.goalCall(ctx, "toggle_milestone", msgActionFailed, func(ctx context.Context) (err error) {
		g, err = s.backend.ToggleMilestone(ctx, milestoneID)
		return err
	})
	if err != nil {
		return nil, err
	}
	g.SortMilestones()
	s.store.Invalidate(KeyProfile)
	if g.IsCompleted {
		s.notify(notify.LevelSuccess, "EPIC QUEST COMPLETE: %s!", g.Title)
	}
	return g, nil
}

// goalCall serializes call on the goals key and invalidates goals after a
// success.
func (s *Service) goalCall(ctx context.Context, action, fallback string, call func(ctx context.Context) error) error {
	if err := s.serialized(ctx, KeyGoals, call); err != nil {
		s.fail(action, err, fallback)
		return err
	}
	s.store.Invalidate(KeyGoals)
	return nil
}
