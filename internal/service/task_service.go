package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-task-manager/internal/model"
	"go-task-manager/pkg/apierror"
)

// TaskStore is the persistence surface for tasks, including the KPI
// aggregation queries.
type TaskStore interface {
	Create(ctx context.Context, t model.Task) error
	FindByID(ctx context.Context, id string) (model.Task, error)
	ListByUser(ctx context.Context, userID string, state string) ([]model.Task, error)
	Update(ctx context.Context, t model.Task) error
	UpdateState(ctx context.Context, id string, state string) (model.Task, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
	DeleteAllForUser(ctx context.Context, userID string) (int64, error)
}

type TaskService struct {
	tasks TaskStore
}

func NewTaskService(tasks TaskStore) *TaskService {
	return &TaskService{tasks: tasks}
}

func (s *TaskService) Create(ctx context.Context, userID string, req model.CreateTaskRequest) (model.Task, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return model.Task{}, apierror.BadRequest("title is required", "")
	}
	if !model.ValidTaskPriority(req.Priority) {
		return model.Task{}, apierror.BadRequest("invalid priority", req.Priority)
	}

	state := req.State
	if state == "" {
		state = model.TaskStatePending
	}
	if !model.ValidTaskState(state) {
		return model.Task{}, apierror.BadRequest("invalid state", req.State)
	}

	now := time.Now().UTC()
	task := model.Task{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		State:       state,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if state == model.TaskStateCompleted {
		task.CompletedAt = &now
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (s *TaskService) GetByID(ctx context.Context, id string) (model.Task, error) {
	return s.tasks.FindByID(ctx, id)
}

func (s *TaskService) ListByUser(ctx context.Context, userID string, state string) ([]model.Task, error) {
	if state != "" && !model.ValidTaskState(state) {
		return nil, apierror.BadRequest("invalid state filter", state)
	}
	return s.tasks.ListByUser(ctx, userID, state)
}

func (s *TaskService) Update(ctx context.Context, id string, req model.UpdateTaskRequest) (model.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return model.Task{}, err
	}

	if req.Title != nil {
		task.Title = strings.TrimSpace(*req.Title)
		if task.Title == "" {
			return model.Task{}, apierror.BadRequest("title cannot be empty", "")
		}
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		if !model.ValidTaskPriority(*req.Priority) {
			return model.Task{}, apierror.BadRequest("invalid priority", *req.Priority)
		}
		task.Priority = *req.Priority
	}
	if req.State != nil {
		if !model.ValidTaskState(*req.State) {
			return model.Task{}, apierror.BadRequest("invalid state", *req.State)
		}
		if *req.State != task.State {
			if *req.State == model.TaskStateCompleted {
				now := time.Now().UTC()
				task.CompletedAt = &now
			} else {
				task.CompletedAt = nil
			}
		}
		task.State = *req.State
	}

	task.UpdatedAt = time.Now().UTC()
	if err := s.tasks.Update(ctx, task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (s *TaskService) UpdateState(ctx context.Context, id string, state string) (model.Task, error) {
	if !model.ValidTaskState(state) {
		return model.Task{}, apierror.BadRequest("invalid state", state)
	}
	return s.tasks.UpdateState(ctx, id, state)
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	return s.tasks.Delete(ctx, id)
}

func (s *TaskService) DeleteMany(ctx context.Context, ids []string) (model.DeleteTasksResult, error) {
	if len(ids) == 0 {
		return model.DeleteTasksResult{}, apierror.BadRequest("no task IDs provided", "")
	}

	deleted, err := s.tasks.DeleteMany(ctx, ids)
	if err != nil {
		return model.DeleteTasksResult{}, err
	}
	if deleted == 0 {
		return model.DeleteTasksResult{}, apierror.NotFound("no tasks found with the provided IDs", "")
	}

	return model.DeleteTasksResult{
		Message:        fmt.Sprintf("%d task(s) deleted successfully", deleted),
		DeletedCount:   deleted,
		RequestedCount: len(ids),
	}, nil
}

func (s *TaskService) DeleteAllForUser(ctx context.Context, userID string) (model.DeleteTasksResult, error) {
	deleted, err := s.tasks.DeleteAllForUser(ctx, userID)
	if err != nil {
		return model.DeleteTasksResult{}, err
	}

	return model.DeleteTasksResult{
		Message:      fmt.Sprintf("%d task(s) deleted successfully", deleted),
		DeletedCount: deleted,
	}, nil
}
