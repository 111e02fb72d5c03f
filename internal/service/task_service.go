package service

import (
	"context"
	"errors"
	"time"

	"taskflow-api/internal/apperr"
	"taskflow-api/internal/models"
	"taskflow-api/internal/storage"

	"gorm.io/gorm"
)

// TaskService owns the task lifecycle: the status state machine, the
// authorization policy gating every mutation, and the visibility policy
// gating every query.
type TaskService struct {
	db    *gorm.DB
	files *storage.LocalStore
}

func NewTaskService(db *gorm.DB, files *storage.LocalStore) *TaskService {
	return &TaskService{db: db, files: files}
}

// requireRole checks that the caller actually holds the role it claims to
// act under.
func requireRole(ident models.Identity, role string) error {
	if role == "" {
		return apperr.Validation("role is required")
	}
	if !ident.HasRole(role) {
		return apperr.Authorization("the user does not hold the " + role + " role")
	}
	return nil
}

func requireAdminOrManager(role string) error {
	if role != models.RoleAdmin && role != models.RoleManager {
		return apperr.Authorization("only Admin or Manager may perform this operation")
	}
	return nil
}

// CreateTask is the payload for TaskService.Create.
type CreateTask struct {
	Title           string
	Description     string
	Status          string
	Priority        string
	AssignedTo      *uint
	AssignedBy      *uint
	Reviewer        *uint
	UpdatedBy       *uint
	ExpectedClosure *time.Time
}

// Create persists a new task. Only Admin or Manager acting roles may
// create. The caller-supplied status is stored verbatim (no defaulting),
// though a non-empty value must be a known status. If the task arrives
// already assigned, assigned_at is stamped now.
func (s *TaskService) Create(ctx context.Context, in CreateTask, actingRole string, ident models.Identity) (*models.Task, error) {
	if err := requireRole(ident, actingRole); err != nil {
		return nil, err
	}
	if err := requireAdminOrManager(actingRole); err != nil {
		return nil, err
	}

	var status models.TaskStatus
	if in.Status != "" {
		st, ok := models.ParseStatus(in.Status)
		if !ok {
			return nil, apperr.Validation("invalid status: " + in.Status)
		}
		status = st
	}

	task := &models.Task{
		Title:           in.Title,
		Description:     in.Description,
		Status:          status,
		Priority:        in.Priority,
		AssignedTo:      in.AssignedTo,
		AssignedBy:      in.AssignedBy,
		Reviewer:        in.Reviewer,
		UpdatedBy:       in.UpdatedBy,
		CreatedBy:       ident.EID,
		ExpectedClosure: in.ExpectedClosure,
		Version:         1,
	}
	if in.AssignedTo != nil {
		now := time.Now()
		task.AssignedAt = &now
	}

	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, apperr.Storage("failed to create task")
	}
	return task, nil
}

// Get returns a task by id.
func (s *TaskService) Get(ctx context.Context, id uint) (*models.Task, error) {
	return s.find(ctx, id)
}

func (s *TaskService) find(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	err := s.db.WithContext(ctx).Where("t_id = ?", id).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Task not found")
		}
		return nil, apperr.Storage("failed to fetch task")
	}
	return &task, nil
}

// TaskUpdate is the closed set of fields the general update path may touch.
// Unknown keys are rejected at the HTTP boundary before this struct is built.
type TaskUpdate struct {
	Title           *string
	Description     *string
	Status          *string
	Priority        *string
	AssignedTo      *uint
	AssignedBy      *uint
	Reviewer        *uint
	UpdatedBy       *uint
	ExpectedClosure *time.Time
}

func (u TaskUpdate) isEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil &&
		u.Priority == nil && u.AssignedTo == nil && u.AssignedBy == nil &&
		u.Reviewer == nil && u.UpdatedBy == nil && u.ExpectedClosure == nil
}

// Update applies a partial update under Admin/Manager authority.
//
// Assignment stamps assigned_at only the first time assigned_to becomes
// non-null. Setting status to DONE stamps actual_closure and, for a
// Manager, requires being the task's reviewer. Any status change while the
// task is currently IN_PROGRESS is rejected: moves out of IN_PROGRESS
// belong to the dedicated transition path.
func (s *TaskService) Update(ctx context.Context, id uint, in TaskUpdate, actingRole string, ident models.Identity) (*models.Task, error) {
	if err := requireRole(ident, actingRole); err != nil {
		return nil, err
	}
	if err := requireAdminOrManager(actingRole); err != nil {
		return nil, err
	}
	if in.isEmpty() {
		return nil, apperr.Validation("nothing to update")
	}

	task, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	if in.AssignedTo != nil && task.AssignedAt == nil {
		task.AssignedAt = &now
	}

	if in.Status != nil {
		st, ok := models.ParseStatus(*in.Status)
		if !ok {
			return nil, apperr.Validation("invalid status: " + *in.Status)
		}
		if st == models.StatusDone {
			task.ActualClosure = &now
			if actingRole == models.RoleManager && (task.Reviewer == nil || *task.Reviewer != ident.EID) {
				return nil, apperr.Authorization("only the reviewer can mark the task as Done")
			}
		}
		if task.Status == models.StatusInProgress {
			return nil, apperr.Authorization("only the assigned employee can change the status of a task in progress")
		}
		task.Status = st
	}

	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Priority != nil {
		task.Priority = *in.Priority
	}
	if in.AssignedTo != nil {
		task.AssignedTo = in.AssignedTo
	}
	if in.AssignedBy != nil {
		task.AssignedBy = in.AssignedBy
	}
	if in.Reviewer != nil {
		task.Reviewer = in.Reviewer
	}
	if in.UpdatedBy != nil {
		task.UpdatedBy = in.UpdatedBy
	}
	if in.ExpectedClosure != nil {
		task.ExpectedClosure = in.ExpectedClosure
	}

	task.UpdatedAt = &now

	if err := s.save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Transition is the explicit state machine for driving status forward:
//
//	TO_DO -> IN_PROGRESS -> REVIEW -> {IN_PROGRESS, DONE}
//
// A Manager acting role must be the task's reviewer and may only move a
// task out of REVIEW. Any other acting role must be the assignee and may
// only move TO_DO to IN_PROGRESS or IN_PROGRESS to REVIEW. Reaching DONE
// stamps actual_closure. This path does not bump updated_at.
func (s *TaskService) Transition(ctx context.Context, id uint, rawStatus, actingRole string, ident models.Identity) (*models.Task, error) {
	if err := requireRole(ident, actingRole); err != nil {
		return nil, err
	}
	st, ok := models.ParseStatus(rawStatus)
	if !ok {
		return nil, apperr.Validation("invalid status: " + rawStatus)
	}

	task, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if actingRole == models.RoleManager {
		if task.Reviewer == nil || *task.Reviewer != ident.EID {
			return nil, apperr.Authorization("not the reviewer for the task")
		}
		if task.Status != models.StatusReview || (st != models.StatusInProgress && st != models.StatusDone) {
			return nil, apperr.Conflict("a task under review may only move to In Progress or Done")
		}
	} else {
		if task.AssignedTo == nil || *task.AssignedTo != ident.EID {
			return nil, apperr.Authorization("not assigned to the task")
		}
		legal := (st == models.StatusInProgress && task.Status == models.StatusToDo) ||
			(st == models.StatusReview && task.Status == models.StatusInProgress)
		if !legal {
			return nil, apperr.Conflict("only To Do -> In Progress or In Progress -> Review is allowed")
		}
	}

	task.Status = st
	if st == models.StatusDone {
		now := time.Now()
		task.ActualClosure = &now
	}

	if err := s.save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes a task. Only the original creator may delete, acting as
// Admin or Manager. The task's attachments and remarks are removed with it
// (files best-effort).
func (s *TaskService) Delete(ctx context.Context, id uint, actingRole string, ident models.Identity) error {
	if err := requireRole(ident, actingRole); err != nil {
		return err
	}
	if err := requireAdminOrManager(actingRole); err != nil {
		return err
	}

	task, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if task.CreatedBy != ident.EID {
		return apperr.Authorization("only the task creator can delete the task")
	}

	var attachments []models.Attachment
	if err := s.db.WithContext(ctx).Where("task_id = ?", id).Find(&attachments).Error; err == nil {
		for _, a := range attachments {
			s.files.Delete(a.Filepath)
		}
	}
	var remarks []models.Remark
	if err := s.db.WithContext(ctx).Where("task_id = ?", id).Find(&remarks).Error; err == nil {
		for _, r := range remarks {
			s.files.Delete(r.FilePath)
		}
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.Remark{}).Error; err != nil {
			return err
		}
		return tx.Where("t_id = ?", id).Delete(&models.Task{}).Error
	})
	if err != nil {
		return apperr.Storage("failed to delete task")
	}
	return nil
}

// List applies the read-visibility policy: Admin and Manager acting roles
// see every task; any other role sees only tasks assigned to the caller.
func (s *TaskService) List(ctx context.Context, actingRole string, ident models.Identity) ([]models.Task, error) {
	if err := requireRole(ident, actingRole); err != nil {
		return nil, err
	}

	var tasks []models.Task
	query := s.db.WithContext(ctx).Order("t_id asc")
	if actingRole != models.RoleAdmin && actingRole != models.RoleManager {
		query = query.Where("assigned_to = ?", ident.EID)
	}
	if err := query.Find(&tasks).Error; err != nil {
		return nil, apperr.Storage("failed to fetch tasks")
	}
	return tasks, nil
}

// ListByStatus narrows List to one status. The filter goes through the
// same status normalization as the rest of the engine.
func (s *TaskService) ListByStatus(ctx context.Context, rawStatus, actingRole string, ident models.Identity) ([]models.Task, error) {
	st, ok := models.ParseStatus(rawStatus)
	if !ok {
		return nil, apperr.Validation("invalid status: " + rawStatus)
	}

	tasks, err := s.List(ctx, actingRole, ident)
	if err != nil {
		return nil, err
	}

	filtered := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == st {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

// save writes every mutable task field in one durable write, guarded by a
// version compare-and-swap so concurrent read-modify-write cycles cannot
// silently overwrite each other.
func (s *TaskService) save(ctx context.Context, task *models.Task) error {
	res := s.db.WithContext(ctx).Model(&models.Task{}).
		Where("t_id = ? AND version = ?", task.ID, task.Version).
		Updates(map[string]interface{}{
			"title":            task.Title,
			"description":      task.Description,
			"status":           task.Status,
			"priority":         task.Priority,
			"assigned_to":      task.AssignedTo,
			"assigned_by":      task.AssignedBy,
			"reviewer":         task.Reviewer,
			"updated_by":       task.UpdatedBy,
			"assigned_at":      task.AssignedAt,
			"expected_closure": task.ExpectedClosure,
			"actual_closure":   task.ActualClosure,
			"updated_at":       task.UpdatedAt,
			"version":          gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return apperr.Storage("failed to update task")
	}
	if res.RowsAffected == 0 {
		return apperr.Conflict("task was modified concurrently")
	}
	task.Version++
	return nil
}
