package service

import (
	"context"
	"errors"
	"io"
	"time"

	"taskflow-api/internal/apperr"
	"taskflow-api/internal/models"
	"taskflow-api/internal/storage"

	"gorm.io/gorm"
)

// RemarkFile is an optional file accompanying a remark.
type RemarkFile struct {
	Name    string
	Content io.Reader
}

// RemarkService gates remark mutation: anyone authenticated may comment,
// only the creator or an Admin may change or remove a remark.
type RemarkService struct {
	db    *gorm.DB
	files *storage.LocalStore
}

func NewRemarkService(db *gorm.DB, files *storage.LocalStore) *RemarkService {
	return &RemarkService{db: db, files: files}
}

// Add creates a remark on a task, storing the attached file if one was
// supplied.
func (s *RemarkService) Add(ctx context.Context, taskID uint, comment string, file *RemarkFile, ident models.Identity) (*models.Remark, error) {
	var task models.Task
	if err := s.db.WithContext(ctx).Where("t_id = ?", taskID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Task not found")
		}
		return nil, apperr.Storage("failed to fetch task")
	}

	remark := &models.Remark{
		TaskID:    taskID,
		Comment:   comment,
		CreatedBy: ident.EID,
	}
	if file != nil {
		path, err := s.files.Save(taskID, file.Name, file.Content)
		if err != nil {
			return nil, apperr.Storage("failed to store file")
		}
		remark.FileName = file.Name
		remark.FilePath = path
	}

	if err := s.db.WithContext(ctx).Create(remark).Error; err != nil {
		return nil, apperr.Storage("failed to create remark")
	}
	return remark, nil
}

// Update edits a remark's comment and/or replaces its attached file. The
// caller must be the remark's creator or act as Admin (and hold it). At
// least one of comment/file must be supplied. A new file replaces the old
// one; removing the old file is best-effort.
func (s *RemarkService) Update(ctx context.Context, id uint, comment *string, file *RemarkFile, actingRole string, ident models.Identity) (*models.Remark, error) {
	remark, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	admin := actingRole == models.RoleAdmin && ident.HasRole(models.RoleAdmin)
	if !admin && remark.CreatedBy != ident.EID {
		return nil, apperr.Authorization("not allowed to update this remark")
	}

	if comment == nil && file == nil {
		return nil, apperr.Validation("nothing to update")
	}

	if comment != nil {
		remark.Comment = *comment
	}
	if file != nil {
		if remark.FilePath != "" {
			s.files.Delete(remark.FilePath)
		}
		path, err := s.files.Save(remark.TaskID, file.Name, file.Content)
		if err != nil {
			return nil, apperr.Storage("failed to store file")
		}
		remark.FileName = file.Name
		remark.FilePath = path
	}

	now := time.Now()
	remark.UpdatedAt = &now

	if err := s.db.WithContext(ctx).Save(remark).Error; err != nil {
		return nil, apperr.Storage("failed to update remark")
	}
	return remark, nil
}

// Delete removes a remark and its attached file (best-effort). Restricted
// to the creator or an Admin-holding identity.
func (s *RemarkService) Delete(ctx context.Context, id uint, ident models.Identity) error {
	remark, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if remark.CreatedBy != ident.EID && !ident.HasRole(models.RoleAdmin) {
		return apperr.Authorization("not allowed to delete this remark")
	}

	if remark.FilePath != "" {
		s.files.Delete(remark.FilePath)
	}

	if err := s.db.WithContext(ctx).Delete(remark).Error; err != nil {
		return apperr.Storage("failed to delete remark")
	}
	return nil
}

// ListByTask returns all remarks on a task, oldest first.
func (s *RemarkService) ListByTask(ctx context.Context, taskID uint) ([]models.Remark, error) {
	var remarks []models.Remark
	if err := s.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at asc").
		Find(&remarks).Error; err != nil {
		return nil, apperr.Storage("failed to fetch remarks")
	}
	return remarks, nil
}

func (s *RemarkService) find(ctx context.Context, id uint) (*models.Remark, error) {
	var remark models.Remark
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&remark).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Remark not found")
		}
		return nil, apperr.Storage("failed to fetch remark")
	}
	return &remark, nil
}
