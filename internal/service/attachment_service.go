package service

import (
	"context"
	"errors"
	"io"

	"taskflow-api/internal/apperr"
	"taskflow-api/internal/models"
	"taskflow-api/internal/storage"

	"gorm.io/gorm"
)

// AttachmentService gates attachment mutation by ownership/role and keeps
// the replace-on-upload invariant: at most one current attachment per
// (task, creator) pair.
type AttachmentService struct {
	db    *gorm.DB
	files *storage.LocalStore
}

func NewAttachmentService(db *gorm.DB, files *storage.LocalStore) *AttachmentService {
	return &AttachmentService{db: db, files: files}
}

// Attach stores a new attachment for the caller on the given task. Any
// prior attachment by the same caller is removed first; deleting its file
// is best-effort and never aborts the upload. A failure saving the new
// file does abort.
func (s *AttachmentService) Attach(ctx context.Context, taskID uint, filename string, content io.Reader, remark string, ident models.Identity) (*models.Attachment, error) {
	var task models.Task
	if err := s.db.WithContext(ctx).Where("t_id = ?", taskID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Task not found")
		}
		return nil, apperr.Storage("failed to fetch task")
	}

	var existing []models.Attachment
	if err := s.db.WithContext(ctx).
		Where("task_id = ? AND created_by = ?", taskID, ident.EID).
		Find(&existing).Error; err != nil {
		return nil, apperr.Storage("failed to fetch existing attachments")
	}
	for _, a := range existing {
		s.files.Delete(a.Filepath)
	}
	if len(existing) > 0 {
		if err := s.db.WithContext(ctx).
			Where("task_id = ? AND created_by = ?", taskID, ident.EID).
			Delete(&models.Attachment{}).Error; err != nil {
			return nil, apperr.Storage("failed to replace existing attachment")
		}
	}

	path, err := s.files.Save(taskID, filename, content)
	if err != nil {
		return nil, apperr.Storage("failed to store file")
	}

	att := &models.Attachment{
		TaskID:    taskID,
		Filename:  filename,
		Filepath:  path,
		Remark:    remark,
		CreatedBy: ident.EID,
	}
	if err := s.db.WithContext(ctx).Create(att).Error; err != nil {
		return nil, apperr.Storage("failed to create attachment")
	}
	return att, nil
}

// Delete removes an attachment. Allowed for its creator or any identity
// holding the Admin role. The physical file removal is best-effort.
func (s *AttachmentService) Delete(ctx context.Context, id uint, ident models.Identity) error {
	var att models.Attachment
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&att).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Attachment not found")
		}
		return apperr.Storage("failed to fetch attachment")
	}

	if att.CreatedBy != ident.EID && !ident.HasRole(models.RoleAdmin) {
		return apperr.Authorization("not allowed to delete this attachment")
	}

	s.files.Delete(att.Filepath)

	if err := s.db.WithContext(ctx).Delete(&att).Error; err != nil {
		return apperr.Storage("failed to delete attachment")
	}
	return nil
}

// List returns a task's attachments. Non-Admin acting roles must be held
// by the caller; an Admin acting role is ungated.
func (s *AttachmentService) List(ctx context.Context, taskID uint, actingRole string, ident models.Identity) ([]models.Attachment, error) {
	if actingRole != models.RoleAdmin {
		if err := requireRole(ident, actingRole); err != nil {
			return nil, err
		}
	}

	var attachments []models.Attachment
	if err := s.db.WithContext(ctx).Where("task_id = ?", taskID).Find(&attachments).Error; err != nil {
		return nil, apperr.Storage("failed to fetch attachments")
	}
	return attachments, nil
}
