package models

import "time"

// Remark is a comment on a task, optionally carrying one attached file.
// TaskID is a weak reference; UpdatedAt stays null until the first edit.
type Remark struct {
	ID        uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	TaskID    uint       `json:"task_id" gorm:"index;not null"`
	Comment   string     `json:"comment"`
	CreatedBy uint       `json:"created_by"`
	FileName  string     `json:"file_name,omitempty"`
	FilePath  string     `json:"file_path,omitempty"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" gorm:"autoUpdateTime:false"`
}

// TableName specifies the table name for Remark Model
func (Remark) TableName() string {
	return "remarks"
}
