package models

import "time"

// Attachment is a task-scoped uploaded file. At most one current
// attachment exists per (task, creator) pair; uploading again replaces the
// previous one.
type Attachment struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	TaskID    uint      `json:"task_id" gorm:"index;not null"`
	Filename  string    `json:"filename" gorm:"not null"`
	Filepath  string    `json:"filepath" gorm:"not null"`
	Remark    string    `json:"remark"`
	CreatedBy uint      `json:"created_by" gorm:"index"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for Attachment Model
func (Attachment) TableName() string {
	return "attachments"
}
