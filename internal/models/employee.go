package models

// Employee represents an employee record. MgrID is a weak reference to the
// employee's manager.
type Employee struct {
	EID         uint   `json:"e_id" gorm:"column:e_id;primaryKey;autoIncrement"`
	Name        string `json:"name" gorm:"not null"`
	Email       string `json:"email" gorm:"unique;not null"`
	Designation string `json:"designation"`
	MgrID       *uint  `json:"mgr_id" gorm:"column:mgr_id"`
}

// TableName specifies the table name for Employee Model
func (Employee) TableName() string {
	return "employees"
}
