package model

// Subject 科目，题库和试卷都挂在科目下
// swagger:model Subject
type Subject struct {
	BaseModel
	Name        string `gorm:"size:150;not null" json:"name"`
	Code        string `gorm:"size:30;unique;not null" json:"code"`
	TeacherID   uint   `gorm:"index" json:"teacherId"`
	Credits     int    `gorm:"default:3" json:"credits"`
	Description string `gorm:"type:text" json:"description"`
}

func (Subject) TableName() string {
	return "subjects"
}
