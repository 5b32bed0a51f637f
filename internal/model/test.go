package model

// swagger:model Test
type Test struct {
	BaseModel
	TestName   string     `gorm:"size:255;not null" json:"test_name"`
	LecturerID uint       `gorm:"index;not null" json:"lecturer_id"`
	Questions  []Question `gorm:"foreignKey:TestID" json:"questions,omitempty"`
}

func (Test) TableName() string {
	return "tests"
}
