package model

// Question holds the reference answer key used for grading. The key is
// never serialized to API responses. Questions are immutable once created;
// there is no update endpoint.
// swagger:model Question
type Question struct {
	BaseModel
	QuestionText string `gorm:"type:text;not null" json:"question_text"`
	AnswerKey    string `gorm:"type:text;not null" json:"-"`
	LecturerID   uint   `gorm:"index;not null" json:"lecturer_id"`
	TestID       uint   `gorm:"index;not null" json:"test_id"`
}

func (Question) TableName() string {
	return "questions"
}
