package model

import "time"

// Answer is a student's single submission for a question. Grade stays nil
// until either the grading service or a lecturer override sets it. The
// composite unique index backs the one-submission invariant together with
// the attempt table.
// swagger:model Answer
type Answer struct {
	BaseModel
	AnswerText  string    `gorm:"type:text;not null" json:"answer_text"`
	QuestionID  uint      `gorm:"not null;uniqueIndex:idx_answers_student_question,priority:2" json:"question_id"`
	StudentID   uint      `gorm:"not null;uniqueIndex:idx_answers_student_question,priority:1" json:"student_id"`
	Grade       *float64  `json:"grade"`
	IsGraded    bool      `gorm:"default:false" json:"is_graded"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func (Answer) TableName() string {
	return "answers"
}
