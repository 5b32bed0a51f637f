package model

import "time"

// Attempt marks that a student has used their single allowed submission
// for a question. The unique index is the admission gate: inserting the
// attempt reserves the slot, so two concurrent submissions cannot both
// pass (one hits a duplicate-key error).
// swagger:model Attempt
type Attempt struct {
	BaseModel
	StudentID   uint      `gorm:"not null;uniqueIndex:idx_attempts_student_question,priority:1" json:"student_id"`
	QuestionID  uint      `gorm:"not null;uniqueIndex:idx_attempts_student_question,priority:2" json:"question_id"`
	AttemptedAt time.Time `json:"attempted_at"`
}

func (Attempt) TableName() string {
	return "attempts"
}
