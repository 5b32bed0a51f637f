package repository

import (
	"examgrade_backend/internal/model"

	"gorm.io/gorm"
)

type AnswerRepository struct {
	DB *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{DB: db}
}

func (r *AnswerRepository) FindByID(id uint) (*model.Answer, error) {
	var answer model.Answer
	err := r.DB.First(&answer, id).Error
	return &answer, err
}

func (r *AnswerRepository) FindAll() ([]model.Answer, error) {
	var answers []model.Answer
	err := r.DB.Order("submitted_at DESC").Find(&answers).Error
	return answers, err
}

func (r *AnswerRepository) FindByStudentID(studentID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.DB.Where("student_id = ?", studentID).Order("submitted_at DESC").Find(&answers).Error
	return answers, err
}

// SetGrade writes the grade and flips is_graded in one update. Used by
// both the automatic grader and the lecturer override, any number of
// times.
func (r *AnswerRepository) SetGrade(answerID uint, grade float64) error {
	return r.DB.Model(&model.Answer{}).
		Where("id = ?", answerID).
		Updates(map[string]interface{}{"grade": grade, "is_graded": true}).
		Error
}
