package service

import (
	"context"
	"errors"
	"examgrade_backend/internal/model"
	"examgrade_backend/internal/repository"
	"examgrade_backend/internal/util"
	"examgrade_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SubmissionService enforces the one-submission-per-(student, question)
// invariant and orchestrates grading. Admission is not a read check: the
// attempt and answer rows are inserted in one transaction and the unique
// indexes reject a second submission, so concurrent duplicates cannot
// both get through.
type SubmissionService struct {
	QuestionRepo *repository.QuestionRepository
	AnswerRepo   *repository.AnswerRepository
	Grading      *GradingService
	DB           *gorm.DB
}

func NewSubmissionService(questionRepo *repository.QuestionRepository, answerRepo *repository.AnswerRepository, grading *GradingService, db *gorm.DB) *SubmissionService {
	return &SubmissionService{
		QuestionRepo: questionRepo,
		AnswerRepo:   answerRepo,
		Grading:      grading,
		DB:           db,
	}
}

// Submit records the answer and grades it. The grading call runs after
// the insert transaction commits so no DB transaction is held open
// across the embedding provider round trip. If the provider is down the
// answer stays persisted and ungraded and ErrEmbeddingUnavailable is
// returned alongside it.
func (s *SubmissionService) Submit(ctx context.Context, studentID, questionID uint, answerText string) (*model.Answer, error) {
	question, err := s.QuestionRepo.FindByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}

	now := time.Now()
	answer := &model.Answer{
		AnswerText:  answerText,
		QuestionID:  questionID,
		StudentID:   studentID,
		SubmittedAt: now,
	}
	attempt := &model.Attempt{
		StudentID:   studentID,
		QuestionID:  questionID,
		AttemptedAt: now,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(attempt).Error; err != nil {
			return err
		}
		return tx.Create(answer).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAlreadyAttempted
		}
		return nil, err
	}

	grade, err := s.Grading.GradeSubmission(ctx, answerText, question.AnswerKey)
	if err != nil {
		logger.Log.Error("grading failed, answer left ungraded",
			zap.Uint("answerId", answer.ID),
			zap.Error(err))
		return answer, err
	}

	if err := s.AnswerRepo.SetGrade(answer.ID, grade); err != nil {
		return answer, err
	}
	answer.Grade = &grade
	answer.IsGraded = true

	return answer, nil
}

// OverrideGrade lets a lecturer set any grade on any answer, repeatedly,
// regardless of prior grading state.
func (s *SubmissionService) OverrideGrade(answerID uint, grade float64) error {
	if _, err := s.AnswerRepo.FindByID(answerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrAnswerNotFound
		}
		return err
	}
	return s.AnswerRepo.SetGrade(answerID, grade)
}

// ListGrades returns every answer for lecturers and only the caller's
// own answers for students.
func (s *SubmissionService) ListGrades(userID uint, isLecturer bool) ([]model.Answer, error) {
	if isLecturer {
		return s.AnswerRepo.FindAll()
	}
	return s.AnswerRepo.FindByStudentID(userID)
}
