package service

import (
	"errors"
	"examgrade_backend/internal/model"
	"examgrade_backend/internal/repository"
	"examgrade_backend/internal/util"

	"gorm.io/gorm"
)

type QuestionService struct {
	QuestionRepo *repository.QuestionRepository
	TestRepo     *repository.TestRepository
}

func NewQuestionService(questionRepo *repository.QuestionRepository, testRepo *repository.TestRepository) *QuestionService {
	return &QuestionService{
		QuestionRepo: questionRepo,
		TestRepo:     testRepo,
	}
}

func (s *QuestionService) AddQuestion(questionText, answerKey string, testID, lecturerID uint) (*model.Question, error) {
	if _, err := s.TestRepo.FindByID(testID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}

	question := &model.Question{
		QuestionText: questionText,
		AnswerKey:    answerKey,
		LecturerID:   lecturerID,
		TestID:       testID,
	}
	if err := s.QuestionRepo.Create(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuestionService) ListByTest(testID uint) ([]model.Question, error) {
	return s.QuestionRepo.FindByTestID(testID)
}
