package service

import (
	"examgrade_backend/internal/model"
	"examgrade_backend/internal/repository"
)

type TestService struct {
	TestRepo *repository.TestRepository
}

func NewTestService(testRepo *repository.TestRepository) *TestService {
	return &TestService{TestRepo: testRepo}
}

func (s *TestService) CreateTest(testName string, lecturerID uint) (*model.Test, error) {
	test := &model.Test{
		TestName:   testName,
		LecturerID: lecturerID,
	}
	if err := s.TestRepo.Create(test); err != nil {
		return nil, err
	}
	return test, nil
}

func (s *TestService) ListTests() ([]model.Test, error) {
	return s.TestRepo.FindAllWithQuestions()
}
