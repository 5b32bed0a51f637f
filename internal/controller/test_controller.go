package controller

import (
	"examgrade_backend/internal/service"
	"examgrade_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TestController struct {
	TestService *service.TestService
}

func NewTestController(testService *service.TestService) *TestController {
	return &TestController{TestService: testService}
}

// swagger:model CreateTestRequest
type CreateTestRequest struct {
	TestName string `json:"test_name" binding:"required"`
}

type questionView struct {
	ID           uint   `json:"id"`
	QuestionText string `json:"question_text"`
}

type testView struct {
	ID        uint           `json:"id"`
	TestName  string         `json:"test_name"`
	Questions []questionView `json:"questions"`
}

// CreateTest godoc
// @Summary Create a test
// @Description Lecturer-only; creates an empty test owned by the caller
// @Tags tests
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body CreateTestRequest true "Test name"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /create_test [post]
func (c *TestController) CreateTest(ctx *gin.Context) {
	var req CreateTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	if _, err := c.TestService.CreateTest(req.TestName, claims.UserID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Message(ctx, "Test created successfully")
}

// GetTests godoc
// @Summary List all tests with their questions
// @Tags tests
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]interface{}
// @Router /tests [get]
func (c *TestController) GetTests(ctx *gin.Context) {
	tests, err := c.TestService.ListTests()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	output := make([]testView, 0, len(tests))
	for _, test := range tests {
		questions := make([]questionView, 0, len(test.Questions))
		for _, q := range test.Questions {
			questions = append(questions, questionView{ID: q.ID, QuestionText: q.QuestionText})
		}
		output = append(output, testView{ID: test.ID, TestName: test.TestName, Questions: questions})
	}

	util.Success(ctx, gin.H{"tests": output})
}
