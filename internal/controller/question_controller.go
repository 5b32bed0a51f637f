package controller

import (
	"errors"
	"examgrade_backend/internal/service"
	"examgrade_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
}

func NewQuestionController(questionService *service.QuestionService) *QuestionController {
	return &QuestionController{QuestionService: questionService}
}

// swagger:model AddQuestionRequest
type AddQuestionRequest struct {
	QuestionText string `json:"question_text" binding:"required"`
	AnswerKey    string `json:"answer_key" binding:"required"`
	TestID       uint   `json:"test_id" binding:"required"`
}

// AddQuestion godoc
// @Summary Add a question to a test
// @Description Lecturer-only; the answer key is stored for grading and never returned to students
// @Tags questions
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body AddQuestionRequest true "Question payload"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /add_question [post]
func (c *QuestionController) AddQuestion(ctx *gin.Context) {
	var req AddQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	_, err := c.QuestionService.AddQuestion(req.QuestionText, req.AnswerKey, req.TestID, claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrTestNotFound) {
			util.NotFound(ctx, "Test not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Message(ctx, "Question added successfully")
}

// GetQuestions godoc
// @Summary List the questions of a test
// @Tags questions
// @Produce  json
// @Security ApiKeyAuth
// @Param   test_id path int true "Test ID"
// @Success 200 {object} map[string]interface{}
// @Router /questions/{test_id} [get]
func (c *QuestionController) GetQuestions(ctx *gin.Context) {
	testID, err := strconv.ParseUint(ctx.Param("test_id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid test id")
		return
	}

	questions, err := c.QuestionService.ListByTest(uint(testID))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	output := make([]questionView, 0, len(questions))
	for _, q := range questions {
		output = append(output, questionView{ID: q.ID, QuestionText: q.QuestionText})
	}

	util.Success(ctx, gin.H{"questions": output})
}
