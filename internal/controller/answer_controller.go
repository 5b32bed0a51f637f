package controller

import (
	"errors"
	"examgrade_backend/internal/model"
	"examgrade_backend/internal/service"
	"examgrade_backend/internal/util"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type AnswerController struct {
	SubmissionService *service.SubmissionService
}

func NewAnswerController(submissionService *service.SubmissionService) *AnswerController {
	return &AnswerController{SubmissionService: submissionService}
}

// swagger:model SubmitAnswerRequest
type SubmitAnswerRequest struct {
	QuestionID uint   `json:"question_id" binding:"required"`
	AnswerText string `json:"answer_text" binding:"required"`
}

type gradeView struct {
	ID          uint      `json:"id"`
	AnswerText  string    `json:"answer_text"`
	QuestionID  uint      `json:"question_id"`
	Grade       *float64  `json:"grade"`
	IsGraded    bool      `json:"is_graded"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// SubmitAnswer godoc
// @Summary Submit an answer for grading
// @Description One submission per student per question; the answer is graded by semantic similarity to the answer key
// @Tags answers
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body SubmitAnswerRequest true "Answer payload"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /submit_answer [post]
func (c *AnswerController) SubmitAnswer(ctx *gin.Context) {
	var req SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	answer, err := c.SubmissionService.Submit(ctx.Request.Context(), claims.UserID, req.QuestionID, req.AnswerText)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuestionNotFound):
			util.NotFound(ctx, "Question not found")
		case errors.Is(err, util.ErrAlreadyAttempted):
			util.Forbidden(ctx, "You have already attempted this question")
		case errors.Is(err, util.ErrEmbeddingUnavailable):
			// The answer was recorded; only grading failed.
			util.Error(ctx, http.StatusServiceUnavailable, "Answer submitted but grading is temporarily unavailable")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"message": "Answer submitted and graded successfully",
		"grade":   answer.Grade,
	})
}

// GetGrades godoc
// @Summary List grades
// @Description Lecturers see every answer; students only their own
// @Tags answers
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]interface{}
// @Router /grades [get]
func (c *AnswerController) GetGrades(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	answers, err := c.SubmissionService.ListGrades(claims.UserID, claims.IsLecturer)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"grades": toGradeViews(answers)})
}

func toGradeViews(answers []model.Answer) []gradeView {
	output := make([]gradeView, 0, len(answers))
	for _, a := range answers {
		output = append(output, gradeView{
			ID:          a.ID,
			AnswerText:  a.AnswerText,
			QuestionID:  a.QuestionID,
			Grade:       a.Grade,
			IsGraded:    a.IsGraded,
			SubmittedAt: a.SubmittedAt,
		})
	}
	return output
}

// swagger:model GradeAnswerRequest
type GradeAnswerRequest struct {
	AnswerID uint     `json:"answer_id" binding:"required"`
	Grade    *float64 `json:"grade" binding:"required"`
}

// GradeAnswer godoc
// @Summary Override an answer's grade
// @Description Lecturer-only; overwrites the grade and marks the answer graded, repeatable any number of times
// @Tags answers
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body GradeAnswerRequest true "Override payload"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /grade_answer [post]
func (c *AnswerController) GradeAnswer(ctx *gin.Context) {
	var req GradeAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.SubmissionService.OverrideGrade(req.AnswerID, *req.Grade); err != nil {
		if errors.Is(err, util.ErrAnswerNotFound) {
			util.NotFound(ctx, "Answer not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Message(ctx, "Answer graded successfully")
}
