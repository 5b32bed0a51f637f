package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"examgrade_backend/internal/config"
	"examgrade_backend/internal/middleware"
	"examgrade_backend/internal/repository"
	"examgrade_backend/internal/service"
	"examgrade_backend/pkg/database"
	"examgrade_backend/pkg/logger"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// fixedEmbedder returns canned vectors so grading is deterministic.
type fixedEmbedder struct {
	vectors map[string][]float32
}

func (e *fixedEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if v, ok := e.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

// newTestRouter wires the full HTTP surface against a throwaway sqlite
// database, mirroring the production route layout.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", filepath.Join(t.TempDir(), "test.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:     "api-test-secret-at-least-32-chars!!!",
			ExpireTime: time.Hour,
		},
		Grading: config.GradingConfig{PassThreshold: 9.0, MaxGrade: 10.0},
	}

	userRepo := repository.NewUserRepository(db)
	testRepo := repository.NewTestRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	answerRepo := repository.NewAnswerRepository(db)

	embedder := &fixedEmbedder{vectors: map[string][]float32{
		"Paris is the capital of France": {0.2, 0.7, 0.4},
	}}
	grading := service.NewGradingService(embedder, cfg.Grading)
	submission := service.NewSubmissionService(questionRepo, answerRepo, grading, db)

	authCtl := NewAuthController(service.NewAuthService(userRepo, cfg))
	testCtl := NewTestController(service.NewTestService(testRepo))
	questionCtl := NewQuestionController(service.NewQuestionService(questionRepo, testRepo))
	answerCtl := NewAnswerController(submission)

	router := gin.New()
	router.POST("/register", authCtl.Register)
	router.POST("/login", authCtl.Login)

	authGroup := router.Group("/")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/tests", testCtl.GetTests)
		authGroup.GET("/questions/:test_id", questionCtl.GetQuestions)
		authGroup.POST("/submit_answer", answerCtl.SubmitAnswer)
		authGroup.GET("/grades", answerCtl.GetGrades)

		lecturerGroup := authGroup.Group("/")
		lecturerGroup.Use(middleware.RequireLecturer())
		{
			lecturerGroup.POST("/create_test", testCtl.CreateTest)
			lecturerGroup.POST("/add_question", questionCtl.AddQuestion)
			lecturerGroup.POST("/grade_answer", answerCtl.GradeAnswer)
		}
	}

	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return body
}

func registerAndLogin(t *testing.T, router *gin.Engine, username string, isLecturer bool) string {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/register", "", gin.H{
		"username":    username,
		"password":    "hunter2hunter2",
		"is_lecturer": isLecturer,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("register %s: status %d body %s", username, w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/login", "", gin.H{
		"username": username,
		"password": "hunter2hunter2",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", username, w.Code, w.Body.String())
	}

	token, _ := decodeBody(t, w)["access_token"].(string)
	if token == "" {
		t.Fatalf("no access token for %s", username)
	}
	return token
}

func TestFullExamFlow(t *testing.T) {
	router := newTestRouter(t)

	lecturer := registerAndLogin(t, router, "lecturer", true)
	student := registerAndLogin(t, router, "student", false)

	// Students cannot reach lecturer-only routes.
	w := doJSON(t, router, http.MethodPost, "/create_test", student, gin.H{"test_name": "Geography"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("student create_test: expected 403, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/create_test", lecturer, gin.H{"test_name": "Geography"})
	if w.Code != http.StatusOK {
		t.Fatalf("create_test: status %d body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/add_question", lecturer, gin.H{
		"question_text": "What is the capital of France?",
		"answer_key":    "Paris is the capital of France",
		"test_id":       1,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("add_question: status %d body %s", w.Code, w.Body.String())
	}

	// The question listing must never expose the answer key.
	w = doJSON(t, router, http.MethodGet, "/questions/1", student, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("questions: status %d body %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "answer_key") || strings.Contains(w.Body.String(), "Paris is the capital") {
		t.Fatalf("answer key leaked in questions listing: %s", w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/tests", student, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("tests: status %d body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Geography") {
		t.Fatalf("test listing missing created test: %s", w.Body.String())
	}

	// A verbatim answer embeds identically to the key and earns full marks.
	w = doJSON(t, router, http.MethodPost, "/submit_answer", student, gin.H{
		"question_id": 1,
		"answer_text": "Paris is the capital of France",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("submit_answer: status %d body %s", w.Code, w.Body.String())
	}
	if grade, _ := decodeBody(t, w)["grade"].(float64); grade != 10.0 {
		t.Fatalf("expected grade 10, got %v", grade)
	}

	// A second attempt on the same question is rejected.
	w = doJSON(t, router, http.MethodPost, "/submit_answer", student, gin.H{
		"question_id": 1,
		"answer_text": "Paris",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("resubmit: expected 403, got %d body %s", w.Code, w.Body.String())
	}

	// Lecturer overrides the grade.
	w = doJSON(t, router, http.MethodPost, "/grade_answer", lecturer, gin.H{
		"answer_id": 1,
		"grade":     7.0,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("grade_answer: status %d body %s", w.Code, w.Body.String())
	}

	// The student sees the overridden grade.
	w = doJSON(t, router, http.MethodGet, "/grades", student, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("grades: status %d body %s", w.Code, w.Body.String())
	}
	grades, _ := decodeBody(t, w)["grades"].([]interface{})
	if len(grades) != 1 {
		t.Fatalf("expected 1 grade entry, got %d", len(grades))
	}
	entry, _ := grades[0].(map[string]interface{})
	if entry["grade"] != 7.0 {
		t.Fatalf("expected overridden grade 7, got %v", entry["grade"])
	}
}

func TestAuthRequired(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/tests", "/grades"} {
		w := doJSON(t, router, http.MethodGet, path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s without token: expected 401, got %d", path, w.Code)
		}
	}

	w := doJSON(t, router, http.MethodGet, "/tests", "not-a-jwt", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: expected 401, got %d", w.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	router := newTestRouter(t)

	// Password shorter than 8 characters fails binding.
	w := doJSON(t, router, http.MethodPost, "/register", "", gin.H{
		"username": "alice",
		"password": "short",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("short password: expected 400, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/register", "", gin.H{
		"username": "alice",
		"password": "hunter2hunter2",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("register: status %d body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/register", "", gin.H{
		"username": "alice",
		"password": "hunter2hunter2",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate register: expected 409, got %d", w.Code)
	}
}

func TestSubmitAnswerUnknownQuestion(t *testing.T) {
	router := newTestRouter(t)
	student := registerAndLogin(t, router, "student", false)

	w := doJSON(t, router, http.MethodPost, "/submit_answer", student, gin.H{
		"question_id": 999,
		"answer_text": "anything",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body %s", w.Code, w.Body.String())
	}
}

func TestGradeAnswerUnknownAnswer(t *testing.T) {
	router := newTestRouter(t)
	lecturer := registerAndLogin(t, router, "lecturer", true)

	w := doJSON(t, router, http.MethodPost, "/grade_answer", lecturer, gin.H{
		"answer_id": 999,
		"grade":     5.0,
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body %s", w.Code, w.Body.String())
	}
}
