package service

import (
	"context"
	"errors"
	"examgrade_backend/internal/config"
	"examgrade_backend/internal/util"
	"math"
	"testing"
)

// stubEmbedder returns canned vectors per text.
type stubEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	v, ok := s.vectors[text]
	if !ok {
		return nil, errors.New("no stub vector for text")
	}
	return v, nil
}

func defaultGradingConfig() config.GradingConfig {
	return config.GradingConfig{PassThreshold: 9.0, MaxGrade: 10.0}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name    string
		a, b    []float32
		want    float64
		wantErr error
	}{
		{name: "identical", a: []float32{1, 2, 3}, b: []float32{1, 2, 3}, want: 1.0},
		{name: "opposite", a: []float32{1, 0}, b: []float32{-1, 0}, want: -1.0},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0.0},
		{name: "scaled copies", a: []float32{2, 4}, b: []float32{1, 2}, want: 1.0},
		{name: "zero left", a: []float32{0, 0}, b: []float32{1, 2}, wantErr: util.ErrDegenerateVector},
		{name: "zero right", a: []float32{1, 2}, b: []float32{0, 0}, wantErr: util.ErrDegenerateVector},
		{name: "mismatched length", a: []float32{1, 2, 3}, b: []float32{1, 2}, wantErr: util.ErrDegenerateVector},
		{name: "empty", a: nil, b: nil, wantErr: util.ErrDegenerateVector},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CosineSimilarity(tc.a, tc.b)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestCosineSimilaritySymmetric(t *testing.T) {
	a := []float32{0.3, -1.2, 4.5, 0.01}
	b := []float32{2.2, 0.7, -0.5, 3.3}

	ab, err := CosineSimilarity(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ba, err := CosineSimilarity(b, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(ab-ba) > 1e-12 {
		t.Fatalf("cosine not symmetric: %v vs %v", ab, ba)
	}
}

func TestApplyThreshold(t *testing.T) {
	tests := []struct {
		raw  float64
		want float64
	}{
		{raw: 0, want: 0},
		{raw: 5, want: 0},
		{raw: 8.99, want: 0},
		{raw: 9.0, want: 9.0},
		{raw: 9.5, want: 9.5},
		{raw: 10, want: 10},
	}

	for _, tc := range tests {
		if got := applyThreshold(tc.raw, 9.0); got != tc.want {
			t.Fatalf("applyThreshold(%v) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestGradeSubmissionIdenticalTexts(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"Paris is the capital of France": {0.1, 0.9, 0.3},
	}}
	svc := NewGradingService(embedder, defaultGradingConfig())

	grade, err := svc.GradeSubmission(context.Background(), "Paris is the capital of France", "Paris is the capital of France")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(grade-10.0) > 1e-9 {
		t.Fatalf("expected grade 10, got %v", grade)
	}
}

func TestGradeSubmissionBelowThreshold(t *testing.T) {
	// cosine 0.8 => raw 8.0 => zeroed by the cutoff
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"answer": {0.8, 0.6},
		"key":    {1, 0},
	}}
	svc := NewGradingService(embedder, defaultGradingConfig())

	grade, err := svc.GradeSubmission(context.Background(), "answer", "key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if grade != 0 {
		t.Fatalf("expected grade 0 below threshold, got %v", grade)
	}
}

func TestGradeSubmissionAboveThresholdKeepsRawGrade(t *testing.T) {
	// cosine ~0.9487 => raw ~9.487, passes and keeps the raw value
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"answer": {3, 1},
		"key":    {1, 0},
	}}
	svc := NewGradingService(embedder, defaultGradingConfig())

	grade, err := svc.GradeSubmission(context.Background(), "answer", "key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 3.0 / math.Sqrt(10) * 10
	if math.Abs(grade-want) > 1e-9 {
		t.Fatalf("expected grade %v, got %v", want, grade)
	}
	if grade < 9 || grade > 10 {
		t.Fatalf("passing grade outside [9,10]: %v", grade)
	}
}

func TestGradeSubmissionDegenerateVectorGradesZero(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"answer": {0, 0, 0},
		"key":    {1, 2, 3},
	}}
	svc := NewGradingService(embedder, defaultGradingConfig())

	grade, err := svc.GradeSubmission(context.Background(), "answer", "key")
	if err != nil {
		t.Fatalf("degenerate vector should not error, got %v", err)
	}
	if grade != 0 {
		t.Fatalf("expected fallback grade 0, got %v", grade)
	}
}

func TestGradeSubmissionEmbeddingFailure(t *testing.T) {
	embedder := &stubEmbedder{err: util.ErrEmbeddingUnavailable}
	svc := NewGradingService(embedder, defaultGradingConfig())

	_, err := svc.GradeSubmission(context.Background(), "answer", "key")
	if !errors.Is(err, util.ErrEmbeddingUnavailable) {
		t.Fatalf("expected ErrEmbeddingUnavailable, got %v", err)
	}
}

func TestUpdateConfigChangesThreshold(t *testing.T) {
	// cosine 0.8 => raw 8.0, fails at threshold 9 but passes at 7
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"answer": {0.8, 0.6},
		"key":    {1, 0},
	}}
	svc := NewGradingService(embedder, defaultGradingConfig())

	svc.UpdateConfig(config.GradingConfig{PassThreshold: 7.0, MaxGrade: 10.0})

	grade, err := svc.GradeSubmission(context.Background(), "answer", "key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(grade-8.0) > 1e-9 {
		t.Fatalf("expected grade 8 after lowering threshold, got %v", grade)
	}
}
