package service

import (
	"context"
	"errors"
	"examgrade_backend/internal/config"
	"examgrade_backend/internal/util"
	"examgrade_backend/pkg/monitoring"
	"math"
	"sync"
)

// GradingService grades a free-text answer against a question's answer
// key by cosine similarity of their embeddings. It is stateless with
// respect to persistence; writing the grade back is the caller's job.
//
// The mapping is a hard cutoff: raw = cosine * max_grade, and anything
// below pass_threshold becomes 0. With the default 9/10 settings there is
// no partial credit and nonzero grades only occur in [9,10].
type GradingService struct {
	embedder Embedder

	mu  sync.RWMutex
	cfg config.GradingConfig
}

func NewGradingService(embedder Embedder, cfg config.GradingConfig) *GradingService {
	return &GradingService{embedder: embedder, cfg: cfg}
}

// UpdateConfig swaps the threshold settings; registered as a config
// reload callback.
func (s *GradingService) UpdateConfig(cfg config.GradingConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
}

func (s *GradingService) config() config.GradingConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// GradeSubmission returns a grade in [0, max_grade]. A zero-magnitude
// embedding makes cosine undefined; that case grades as 0 rather than
// erroring, since an unusable vector cannot evidence similarity. An
// unavailable embedding provider returns ErrEmbeddingUnavailable and the
// caller must leave the answer ungraded.
func (s *GradingService) GradeSubmission(ctx context.Context, answerText, answerKey string) (float64, error) {
	answerVec, err := s.embedder.Embed(ctx, answerText)
	if err != nil {
		monitoring.GradingCounter.WithLabelValues("failed").Inc()
		return 0, err
	}

	keyVec, err := s.embedder.Embed(ctx, answerKey)
	if err != nil {
		monitoring.GradingCounter.WithLabelValues("failed").Inc()
		return 0, err
	}

	similarity, err := CosineSimilarity(answerVec, keyVec)
	if err != nil {
		if errors.Is(err, util.ErrDegenerateVector) {
			monitoring.GradingCounter.WithLabelValues("degenerate").Inc()
			return 0, nil
		}
		monitoring.GradingCounter.WithLabelValues("failed").Inc()
		return 0, err
	}

	cfg := s.config()
	grade := applyThreshold(similarity*cfg.MaxGrade, cfg.PassThreshold)
	if grade > 0 {
		monitoring.GradingCounter.WithLabelValues("passed").Inc()
	} else {
		monitoring.GradingCounter.WithLabelValues("zeroed").Inc()
	}
	return grade, nil
}

// CosineSimilarity returns dot(a,b)/(|a||b|) in [-1, 1]. Vectors of
// mismatched or zero length, or with zero magnitude, yield
// ErrDegenerateVector.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, util.ErrDegenerateVector
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, util.ErrDegenerateVector
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// applyThreshold zeroes any raw grade below the pass threshold; at or
// above it the raw scaled similarity passes through unchanged.
func applyThreshold(raw, threshold float64) float64 {
	if raw < threshold {
		return 0
	}
	return raw
}
