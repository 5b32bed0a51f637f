package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"examgrade_backend/internal/config"
	"examgrade_backend/internal/util"
	"examgrade_backend/pkg/logger"
	"examgrade_backend/pkg/monitoring"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Embedder turns text into a fixed-length vector capturing its meaning.
// Implementations must be safe for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingService calls an OpenAI-compatible /embeddings endpoint. A
// single instance is shared by all request handlers; it holds no mutable
// state beyond the connection pools.
type EmbeddingService struct {
	cfg    config.EmbeddingConfig
	client *http.Client
	rdb    *redis.Client // optional cache; nil disables caching
}

func NewEmbeddingService(cfg config.EmbeddingConfig, rdb *redis.Client) *EmbeddingService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &EmbeddingService{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		rdb:    rdb,
	}
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Embed returns the embedding vector for text. Any transport failure,
// non-200 status, or empty result surfaces as ErrEmbeddingUnavailable so
// callers can leave the submission ungraded instead of defaulting a
// grade.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if cached, ok := s.cacheGet(ctx, text); ok {
		return cached, nil
	}

	start := time.Now()
	vector, err := s.fetch(ctx, text)
	monitoring.EmbeddingDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, text, vector)
	return vector, nil
}

func (s *EmbeddingService) fetch(ctx context.Context, text string) ([]float32, error) {
	jsonData, err := json.Marshal(embeddingRequest{Model: s.cfg.Model, Input: text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+"/embeddings", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrEmbeddingUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrEmbeddingUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d: %s", util.ErrEmbeddingUnavailable, resp.StatusCode, string(body))
	}

	var embResp embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&embResp); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrEmbeddingUnavailable, err)
	}
	if embResp.Error != nil {
		return nil, fmt.Errorf("%w: %s", util.ErrEmbeddingUnavailable, embResp.Error.Message)
	}
	if len(embResp.Data) == 0 || len(embResp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embedding in response", util.ErrEmbeddingUnavailable)
	}

	return embResp.Data[0].Embedding, nil
}

func (s *EmbeddingService) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(s.cfg.Model + "\x00" + text))
	return "embedding:" + hex.EncodeToString(sum[:])
}

func (s *EmbeddingService) cacheGet(ctx context.Context, text string) ([]float32, bool) {
	if s.rdb == nil {
		return nil, false
	}
	raw, err := s.rdb.Get(ctx, s.cacheKey(text)).Bytes()
	if err != nil {
		return nil, false
	}
	var vector []float32
	if err := json.Unmarshal(raw, &vector); err != nil || len(vector) == 0 {
		return nil, false
	}
	return vector, true
}

// cacheSet is best effort; a cache failure never fails the embedding call.
func (s *EmbeddingService) cacheSet(ctx context.Context, text string, vector []float32) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(vector)
	if err != nil {
		return
	}
	ttl := time.Duration(s.cfg.CacheTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if err := s.rdb.Set(ctx, s.cacheKey(text), raw, ttl).Err(); err != nil {
		logger.Log.Warn("embedding cache write failed", zap.Error(err))
	}
}
