// Package embedder — HTTP-клиент сервиса эмбеддингов (ResNet50 + CLIP).
package embedder

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/DRSN-tech/visual-search/internal/cfg"
	"github.com/DRSN-tech/visual-search/internal/domain"
	"github.com/DRSN-tech/visual-search/pkg/e"
	"github.com/DRSN-tech/visual-search/pkg/jitter"
	"github.com/DRSN-tech/visual-search/pkg/logger"
	"github.com/jimlawless/whereami"
)

// Embedder — клиент для взаимодействия с внешним ML-сервисом эмбеддингов.
// Семафор ограничивает число одновременных запросов: модель на стороне
// сервиса однопоточная, параллельные вызовы только увеличивают латентность.
type Embedder struct {
	baseURL    string
	httpClient *http.Client
	sem        chan struct{}
	maxRetries int
	logger     logger.Logger
}

func NewEmbedder(cfg *cfg.EmbedderCfg, logger logger.Logger) *Embedder {
	// minimum одна попытка и один слот семафора: нулевые значения
	// из окружения иначе блокируют любой запрос
	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	return &Embedder{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		sem:        make(chan struct{}, maxConcurrent),
		maxRetries: maxRetries,
		logger:     logger,
	}
}

type visualEmbedRequest struct {
	Image string `json:"image"`
}

type visualEmbedResponse struct {
	Vector []float32 `json:"vector"`
}

type crossModalRequest struct {
	Image string   `json:"image"`
	Texts []string `json:"texts"`
}

type crossModalResponse struct {
	ImageVector []float32   `json:"image_vector"`
	TextVectors [][]float32 `json:"text_vectors"`
	LogitScale  float32     `json:"logit_scale"`
}

// VisualEmbed возвращает визуальный эмбеддинг изображения (ResNet50)
// с retry-логикой и экспоненциальной задержкой.
func (m *Embedder) VisualEmbed(ctx context.Context, image []byte) ([]float32, error) {
	const op = "Embedder.VisualEmbed"

	var res visualEmbedResponse

	req := visualEmbedRequest{Image: base64.StdEncoding.EncodeToString(image)}
	if err := m.withRetry(ctx, "/embed/image", req, &res); err != nil {
		return nil, e.Wrap(op, err)
	}

	if len(res.Vector) == 0 {
		return nil, e.Wrap(op, e.ErrEmptyVector)
	}

	return res.Vector, nil
}

// CrossModalEmbed возвращает совместные CLIP-эмбеддинги изображения и набора текстов.
func (m *Embedder) CrossModalEmbed(ctx context.Context, image []byte, texts []string) (*domain.CrossModalEmbedding, error) {
	const op = "Embedder.CrossModalEmbed"

	var res crossModalResponse

	req := crossModalRequest{
		Image: base64.StdEncoding.EncodeToString(image),
		Texts: texts,
	}
	if err := m.withRetry(ctx, "/embed/cross-modal", req, &res); err != nil {
		return nil, e.Wrap(op, err)
	}

	if len(res.ImageVector) == 0 {
		return nil, e.Wrap(op, e.ErrEmptyVector)
	}

	return &domain.CrossModalEmbedding{
		ImageVector: res.ImageVector,
		TextVectors: res.TextVectors,
		LogitScale:  res.LogitScale,
	}, nil
}

// withRetry выполняет запрос с retry-логикой и экспоненциальной задержкой
func (m *Embedder) withRetry(ctx context.Context, path string, reqBody, resBody any) error {
	const (
		op         = "Embedder.withRetry"
		baseJitter = 1 * time.Second
		maxJitter  = 30 * time.Second
	)

	for attempt := 0; attempt < m.maxRetries; attempt++ {
		err := m.post(ctx, path, reqBody, resBody)
		if err == nil {
			return nil
		}

		if attempt == m.maxRetries-1 {
			return e.Wrap(op, fmt.Errorf("all %d attempts failed: %w", m.maxRetries, err))
		}

		sleepTime := jitter.ExponentialBackoff(
			baseJitter,
			maxJitter,
			attempt,
			jitter.DefaultJitter,
		)

		m.logger.Warnf("embedding request %s failed, retrying in %v (attempt %d): %v", path, sleepTime, attempt+1, err)
		select {
		case <-time.After(sleepTime):
		case <-ctx.Done():
			return e.Wrap(op, ctx.Err())
		}
	}

	return e.Wrap(op, fmt.Errorf("unreachable"))
}

func (m *Embedder) post(ctx context.Context, path string, reqBody, resBody any) error {
	select {
	case m.sem <- struct{}{}:
		defer func() { <-m.sem }()
	case <-ctx.Done():
		return e.Wrap(whereami.WhereAmI(), ctx.Err())
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("embedder %s: status %d: %s", path, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(resBody); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
