package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"recipe-matcher/internal/core/ai/provider"
	"recipe-matcher/internal/pkg/common"
)

// Service 生成式文字服務，負責請求頻率控制與呼叫紀錄
type Service struct {
	provider    provider.Provider
	minInterval time.Duration
	maxTokens   int
	temperature float64

	mu          sync.Mutex
	lastRequest time.Time
	now         func() time.Time
}

// Options 服務參數
type Options struct {
	MinInterval time.Duration
	MaxTokens   int
	Temperature float64
}

// NewService 創建生成式文字服務
func NewService(p provider.Provider, opts Options) *Service {
	return &Service{
		provider:    p,
		minInterval: opts.MinInterval,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
		now:         time.Now,
	}
}

// GenerateText 送出 prompt 並回傳原始文字
func (s *Service) GenerateText(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", common.NewValidationError("prompt", "prompt is empty")
	}

	if err := s.checkRequestRate(); err != nil {
		return "", err
	}

	req := provider.UserPrompt(prompt)
	req.MaxTokens = s.maxTokens
	req.Temperature = s.temperature

	start := s.now()
	resp, err := s.provider.Generate(ctx, req)
	common.LogAICall(s.provider.GetModel(), s.now().Sub(start), err)
	if err != nil {
		return "", common.ErrAIServiceError.Wrap(err)
	}
	return resp.Content, nil
}

// Close 關閉底層後端
func (s *Service) Close() error {
	return s.provider.Close()
}

// checkRequestRate 檢查請求頻率
func (s *Service) checkRequestRate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.minInterval > 0 && !s.lastRequest.IsZero() && now.Sub(s.lastRequest) < s.minInterval {
		return common.ErrTooManyRequests
	}

	s.lastRequest = now
	return nil
}
