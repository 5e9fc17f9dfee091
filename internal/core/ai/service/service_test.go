package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-matcher/internal/core/ai/provider"
	"recipe-matcher/internal/pkg/common"
)

type stubProvider struct {
	content string
	err     error
	last    *provider.Request
	calls   int
}

func (p *stubProvider) Generate(_ context.Context, req *provider.Request) (*provider.Response, error) {
	p.calls++
	p.last = req
	if p.err != nil {
		return nil, p.err
	}
	return &provider.Response{Content: p.content}, nil
}

func (p *stubProvider) GetModel() string          { return "stub" }
func (p *stubProvider) GetTimeout() time.Duration { return time.Second }
func (p *stubProvider) Close() error              { return nil }

func TestGenerateText(t *testing.T) {
	p := &stubProvider{content: "hello"}
	svc := NewService(p, Options{MaxTokens: 500, Temperature: 0.5})

	got, err := svc.GenerateText(context.Background(), "  make soup  ")
	require.NoError(t, err)

	assert.Equal(t, "hello", got)
	require.Len(t, p.last.Messages, 1)
	assert.Equal(t, "user", p.last.Messages[0].Role)
	assert.Equal(t, "make soup", p.last.Messages[0].Content)
	assert.Equal(t, 500, p.last.MaxTokens)
}

func TestGenerateTextEmptyPrompt(t *testing.T) {
	p := &stubProvider{}
	_, err := NewService(p, Options{}).GenerateText(context.Background(), " ")

	assert.True(t, common.IsValidationError(err))
	assert.Zero(t, p.calls)
}

func TestGenerateTextWrapsProviderError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewService(&stubProvider{err: boom}, Options{}).GenerateText(context.Background(), "soup")

	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, common.ErrAIServiceError)
}

func TestGenerateTextMinInterval(t *testing.T) {
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(&stubProvider{content: "ok"}, Options{MinInterval: time.Second})
	svc.now = func() time.Time { return clock }

	_, err := svc.GenerateText(context.Background(), "first")
	require.NoError(t, err)

	_, err = svc.GenerateText(context.Background(), "second")
	assert.ErrorIs(t, err, common.ErrTooManyRequests)

	clock = clock.Add(2 * time.Second)
	_, err = svc.GenerateText(context.Background(), "third")
	assert.NoError(t, err)
}
