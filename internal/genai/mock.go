package genai

import (
	"context"
	"sync"

	"varejo-ai-web/internal/domain"
)

// MockClient は外部モデルを呼ばない固定応答の実装です。ローカル動作確認と
// テストで使用します。Responses を順に消費し、尽きたら最後の応答を繰り返します。
type MockClient struct {
	mu        sync.Mutex
	Responses []string
	// Errs が応答より先に残っている場合はエラーを返します。
	Errs  []error
	Calls int
	// LastRequests は受け取ったリクエストの記録です。
	LastRequests []Request
}

func (m *MockClient) Complete(ctx context.Context, req Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", domain.WrapPipelineError(domain.ErrTimeout, "mock completion canceled", err)
	}

	i := m.Calls
	m.Calls++
	m.LastRequests = append(m.LastRequests, req)

	if i < len(m.Errs) && m.Errs[i] != nil {
		return "", m.Errs[i]
	}
	if len(m.Responses) == 0 {
		return "{}", nil
	}
	if i >= len(m.Responses) {
		i = len(m.Responses) - 1
	}
	return m.Responses[i], nil
}

// CallCount は発生したモデル呼び出し回数を返します。
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}
