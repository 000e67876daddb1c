package usecase_test

import (
	"context"
	"errors"

	"stock_portfolio/internal/feature/disclosure/domain/entity"
	"stock_portfolio/internal/feature/disclosure/usecase"
)

// ErrDB はモックと期待値の間で共有されるセンチネルエラーです。
var ErrDB = errors.New("database error")

// mockFetcher はDocumentFetcherのモック実装です。
type mockFetcher struct {
	FetchTextFunc  func(ctx context.Context, url string) (string, error)
	FetchTextCalls int
}

func (m *mockFetcher) FetchText(ctx context.Context, url string) (string, error) {
	m.FetchTextCalls++
	if m.FetchTextFunc != nil {
		return m.FetchTextFunc(ctx, url)
	}
	return "", errors.New("FetchTextFunc is not implemented")
}

// mockGenerator はTextGeneratorのモック実装です。
type mockGenerator struct {
	GenerateFunc  func(ctx context.Context, prompt string) (string, error)
	GenerateCalls int
	LastPrompt    string
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.GenerateCalls++
	m.LastPrompt = prompt
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return "", errors.New("GenerateFunc is not implemented")
}

// mockWriter はOutcomeWriterのモック実装です。書き込まれたOutcomeを記録します。
type mockWriter struct {
	Err      error
	Outcomes map[uint][]entity.Outcome
}

func (m *mockWriter) ApplyOutcome(ctx context.Context, id uint, o entity.Outcome) error {
	if m.Err != nil {
		return m.Err
	}
	if m.Outcomes == nil {
		m.Outcomes = make(map[uint][]entity.Outcome)
	}
	m.Outcomes[id] = append(m.Outcomes[id], o)
	return nil
}

// mockStocks はStockNameResolverのモック実装です。
type mockStocks struct {
	names map[string]string
	err   error
}

func (m *mockStocks) StockName(ctx context.Context, code string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.names[code], nil
}

// mockBatchRepository はBatchRepositoryのモック実装です。
type mockBatchRepository struct {
	FindOldestPendingFunc  func(ctx context.Context) (entity.Disclosure, error)
	FindOldestPendingCalls int
	MarkErrorFunc          func(ctx context.Context, id uint) error
	MarkedIDs              []uint
}

func (m *mockBatchRepository) FindOldestPending(ctx context.Context) (entity.Disclosure, error) {
	m.FindOldestPendingCalls++
	if m.FindOldestPendingFunc != nil {
		return m.FindOldestPendingFunc(ctx)
	}
	return entity.Disclosure{}, errors.New("FindOldestPendingFunc is not implemented")
}

func (m *mockBatchRepository) MarkError(ctx context.Context, id uint) error {
	m.MarkedIDs = append(m.MarkedIDs, id)
	if m.MarkErrorFunc != nil {
		return m.MarkErrorFunc(ctx, id)
	}
	return nil
}

// mockProcessor はRecordProcessorのモック実装です。
type mockProcessor struct {
	ProcessFunc func(ctx context.Context, d entity.Disclosure) (entity.Outcome, error)
	Processed   []uint
}

func (m *mockProcessor) Process(ctx context.Context, d entity.Disclosure) (entity.Outcome, error) {
	m.Processed = append(m.Processed, d.ID)
	if m.ProcessFunc != nil {
		return m.ProcessFunc(ctx, d)
	}
	return entity.Outcome{}, errors.New("ProcessFunc is not implemented")
}

var (
	_ usecase.DocumentFetcher   = (*mockFetcher)(nil)
	_ usecase.TextGenerator     = (*mockGenerator)(nil)
	_ usecase.OutcomeWriter     = (*mockWriter)(nil)
	_ usecase.StockNameResolver = (*mockStocks)(nil)
	_ usecase.BatchRepository   = (*mockBatchRepository)(nil)
	_ usecase.RecordProcessor   = (*mockProcessor)(nil)
)
