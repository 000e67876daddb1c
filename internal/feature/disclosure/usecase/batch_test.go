package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"stock_portfolio/internal/feature/disclosure/domain"
	"stock_portfolio/internal/feature/disclosure/domain/entity"
	"stock_portfolio/internal/feature/disclosure/usecase"
)

// recordingSleep は待機せずに待機時間だけを記録します。
type recordingSleep struct {
	durations []time.Duration
}

func (r *recordingSleep) sleep(ctx context.Context, d time.Duration) error {
	r.durations = append(r.durations, d)
	return ctx.Err()
}

// queueRepository は与えた開示を順に返し、尽きたら ErrNoPendingDisclosure を返します。
func queueRepository(items ...entity.Disclosure) *mockBatchRepository {
	queue := append([]entity.Disclosure(nil), items...)
	return &mockBatchRepository{
		FindOldestPendingFunc: func(ctx context.Context) (entity.Disclosure, error) {
			if len(queue) == 0 {
				return entity.Disclosure{}, domain.ErrNoPendingDisclosure
			}
			d := queue[0]
			queue = queue[1:]
			return d, nil
		},
	}
}

var testBatchConfig = usecase.BatchConfig{
	BusyInterval: 2 * time.Second,
	IdleInterval: 10 * time.Second,
	MaxIdlePolls: 3,
}

func TestBatchDriver_Run_IdleExit(t *testing.T) {
	repo := queueRepository()
	proc := &mockProcessor{}
	sleeper := &recordingSleep{}

	driver := usecase.NewBatchDriver(repo, proc, testBatchConfig, usecase.WithSleep(sleeper.sleep))
	report, err := driver.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.FindOldestPendingCalls != 3 {
		t.Errorf("FindOldestPending was called %d times, expected 3", repo.FindOldestPendingCalls)
	}
	if report.IdlePolls != 3 || report.Processed != 0 {
		t.Errorf("unexpected report: %+v", report)
	}
	// 最後の空ポーリングの後は待機しない
	want := []time.Duration{10 * time.Second, 10 * time.Second}
	if len(sleeper.durations) != len(want) {
		t.Fatalf("sleeps = %v, want %v", sleeper.durations, want)
	}
	if len(proc.Processed) != 0 {
		t.Errorf("processor should not be called")
	}
}

func TestBatchDriver_Run_ProcessesInOrder(t *testing.T) {
	repo := queueRepository(
		pendingDisclosure(1, "決算短信", "https://example.com/1.pdf"),
		pendingDisclosure(2, "株主優待", ""),
	)
	proc := &mockProcessor{ProcessFunc: func(ctx context.Context, d entity.Disclosure) (entity.Outcome, error) {
		if d.HasPDF() {
			return entity.DoneOutcome(entity.Analysis{Summary: "ok", SalesGrowth: "-", ProfitGrowth: "-"}), nil
		}
		return entity.NoPDFOutcome(), nil
	}}
	sleeper := &recordingSleep{}

	driver := usecase.NewBatchDriver(repo, proc, testBatchConfig, usecase.WithSleep(sleeper.sleep))
	report, err := driver.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(proc.Processed) != 2 || proc.Processed[0] != 1 || proc.Processed[1] != 2 {
		t.Errorf("processed = %v, want [1 2]", proc.Processed)
	}
	if report.ByStatus[entity.StatusDone] != 1 || report.ByStatus[entity.StatusNoPDF] != 1 {
		t.Errorf("unexpected status counts: %v", report.ByStatus)
	}
	if len(repo.MarkedIDs) != 0 {
		t.Errorf("MarkError should not be called, got %v", repo.MarkedIDs)
	}
	// 2件処理 → 2s ×2、その後の空ポーリング2回分 → 10s ×2
	want := []time.Duration{2 * time.Second, 2 * time.Second, 10 * time.Second, 10 * time.Second}
	if len(sleeper.durations) != len(want) {
		t.Fatalf("sleeps = %v, want %v", sleeper.durations, want)
	}
	for i := range want {
		if sleeper.durations[i] != want[i] {
			t.Errorf("sleep[%d] = %v, want %v", i, sleeper.durations[i], want[i])
		}
	}
}

func TestBatchDriver_Run_IdleCounterResets(t *testing.T) {
	// 空 → 空 → 1件 → 空 ×3 の順に返す
	calls := 0
	repo := &mockBatchRepository{FindOldestPendingFunc: func(ctx context.Context) (entity.Disclosure, error) {
		calls++
		if calls == 3 {
			return pendingDisclosure(10, "お知らせ", ""), nil
		}
		return entity.Disclosure{}, domain.ErrNoPendingDisclosure
	}}
	proc := &mockProcessor{ProcessFunc: func(ctx context.Context, d entity.Disclosure) (entity.Outcome, error) {
		return entity.NoPDFOutcome(), nil
	}}

	driver := usecase.NewBatchDriver(repo, proc, testBatchConfig, usecase.WithSleep((&recordingSleep{}).sleep))
	report, err := driver.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.FindOldestPendingCalls != 6 {
		t.Errorf("FindOldestPending was called %d times, expected 6", repo.FindOldestPendingCalls)
	}
	if report.Processed != 1 || report.IdlePolls != 5 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestBatchDriver_Run_FailuresAreMarkedAndLoopContinues(t *testing.T) {
	repo := queueRepository(
		pendingDisclosure(1, "決算短信", "https://example.com/1.pdf"),
		pendingDisclosure(2, "決算短信", "https://example.com/2.pdf"),
		pendingDisclosure(3, "決算短信", "https://example.com/3.pdf"),
	)
	proc := &mockProcessor{ProcessFunc: func(ctx context.Context, d entity.Disclosure) (entity.Outcome, error) {
		switch d.ID {
		case 1:
			return entity.Outcome{}, ErrDB
		case 2:
			panic("unexpected nil pointer")
		default:
			return entity.DoneOutcome(entity.Analysis{Summary: "ok", SalesGrowth: "-", ProfitGrowth: "-"}), nil
		}
	}}

	driver := usecase.NewBatchDriver(repo, proc, testBatchConfig, usecase.WithSleep((&recordingSleep{}).sleep))
	report, err := driver.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.MarkedIDs) != 2 || repo.MarkedIDs[0] != 1 || repo.MarkedIDs[1] != 2 {
		t.Errorf("marked = %v, want [1 2]", repo.MarkedIDs)
	}
	if report.Failures != 2 || report.ByStatus[entity.StatusError] != 2 || report.ByStatus[entity.StatusDone] != 1 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestBatchDriver_Run_UnmarkableRecordStopsLoop(t *testing.T) {
	stuck := pendingDisclosure(5, "決算短信", "https://example.com/5.pdf")
	repo := &mockBatchRepository{
		FindOldestPendingFunc: func(ctx context.Context) (entity.Disclosure, error) { return stuck, nil },
		MarkErrorFunc:         func(ctx context.Context, id uint) error { return ErrDB },
	}
	proc := &mockProcessor{ProcessFunc: func(ctx context.Context, d entity.Disclosure) (entity.Outcome, error) {
		return entity.Outcome{}, ErrDB
	}}

	driver := usecase.NewBatchDriver(repo, proc, testBatchConfig, usecase.WithSleep((&recordingSleep{}).sleep))
	_, err := driver.Run(context.Background())
	if err == nil {
		t.Fatal("expected error for a record that can neither be processed nor marked")
	}
	if len(proc.Processed) != 1 {
		t.Errorf("record should be processed once, got %d", len(proc.Processed))
	}
}

func TestBatchDriver_Run_SelectorError(t *testing.T) {
	repo := &mockBatchRepository{FindOldestPendingFunc: func(ctx context.Context) (entity.Disclosure, error) {
		return entity.Disclosure{}, ErrDB
	}}

	driver := usecase.NewBatchDriver(repo, &mockProcessor{}, testBatchConfig, usecase.WithSleep((&recordingSleep{}).sleep))
	_, err := driver.Run(context.Background())
	if !errors.Is(err, ErrDB) {
		t.Fatalf("expected %v, got %v", ErrDB, err)
	}
}

func TestBatchDriver_Run_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	repo := &mockBatchRepository{FindOldestPendingFunc: func(ctx context.Context) (entity.Disclosure, error) {
		cancel()
		return entity.Disclosure{}, domain.ErrNoPendingDisclosure
	}}

	driver := usecase.NewBatchDriver(repo, &mockProcessor{}, testBatchConfig, usecase.WithSleep((&recordingSleep{}).sleep))
	_, err := driver.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewBatchDriver_MinimumIdlePolls(t *testing.T) {
	repo := queueRepository()
	cfg := testBatchConfig
	cfg.MaxIdlePolls = 0

	driver := usecase.NewBatchDriver(repo, &mockProcessor{}, cfg, usecase.WithSleep((&recordingSleep{}).sleep))
	if _, err := driver.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.FindOldestPendingCalls != 1 {
		t.Errorf("FindOldestPending was called %d times, expected 1", repo.FindOldestPendingCalls)
	}
}

func TestLoadBatchConfig(t *testing.T) {
	t.Setenv("ANALYZE_BUSY_INTERVAL", "")
	t.Setenv("ANALYZE_IDLE_INTERVAL", "1m")
	t.Setenv("ANALYZE_MAX_IDLE_POLLS", "5")

	cfg := usecase.LoadBatchConfig()
	if cfg.BusyInterval != 2*time.Second || cfg.IdleInterval != time.Minute || cfg.MaxIdlePolls != 5 {
		t.Errorf("unexpected config: %+v", cfg)
	}
}
