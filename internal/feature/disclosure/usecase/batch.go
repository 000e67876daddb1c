package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"stock_portfolio/internal/feature/disclosure/domain"
	"stock_portfolio/internal/feature/disclosure/domain/entity"
	"stock_portfolio/internal/shared/envconfig"
	"stock_portfolio/internal/shared/ratelimiter"
)

// BatchRepository はバッチが使う読み取りとフォールバック書き込みです。
type BatchRepository interface {
	// FindOldestPending は作成日時が最も古い PENDING を1件返します。
	// 無ければ domain.ErrNoPendingDisclosure を返します。ロックは取りません。
	FindOldestPending(ctx context.Context) (entity.Disclosure, error)
	// MarkError は処理中に想定外の失敗をした開示を ERROR にします。
	MarkError(ctx context.Context, id uint) error
}

// RecordProcessor は開示1件を処理します。
type RecordProcessor interface {
	Process(ctx context.Context, d entity.Disclosure) (entity.Outcome, error)
}

// BatchConfig はポーリングの間隔と終了条件です。
type BatchConfig struct {
	BusyInterval time.Duration // 1件処理した後の待機（モデルAPIのレート制限への配慮）
	IdleInterval time.Duration // 未処理が無かったときの待機
	MaxIdlePolls int           // 連続で空だったらループを抜ける回数
}

// DefaultBatchConfig は2秒 / 10秒 / 30回（約5分間データが来なければ終了）です。
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		BusyInterval: 2 * time.Second,
		IdleInterval: 10 * time.Second,
		MaxIdlePolls: 30,
	}
}

// LoadBatchConfig は環境変数でデフォルトを上書きします。
func LoadBatchConfig() BatchConfig {
	def := DefaultBatchConfig()
	return BatchConfig{
		BusyInterval: envconfig.Duration("ANALYZE_BUSY_INTERVAL", def.BusyInterval),
		IdleInterval: envconfig.Duration("ANALYZE_IDLE_INTERVAL", def.IdleInterval),
		MaxIdlePolls: envconfig.Int("ANALYZE_MAX_IDLE_POLLS", def.MaxIdlePolls),
	}
}

// BatchReport は1回のバッチ実行の集計です。
type BatchReport struct {
	Processed int
	ByStatus  map[entity.Status]int
	Failures  int // ドライバーで捕捉した失敗（書き込み失敗・panic）
	IdlePolls int
}

func (r *BatchReport) record(s entity.Status) {
	r.Processed++
	r.ByStatus[s]++
}

// BatchOption はBatchDriverの追加設定です。
type BatchOption func(*BatchDriver)

// WithSleep は待機関数を差し替えます（テスト用）。
func WithSleep(fn func(ctx context.Context, d time.Duration) error) BatchOption {
	return func(b *BatchDriver) { b.sleep = fn }
}

// BatchDriver は未処理の開示を1件ずつ取り出して処理するポーリングループです。
// 同時に1インスタンスだけが動くことを前提にしています。
type BatchDriver struct {
	repo      BatchRepository
	processor RecordProcessor
	cfg       BatchConfig
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewBatchDriver はBatchDriverを生成します。MaxIdlePolls が1未満なら1として扱います。
func NewBatchDriver(repo BatchRepository, processor RecordProcessor, cfg BatchConfig, opts ...BatchOption) *BatchDriver {
	if cfg.MaxIdlePolls < 1 {
		cfg.MaxIdlePolls = 1
	}
	b := &BatchDriver{repo: repo, processor: processor, cfg: cfg, sleep: ratelimiter.Sleep}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run は未処理が MaxIdlePolls 回連続で見つからなくなるまで処理を続けます。
// 1件の失敗でループは止まりません。選択クエリ自体の失敗と ctx のキャンセルだけがエラーになります。
func (b *BatchDriver) Run(ctx context.Context) (BatchReport, error) {
	report := BatchReport{ByStatus: make(map[entity.Status]int)}
	unmarkable := make(map[uint]struct{})
	idle := 0

	slog.Info("analysis batch started",
		"busy_interval", b.cfg.BusyInterval, "idle_interval", b.cfg.IdleInterval, "max_idle_polls", b.cfg.MaxIdlePolls)

	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		d, err := b.repo.FindOldestPending(ctx)
		if errors.Is(err, domain.ErrNoPendingDisclosure) {
			idle++
			report.IdlePolls++
			if idle >= b.cfg.MaxIdlePolls {
				slog.Info("analysis batch finished", "processed", report.Processed, "failures", report.Failures)
				return report, nil
			}
			slog.Debug("no pending disclosures, waiting", "idle", idle, "max_idle_polls", b.cfg.MaxIdlePolls)
			if err := b.sleep(ctx, b.cfg.IdleInterval); err != nil {
				return report, err
			}
			continue
		}
		if err != nil {
			return report, fmt.Errorf("select pending disclosure: %w", err)
		}
		if _, ok := unmarkable[d.ID]; ok {
			// ERROR にできなかった行が再び選ばれた。続けると同じ行を処理し続ける。
			return report, fmt.Errorf("disclosure %d is still pending after a failed error mark", d.ID)
		}

		idle = 0
		slog.Info("processing disclosure", "disclosure_id", d.ID, "stock_code", d.StockCode, "title", d.Title)
		status, marked := b.processOne(ctx, d, &report)
		if !marked {
			unmarkable[d.ID] = struct{}{}
		}
		report.record(status)

		if err := b.sleep(ctx, b.cfg.BusyInterval); err != nil {
			return report, err
		}
	}
}

// processOne は1件を処理し、想定外の失敗は ERROR へのフォールバックで吸収します。
// 2つ目の戻り値は、フォールバックが必要だった場合にそれが成功したかどうかです。
func (b *BatchDriver) processOne(ctx context.Context, d entity.Disclosure, report *BatchReport) (status entity.Status, marked bool) {
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic while processing: %v", r)
			}
		}()
		outcome, err := b.processor.Process(ctx, d)
		if err == nil {
			status = outcome.Status
		}
		return err
	}()
	if err == nil {
		return status, true
	}

	report.Failures++
	slog.Error("error processing disclosure", "disclosure_id", d.ID, "error", err)
	if mErr := b.repo.MarkError(ctx, d.ID); mErr != nil {
		slog.Error("failed to mark disclosure as error", "disclosure_id", d.ID, "error", mErr)
		return entity.StatusError, false
	}
	return entity.StatusError, true
}
