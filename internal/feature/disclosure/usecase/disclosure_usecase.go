package usecase

import (
	"context"
	"fmt"
	"strings"

	"stock_portfolio/internal/feature/disclosure/domain"
	"stock_portfolio/internal/feature/disclosure/domain/entity"
)

const (
	// DefaultListLimit は一覧の既定件数です。
	DefaultListLimit = 50
	// MaxListLimit は一覧の最大件数です。
	MaxListLimit = 500
)

// ListFilter は一覧の絞り込み条件です。
type ListFilter struct {
	Status    *entity.Status
	StockCode string
	Limit     int
}

// DisclosureRepository はダッシュボードと外部収集処理が使う永続化レイヤーです。
type DisclosureRepository interface {
	// Create は PENDING の開示を登録します。一意制約違反は domain.ErrDuplicateDisclosure です。
	Create(ctx context.Context, d *entity.Disclosure) error
	// List は開示日時の新しい順に返します。
	List(ctx context.Context, filter ListFilter) ([]entity.Disclosure, error)
	FindByID(ctx context.Context, id uint) (entity.Disclosure, error)
	// ResetToPending は終端状態の開示を PENDING に戻し、分析結果を初期値に戻します。
	ResetToPending(ctx context.Context, id uint) error
}

// DisclosureUsecase は開示の登録・参照・再処理の受付を提供します。
type DisclosureUsecase struct {
	repo DisclosureRepository
}

// NewDisclosureUsecase はDisclosureUsecaseを生成します。
func NewDisclosureUsecase(repo DisclosureRepository) *DisclosureUsecase {
	return &DisclosureUsecase{repo: repo}
}

// Register は外部の収集処理から受け取った開示を PENDING として登録します。
func (u *DisclosureUsecase) Register(ctx context.Context, d entity.Disclosure) (entity.Disclosure, error) {
	d.StockCode = strings.TrimSpace(d.StockCode)
	d.Title = strings.TrimSpace(d.Title)
	if d.StockCode == "" || d.Title == "" || d.AnnouncedAt.IsZero() {
		return entity.Disclosure{}, fmt.Errorf("%w: stock_code, title and announced_at are required", domain.ErrInvalidDisclosure)
	}

	pending := entity.NewPending(d.StockCode, d.AnnouncedAt, d.Title, strings.TrimSpace(d.PDFURL), strings.TrimSpace(d.WebURL))
	if err := u.repo.Create(ctx, &pending); err != nil {
		return entity.Disclosure{}, err
	}
	return pending, nil
}

// List は条件に合う開示を返します。件数は既定値と上限で補正します。
func (u *DisclosureUsecase) List(ctx context.Context, filter ListFilter) ([]entity.Disclosure, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultListLimit
	}
	if filter.Limit > MaxListLimit {
		filter.Limit = MaxListLimit
	}
	filter.StockCode = strings.TrimSpace(filter.StockCode)
	return u.repo.List(ctx, filter)
}

// Get はIDで開示を返します。
func (u *DisclosureUsecase) Get(ctx context.Context, id uint) (entity.Disclosure, error) {
	return u.repo.FindByID(ctx, id)
}

// Reset は ERROR などの開示を次回のバッチで再処理されるよう PENDING に戻します。
func (u *DisclosureUsecase) Reset(ctx context.Context, id uint) error {
	if err := u.repo.ResetToPending(ctx, id); err != nil {
		return fmt.Errorf("reset disclosure %d: %w", id, err)
	}
	return nil
}
