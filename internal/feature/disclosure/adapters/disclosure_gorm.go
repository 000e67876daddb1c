package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stock_portfolio/internal/feature/disclosure/domain"
	"stock_portfolio/internal/feature/disclosure/domain/entity"
	"stock_portfolio/internal/feature/disclosure/usecase"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type disclosureGorm struct {
	db *gorm.DB
}

var (
	_ usecase.DisclosureRepository = (*disclosureGorm)(nil)
	_ usecase.BatchRepository      = (*disclosureGorm)(nil)
	_ usecase.OutcomeWriter        = (*disclosureGorm)(nil)
)

func NewDisclosureRepository(db *gorm.DB) *disclosureGorm {
	return &disclosureGorm{db: db}
}

// DisclosureModel は disclosures テーブルの行です。
// 外部の収集処理も同じテーブルに直接書き込むため、URLはNULLを許容します。
type DisclosureModel struct {
	ID          uint      `gorm:"primaryKey"`
	StockCode   string    `gorm:"size:16;not null;uniqueIndex:disclosure_code_time_title,priority:1"`
	AnnouncedAt time.Time `gorm:"not null;uniqueIndex:disclosure_code_time_title,priority:2"`
	Title       string    `gorm:"size:255;not null;uniqueIndex:disclosure_code_time_title,priority:3"`
	PDFURL      *string   `gorm:"column:pdf_url;size:1024"`
	WebURL      *string   `gorm:"column:web_url;size:1024"`

	Summary      *string `gorm:"type:text"`
	SalesGrowth  string  `gorm:"size:32;not null"`
	ProfitGrowth string  `gorm:"size:32;not null"`
	Status       string  `gorm:"size:16;not null;index:disclosure_status_created,priority:1"`

	CreatedAt time.Time `gorm:"index:disclosure_status_created,priority:2"`
	UpdatedAt time.Time
}

func (DisclosureModel) TableName() string {
	return "disclosures"
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toModel(e entity.Disclosure) DisclosureModel {
	return DisclosureModel{
		ID:           e.ID,
		StockCode:    e.StockCode,
		AnnouncedAt:  e.AnnouncedAt,
		Title:        e.Title,
		PDFURL:       optional(e.PDFURL),
		WebURL:       optional(e.WebURL),
		Summary:      e.Summary,
		SalesGrowth:  e.SalesGrowth,
		ProfitGrowth: e.ProfitGrowth,
		Status:       e.Status.String(),
	}
}

func toEntity(m DisclosureModel) (entity.Disclosure, error) {
	status, err := entity.ParseStatus(m.Status)
	if err != nil {
		return entity.Disclosure{}, fmt.Errorf("disclosure %d: %w", m.ID, err)
	}
	return entity.Disclosure{
		ID:           m.ID,
		StockCode:    m.StockCode,
		AnnouncedAt:  m.AnnouncedAt,
		Title:        m.Title,
		PDFURL:       deref(m.PDFURL),
		WebURL:       deref(m.WebURL),
		Summary:      m.Summary,
		SalesGrowth:  m.SalesGrowth,
		ProfitGrowth: m.ProfitGrowth,
		Status:       status,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}, nil
}

func (r *disclosureGorm) Create(ctx context.Context, d *entity.Disclosure) error {
	m := toModel(*d)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&DisclosureModel{}).
			Where("stock_code = ? AND announced_at = ? AND title = ?", m.StockCode, m.AnnouncedAt, m.Title).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrDuplicateDisclosure
		}
		return tx.Create(&m).Error
	})
	if isUniqueViolation(err) {
		return domain.ErrDuplicateDisclosure
	}
	if err != nil {
		return err
	}
	d.ID = m.ID
	d.CreatedAt = m.CreatedAt
	d.UpdatedAt = m.UpdatedAt
	return nil
}

// isUniqueViolation は存在確認と INSERT の間に別の登録が割り込んだ場合の一意制約違反を判定します。
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// MySQLエラー1062: ユニークキーの重複エントリ
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	// PostgreSQL 23505: unique_violation
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *disclosureGorm) List(ctx context.Context, filter usecase.ListFilter) ([]entity.Disclosure, error) {
	q := r.db.WithContext(ctx).Model(&DisclosureModel{})
	if filter.Status != nil {
		q = q.Where("status = ?", filter.Status.String())
	}
	if filter.StockCode != "" {
		q = q.Where("stock_code = ?", filter.StockCode)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var rows []DisclosureModel
	if err := q.Order("announced_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Disclosure, 0, len(rows))
	for _, m := range rows {
		e, err := toEntity(m)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *disclosureGorm) FindByID(ctx context.Context, id uint) (entity.Disclosure, error) {
	var m DisclosureModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.Disclosure{}, domain.ErrDisclosureNotFound
		}
		return entity.Disclosure{}, err
	}
	return toEntity(m)
}

// FindOldestPending は作成日時の古い順に PENDING を1件返します。行ロックは取りません。
func (r *disclosureGorm) FindOldestPending(ctx context.Context) (entity.Disclosure, error) {
	var m DisclosureModel
	err := r.db.WithContext(ctx).
		Where("status = ?", entity.StatusPending.String()).
		Order("created_at ASC").
		Order("id ASC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.Disclosure{}, domain.ErrNoPendingDisclosure
	}
	if err != nil {
		return entity.Disclosure{}, err
	}
	return toEntity(m)
}

// ApplyOutcome は1件分の結果を1トランザクションで書き込みます。
// Summary が nil、または増減率が空の項目は更新しません。
func (r *disclosureGorm) ApplyOutcome(ctx context.Context, id uint, o entity.Outcome) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m DisclosureModel
		if err := tx.First(&m, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrDisclosureNotFound
			}
			return err
		}

		updates := map[string]any{"status": o.Status.String()}
		if o.Summary != nil {
			updates["summary"] = *o.Summary
		}
		if o.SalesGrowth != "" {
			updates["sales_growth"] = o.SalesGrowth
		}
		if o.ProfitGrowth != "" {
			updates["profit_growth"] = o.ProfitGrowth
		}
		return tx.Model(&m).Updates(updates).Error
	})
}

func (r *disclosureGorm) MarkError(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&DisclosureModel{}).
		Where("id = ?", id).
		Update("status", entity.StatusError.String())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrDisclosureNotFound
	}
	return nil
}

// ResetToPending は終端状態の開示を PENDING に戻し、要約と増減率を初期値にします。
func (r *disclosureGorm) ResetToPending(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m DisclosureModel
		if err := tx.First(&m, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrDisclosureNotFound
			}
			return err
		}
		if m.Status == entity.StatusPending.String() {
			return domain.ErrAlreadyPending
		}
		return tx.Model(&m).Updates(map[string]any{
			"status":        entity.StatusPending.String(),
			"summary":       nil,
			"sales_growth":  entity.GrowthPlaceholder,
			"profit_growth": entity.GrowthPlaceholder,
		}).Error
	})
}
