package adapters

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"stock_portfolio/internal/feature/disclosure/domain"
	"stock_portfolio/internal/feature/disclosure/domain/entity"
	"stock_portfolio/internal/feature/disclosure/usecase"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var baseTime = time.Date(2025, 5, 8, 15, 0, 0, 0, time.UTC)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	// :memory: は接続ごとに別DBになるため1接続に固定する
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&DisclosureModel{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

// seedDisclosure inserts a row directly, the way the external collector does.
func seedDisclosure(t *testing.T, db *gorm.DB, code, title string, status entity.Status, createdAt time.Time) *DisclosureModel {
	t.Helper()

	pdf := "https://example.com/" + code + ".pdf"
	m := &DisclosureModel{
		StockCode:    code,
		AnnouncedAt:  createdAt,
		Title:        title,
		PDFURL:       &pdf,
		SalesGrowth:  entity.GrowthPlaceholder,
		ProfitGrowth: entity.GrowthPlaceholder,
		Status:       status.String(),
		CreatedAt:    createdAt,
	}
	require.NoError(t, db.Create(m).Error, "failed to seed disclosure")
	return m
}

func TestNewDisclosureRepository(t *testing.T) {
	db := setupTestDB(t)

	repo := NewDisclosureRepository(db)

	assert.NotNil(t, repo, "repository is nil")
	assert.NotNil(t, repo.db, "database connection is nil")
}

func TestDisclosureGorm_Create(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewDisclosureRepository(db)

	d := entity.NewPending("7203", baseTime, "2025年3月期 決算短信", "https://example.com/a.pdf", "")
	require.NoError(t, repo.Create(ctx, &d))
	assert.NotZero(t, d.ID)

	var stored DisclosureModel
	require.NoError(t, db.First(&stored, d.ID).Error)
	assert.Equal(t, "PENDING", stored.Status)
	assert.Nil(t, stored.Summary)
	assert.Nil(t, stored.WebURL, "empty web url should be stored as NULL")
	assert.Equal(t, "-", stored.SalesGrowth)

	dup := entity.NewPending("7203", baseTime, "2025年3月期 決算短信", "", "")
	err := repo.Create(ctx, &dup)
	assert.ErrorIs(t, err, domain.ErrDuplicateDisclosure)

	var count int64
	db.Model(&DisclosureModel{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestDisclosureGorm_FindOldestPending(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the oldest pending row", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewDisclosureRepository(db)

		seedDisclosure(t, db, "1111", "old done", entity.StatusDone, baseTime.Add(-3*time.Hour))
		oldest := seedDisclosure(t, db, "2222", "old pending", entity.StatusPending, baseTime.Add(-2*time.Hour))
		seedDisclosure(t, db, "3333", "new pending", entity.StatusPending, baseTime.Add(-1*time.Hour))

		got, err := repo.FindOldestPending(ctx)
		require.NoError(t, err)
		assert.Equal(t, oldest.ID, got.ID)
		assert.Equal(t, entity.StatusPending, got.Status)
		assert.Equal(t, "https://example.com/2222.pdf", got.PDFURL)
	})

	t.Run("no pending rows", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewDisclosureRepository(db)
		seedDisclosure(t, db, "1111", "done", entity.StatusDone, baseTime)

		_, err := repo.FindOldestPending(ctx)
		assert.ErrorIs(t, err, domain.ErrNoPendingDisclosure)
	})
}

func TestDisclosureGorm_ApplyOutcome(t *testing.T) {
	ctx := context.Background()
	summary := "増収増益"

	tests := []struct {
		name            string
		outcome         entity.Outcome
		expectedStatus  string
		expectedSummary *string
		expectedSales   string
		expectedProfit  string
	}{
		{
			name: "done writes every field",
			outcome: entity.DoneOutcome(entity.Analysis{
				Summary: summary, SalesGrowth: "+5.0%", ProfitGrowth: "-3.2%",
			}),
			expectedStatus:  "DONE",
			expectedSummary: &summary,
			expectedSales:   "+5.0%",
			expectedProfit:  "-3.2%",
		},
		{
			name:            "no pdf sets the fixed summary",
			outcome:         entity.NoPDFOutcome(),
			expectedStatus:  "NO_PDF",
			expectedSummary: strPtr(entity.NoPDFSummary),
			expectedSales:   "-",
			expectedProfit:  "-",
		},
		{
			name:           "error keeps summary untouched",
			outcome:        entity.ErrorOutcome("fetch failed"),
			expectedStatus: "ERROR",
			expectedSales:  "-",
			expectedProfit: "-",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			repo := NewDisclosureRepository(db)
			row := seedDisclosure(t, db, "7203", "決算短信", entity.StatusPending, baseTime)

			require.NoError(t, repo.ApplyOutcome(ctx, row.ID, tt.outcome))

			var stored DisclosureModel
			require.NoError(t, db.First(&stored, row.ID).Error)
			assert.Equal(t, tt.expectedStatus, stored.Status)
			assert.Equal(t, tt.expectedSummary, stored.Summary)
			assert.Equal(t, tt.expectedSales, stored.SalesGrowth)
			assert.Equal(t, tt.expectedProfit, stored.ProfitGrowth)
		})
	}

	t.Run("missing row", func(t *testing.T) {
		repo := NewDisclosureRepository(setupTestDB(t))
		err := repo.ApplyOutcome(ctx, 999, entity.NoPDFOutcome())
		assert.ErrorIs(t, err, domain.ErrDisclosureNotFound)
	})
}

func TestDisclosureGorm_MarkError(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewDisclosureRepository(db)
	row := seedDisclosure(t, db, "7203", "決算短信", entity.StatusPending, baseTime)

	require.NoError(t, repo.MarkError(ctx, row.ID))

	got, err := repo.FindByID(ctx, row.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusError, got.Status)

	assert.ErrorIs(t, repo.MarkError(ctx, 999), domain.ErrDisclosureNotFound)
}

func TestDisclosureGorm_ResetToPending(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewDisclosureRepository(db)

	row := seedDisclosure(t, db, "7203", "決算短信", entity.StatusPending, baseTime)
	require.NoError(t, repo.ApplyOutcome(ctx, row.ID, entity.DoneOutcome(entity.Analysis{
		Summary: "ok", SalesGrowth: "+1.0%", ProfitGrowth: "+2.0%",
	})))

	require.NoError(t, repo.ResetToPending(ctx, row.ID))

	got, err := repo.FindByID(ctx, row.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, got.Status)
	assert.Nil(t, got.Summary)
	assert.Equal(t, "-", got.SalesGrowth)
	assert.Equal(t, "-", got.ProfitGrowth)

	assert.ErrorIs(t, repo.ResetToPending(ctx, row.ID), domain.ErrAlreadyPending)
	assert.ErrorIs(t, repo.ResetToPending(ctx, 999), domain.ErrDisclosureNotFound)
}

func TestDisclosureGorm_List(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewDisclosureRepository(db)

	a := seedDisclosure(t, db, "7203", "a", entity.StatusDone, baseTime.Add(-3*time.Hour))
	b := seedDisclosure(t, db, "7203", "b", entity.StatusError, baseTime.Add(-2*time.Hour))
	c := seedDisclosure(t, db, "9984", "c", entity.StatusDone, baseTime.Add(-1*time.Hour))

	done := entity.StatusDone
	tests := []struct {
		name     string
		filter   usecase.ListFilter
		expected []uint
	}{
		{name: "all newest first", filter: usecase.ListFilter{}, expected: []uint{c.ID, b.ID, a.ID}},
		{name: "by status", filter: usecase.ListFilter{Status: &done}, expected: []uint{c.ID, a.ID}},
		{name: "by stock code", filter: usecase.ListFilter{StockCode: "7203"}, expected: []uint{b.ID, a.ID}},
		{name: "limited", filter: usecase.ListFilter{Limit: 1}, expected: []uint{c.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)

			ids := make([]uint, 0, len(got))
			for _, d := range got {
				ids = append(ids, d.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestDisclosureGorm_FindByID_NotFound(t *testing.T) {
	repo := NewDisclosureRepository(setupTestDB(t))

	_, err := repo.FindByID(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrDisclosureNotFound)
}

func strPtr(s string) *string { return &s }

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "gorm duplicated key", err: gorm.ErrDuplicatedKey, want: true},
		{name: "mysql 1062", err: &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, want: true},
		{name: "mysql other", err: &mysql.MySQLError{Number: 1045}, want: false},
		{name: "postgres 23505", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), want: true},
		{name: "postgres other", err: &pgconn.PgError{Code: "23503"}, want: false},
		{name: "generic", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueViolation(tt.err))
		})
	}
}
