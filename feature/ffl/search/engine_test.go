package search

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"ffl-directory/core/reconcile"
	"ffl-directory/feature/ffl/models"
	"ffl-directory/feature/ffl/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type mockReader struct {
	mock.Mock
}

func (m *mockReader) GetByLicense(ctx context.Context, license string) (*models.FflRecord, error) {
	args := m.Called(ctx, license)
	rec, _ := args.Get(0).(*models.FflRecord)
	return rec, args.Error(1)
}

func (m *mockReader) Scan(ctx context.Context, filter store.ScanFilter, limit int) ([]models.FflRecord, error) {
	args := m.Called(ctx, filter, limit)
	recs, _ := args.Get(0).([]models.FflRecord)
	return recs, args.Error(1)
}

const license = "1-23-456-78-9A-12345"

func TestSearch_BlankQuery(t *testing.T) {
	reader := new(mockReader)
	engine := NewEngine(NewLocalSource(reader), testConfig)

	got, err := engine.Search(context.Background(), "   ", Options{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	reader.AssertNotCalled(t, "Scan", mock.Anything, mock.Anything, mock.Anything)
	reader.AssertNotCalled(t, "GetByLicense", mock.Anything, mock.Anything)
}

func TestSearch_InvalidOptionsBeforeBlankCheck(t *testing.T) {
	reader := new(mockReader)
	engine := NewEngine(NewLocalSource(reader), testConfig)

	_, err := engine.Search(context.Background(), "", Options{Limit: -1})
	assert.ErrorIs(t, err, ErrInvalidQuery)

	_, err = engine.Search(context.Background(), "smith", Options{State: "ZZ"})
	assert.ErrorIs(t, err, ErrInvalidQuery)
	reader.AssertExpectations(t)
}

func TestSearch_FflExactIsSoleResult(t *testing.T) {
	reader := new(mockReader)
	hit := rec(license, "Lone Star Arms")
	reader.On("GetByLicense", mock.Anything, license).Return(&hit, nil)

	engine := NewEngine(NewLocalSource(reader), testConfig)
	got, err := engine.Search(context.Background(), "1 23 456 78 9a 12345", Options{Type: TypeFfl})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, license, got[0].LicenseNumber)
	assert.Equal(t, models.MatchExact, got[0].MatchKind)
	reader.AssertNotCalled(t, "Scan", mock.Anything, mock.Anything, mock.Anything)
}

func TestSearch_FflMissFallsBackToLicenseScan(t *testing.T) {
	reader := new(mockReader)
	reader.On("GetByLicense", mock.Anything, license).Return(nil, nil)
	reader.On("Scan", mock.Anything, store.ScanFilter{Text: license, Fields: []store.Field{store.FieldLicense}}, 21).
		Return([]models.FflRecord{rec(license+"6", "Near Miss")}, nil)

	engine := NewEngine(NewLocalSource(reader), testConfig)
	got, err := engine.Search(context.Background(), license, Options{Type: TypeFfl})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.MatchPartial, got[0].MatchKind)
	reader.AssertExpectations(t)
}

func TestSearch_NameNeverLooksUpLicense(t *testing.T) {
	reader := new(mockReader)
	reader.On("Scan", mock.Anything, mock.MatchedBy(func(f store.ScanFilter) bool {
		return f.Text == license && len(f.Fields) == 5
	}), 21).Return([]models.FflRecord{}, nil)

	engine := NewEngine(NewLocalSource(reader), testConfig)
	got, err := engine.Search(context.Background(), license, Options{Type: TypeName})

	require.NoError(t, err)
	assert.Empty(t, got)
	reader.AssertNotCalled(t, "GetByLicense", mock.Anything, mock.Anything)
}

func TestSearch_BothRanksExactAbovePartial(t *testing.T) {
	reader := new(mockReader)
	hit := rec(license, "Zed's Very Long Business Name")
	reader.On("GetByLicense", mock.Anything, license).Return(&hit, nil)
	reader.On("Scan", mock.Anything, mock.Anything, 3).Return([]models.FflRecord{
		rec(license+"9", "A"),
		hit,
		rec(license+"8", "B"),
	}, nil)

	engine := NewEngine(NewLocalSource(reader), testConfig)
	got, err := engine.Search(context.Background(), license, Options{Limit: 2})

	require.NoError(t, err)
	assert.Equal(t, []string{license, license + "8"}, licenses(got))
}

func TestSearch_StateFiltersExactHit(t *testing.T) {
	reader := new(mockReader)
	hit := rec(license, "Lone Star Arms")
	reader.On("GetByLicense", mock.Anything, license).Return(&hit, nil)
	reader.On("Scan", mock.Anything, mock.MatchedBy(func(f store.ScanFilter) bool { return f.State == "OK" }), 21).
		Return([]models.FflRecord{}, nil)

	engine := NewEngine(NewLocalSource(reader), testConfig)
	got, err := engine.Search(context.Background(), license, Options{Type: TypeFfl, State: "OK"})

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearch_StoreFailure(t *testing.T) {
	reader := new(mockReader)
	reader.On("Scan", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	engine := NewEngine(NewLocalSource(reader), testConfig)
	_, err := engine.Search(context.Background(), "smith", Options{Type: TypeName})
	assert.Error(t, err)
}

func TestSearch_AgainstStore(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:search_engine?mode=memory&cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, store.Migrate(db))

	s := store.New(db)
	var entries []models.DiffEntry
	for i := 0; i < 30; i++ {
		r := rec(fmt.Sprintf("1-23-456-78-9A-%05d", i), fmt.Sprintf("Gun Shop %02d", i))
		entries = append(entries, models.DiffEntry{Kind: reconcile.DiffAdded, Key: r.LicenseNumber, New: r})
	}
	require.NoError(t, s.ApplyPlan(context.Background(), entries))

	engine := NewEngine(NewLocalSource(s), testConfig)

	got, err := engine.Search(context.Background(), "gun shop", Options{Type: TypeName, Limit: 25})
	require.NoError(t, err)
	assert.Len(t, got, 25)
	assert.Equal(t, "1-23-456-78-9A-00000", got[0].LicenseNumber)

	got, err = engine.Search(context.Background(), "1 23 456 78 9a 00007", Options{Type: TypeFfl})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Gun Shop 07", got[0].BusinessName)
}
