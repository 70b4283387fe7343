package search

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ffl-directory/feature/ffl/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeDirectory struct {
	calls   int32
	delay   time.Duration
	records []models.FflRecord
	err     error
}

func (d *fakeDirectory) Lookup(ctx context.Context, query, state string, limit int) ([]models.FflRecord, error) {
	atomic.AddInt32(&d.calls, 1)
	time.Sleep(d.delay)
	return d.records, d.err
}

type staticSource struct {
	results []models.SearchResult
	err     error
	calls   int
}

func (s *staticSource) Find(ctx context.Context, req Request) ([]models.SearchResult, error) {
	s.calls++
	return s.results, s.err
}

func TestRemoteSource_TranslatesAndFilters(t *testing.T) {
	dir := &fakeDirectory{records: []models.FflRecord{
		{LicenseNumber: "R2", BusinessName: "Smith Outdoors", Address: models.Address{State: "TX"}},
		{LicenseNumber: "R1", BusinessName: "Smith", Address: models.Address{State: "TX"}},
		{LicenseNumber: "R3", BusinessName: "Smith", Address: models.Address{State: "OK"}},
	}}

	got, err := NewRemoteSource(dir).Find(context.Background(), Request{Query: "smith", Type: TypeBoth, Limit: 10, State: "TX"})

	require.NoError(t, err)
	assert.Equal(t, []string{"R1", "R2"}, licenses(got))
	assert.Equal(t, models.SourceRemote, got[0].Source)
}

func TestRemoteSource_LicenseHitIsExact(t *testing.T) {
	dir := &fakeDirectory{records: []models.FflRecord{
		{LicenseNumber: "1-23-456-78-9A-123456", BusinessName: "A", Address: models.Address{State: "TX"}},
		{LicenseNumber: "1-23-456-78-9A-12345", BusinessName: "Longer Name Arms", Address: models.Address{State: "TX"}},
	}}

	got, err := NewRemoteSource(dir).Find(context.Background(), Request{Query: "123456789a12345", Type: TypeFfl, Limit: 10})

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1-23-456-78-9A-12345", got[0].LicenseNumber)
	assert.Equal(t, models.MatchExact, got[0].MatchKind)
	assert.Equal(t, models.MatchPartial, got[1].MatchKind)
}

func TestRemoteSource_CoalescesConcurrentCalls(t *testing.T) {
	dir := &fakeDirectory{delay: 50 * time.Millisecond}
	src := NewRemoteSource(dir)
	req := Request{Query: "smith", Type: TypeBoth, Limit: 10}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := src.Find(context.Background(), req)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Less(t, atomic.LoadInt32(&dir.calls), int32(5))
}

func TestFallback(t *testing.T) {
	hit := []models.SearchResult{{LicenseNumber: "L1", Source: models.SourceLocal}}
	remote := []models.SearchResult{{LicenseNumber: "R1", Source: models.SourceRemote}}
	req := Request{Query: "smith", Type: TypeBoth, Limit: 10}

	t.Run("primary hit skips secondary", func(t *testing.T) {
		secondary := &staticSource{results: remote}
		f := &Fallback{Primary: &staticSource{results: hit}, Secondary: secondary}

		got, err := f.Find(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, hit, got)
		assert.Zero(t, secondary.calls)
	})

	t.Run("primary miss uses secondary", func(t *testing.T) {
		f := &Fallback{Primary: &staticSource{}, Secondary: &staticSource{results: remote}}

		got, err := f.Find(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, remote, got)
	})

	t.Run("secondary failure degrades to empty", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		f := &Fallback{
			Primary:   &staticSource{},
			Secondary: &staticSource{err: errors.New("upstream 502")},
			Logger:    zap.New(core),
		}

		got, err := f.Find(context.Background(), req)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
		assert.Equal(t, 1, logs.FilterMessage("Fallback search failed").Len())
	})

	t.Run("primary failure is returned", func(t *testing.T) {
		secondary := &staticSource{results: remote}
		f := &Fallback{Primary: &staticSource{err: errors.New("store down")}, Secondary: secondary}

		_, err := f.Find(context.Background(), req)
		assert.Error(t, err)
		assert.Zero(t, secondary.calls)
	})

	t.Run("no secondary", func(t *testing.T) {
		f := &Fallback{Primary: &staticSource{results: []models.SearchResult{}}}

		got, err := f.Find(context.Background(), req)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
