package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"ffl-directory/core/reconcile"
	"ffl-directory/feature/ffl/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// syncLockName is the row locked by Serialize.
	syncLockName = "ffl-sync"

	readChunkSize  = 500
	writeBatchSize = 200

	tieBreakOrder = "LENGTH(business_name) ASC, license_number ASC"
)

// Store is the gorm implementation of Gateway and Serializer.
type Store struct {
	db   *gorm.DB
	mu   *sync.Mutex
	inTx bool
}

var (
	_ Gateway    = (*Store)(nil)
	_ Serializer = (*Store)(nil)
)

// New creates a store over the given connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db, mu: &sync.Mutex{}}
}

// Snapshot reads the stored records for keys, or every record when keys is nil.
// The read runs in one transaction so it observes a single committed state.
func (s *Store) Snapshot(ctx context.Context, keys []string) (map[string]models.FflRecord, error) {
	out := make(map[string]models.FflRecord, len(keys))
	err := s.withTx(ctx, func(tx *gorm.DB) error {
		if keys == nil {
			var rows []models.FflRow
			if err := tx.Find(&rows).Error; err != nil {
				return err
			}
			collect(out, rows)
			return nil
		}

		for start := 0; start < len(keys); start += readChunkSize {
			end := min(start+readChunkSize, len(keys))
			var rows []models.FflRow
			if err := tx.Where("license_number IN ?", keys[start:end]).Find(&rows).Error; err != nil {
				return err
			}
			collect(out, rows)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return out, nil
}

func collect(out map[string]models.FflRecord, rows []models.FflRow) {
	for _, r := range rows {
		out[r.LicenseNumber] = r.ToRecord()
	}
}

// ApplyPlan upserts every Added and Updated entry in one transaction.
// Unchanged entries are skipped; nothing is ever deleted.
func (s *Store) ApplyPlan(ctx context.Context, entries []models.DiffEntry) error {
	now := time.Now().UTC()
	rows := make([]models.FflRow, 0, len(entries))
	for _, e := range entries {
		if e.Kind != reconcile.DiffAdded && e.Kind != reconcile.DiffUpdated {
			continue
		}
		row := models.FromRecord(e.New)
		row.LicenseNumber = e.Key
		row.CreatedAt = now
		row.UpdatedAt = now
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil
	}

	err := s.withTx(ctx, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "license_number"}},
			DoUpdates: clause.AssignmentColumns(models.ComparableColumns),
		}).CreateInBatches(rows, writeBatchSize).Error
	})
	if err != nil {
		return fmt.Errorf("failed to upsert %d records: %w", len(rows), err)
	}
	return nil
}

// GetByLicense fetches one record by canonical license number.
func (s *Store) GetByLicense(ctx context.Context, license string) (*models.FflRecord, error) {
	var row models.FflRow
	err := s.db.WithContext(ctx).Where("license_number = ?", license).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get license %s: %w", license, err)
	}
	rec := row.ToRecord()
	return &rec, nil
}

// Scan runs a case-insensitive substring match over the filter fields.
// Relevance is 3 for an exact field match, 2 for a prefix and 1 otherwise.
func (s *Store) Scan(ctx context.Context, filter ScanFilter, limit int) ([]models.FflRecord, error) {
	if limit <= 0 {
		return []models.FflRecord{}, nil
	}
	fields := filter.Fields
	if len(fields) == 0 {
		fields = AllFields
	}

	q := s.db.WithContext(ctx).Model(&models.FflRow{})
	if filter.State != "" {
		q = q.Where("premise_state = ?", filter.State)
	}

	text := strings.ToLower(strings.TrimSpace(filter.Text))
	if text != "" {
		escaped := escapeLike(text)
		contains := "%" + escaped + "%"
		prefix := escaped + "%"

		var where, exact, starts []string
		var whereVars, exactVars, startVars []any
		for _, f := range fields {
			col := "LOWER(" + string(f) + ")"
			where = append(where, col+" LIKE ? ESCAPE '!'")
			whereVars = append(whereVars, contains)
			exact = append(exact, col+" = ?")
			exactVars = append(exactVars, text)
			starts = append(starts, col+" LIKE ? ESCAPE '!'")
			startVars = append(startVars, prefix)
		}
		q = q.Where("("+strings.Join(where, " OR ")+")", whereVars...)

		// The ranking keys share one expression: a later Order call would replace it.
		relevance := "CASE WHEN " + strings.Join(exact, " OR ") +
			" THEN 3 WHEN " + strings.Join(starts, " OR ") +
			" THEN 2 ELSE 1 END DESC, " + tieBreakOrder
		q = q.Order(clause.OrderBy{Expression: clause.Expr{
			SQL:                relevance,
			Vars:               append(exactVars, startVars...),
			WithoutParentheses: true,
		}})
	} else {
		q = q.Order(tieBreakOrder)
	}

	var rows []models.FflRow
	err := q.Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to scan directory: %w", err)
	}

	out := make([]models.FflRecord, len(rows))
	for i, r := range rows {
		out[i] = r.ToRecord()
	}
	return out, nil
}

// Serialize runs fn under the process mutex and a locked sync row in one transaction.
// A Store already bound to a transaction runs fn directly.
func (s *Store) Serialize(ctx context.Context, fn func(Gateway) error) error {
	if s.inTx {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lock models.SyncLock
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("name = ?", syncLockName).
			Take(&lock).Error
		if err != nil {
			return fmt.Errorf("failed to acquire sync lock: %w", err)
		}

		if err := fn(&Store{db: tx, mu: s.mu, inTx: true}); err != nil {
			return err
		}

		return tx.Model(&lock).Update("updated_at", time.Now().UTC()).Error
	})
}

func (s *Store) withTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s.inTx {
		return fn(s.db.WithContext(ctx))
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// escapeLike escapes LIKE wildcards using '!' as the escape character.
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
