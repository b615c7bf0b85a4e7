// Package postgres implements store.CaseStore on PostgreSQL.
package postgres

import (
	"context"
	"fmt"
	"time"

	"case-callback/internal/store"

	"github.com/go-pg/pg"
	"github.com/go-pg/pg/orm"
	"github.com/google/uuid"
)

var eventNamespace = uuid.MustParse("3b9c4c1e-2d0f-4f3b-8f6a-7c1e2a9d5b40")

type Options struct {
	Addr     string
	User     string
	Password string
	Database string
}

type Store struct {
	db *pg.DB
}

var _ store.CaseStore = (*Store)(nil)

func Connect(opts Options) *Store {
	return New(pg.Connect(&pg.Options{
		Addr:     opts.Addr,
		User:     opts.User,
		Password: opts.Password,
		Database: opts.Database,
	}))
}

func New(db *pg.DB) *Store {
	return &Store{db: db}
}

// CreateSchema creates the cases and case_events tables if missing.
func (s *Store) CreateSchema() error {
	models := []interface{}{
		(*caseRecord)(nil),
		(*caseEventRecord)(nil),
	}
	for _, model := range models {
		err := s.db.Model(model).CreateTable(&orm.CreateTableOptions{
			IfNotExists: true,
		})
		if err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

// InsertCase stores a new case, or does nothing if the ID exists.
func (s *Store) InsertCase(ctx context.Context, id, caseType, state string, data map[string]interface{}) error {
	now := time.Now()
	rec := &caseRecord{
		ID:         id,
		CaseTypeID: caseType,
		State:      state,
		Data:       data,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := s.db.WithContext(ctx).Model(rec).OnConflict("DO NOTHING").Insert(); err != nil {
		return fmt.Errorf("insert case %s: %w", id, err)
	}
	return nil
}

// UpdateCase replaces the case data and state and records the event in
// one transaction. It returns store.ErrCaseNotFound when no row matches.
func (s *Store) UpdateCase(ctx context.Context, update store.CaseUpdate) error {
	return s.db.WithContext(ctx).RunInTransaction(func(tx *pg.Tx) error {
		rec := &caseRecord{
			ID:          update.CaseID,
			State:       update.State,
			Data:        update.Data,
			LastEventID: update.EventID,
			UpdatedAt:   time.Now(),
		}

		columns := []string{"data", "last_event_id", "updated_at"}
		if update.State != "" {
			columns = append(columns, "state")
		}

		res, err := tx.Model(rec).Column(columns...).WherePK().Update()
		if err != nil {
			return fmt.Errorf("update case %s: %w", update.CaseID, err)
		}
		if res.RowsAffected() == 0 {
			return store.ErrCaseNotFound
		}

		ev := &caseEventRecord{
			ID:         eventRecordID(update),
			CaseID:     update.CaseID,
			EventID:    update.EventID,
			State:      update.State,
			EventTime:  update.EventTime,
			RecordedAt: time.Now(),
		}
		if _, err := tx.Model(ev).OnConflict("DO NOTHING").Insert(); err != nil {
			return fmt.Errorf("record event %s for case %s: %w", update.EventID, update.CaseID, err)
		}
		return nil
	})
}

// LoadCaseData returns the stored case data.
func (s *Store) LoadCaseData(ctx context.Context, id string) (map[string]interface{}, error) {
	rec := &caseRecord{ID: id}
	err := s.db.WithContext(ctx).Model(rec).WherePK().Select()
	if err == pg.ErrNoRows {
		return nil, store.ErrCaseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load case %s: %w", id, err)
	}
	return rec.Data, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func eventRecordID(update store.CaseUpdate) string {
	name := update.CaseID + "/" + update.EventID + "/" + update.EventTime.UTC().Format(time.RFC3339Nano)
	return uuid.NewSHA1(eventNamespace, []byte(name)).String()
}
