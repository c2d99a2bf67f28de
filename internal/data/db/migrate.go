package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/applytrack-backend/internal/domain"
	"github.com/yungbote/applytrack-backend/internal/domain/documents"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&types.User{},
		&types.Job{},

		&types.Experience{},
		&types.Achievement{},
		&types.Education{},
		&types.Certification{},

		&types.IntakeSession{},
		&types.Proposal{},

		&types.Template{},
		&types.Response{},
		&types.Upload{},
	); err != nil {
		return err
	}
	for _, kind := range documents.Kinds {
		if err := db.Table(kind.Table()).AutoMigrate(&documents.Version{}); err != nil {
			return fmt.Errorf("migrate %s: %w", kind.Table(), err)
		}
	}
	return nil
}

// EnsureDocumentIndexes installs the storage backstops for the version
// invariants: one row per (job_id, version_index) and at most one pinned
// row per job.
func EnsureDocumentIndexes(db *gorm.DB) error {
	for _, kind := range documents.Kinds {
		table := kind.Table()
		if err := db.Exec(fmt.Sprintf(`
			CREATE UNIQUE INDEX IF NOT EXISTS idx_%s_job_version_index
			ON %s(job_id, version_index);
		`, table, table)).Error; err != nil {
			return fmt.Errorf("create idx_%s_job_version_index: %w", table, err)
		}
		if err := db.Exec(fmt.Sprintf(`
			CREATE UNIQUE INDEX IF NOT EXISTS idx_%s_job_pinned
			ON %s(job_id)
			WHERE is_pinned;
		`, table, table)).Error; err != nil {
			return fmt.Errorf("create idx_%s_job_pinned: %w", table, err)
		}
	}
	return nil
}

func EnsureProfileIndexes(db *gorm.DB) error {
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_achievements_experience_order ON achievements(experience_id, sort_order);`).Error; err != nil {
		return fmt.Errorf("create idx_achievements_experience_order: %w", err)
	}
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_experience_proposals_session_status ON experience_proposals(session_id, status);`).Error; err != nil {
		return fmt.Errorf("create idx_experience_proposals_session_status: %w", err)
	}
	return nil
}

// MigrateAll runs table migration followed by the hand-written indexes.
func MigrateAll(db *gorm.DB) error {
	if err := AutoMigrateAll(db); err != nil {
		return err
	}
	if err := EnsureDocumentIndexes(db); err != nil {
		return err
	}
	return EnsureProfileIndexes(db)
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureDocumentIndexes(s.db); err != nil {
		s.log.Error("Document index migration failed", "error", err)
		return err
	}
	if err := EnsureProfileIndexes(s.db); err != nil {
		s.log.Error("Profile index migration failed", "error", err)
		return err
	}
	return nil
}
