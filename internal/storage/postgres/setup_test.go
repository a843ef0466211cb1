package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/caseflow/caseflow/internal/models"
)

func SetupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Disable logs during tests
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.Case{}, &models.Document{}, &models.Job{})
	require.NoError(t, err)

	return db
}

// seedCase creates a case with one document and returns both ids.
func seedCase(t *testing.T, db *gorm.DB) (caseID, docID uint) {
	t.Helper()
	ctx := context.Background()

	cases := NewCaseRepository(db)
	docs := NewDocumentRepository(db)

	c := &models.Case{}
	require.NoError(t, cases.Create(ctx, c))

	d := &models.Document{CaseID: c.ID, Filename: "scan.pdf", StorageKey: "cases/scan.pdf"}
	require.NoError(t, docs.Create(ctx, d))

	return c.ID, d.ID
}

// seedJob inserts a queued job for the given case/document pair.
func seedJob(t *testing.T, db *gorm.DB, caseID, docID uint, maxAttempts int) *models.Job {
	t.Helper()

	j := &models.Job{
		CaseID:      caseID,
		DocumentID:  docID,
		Status:      models.JobStatusQueued,
		MaxAttempts: maxAttempts,
	}
	require.NoError(t, NewJobRepository(db).Create(context.Background(), j))
	return j
}
