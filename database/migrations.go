package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"time"

	"gorm.io/gorm"
)

// BackupDatabase attempts to create a SQL dump using mysqldump if it's
// available on PATH. Flags come from DB_BACKUP_FLAGS.
func BackupDatabase(outPath string) error {
	if _, err := exec.LookPath("mysqldump"); err != nil {
		return fmt.Errorf("mysqldump not found in PATH: %w", err)
	}

	args := []string{os.Getenv("DB_BACKUP_FLAGS")}
	cmd := exec.CommandContext(context.Background(), "mysqldump", args...)
	outFile, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer outFile.Close()
	cmd.Stdout = outFile
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("mysqldump failed: %w", err)
	}
	return nil
}

// RunMigrationsWithBackup runs AutoMigrate after a best-effort backup.
// Used in development only; production schema changes go through explicit SQL.
func RunMigrationsWithBackup(db *gorm.DB, models ...interface{}) error {
	if os.Getenv("DB_BACKUP_BEFORE_MIGRATE") == "true" {
		out := fmt.Sprintf("backup-%s.sql", time.Now().Format("20060102-150405"))
		if err := BackupDatabase(out); err != nil {
			log.Printf("[database] backup skipped: %v", err)
		} else {
			log.Printf("[database] backup written to %s", out)
		}
	}
	return db.AutoMigrate(models...)
}
