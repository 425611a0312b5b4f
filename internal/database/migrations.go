package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes beyond the ones declared
// in model tags. Safe to call repeatedly.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Task indexes for the board queries
		{"tasks", "idx_tasks_project_status", "project_id, status"},
		{"tasks", "idx_tasks_assigned_project", "assigned_to, project_id"},

		// Review feed is ordered newest-first per project
		{"reviews", "idx_reviews_project_created", "project_id, created_at"},

		// Enrollment looks projects up by exact name or code
		{"projects", "idx_projects_name", "name"},

		// Role-filtered user listings on the admin console
		{"users", "idx_users_role", "role"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
