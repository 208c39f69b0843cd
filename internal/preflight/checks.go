package preflight

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"statforge/internal/database"
)

// CheckResult represents the result of a preflight check
type CheckResult struct {
	Name    string
	Status  string // "pass", "fail", "warning"
	Message string
	Error   error
}

// Checker performs pre-flight checks before server starts
type Checker struct {
	db         *database.DB
	contentDir string
}

// NewChecker creates a new preflight checker
func NewChecker(db *database.DB, contentDir string) *Checker {
	return &Checker{
		db:         db,
		contentDir: contentDir,
	}
}

// RunAll runs all preflight checks and returns results
func (c *Checker) RunAll() []CheckResult {
	log.Println("🔍 Running pre-flight checks...")

	results := []CheckResult{
		c.checkDatabaseConnection(),
		c.checkDatabaseSchema(),
		c.checkContentDirectory(),
		c.checkEnvironmentVariables(),
	}

	passed := 0
	failed := 0
	warnings := 0

	for _, result := range results {
		switch result.Status {
		case "pass":
			log.Printf("   ✅ %s: %s", result.Name, result.Message)
			passed++
		case "fail":
			log.Printf("   ❌ %s: %s", result.Name, result.Message)
			if result.Error != nil {
				log.Printf("      Error: %v", result.Error)
			}
			failed++
		case "warning":
			log.Printf("   ⚠️  %s: %s", result.Name, result.Message)
			warnings++
		}
	}

	log.Printf("\n📊 Pre-flight summary: %d passed, %d failed, %d warnings\n", passed, failed, warnings)

	return results
}

// HasFailures returns true if any check failed
func HasFailures(results []CheckResult) bool {
	for _, result := range results {
		if result.Status == "fail" {
			return true
		}
	}
	return false
}

// checkDatabaseConnection verifies database connectivity
func (c *Checker) checkDatabaseConnection() CheckResult {
	if err := c.db.Ping(); err != nil {
		return CheckResult{
			Name:    "Database Connection",
			Status:  "fail",
			Message: "Cannot connect to database",
			Error:   err,
		}
	}

	return CheckResult{
		Name:    "Database Connection",
		Status:  "pass",
		Message: "Database connection successful",
	}
}

// checkDatabaseSchema verifies all required tables exist. A plain count
// query works on both MySQL and SQLite, unlike INFORMATION_SCHEMA.
func (c *Checker) checkDatabaseSchema() CheckResult {
	requiredTables := []string{
		"users",
	}

	for _, table := range requiredTables {
		var count int
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
		if err := c.db.QueryRow(query).Scan(&count); err != nil {
			return CheckResult{
				Name:    "Database Schema",
				Status:  "fail",
				Message: fmt.Sprintf("Required table '%s' not found", table),
				Error:   err,
			}
		}
	}

	return CheckResult{
		Name:    "Database Schema",
		Status:  "pass",
		Message: fmt.Sprintf("All %d required tables exist", len(requiredTables)),
	}
}

// checkContentDirectory verifies the blog content directory is readable
// and counts the documents in it. A missing directory is a warning, not
// a failure: the server can start and serve an empty index.
func (c *Checker) checkContentDirectory() CheckResult {
	entries, err := os.ReadDir(c.contentDir)
	if err != nil {
		return CheckResult{
			Name:    "Content Directory",
			Status:  "warning",
			Message: fmt.Sprintf("Cannot read content directory %s (blog will be empty)", c.contentDir),
			Error:   err,
		}
	}

	documents := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".md" || ext == ".mdx" {
			documents++
		}
	}

	if documents == 0 {
		return CheckResult{
			Name:    "Content Directory",
			Status:  "warning",
			Message: fmt.Sprintf("No .md/.mdx documents found in %s", c.contentDir),
		}
	}

	return CheckResult{
		Name:    "Content Directory",
		Status:  "pass",
		Message: fmt.Sprintf("%d documents found in %s", documents, c.contentDir),
	}
}

// checkEnvironmentVariables verifies required environment variables are set
func (c *Checker) checkEnvironmentVariables() CheckResult {
	if os.Getenv("JWT_SECRET") == "" {
		if os.Getenv("ENVIRONMENT") == "production" {
			return CheckResult{
				Name:    "Environment Variables",
				Status:  "fail",
				Message: "JWT_SECRET is required in production",
			}
		}
		return CheckResult{
			Name:    "Environment Variables",
			Status:  "warning",
			Message: "JWT_SECRET not set (authentication disabled, development mode)",
		}
	}

	return CheckResult{
		Name:    "Environment Variables",
		Status:  "pass",
		Message: "All environment variables configured",
	}
}

// QuickCheck runs minimal checks for fast startup
func (c *Checker) QuickCheck() []CheckResult {
	log.Println("⚡ Running quick pre-flight checks...")

	results := []CheckResult{
		c.checkDatabaseConnection(),
	}

	for _, result := range results {
		if result.Status == "pass" {
			log.Printf("   ✅ %s", result.Name)
		} else if result.Status == "fail" {
			log.Printf("   ❌ %s: %s", result.Name, result.Message)
		}
	}

	return results
}
