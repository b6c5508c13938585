// Command migrate moves monitoring data from a MySQL deployment to
// PostgreSQL. It is a sequential, operator-supervised procedure: every
// destructive step asks first, every failure aborts the rest of the run.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"aquamon.io/water-quality-service/pkg/common"
	"aquamon.io/water-quality-service/pkg/db"
)

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Fatal("Error loading .env file, copy .env.example to .env first if in development")
	}

	sourceDSN := os.Getenv(common.EnvKeyWQMMigrateSourceDSN)
	targetDSN := os.Getenv(common.EnvKeyWQMMigrateTargetDSN)
	if sourceDSN == "" || targetDSN == "" {
		log.Fatal("WQM_MIGRATE_SOURCE_DSN and WQM_MIGRATE_TARGET_DSN must both be set")
	}

	fmt.Println("AquaMon MySQL -> PostgreSQL migration")
	fmt.Println()

	fmt.Println("Connecting to source MySQL database...")
	src, err := db.Open(db.UseMysqlDialector(sourceDSN))
	if err != nil {
		fmt.Printf("MySQL connection failed: %v\n", err)
		fmt.Println("\nSteps to fix:")
		fmt.Println("1. Check that the MySQL server is running")
		fmt.Println("2. Check WQM_MIGRATE_SOURCE_DSN in .env")
		os.Exit(1)
	}
	fmt.Println("MySQL connection successful.")

	fmt.Println("Connecting to target PostgreSQL database...")
	dst, err := db.Open(db.UsePostgresDialector(targetDSN))
	if err != nil {
		fmt.Printf("PostgreSQL connection failed: %v\n", err)
		fmt.Println("\nSteps to fix:")
		fmt.Println("1. Install PostgreSQL: https://www.postgresql.org/download/")
		fmt.Println("2. Create the database: CREATE DATABASE smart_water_monitoring;")
		fmt.Println("3. Check WQM_MIGRATE_TARGET_DSN in .env")
		os.Exit(1)
	}
	fmt.Println("PostgreSQL connection successful; schema is up to date.")
	fmt.Println()

	if !confirm("Back up MySQL data to JSON before copying?") {
		fmt.Println("Skipping backup.")
	} else {
		backupPath := fmt.Sprintf("backup_mysql_%s.json", time.Now().Format("20060102_150405"))
		fmt.Printf("Exporting to: %s\n", backupPath)
		if err := db.BackupToJSON(src, backupPath); err != nil {
			fmt.Printf("MySQL backup failed: %v\n", err)
			fmt.Println("Aborting; nothing has been written to PostgreSQL.")
			os.Exit(1)
		}
		fmt.Println("Backup complete.")
		fmt.Println()
	}

	if !confirm("Copy all tables into PostgreSQL now?") {
		fmt.Println("Aborted by operator.")
		os.Exit(0)
	}

	if err := db.CopyAll(src, dst); err != nil {
		fmt.Printf("Copy failed: %v\n", err)
		fmt.Println("\nThe target may hold a partial copy. Review it before re-running;")
		fmt.Println("re-running is safe, already copied rows are skipped.")
		os.Exit(1)
	}
	fmt.Println("Copy complete.")
	fmt.Println()

	fmt.Println("Verifying per-table row counts...")
	mismatches, err := db.CountMismatch(src, dst)
	if err != nil {
		fmt.Printf("Verification failed: %v\n", err)
		os.Exit(1)
	}
	if len(mismatches) > 0 {
		fmt.Println("Row count mismatches found:")
		for _, m := range mismatches {
			fmt.Println("  " + m)
		}
		os.Exit(1)
	}

	fmt.Println("All table counts match. Migration finished.")
	fmt.Println("Point the server at PostgreSQL by setting WQM_DB_TYPE=postgres and WQM_DB_DSN.")
}
