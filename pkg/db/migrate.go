package db

import (
	"encoding/json"
	"fmt"
	"os"

	"aquamon.io/water-quality-service/pkg/common"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const copyBatchSize = 500

// joinTables are the many2many association tables, copied after their owning
// entities since gorm does not list them as models.
var joinTables = []string{"report_readings", "report_forecasts"}

func tableName(conn *gorm.DB, model any) (string, error) {
	stmt := &gorm.Statement{DB: conn}
	if err := stmt.Parse(model); err != nil {
		return "", err
	}
	return stmt.Schema.Table, nil
}

// BackupToJSON dumps every table of src into a single JSON document at path.
// The document maps table name to its raw rows.
func BackupToJSON(src *gorm.DB, path string) error {
	dump := map[string][]map[string]any{}

	for _, model := range AllModels() {
		name, err := tableName(src, model)
		if err != nil {
			return err
		}
		var rows []map[string]any
		if err := src.Table(name).Find(&rows).Error; err != nil {
			return fmt.Errorf("dump %s: %w", name, err)
		}
		dump[name] = rows
	}
	for _, name := range joinTables {
		var rows []map[string]any
		if err := src.Table(name).Find(&rows).Error; err != nil {
			return fmt.Errorf("dump %s: %w", name, err)
		}
		dump[name] = rows
	}

	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// CopyAll moves every row from src to dst, parents before children so foreign
// keys resolve. Primary keys are preserved. dst must already carry the schema.
func CopyAll(src, dst *gorm.DB) error {
	logger := common.GetLoggerWith(common.LoggerNameMigrate)

	for _, model := range AllModels() {
		name, err := tableName(src, model)
		if err != nil {
			return err
		}
		var rows []map[string]any
		if err := src.Table(name).Find(&rows).Error; err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if len(rows) == 0 {
			logger.Info("Table empty, skipped", zap.String("table", name))
			continue
		}
		if err := dst.Table(name).Clauses(clause.OnConflict{DoNothing: true}).
			CreateInBatches(rows, copyBatchSize).Error; err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		logger.Info("Table copied", zap.String("table", name), zap.Int("rows", len(rows)))
	}

	for _, name := range joinTables {
		var rows []map[string]any
		if err := src.Table(name).Find(&rows).Error; err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if len(rows) == 0 {
			continue
		}
		if err := dst.Table(name).Clauses(clause.OnConflict{DoNothing: true}).
			CreateInBatches(rows, copyBatchSize).Error; err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		logger.Info("Join table copied", zap.String("table", name), zap.Int("rows", len(rows)))
	}

	return nil
}

// CountMismatch compares per-table row counts between src and dst and returns
// the tables that differ, formatted "table: src=N dst=M".
func CountMismatch(src, dst *gorm.DB) ([]string, error) {
	var mismatches []string

	names := make([]string, 0, len(AllModels())+len(joinTables))
	for _, model := range AllModels() {
		name, err := tableName(src, model)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	names = append(names, joinTables...)

	for _, name := range names {
		var srcCount, dstCount int64
		if err := src.Table(name).Count(&srcCount).Error; err != nil {
			return nil, fmt.Errorf("count %s on source: %w", name, err)
		}
		if err := dst.Table(name).Count(&dstCount).Error; err != nil {
			return nil, fmt.Errorf("count %s on target: %w", name, err)
		}
		if srcCount != dstCount {
			mismatches = append(mismatches,
				fmt.Sprintf("%s: src=%d dst=%d", name, srcCount, dstCount))
		}
	}
	return mismatches, nil
}
