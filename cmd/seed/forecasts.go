package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"
)

// seedForecasts loads forecast rows from a CSV file. The first row is
// treated as a header and skipped. year_month values use the YYYY-MM form
// and are stored as the first day of that month.
func seedForecasts(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	f, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	if _, err := reader.Read(); err != nil {
		return fmt.Errorf("failed to read header row: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO sku_forecasts (sku_id, year_month, p10, p50, p90, run_id)
		VALUES ($1, ($2 || '-01')::date, $3, $4, $5, $6)
		ON CONFLICT (sku_id, year_month, run_id) DO UPDATE
		SET p10 = EXCLUDED.p10, p50 = EXCLUDED.p50, p90 = EXCLUDED.p90`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	count := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read record: %w", err)
		}
		if len(record) < 6 {
			return fmt.Errorf("record %d has %d columns, want 6", count+1, len(record))
		}

		p10, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return fmt.Errorf("record %d: invalid p10 %q: %w", count+1, record[2], err)
		}
		p50, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			return fmt.Errorf("record %d: invalid p50 %q: %w", count+1, record[3], err)
		}
		p90, err := strconv.ParseFloat(record[4], 64)
		if err != nil {
			return fmt.Errorf("record %d: invalid p90 %q: %w", count+1, record[4], err)
		}

		if _, err := stmt.Exec(record[0], record[1], p10, p50, p90, record[5]); err != nil {
			return fmt.Errorf("failed to insert record %d: %w", count+1, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("loaded %d forecast rows", count)
	return nil
}
