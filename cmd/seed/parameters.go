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

// seedParameters loads per-SKU inventory parameters from a CSV file.
// Empty cells leave the corresponding column NULL so engine defaults apply.
func seedParameters(c *cli.Context) error {
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
		INSERT INTO inventory_parameters (sku_id, location_id, service_level_target, lead_time_days, review_period_days)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (sku_id) DO UPDATE
		SET location_id = EXCLUDED.location_id,
		    service_level_target = EXCLUDED.service_level_target,
		    lead_time_days = EXCLUDED.lead_time_days,
		    review_period_days = EXCLUDED.review_period_days`)
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
		if len(record) < 5 {
			return fmt.Errorf("record %d has %d columns, want 5", count+1, len(record))
		}

		serviceLevel, err := nullableFloat(record[2])
		if err != nil {
			return fmt.Errorf("record %d: invalid service_level_target %q: %w", count+1, record[2], err)
		}
		leadTime, err := nullableInt(record[3])
		if err != nil {
			return fmt.Errorf("record %d: invalid lead_time_days %q: %w", count+1, record[3], err)
		}
		reviewPeriod, err := nullableInt(record[4])
		if err != nil {
			return fmt.Errorf("record %d: invalid review_period_days %q: %w", count+1, record[4], err)
		}

		location := record[1]
		var locationArg interface{}
		if location != "" {
			locationArg = location
		}

		if _, err := stmt.Exec(record[0], locationArg, serviceLevel, leadTime, reviewPeriod); err != nil {
			return fmt.Errorf("failed to insert record %d: %w", count+1, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("loaded %d inventory parameter rows", count)
	return nil
}

func nullableFloat(s string) (interface{}, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func nullableInt(s string) (interface{}, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return v, nil
}
