// cmd/seed/main.go
package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func openDB(c *cli.Context) (*sql.DB, error) {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Load forecast and inventory parameter data into the database",
		Commands: []*cli.Command{
			{
				Name:  "forecasts",
				Usage: "Load forecast rows from a CSV file",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:     "file",
						Usage:    "CSV file with columns sku_id,year_month,p10,p50,p90,run_id",
						Required: true,
					},
				},
				Action: seedForecasts,
			},
			{
				Name:  "parameters",
				Usage: "Load inventory parameters from a CSV file",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:     "file",
						Usage:    "CSV file with columns sku_id,location_id,service_level_target,lead_time_days,review_period_days",
						Required: true,
					},
				},
				Action: seedParameters,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
