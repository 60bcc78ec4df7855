package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/config"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/repository/postgres"
)

type dbKey struct{}

func initDB(c *cli.Context) error {
	cfg := config.Load()
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey{}, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey{}).(*postgres.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) (*postgres.DB, error) {
	db, ok := c.Context.Value(dbKey{}).(*postgres.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("database connection not found in context")
	}
	return db, nil
}
