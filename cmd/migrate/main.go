package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"service-catalog/config"
	"service-catalog/pkg/database"

	"github.com/jmoiron/sqlx"
)

const usage = `
Service Catalog - Database CLI Tool

Usage:
  migrate [command] [flags]

Commands:
  up          Apply all pending migrations
  down        Roll back all applied migrations
  status      Show migration and table status
  seed-dev    Seed demo tenants, categories and services
  reset       Roll back, re-apply and re-seed (DANGEROUS)
  truncate    Truncate all catalog tables (DANGEROUS)

Flags:
  -tenants int   Number of demo tenants for seed-dev (default 3)

Examples:
  go run cmd/migrate/main.go up
  go run cmd/migrate/main.go status
  go run cmd/migrate/main.go seed-dev -tenants 2
`

func main() {
	tenants := flag.Int("tenants", 3, "Number of demo tenants for seed-dev")

	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg := config.LoadConfig()
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer db.Close()

	migrator, err := database.NewMigrator(db)
	if err != nil {
		log.Fatalf("❌ Failed to load migrations: %v", err)
	}

	seedCfg := database.DefaultSeedConfig()
	seedCfg.TenantCount = *tenants

	switch command {
	case "up":
		runMigrationsUp(ctx, migrator)
	case "down":
		runMigrationsDown(ctx, migrator)
	case "status":
		showStatus(ctx, db, migrator)
	case "seed-dev":
		runSeed(ctx, db, seedCfg)
	case "reset":
		runReset(ctx, db, migrator, seedCfg)
	case "truncate":
		runTruncate(ctx, db)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func runMigrationsUp(ctx context.Context, m *database.Migrator) {
	log.Println("🚀 Running migrations UP...")

	applied, err := m.Up(ctx)
	if err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	for _, v := range applied {
		log.Printf("   - applied %s", v)
	}

	log.Println("✅ Migrations completed successfully!")
}

func runMigrationsDown(ctx context.Context, m *database.Migrator) {
	log.Println("⬇️  Rolling back migrations...")

	rolledBack, err := m.Down(ctx)
	if err != nil {
		log.Fatalf("❌ Rollback failed: %v", err)
	}
	for _, v := range rolledBack {
		log.Printf("   - rolled back %s", v)
	}

	log.Println("✅ Rollback completed successfully!")
}

func showStatus(ctx context.Context, db *sqlx.DB, m *database.Migrator) {
	log.Println("🔍 Checking database status...")

	if err := database.Ping(ctx, db); err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}
	log.Println("✅ Database connection: OK")

	statuses, err := m.Status(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to read migration status: %v", err)
	}
	for _, s := range statuses {
		mark := "⏳ pending"
		if s.Applied {
			mark = "✅ applied"
		}
		log.Printf("Migration %-24s %s", s.Version, mark)
	}

	for _, table := range database.CatalogTables {
		exists, err := database.TableExists(ctx, db, table)
		if err != nil {
			log.Printf("⚠️  Error checking table %s: %v", table, err)
			continue
		}
		if exists {
			count, _ := database.TableCount(ctx, db, table)
			log.Printf("✅ Table %-12s exists (%d rows)", table, count)
		} else {
			log.Printf("❌ Table %-12s does not exist", table)
		}
	}
}

func runSeed(ctx context.Context, db *sqlx.DB, cfg *database.SeedConfig) {
	log.Println("🌱 Seeding database (development mode)...")

	result, err := database.Seed(ctx, db, cfg)
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("📊 Seed Summary:")
	log.Printf("   - Tenants: %d", len(result.Tenants))
	log.Printf("   - Categories: %d", len(result.Categories))
	log.Printf("   - Services: %d", len(result.Services))
	log.Println("✅ Development seeding completed!")
}

func runReset(ctx context.Context, db *sqlx.DB, m *database.Migrator, cfg *database.SeedConfig) {
	log.Println("⚠️  WARNING: This will DROP all catalog tables and re-run migrations!")

	log.Println("🗑️  Rolling back...")
	if _, err := m.Down(ctx); err != nil {
		log.Fatalf("❌ Rollback failed: %v", err)
	}

	log.Println("🚀 Running migrations...")
	if _, err := m.Up(ctx); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	runSeed(ctx, db, cfg)
	log.Println("✅ Database reset completed!")
}

func runTruncate(ctx context.Context, db *sqlx.DB) {
	log.Println("⚠️  WARNING: This will TRUNCATE all tables!")

	if err := database.TruncateAllTables(ctx, db); err != nil {
		log.Fatalf("❌ Truncate failed: %v", err)
	}

	log.Println("✅ All tables truncated!")
}
