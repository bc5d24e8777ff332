package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"service-catalog/internal/domain/category"
	"service-catalog/internal/domain/service"
	"service-catalog/internal/domain/tenant"
	"service-catalog/internal/repository"
	catalog_errors "service-catalog/pkg/errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// seedNamespace derives stable ids so seeding twice finds the same rows.
var seedNamespace = uuid.MustParse("6f1c1d52-3f7e-4a57-9a8e-2c3b8f0d9e11")

// SeedConfig holds configuration for seeding the database
type SeedConfig struct {
	TenantCount         int
	ServicesPerCategory int
}

// DefaultSeedConfig returns default seed configuration
func DefaultSeedConfig() *SeedConfig {
	return &SeedConfig{
		TenantCount:         3,
		ServicesPerCategory: 3,
	}
}

// SeedResult holds the result of the seeding operation
type SeedResult struct {
	Tenants    []tenant.Tenant
	Categories []category.Category
	Services   []service.Service
}

var demoBusinesses = []struct {
	name    string
	address string
}{
	{"Northside Barbers", "12 High Street, Leeds"},
	{"Lotus Day Spa", "4 Canal Walk, Manchester"},
	{"Paws & Claws Grooming", "88 Station Road, York"},
	{"Studio Nine Nails", "9 Market Square, Bristol"},
}

var demoCategories = []struct {
	name        string
	description string
	services    []string
}{
	{"Haircuts", "Cuts and styling", []string{"Classic Cut", "Skin Fade", "Beard Trim", "Kids Cut"}},
	{"Massage", "Relaxation and therapy", []string{"Swedish Massage", "Deep Tissue", "Hot Stone", "Back and Neck"}},
	{"Nails", "Manicure and pedicure", []string{"Gel Manicure", "Classic Pedicure", "Nail Art", "Polish Change"}},
}

// Seed creates demo tenants with categories and services. Rows that already
// exist are left untouched. Everything runs in one transaction, so lookups
// come before inserts: a failed insert would abort it.
func Seed(ctx context.Context, db *sqlx.DB, cfg *SeedConfig) (*SeedResult, error) {
	if cfg == nil {
		cfg = DefaultSeedConfig()
	}
	count := min(cfg.TenantCount, len(demoBusinesses))
	perCategory := cfg.ServicesPerCategory

	result := &SeedResult{}
	log.Println("Starting database seeding...")

	err := repository.WithTx(ctx, db, func(tx repository.DBTX) error {
		tenants := repository.NewTenantRepository(tx)
		categories := repository.NewCategoryRepository(tx)
		services := repository.NewServiceRepository(tx)

		for i := 0; i < count; i++ {
			b := demoBusinesses[i]
			t := tenant.Tenant{
				ID:           uuid.NewSHA1(seedNamespace, []byte(b.name)),
				BusinessName: b.name,
				Address:      b.address,
			}
			if existing, err := tenants.FindByID(ctx, t.ID); err == nil {
				t = existing
			} else if err := tenants.Insert(ctx, &t); err != nil {
				return fmt.Errorf("failed to seed tenant %s: %w", b.name, err)
			}
			result.Tenants = append(result.Tenants, t)

			for j, dc := range demoCategories {
				c, err := seedCategory(ctx, categories, t.ID, dc.name, dc.description)
				if err != nil {
					return err
				}
				result.Categories = append(result.Categories, c)

				for k := 0; k < min(perCategory, len(dc.services)); k++ {
					s := service.Service{
						ID:              uuid.NewSHA1(seedNamespace, []byte(t.ID.String()+"/"+dc.services[k])),
						TenantID:        t.ID,
						Name:            dc.services[k],
						Price:           decimal.NewFromInt(int64(15 + 10*j + 5*k)).Add(decimal.RequireFromString("0.99")),
						DurationMinutes: 30 + 15*k,
						CategoryID:      &c.ID,
						IsActive:        k != perCategory-1,
					}
					if existing, err := services.FindByID(ctx, s.ID); err == nil {
						s = existing.Service
					} else if err := services.Create(ctx, &s); err != nil {
						return fmt.Errorf("failed to seed service %s: %w", s.Name, err)
					}
					result.Services = append(result.Services, s)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Seeded %d tenants, %d categories, %d services",
		len(result.Tenants), len(result.Categories), len(result.Services))
	return result, nil
}

func seedCategory(ctx context.Context, repo repository.CategoryRepository, tenantID uuid.UUID, name, description string) (category.Category, error) {
	existing, err := repo.FindByTenantAndName(ctx, tenantID, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, catalog_errors.ErrNotFound) {
		return category.Category{}, fmt.Errorf("failed to look up category %s: %w", name, err)
	}
	c := category.Category{TenantID: tenantID, Name: name, Description: &description}
	if err := repo.Create(ctx, &c); err != nil {
		return category.Category{}, fmt.Errorf("failed to seed category %s: %w", name, err)
	}
	return c, nil
}

// TruncateAllTables empties every catalog table.
func TruncateAllTables(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, "TRUNCATE TABLE "+strings.Join(CatalogTables, ", ")+" CASCADE")
	return err
}

// ClearAndReseed truncates the catalog and seeds it again.
func ClearAndReseed(ctx context.Context, db *sqlx.DB, cfg *SeedConfig) (*SeedResult, error) {
	log.Println("Clearing all data...")
	if err := TruncateAllTables(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to truncate tables: %w", err)
	}

	log.Println("Running seed...")
	return Seed(ctx, db, cfg)
}
