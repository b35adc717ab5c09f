package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"sea-u/config"
	"sea-u/internal/domain/user"
	"sea-u/internal/repository"
	"sea-u/internal/services"
	"sea-u/pkg/database"

	"gorm.io/gorm"
)

const usage = `
SEA-U - Database CLI Tool

Usage:
  migrate [command] [flags]

Commands:
  up          Apply the SQL migrations
  status      Show database connection status and table sizes
  seed-dev    Seed demo profiles and chats, print dev access tokens
  truncate    Truncate all tables (DANGEROUS)

Flags:
  -migrations string   Path to migrations directory (default "migrations")
  -token-ttl duration  Lifetime of the printed dev tokens (default 24h)

Examples:
  go run ./cmd/migrate up
  go run ./cmd/migrate seed-dev
`

func main() {
	migrationsDir := flag.String("migrations", "migrations", "Path to migrations directory")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "Lifetime of the printed dev tokens")

	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)

	cfg := config.LoadConfig()
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer database.Close(db)

	switch command {
	case "up":
		runMigrationsUp(db, *migrationsDir)
	case "status":
		showStatus(db)
	case "seed-dev":
		runSeedDevelopment(cfg, db, *tokenTTL)
	case "truncate":
		runTruncate(db)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func runMigrationsUp(db *gorm.DB, migrationsDir string) {
	log.Println("🚀 Running migrations UP...")

	if err := database.ApplyRawMigrations(db, migrationsDir); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	log.Println("✅ Migrations completed successfully!")
}

func showStatus(db *gorm.DB) {
	log.Println("🔍 Checking database status...")

	if err := database.Ping(db); err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}
	log.Println("✅ Database connection: OK")

	for _, table := range database.Tables {
		exists, err := database.TableExists(db, table)
		if err != nil {
			log.Printf("⚠️  Error checking table %s: %v", table, err)
			continue
		}
		if exists {
			count, _ := database.GetTableCount(db, table)
			log.Printf("✅ Table %-26s exists (%d rows)", table, count)
		} else {
			log.Printf("❌ Table %-26s does not exist", table)
		}
	}

	if err := database.HealthCheck(db); err != nil {
		log.Printf("⚠️  Health check warning: %v", err)
	} else {
		log.Println("✅ Health check: PASSED")
	}
}

func runSeedDevelopment(cfg *config.Config, db *gorm.DB, ttl time.Duration) {
	log.Println("🌱 Seeding database (development mode)...")

	result, err := database.SeedDevelopment(context.Background(), database.SeedTargets{
		Profiles:      repository.NewProfileRepository(db),
		Conversations: repository.NewConversationRepository(db),
		Messages:      repository.NewMessageRepository(db),
	})
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("📊 Seed Summary:")
	log.Printf("   - Me: %s (%s)", result.Me.DisplayName, result.Me.SeaID)
	log.Printf("   - Contacts: %d", len(result.Contacts))
	log.Printf("   - Conversations: %d", len(result.Conversations))
	log.Printf("   - Messages: %d", result.Messages)

	auth := services.NewAuthService(cfg)
	log.Println("🔑 Dev access tokens:")
	for _, p := range append([]user.Profile{result.Me}, result.Contacts...) {
		token, err := auth.IssueAccessToken(p.UserID, ttl)
		if err != nil {
			log.Fatalf("❌ Token for %s failed: %v", p.SeaID, err)
		}
		fmt.Printf("%s\t%-18s\t%s\n", p.SeaID, p.DisplayName, token)
	}
	log.Println("✅ Development seeding completed!")
}

func runTruncate(db *gorm.DB) {
	log.Println("⚠️  WARNING: This will TRUNCATE all tables!")

	if err := database.TruncateAllTables(db); err != nil {
		log.Fatalf("❌ Truncate failed: %v", err)
	}

	log.Println("✅ All tables truncated!")
}
