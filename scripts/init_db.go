package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("=== Tavara.care Database Initialization ===")
	fmt.Println()

	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  Warning: Could not load .env file: %v\n", err)
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		fmt.Println("❌ DATABASE_URL environment variable not set")
		os.Exit(1)
	}

	parsed, err := url.Parse(databaseURL)
	if err != nil {
		fmt.Printf("❌ Invalid DATABASE_URL: %v\n", err)
		os.Exit(1)
	}
	dbName := strings.TrimPrefix(parsed.Path, "/")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// Connect to the maintenance database first so the target can be created.
	admin := *parsed
	admin.Path = "/postgres"
	fmt.Println("📡 Connecting to PostgreSQL server...")

	adminConn, err := pgx.Connect(ctx, admin.String())
	if err != nil {
		fmt.Printf("❌ Failed to connect to PostgreSQL: %v\n", err)
		os.Exit(1)
	}

	var exists bool
	err = adminConn.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", dbName).Scan(&exists)
	if err != nil {
		fmt.Printf("❌ Failed to check database existence: %v\n", err)
		adminConn.Close(ctx)
		os.Exit(1)
	}

	if !exists {
		fmt.Printf("📦 Creating '%s' database...\n", dbName)
		if _, err := adminConn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{dbName}.Sanitize()); err != nil {
			fmt.Printf("❌ Failed to create database: %v\n", err)
			adminConn.Close(ctx)
			os.Exit(1)
		}
	}
	adminConn.Close(ctx)

	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		fmt.Printf("❌ Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	sqlBytes, err := os.ReadFile("scripts/init_database.sql")
	if err != nil {
		fmt.Printf("❌ Failed to read SQL file: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("🚀 Applying schema...")
	if _, err := conn.Exec(ctx, string(sqlBytes)); err != nil {
		fmt.Printf("❌ Failed to execute SQL: %v\n", err)
		os.Exit(1)
	}

	var families, professionals, ready int
	err = conn.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE role = 'family'),
			COUNT(*) FILTER (WHERE role = 'professional'),
			(SELECT COUNT(*) FROM professional_readiness WHERE is_ready)
		FROM profiles`).Scan(&families, &professionals, &ready)
	if err != nil {
		fmt.Printf("⚠️  Warning: Could not count profiles: %v\n", err)
	} else {
		fmt.Printf("   Families: %d | Professionals: %d | Ready for matching: %d\n", families, professionals, ready)
	}

	fmt.Println()
	fmt.Println("✅ Database initialization completed")
	fmt.Println("Next: go run ./cmd/tavaractl seed --file roster.csv")
}
