package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/deliciousroute/deliciousroute-backend/config"
	"github.com/deliciousroute/deliciousroute-backend/internal/app/repository"
	"github.com/deliciousroute/deliciousroute-backend/internal/app/service"
	"github.com/deliciousroute/deliciousroute-backend/internal/db"
	"github.com/deliciousroute/deliciousroute-backend/pkg/logger"
	"github.com/deliciousroute/deliciousroute-backend/pkg/util"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.Initialize(logger.Config{Level: "warn", Format: "console", EnableColor: true})

	if err := util.SetPasswordCost(cfg.JWT.PasswordCost); err != nil {
		log.Fatal("Invalid password hash cost:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	f, err := os.Open(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	rows, skipped, err := readVendorRows(f)
	f.Close()
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total vendors to import: %d (skipped %d invalid rows)\n", len(rows), len(skipped))
	for _, s := range skipped {
		fmt.Printf("  row %d: %s\n", s.Row, s.Reason)
	}

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	gdb := db.GetDB()
	userRepo := repository.NewUserRepository(gdb)
	vendorRepo := repository.NewVendorRepository(gdb)
	hoursRepo := repository.NewHoursRepository(gdb)
	loc := cfg.Server.Location()

	imp := &importer{
		auth:     service.NewAuthService(gdb, userRepo, vendorRepo, nil, cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry),
		hours:    service.NewHoursService(gdb, vendorRepo, hoursRepo, loc),
		location: service.NewLocationService(vendorRepo, nil, nil),
	}

	created, existing := 0, 0
	for _, row := range rows {
		err := imp.importRow(context.Background(), row)
		switch {
		case err == nil:
			created++
		case errors.Is(err, service.ErrEmailAlreadyExists):
			existing++
		default:
			log.Fatalf("Failed to import row %d (%s): %v", row.Row, row.Email, err)
		}
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("  Vendors created: %d\n", created)
	fmt.Printf("  Already registered: %d\n", existing)
}
