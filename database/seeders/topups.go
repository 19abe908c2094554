package seeders

import (
	"log"

	"car-rental-booking/models/topup"

	"gorm.io/gorm"
)

func SeedTopups(db *gorm.DB) {
	log.Printf("🔍 Checking topup catalog data integrity...")

	topups := []topup.Topup{
		{Name: "Extra 6 Hours", DurationHours: 6, Price: 250, Category: "hourly", Active: true, CreatedBy: "seeder"},
		{Name: "Extra 12 Hours", DurationHours: 12, Price: 450, Category: "hourly", Active: true, CreatedBy: "seeder"},
		{Name: "Extra Day", DurationHours: 24, Price: 800, Category: "daily", Active: true, CreatedBy: "seeder"},
		{Name: "Extra 2 Days", DurationHours: 48, Price: 1500, Category: "daily", Active: true, CreatedBy: "seeder"},
		{Name: "Extra 3 Days", DurationHours: 72, Price: 2100, Category: "daily", Active: true, CreatedBy: "seeder"},
		{Name: "Weekend Extension", DurationHours: 60, Price: 1800, Category: "package", Active: true, CreatedBy: "seeder"},
		{Name: "Extra Week", DurationHours: 168, Price: 4500, Category: "weekly", Active: true, CreatedBy: "seeder"},
	}

	// Get all existing topup names from database
	var existingNames []string
	if err := db.Model(&topup.Topup{}).Pluck("name", &existingNames).Error; err != nil {
		log.Printf("❌ Failed to fetch existing topup names: %v", err)
		return
	}

	existingNamesMap := make(map[string]bool)
	for _, name := range existingNames {
		existingNamesMap[name] = true
	}

	var missingTopups []topup.Topup
	for _, t := range topups {
		if !existingNamesMap[t.Name] {
			missingTopups = append(missingTopups, t)
		}
	}

	log.Printf("📊 Data integrity check:")
	log.Printf("   Expected topups: %d", len(topups))
	log.Printf("   Existing topups: %d", len(existingNames))
	log.Printf("   Missing topups: %d", len(missingTopups))

	if len(missingTopups) == 0 {
		log.Printf("✅ All topup offers are already present. No seeding needed.")
		return
	}

	log.Printf("🌱 Seeding %d missing topup offers...", len(missingTopups))

	successCount := 0
	failureCount := 0

	for _, t := range missingTopups {
		if err := db.Create(&t).Error; err != nil {
			log.Printf("❌ Failed to seed topup %s: %v", t.Name, err)
			failureCount++
		} else {
			log.Printf("✅ Added: %s (%d hours)", t.Name, t.DurationHours)
			successCount++
		}
	}

	log.Printf("🎉 Seeding completed! Successfully inserted %d topups, %d failures", successCount, failureCount)
}
