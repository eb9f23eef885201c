package main

import (
	"fmt"
	"log"

	"github.com/construbase/invoicepipe/internal/config"
	"github.com/construbase/invoicepipe/internal/database"
	"github.com/construbase/invoicepipe/internal/models"
)

func main() {
	fmt.Println("🌱 invoicepipe Demo Data Seeder")

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("✅ Connected to database")

	// Run migrations first
	fmt.Println("🔨 Running database migrations...")
	err = db.AutoMigrate(
		&models.BcItem{},
		&models.PjProject{},
		&models.FnDocument{},
		&models.FnDocumentLn{},
		&models.IcMovement{},
		&models.IcPrice{},
	)
	if err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	fmt.Println("✅ Migrations complete")

	tenant := cfg.TenantID

	// Check if data already exists
	var itemCount int64
	db.Model(&models.BcItem{}).Where(`"DatabaseID" = ?`, tenant).Count(&itemCount)
	if itemCount > 0 {
		fmt.Printf("⚠️  Tenant %s already has %d catalog items. Clear them first? (y/N): ", tenant, itemCount)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("❌ Aborted. Database not modified.")
			return
		}
		db.Where(`"DatabaseID" = ?`, tenant).Delete(&models.BcItem{})
		db.Where(`"DatabaseID" = ?`, tenant).Delete(&models.PjProject{})
		fmt.Println("✅ Data cleared")
	}

	fmt.Println("📦 Creating demo catalog...")
	items := []models.BcItem{
		{ItemID: "ITEM001", DatabaseID: tenant, ItCode: "GCP", CabysID: "2395100000100", ItTitle: "Cemento Gris Uso General 50kg"},
		{ItemID: "ITEM002", DatabaseID: tenant, ItCode: "VAR12", CabysID: "2410200000500", ItTitle: "Varilla Deformada #4 12mm x 6m"},
		{ItemID: "ITEM003", DatabaseID: tenant, ItCode: "BLK15", CabysID: "2395200000200", ItTitle: "Bloque de Concreto 15x20x40"},
		{ItemID: "ITEM004", DatabaseID: tenant, ItCode: "ARE01", CabysID: "1531000000100", ItTitle: "Arena de Rio Lavada m3"},
		{ItemID: "ITEM005", DatabaseID: tenant, ItCode: "PIE01", CabysID: "1532000000100", ItTitle: "Piedra Quintilla m3"},
	}
	if err := db.Create(&items).Error; err != nil {
		log.Fatalf("❌ Failed to seed catalog: %v", err)
	}
	fmt.Printf("   %d items\n", len(items))

	fmt.Println("🏗️  Creating demo projects...")
	projects := []models.PjProject{
		{ProjectID: "PRJ001", DatabaseID: tenant, PjTitle: "Condominio Vista Mar", PjAddress: "Carretera a Punta Leona, Garabito, Puntarenas"},
		{ProjectID: "PRJ002", DatabaseID: tenant, PjTitle: "Torre Sabana Norte", PjAddress: "Avenida Las Americas, Sabana Norte, San Jose"},
	}
	if err := db.Create(&projects).Error; err != nil {
		log.Fatalf("❌ Failed to seed projects: %v", err)
	}
	fmt.Printf("   %d projects\n", len(projects))

	fmt.Println("✅ Demo data ready")
}
