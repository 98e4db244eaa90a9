package config

import (
	"log"

	"nirman-fieldworks/internal/adapters/persistence/models"
	"nirman-fieldworks/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders. Intended for development mode only; production
// accounts and proposals come in through the admin flows.
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}
	if err := s.seedSampleProposals(); err != nil {
		log.Printf("⚠️ Proposal seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds a default admin account
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", "ADMIN").Count(&count)
	if count > 0 {
		return nil
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:       "Site Administrator",
		Email:      "admin@nirman.local",
		Password:   hashedPassword,
		Role:       "ADMIN",
		Department: "Public Works",
		IsActive:   true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}
	log.Println("🌱 Seeded default admin user (admin@nirman.local)")
	return nil
}

// seedSampleProposals seeds a few work proposals so a fresh install has
// something to render in the app.
func (s *Seeder) seedSampleProposals() error {
	var count int64
	s.db.Model(&models.WorkProposal{}).Count(&count)
	if count > 0 {
		return nil
	}

	samples := []models.WorkProposal{
		{
			NameOfWork:       "CC Road Construction - Ward 12",
			Description:      "Cement concrete road from main chowk to school",
			CurrentStatus:    models.StatusWorkInProgress,
			Location:         "Ward 12, Raipur",
			WorkAgency:       "Public Works Department",
			SanctionedAmount: 2500000,
		},
		{
			NameOfWork:       "Community Hall Renovation",
			Description:      "Roof repair and flooring for the panchayat hall",
			CurrentStatus:    models.StatusPendingTechnicalApproval,
			Location:         "Gram Panchayat Dharsiwa",
			WorkAgency:       "Rural Engineering Services",
			SanctionedAmount: 850000,
		},
		{
			NameOfWork:       "Drainage Line - Sector 4",
			Description:      "Storm water drainage along the market road",
			CurrentStatus:    models.StatusPendingTender,
			Location:         "Sector 4, Raipur",
			WorkAgency:       "Municipal Corporation",
			SanctionedAmount: 1200000,
		},
	}

	if err := s.db.Create(&samples).Error; err != nil {
		return err
	}
	log.Printf("🌱 Seeded %d sample work proposals", len(samples))
	return nil
}

// SeedDevData runs seeders when in development mode
func SeedDevData(db *gorm.DB, cfg *Config) error {
	if !cfg.IsDev() {
		return nil
	}
	return NewSeeder(db).Run()
}
