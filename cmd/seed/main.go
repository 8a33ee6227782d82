package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/AarneshKhaitan/SC2002-OODP/pkg/config"
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/database"
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/logger"
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/types"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	log.Info("Seeding database...")

	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		log.WithError(err).Error("Failed to connect to database")
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.CreateSchema(ctx); err != nil {
		log.WithError(err).Error("Failed to create schema")
		os.Exit(1)
	}

	gofakeit.Seed(time.Now().UnixNano())

	doctorIDs, err := seedUsers(ctx, db, log)
	if err != nil {
		log.WithError(err).Error("Failed to seed users")
		os.Exit(1)
	}
	if err := seedMedications(ctx, db, log); err != nil {
		log.WithError(err).Error("Failed to seed medications")
		os.Exit(1)
	}
	if err := seedCalendars(ctx, db, log, doctorIDs, cfg.Scheduling.WorkingDayStartHour, cfg.Scheduling.WorkingDayEndHour); err != nil {
		log.WithError(err).Error("Failed to seed doctor calendars")
		os.Exit(1)
	}

	log.Info("Seed complete")
}

// seedUsers inserts a small population of each role and returns the doctor ids
func seedUsers(ctx context.Context, db *database.DB, log *logger.Logger) ([]string, error) {
	counts := map[types.UserRole]int{
		types.RolePatient:       50,
		types.RoleDoctor:        10,
		types.RolePharmacist:    3,
		types.RoleAdministrator: 2,
	}

	var doctorIDs []string
	for role, count := range counts {
		for i := 0; i < count; i++ {
			id := uuid.New().String()
			name := gofakeit.Name()
			email := gofakeit.Email()

			_, err := db.ExecContext(ctx, `
				INSERT INTO users (id, name, email, role)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (email) DO NOTHING
			`, id, name, email, string(role))
			if err != nil {
				return nil, err
			}

			if role == types.RoleDoctor {
				doctorIDs = append(doctorIDs, id)
			}
		}
		log.Infof("Seeded %d %s users", count, role)
	}

	return doctorIDs, nil
}

// seedMedications inserts a fixed formulary with randomized stock levels
func seedMedications(ctx context.Context, db *database.DB, log *logger.Logger) error {
	names := []string{
		"Paracetamol",
		"Ibuprofen",
		"Amoxicillin",
		"Omeprazole",
		"Metformin",
		"Amlodipine",
		"Salbutamol",
		"Cetirizine",
		"Atorvastatin",
		"Prednisolone",
	}

	for _, name := range names {
		_, err := db.ExecContext(ctx, `
			INSERT INTO medications (id, name, current_stock, low_stock_alert)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (name) DO NOTHING
		`, uuid.New().String(), name, gofakeit.Number(20, 200), gofakeit.Number(10, 30))
		if err != nil {
			return err
		}
	}

	log.Infof("Seeded %d medications", len(names))
	return nil
}

// seedCalendars publishes hourly working slots for each doctor over the
// next seven days
func seedCalendars(ctx context.Context, db *database.DB, log *logger.Logger, doctorIDs []string, startHour, endHour int) error {
	day := time.Now().UTC().Truncate(24 * time.Hour)

	for _, doctorID := range doctorIDs {
		for d := 0; d < 7; d++ {
			date := day.AddDate(0, 0, d)
			for hour := startHour; hour < endHour; hour++ {
				slotStart := date.Add(time.Duration(hour) * time.Hour)

				_, err := db.ExecContext(ctx, `
					INSERT INTO doctor_calendars (doctor_id, slot_start)
					VALUES ($1, $2)
					ON CONFLICT (doctor_id, slot_start) DO NOTHING
				`, doctorID, slotStart)
				if err != nil {
					return err
				}
			}
		}
	}

	log.Infof("Seeded calendars for %d doctors", len(doctorIDs))
	return nil
}
