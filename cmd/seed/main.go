package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/arnela/gabinete-booking/internal/config"
	"github.com/arnela/gabinete-booking/internal/domain"
	"github.com/arnela/gabinete-booking/internal/infra/migrations"
	clientRepo "github.com/arnela/gabinete-booking/internal/infra/storage/client"
	employeeRepo "github.com/arnela/gabinete-booking/internal/infra/storage/employee"
	"github.com/arnela/gabinete-booking/pkg/dbmetrics"
	"github.com/arnela/gabinete-booking/pkg/logger"
	"github.com/arnela/gabinete-booking/pkg/ptr"
	"github.com/arnela/gabinete-booking/pkg/txmanager"
)

const batchSize = 500

// dniLetters контрольные буквы DNI по остатку от деления на 23
const dniLetters = "TRWAGMYFPDXBNJZSQVHLCKE"

var specialties = []string{
	"Psicología clínica",
	"Psicología infantil",
	"Terapia de pareja",
	"Neuropsicología",
	"Logopedia",
	"Psiquiatría",
}

func main() {
	employees := flag.Int("employees", 10, "number of employees to insert")
	clients := flag.Int("clients", 200, "number of clients to insert")
	linkUser := flag.String("link-user", "", "portal user id linked to the first client")
	flag.Parse()

	configPath := config.PathFromEnv("configs/agenda.toml")
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	if err := migrations.Up(cfg.Database.URL(), log); err != nil {
		log.Fatal("Failed to apply migrations: %v", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	wrapped := dbmetrics.Wrap(db, nil)
	txMgr := txmanager.NewTransactionManager(wrapped)
	employeeRepository := employeeRepo.NewRepository(wrapped)
	clientRepository := clientRepo.NewRepository(wrapped)

	faker := gofakeit.New(0)
	ctx := context.Background()

	start := time.Now()
	if err := seedEmployees(ctx, txMgr, employeeRepository, faker, *employees); err != nil {
		log.Fatal("Failed to seed employees: %v", err)
	}
	log.Info("Seeded %d employees", *employees)

	if err := seedClients(ctx, txMgr, clientRepository, faker, *clients, strings.TrimSpace(*linkUser), log); err != nil {
		log.Fatal("Failed to seed clients: %v", err)
	}
	log.Info("Seeded %d clients in %s", *clients, time.Since(start).Round(time.Millisecond))
}

func seedEmployees(ctx context.Context, txMgr *txmanager.TransactionManager, repo *employeeRepo.Repository, faker *gofakeit.Faker, count int) error {
	return txMgr.Do(ctx, func(ctx context.Context) error {
		for i := 0; i < count; i++ {
			e := &domain.Employee{
				ID:        uuid.NewString(),
				Name:      faker.FirstName() + " " + faker.LastName(),
				Specialty: specialties[faker.Number(0, len(specialties)-1)],
				IsActive:  faker.Number(1, 10) > 1,
			}
			if _, err := repo.Create(ctx, e); err != nil {
				return err
			}
		}
		return nil
	})
}

func seedClients(ctx context.Context, txMgr *txmanager.TransactionManager, repo *clientRepo.Repository, faker *gofakeit.Faker, count int, linkUser string, log *logger.Logger) error {
	// номера DNI идут подряд от случайной базы, чтобы не нарушать уникальность
	dniBase := faker.Number(0, 99999999-count)

	for offset := 0; offset < count; offset += batchSize {
		end := min(offset+batchSize, count)

		err := txMgr.Do(ctx, func(ctx context.Context) error {
			for i := offset; i < end; i++ {
				c := &domain.Client{
					ID:        uuid.NewString(),
					FirstName: faker.FirstName(),
					LastName:  faker.LastName(),
					DNI:       dni(dniBase + i),
					Email:     strings.ToLower(faker.Email()),
					Phone:     ptr.Ptr(faker.Phone()),
					IsActive:  true,
				}
				if i == 0 && linkUser != "" {
					c.UserID = ptr.Ptr(linkUser)
				}
				if _, err := repo.Create(ctx, c); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}

		log.Info("Clients seeded: %d/%d", end, count)
	}
	return nil
}

// dni 8 цифр и контрольная буква
func dni(n int) string {
	return fmt.Sprintf("%08d%c", n, dniLetters[n%23])
}
