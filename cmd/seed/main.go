package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-SchedulingService/internal/config"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/lock"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	availabilityRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/availability"
	availabilityService "github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"
	createAppointmentUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

// Начальные ID, чтобы сгенерированные данные не пересекались с ручными
const (
	firstPractitionerID = 1000
	firstPatientID      = 5000
)

var (
	slotDurations    = []int{15, 20, 30, 45, 60}
	appointmentTypes = []string{"consultation", "follow-up", "check-up", "vaccination"}
	reasons          = []string{
		"головная боль",
		"повторный осмотр",
		"результаты анализов",
		"боль в спине",
		"плановая консультация",
		"продление рецепта",
	}
)

func main() {
	configPath := flag.String("config", "config.toml", "path to TOML config")
	practitioners := flag.Int("practitioners", 20, "number of practitioners")
	patients := flag.Int("patients", 200, "number of patients")
	appointments := flag.Int("appointments", 300, "appointments to try to book")
	days := flag.Int("days", 14, "book within this many days from today")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewWithWriter(os.Stderr, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	loc, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Invalid booking timezone %q: %v", cfg.Booking.Timezone, err)
	}
	// при сидировании записываем без ограничения по времени до начала
	rules := domain.BookingRules{Location: loc, AdvanceBookingDays: cfg.Booking.AdvanceBookingDays}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	wrappedDB := dbmetrics.New(db, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := wrappedDB.PingContext(ctx); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}

	gofakeit.Seed(time.Now().UnixNano())

	availabilityRepository := availabilityRepo.NewRepository(wrappedDB)
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	availabilitySvc := availabilityService.NewService(availabilityRepository, txMgr, log)
	slotsUseCase := getAvailableSlotsUC.NewUseCase(availabilityRepository, appointmentRepository, rules, log)
	bookUseCase := createAppointmentUC.NewUseCase(
		availabilityRepository, appointmentRepository, txMgr, lock.NoopLocker{}, nil, rules, log,
	)

	windows, err := seedAvailability(ctx, availabilitySvc, *practitioners)
	if err != nil {
		log.Fatal("Seed availability: %v", err)
	}
	log.Info("Seed: %d availability windows created for %d practitioners", windows, *practitioners)

	booked, err := seedAppointments(ctx, log, slotsUseCase, bookUseCase, *practitioners, *patients, *appointments, *days, loc)
	if err != nil {
		log.Fatal("Seed appointments: %v", err)
	}
	log.Info("Seed: %d of %d appointments booked", booked, *appointments)
}

// seedAvailability создает каждому специалисту окна на случайные рабочие дни
func seedAvailability(ctx context.Context, svc *availabilityService.Service, practitioners int) (int, error) {
	created := 0
	for i := 0; i < practitioners; i++ {
		ownerID := int64(firstPractitionerID + i)
		duration := slotDurations[gofakeit.Number(0, len(slotDurations)-1)]

		for day := time.Monday; day <= time.Saturday; day++ {
			// примерно каждый пятый день выходной
			if gofakeit.Number(1, 5) == 1 {
				continue
			}

			start := gofakeit.Number(8, 10)
			end := gofakeit.Number(15, 19)

			_, err := svc.Create(ctx, &models.CreateAvailabilityRequest{
				ActorID:             ownerID,
				OwnerID:             ownerID,
				DayOfWeek:           int(day),
				StartTime:           fmt.Sprintf("%d:00", start),
				EndTime:             fmt.Sprintf("%d:00", end),
				SlotDurationMinutes: duration,
			})
			if err != nil {
				// повторный запуск сида: окно уже есть
				if errors.Is(err, availabilityService.ErrAlreadyExists) {
					continue
				}
				return created, err
			}
			created++
		}
	}
	return created, nil
}

// seedAppointments записывает пациентов на случайные свободные слоты через тот же use case, что и API
func seedAppointments(
	ctx context.Context,
	log *logger.Logger,
	slotsUseCase *getAvailableSlotsUC.UseCase,
	bookUseCase *createAppointmentUC.UseCase,
	practitioners, patients, attempts, days int,
	loc *time.Location,
) (int, error) {
	today := time.Now().In(loc)
	booked := 0

	for i := 0; i < attempts; i++ {
		ownerID := int64(firstPractitionerID + gofakeit.Number(0, practitioners-1))
		date := today.AddDate(0, 0, gofakeit.Number(1, days))

		free, err := slotsUseCase.Execute(ctx, &getAvailableSlotsUC.Request{OwnerID: ownerID, Date: date})
		if err != nil {
			return booked, err
		}
		if len(free.Slots) == 0 {
			log.Debug("Seed: owner=%d has no free slots on %s", ownerID, date.Format(domain.DateFormat))
			continue
		}

		slot := free.Slots[gofakeit.Number(0, len(free.Slots)-1)]
		_, err = bookUseCase.Execute(ctx, &createAppointmentUC.Request{
			OwnerID:   ownerID,
			PatientID: int64(firstPatientID + gofakeit.Number(0, patients-1)),
			Date:      date,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			Type:      appointmentTypes[gofakeit.Number(0, len(appointmentTypes)-1)],
			Reason:    ptr.Ptr(reasons[gofakeit.Number(0, len(reasons)-1)]),
		})
		if err != nil {
			if errors.Is(err, domain.ErrConflict) {
				log.Debug("Seed: slot %s for owner=%d is already taken: %v", slot.StartTime, ownerID, err)
				continue
			}
			return booked, err
		}
		booked++
	}
	return booked, nil
}
