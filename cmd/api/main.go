package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/chronopointe/pointage-go/internal/config"
	appHTTP "github.com/chronopointe/pointage-go/internal/handler/http"
	"github.com/chronopointe/pointage-go/internal/pkg/cron"
	"github.com/chronopointe/pointage-go/internal/pkg/database"
	"github.com/chronopointe/pointage-go/internal/pkg/jwt"
	"github.com/chronopointe/pointage-go/internal/pkg/sse"
	"github.com/chronopointe/pointage-go/internal/repository/postgresql"
	anomalyService "github.com/chronopointe/pointage-go/internal/service/anomaly"
	authService "github.com/chronopointe/pointage-go/internal/service/auth"
	punchService "github.com/chronopointe/pointage-go/internal/service/punch"
	"github.com/chronopointe/pointage-go/internal/service/recon"
	reportService "github.com/chronopointe/pointage-go/internal/service/report"
	shiftService "github.com/chronopointe/pointage-go/internal/service/shift"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	punchRepo := postgresql.NewPunchRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	anomalyRepo := postgresql.NewAnomalyRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)

	jwtSvc := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.BadgeExpiration)
	hub := sse.NewHub()

	shiftSvc := shiftService.NewShiftService(shiftRepo, cfg.Recon.DefaultTargetMinutes)
	engine := recon.NewEngine(shiftSvc, recon.Config{
		ToleranceMinutes:     cfg.Recon.ToleranceMinutes,
		OvertimeAlertMinutes: cfg.Recon.OvertimeAlertMinutes,
		UnplannedMinMinutes:  cfg.Recon.UnplannedMinMinutes,
		EscalationMinutes:    recon.DefaultConfig().EscalationMinutes,
	})
	reconSvc := recon.NewReconService(engine, punchRepo, shiftSvc, anomalyRepo, hub,
		func(ctx context.Context, fn func(ctx context.Context) error) error {
			return postgresql.WithTransaction(ctx, db, fn)
		})
	punchSvc := punchService.NewPunchService(punchRepo, employeeRepo, jwtSvc)
	anomalySvc := anomalyService.NewAnomalyService(anomalyRepo)
	reportSvc := reportService.NewReportService(employeeRepo, reconSvc)
	authSvc := authService.NewAuthService(employeeRepo, jwtSvc)

	scheduler := cron.NewScheduler()
	cron.NewReconcileJobs(employeeRepo, reconSvc).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	authHandler := appHTTP.NewAuthHandler(authSvc)
	punchHandler := appHTTP.NewPunchHandler(punchSvc, reconSvc)
	shiftHandler := appHTTP.NewShiftHandler(shiftSvc)
	anomalyHandler := appHTTP.NewAnomalyHandler(anomalySvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)
	eventsHandler := appHTTP.NewEventsHandler(hub, jwtSvc)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Env:         cfg.App.Env,
			FrontendURL: cfg.App.FrontendURL,
		},
		jwtSvc,
		authHandler,
		punchHandler,
		shiftHandler,
		anomalyHandler,
		reportHandler,
		eventsHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Pointage API running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
