package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v3"
	"golang.org/x/sync/errgroup"

	"github.com/cmlabs-hris/hris-engine/internal/config"
	"github.com/cmlabs-hris/hris-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-engine/internal/domain/interview"
	"github.com/cmlabs-hris/hris-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-engine/internal/domain/payroll"
	appHTTP "github.com/cmlabs-hris/hris-engine/internal/handler/http"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/database"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/email"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/i18n"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/messaging"
	"github.com/cmlabs-hris/hris-engine/internal/repository/memory"
	"github.com/cmlabs-hris/hris-engine/internal/repository/mongodb"
	"github.com/cmlabs-hris/hris-engine/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-engine/internal/service/attendance"
	employeeService "github.com/cmlabs-hris/hris-engine/internal/service/employee"
	interviewService "github.com/cmlabs-hris/hris-engine/internal/service/interview"
	leaveService "github.com/cmlabs-hris/hris-engine/internal/service/leave"
	payrollService "github.com/cmlabs-hris/hris-engine/internal/service/payroll"
)

const (
	appName    = "hris-engine"
	appVersion = "v1.0.0"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Server error:", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "development")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", appName),
		slog.String("version", appVersion),
		slog.String("env", cfg.App.Env),
	)
}

type repositories struct {
	employee   employee.EmployeeRepository
	attendance attendance.AttendanceRepository
	leave      leave.LeaveRequestRepository
	payroll    payroll.PayrollRepository
	interview  interview.InterviewRepository
	close      func(ctx context.Context) error
}

func openRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repositories, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return repositories{}, err
		}
		if err := postgresql.Migrate(ctx, db); err != nil {
			db.Close()
			return repositories{}, err
		}
		logger.Info("Connected to PostgreSQL", "host", cfg.Database.Host, "database", cfg.Database.Name)
		return repositories{
			employee:   postgresql.NewEmployeeRepository(db),
			attendance: postgresql.NewAttendanceRepository(db),
			leave:      postgresql.NewLeaveRequestRepository(db),
			payroll:    postgresql.NewPayrollRepository(db),
			interview:  postgresql.NewInterviewRepository(db),
			close: func(context.Context) error {
				db.Close()
				return nil
			},
		}, nil

	case config.DriverMongoDB:
		db, err := database.NewMongoDB(ctx, cfg.Database.MongoURI, cfg.Database.MongoName)
		if err != nil {
			return repositories{}, err
		}
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = db.Close(ctx)
			return repositories{}, err
		}
		logger.Info("Connected to MongoDB", "database", cfg.Database.MongoName)
		return repositories{
			employee:   mongodb.NewEmployeeRepository(db),
			attendance: mongodb.NewAttendanceRepository(db),
			leave:      mongodb.NewLeaveRequestRepository(db),
			payroll:    mongodb.NewPayrollRepository(db),
			interview:  mongodb.NewInterviewRepository(db),
			close:      db.Close,
		}, nil

	default:
		logger.Warn("Using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		return repositories{
			employee:   memory.NewEmployeeRepository(store),
			attendance: memory.NewAttendanceRepository(store),
			leave:      memory.NewLeaveRequestRepository(store),
			payroll:    memory.NewPayrollRepository(store),
			interview:  memory.NewInterviewRepository(store),
			close:      func(context.Context) error { return nil },
		}, nil
	}
}

func newPublisher(cfg *config.Config, logger *slog.Logger) (messaging.Publisher, error) {
	if cfg.RabbitMQ.URL == "" {
		logger.Info("RABBITMQ_URL not set; domain events are discarded")
		return messaging.Noop{}, nil
	}
	return messaging.NewRabbitMQ(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, appName, logger)
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := i18n.Init(cfg.App.DefaultLocale); err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	policy, err := cfg.AttendancePolicy()
	if err != nil {
		return err
	}
	rules, err := cfg.PayrollRules()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := repos.close(closeCtx); err != nil {
			logger.Error("Failed to close storage", "error", err)
		}
	}()

	publisher, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}
	if cfg.SMTP.Host != "" {
		mailer, err := email.NewEmailService(cfg.SMTP, logger)
		if err != nil {
			_ = publisher.Close()
			return err
		}
		publisher = email.NewReminderMailer(publisher, mailer, repos.employee, logger)
	}
	defer publisher.Close()

	clk := clock.New(loc)

	attendanceSvc := attendanceService.NewAttendanceService(repos.attendance, policy, publisher, clk, logger)
	leaveSvc := leaveService.NewLeaveService(repos.leave, cfg.LeaveAllocations(), publisher, clk, logger)
	payrollSvc := payrollService.NewPayrollService(
		repos.payroll,
		repos.employee,
		repos.attendance,
		repos.leave,
		rules,
		publisher,
		clk,
		logger,
	)
	interviewSvc := interviewService.NewInterviewService(repos.interview, repos.employee, publisher, clk, logger)
	employeeSvc := employeeService.NewEmployeeService(repos.employee, clk, logger)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	router := appHTTP.NewRouter(logger, cfg.Origins(), JWTService, appHTTP.Handlers{
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc, loc),
		Leave:      appHTTP.NewLeaveHandler(leaveSvc, loc),
		Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
		Interview:  appHTTP.NewInterviewHandler(interviewSvc, loc),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
	})

	scheduler := cron.NewScheduler(logger)
	cron.NewInterviewJobs(interviewSvc, cfg.Interview.ReminderLead, logger).
		RegisterJobs(scheduler, cfg.Interview.ReminderInterval)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server running", "addr", server.Addr, "driver", cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		scheduler.Start(gctx)
		<-gctx.Done()
		scheduler.Stop()
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		logger.Info("Shutting down server")
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
