package http

import (
	"log/slog"

	"github.com/cmlabs-hris/hris-engine/internal/domain/user"
	"github.com/cmlabs-hris/hris-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/i18n"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Handlers groups the engine handlers mounted under /api/v1.
type Handlers struct {
	Attendance AttendanceHandler
	Leave      LeaveHandler
	Payroll    PayrollHandler
	Interview  InterviewHandler
	Employee   EmployeeHandler
}

func NewRouter(logger *slog.Logger, allowedOrigins []string, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Language"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(i18n.Middleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired)

		r.Route("/attendance", func(r chi.Router) {
			// Self-service
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionAttendanceCreate))
				r.Use(middleware.RequireEmployee)
				r.Post("/clock-in", h.Attendance.ClockIn)
				r.Post("/clock-out", h.Attendance.ClockOut)
				r.Post("/breaks", h.Attendance.AddBreak)
				r.Get("/today", h.Attendance.Today)
			})

			r.With(middleware.RequirePermission(user.PermissionAttendanceManage)).Post("/manual", h.Attendance.ManualEntry)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAnyPermission(user.PermissionAttendanceViewOwn, user.PermissionAttendanceViewAll))
				r.Get("/", h.Attendance.List)
				r.Get("/summary", h.Attendance.Summary)
				r.Get("/{id}", h.Attendance.Get)
			})
		})

		r.Route("/leave", func(r chi.Router) {
			r.With(middleware.RequireAnyPermission(user.PermissionLeaveViewOwn, user.PermissionLeaveViewAll)).Get("/balance", h.Leave.GetBalance)

			r.Route("/requests", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionLeaveCreate), middleware.RequireEmployee).Post("/", h.Leave.CreateRequest)
				r.With(middleware.RequirePermission(user.PermissionLeaveApprove)).Post("/{id}/decision", h.Leave.DecideRequest)

				// Ownership is checked by the leave service
				r.Put("/{id}", h.Leave.UpdateRequest)
				r.Post("/{id}/cancel", h.Leave.CancelRequest)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAnyPermission(user.PermissionLeaveViewOwn, user.PermissionLeaveViewAll))
					r.Get("/", h.Leave.ListRequests)
					r.Get("/{id}", h.Leave.GetRequest)
				})
			})
		})

		r.Route("/payroll", func(r chi.Router) {
			r.Use(middleware.RequirePermission(user.PermissionPayrollManage))

			r.Post("/calculate", h.Payroll.Calculate)
			r.Post("/generate", h.Payroll.GeneratePayroll)
			r.Get("/summary", h.Payroll.GetPayrollSummary)

			r.Post("/", h.Payroll.CreatePayrollRecord)
			r.Get("/", h.Payroll.ListPayrollRecords)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Payroll.GetPayrollRecord)
				r.Put("/", h.Payroll.UpdatePayrollRecord)
				r.Delete("/", h.Payroll.DeletePayrollRecord)
				r.Get("/payslip", h.Payroll.GetPayslip)
				r.Post("/submit", h.Payroll.SubmitPayroll)
				r.Post("/approve", h.Payroll.ApprovePayroll)
				r.Post("/pay", h.Payroll.MarkPaid)
			})
		})

		r.Route("/interviews", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionInterviewView))
				r.Get("/", h.Interview.List)
				r.Get("/conflicts", h.Interview.CheckConflict)
				r.Get("/available-interviewers", h.Interview.AvailableInterviewers)
				r.Get("/{id}", h.Interview.Get)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionInterviewManage))
				r.Post("/", h.Interview.Schedule)
				r.Post("/{id}/reschedule", h.Interview.Reschedule)
				r.Post("/{id}/status", h.Interview.UpdateStatus)
			})

			r.With(middleware.RequirePermission(user.PermissionInterviewFeedback)).Post("/{id}/feedback", h.Interview.SubmitFeedback)
		})

		r.Route("/employees", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionEmployeeViewAll))
				r.Get("/", h.Employee.ListEmployees)
				r.Get("/{id}", h.Employee.GetEmployee)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionEmployeeManage))
				r.Post("/", h.Employee.CreateEmployee)
				r.Put("/{id}", h.Employee.UpdateEmployee)
			})
		})
	})

	return r
}
