package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-engine/internal/domain/user"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/i18n"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/messaging"
	"github.com/cmlabs-hris/hris-engine/internal/repository/memory"
	attendanceService "github.com/cmlabs-hris/hris-engine/internal/service/attendance"
	employeeService "github.com/cmlabs-hris/hris-engine/internal/service/employee"
	interviewService "github.com/cmlabs-hris/hris-engine/internal/service/interview"
	leaveService "github.com/cmlabs-hris/hris-engine/internal/service/leave"
	payrollService "github.com/cmlabs-hris/hris-engine/internal/service/payroll"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type testEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Meta *struct {
		Page       int   `json:"page"`
		TotalItems int64 `json:"total_items"`
	} `json:"meta"`
}

type testServer struct {
	handler http.Handler
	jwt     *jwt.JWTService
	clock   *clock.Fixed
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	require.NoError(t, i18n.Init("en"))

	logger := slog.New(slog.DiscardHandler)
	clk := clock.NewFixed(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	events := messaging.NewRecorder(64)
	store := memory.NewStore()

	employeeRepo := memory.NewEmployeeRepository(store)
	attendanceRepo := memory.NewAttendanceRepository(store)
	leaveRepo := memory.NewLeaveRequestRepository(store)
	payrollRepo := memory.NewPayrollRepository(store)
	interviewRepo := memory.NewInterviewRepository(store)

	jwtService := jwt.NewJWTService(handlerTestSecret, time.Hour)
	handlers := Handlers{
		Attendance: NewAttendanceHandler(attendanceService.NewAttendanceService(attendanceRepo, attendance.DefaultPolicy(), events, clk, logger), time.UTC),
		Leave:      NewLeaveHandler(leaveService.NewLeaveService(leaveRepo, leave.DefaultAllocations(), events, clk, logger), time.UTC),
		Payroll: NewPayrollHandler(payrollService.NewPayrollService(
			payrollRepo, employeeRepo, attendanceRepo, leaveRepo, payroll.DefaultRules(), events, clk, logger,
		)),
		Interview: NewInterviewHandler(interviewService.NewInterviewService(interviewRepo, employeeRepo, events, clk, logger), time.UTC),
		Employee:  NewEmployeeHandler(employeeService.NewEmployeeService(employeeRepo, clk, logger)),
	}

	return &testServer{
		handler: NewRouter(logger, []string{"http://localhost:3000"}, jwtService, handlers),
		jwt:     jwtService,
		clock:   clk,
	}
}

func (s *testServer) token(t *testing.T, actor user.Actor) string {
	t.Helper()
	token, _, err := s.jwt.GenerateAccessToken(actor, actor.UserID+"@example.com")
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any, headers ...string) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env testEnvelope
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

var (
	hrActor       = user.Actor{UserID: "user-hr", EmployeeID: "emp-hr", Role: user.RoleHR}
	managerActor  = user.Actor{UserID: "user-mgr", EmployeeID: "emp-mgr", Role: user.RoleManager}
	employeeActor = user.Actor{UserID: "user-1", EmployeeID: "emp-1", Role: user.RoleEmployee}
)

func TestRouter_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/api/v1/attendance/today", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	other := jwt.NewJWTService("another-secret", time.Hour)
	forged, _, err := other.GenerateAccessToken(hrActor, "hr@example.com")
	require.NoError(t, err)
	rec, _ = s.do(t, http.MethodGet, "/api/v1/attendance/today", forged, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_Heartbeat(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAttendance_ClockInTwiceIsConflict(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, employeeActor)

	rec, env := s.do(t, http.MethodPost, "/api/v1/attendance/clock-in", token, map[string]string{"method": "web", "location": "HQ"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, env.Success)

	var record attendance.Attendance
	require.NoError(t, json.Unmarshal(env.Data, &record))
	assert.Equal(t, "emp-1", record.EmployeeID)

	rec, env = s.do(t, http.MethodPost, "/api/v1/attendance/clock-in", token, map[string]string{"method": "web"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ALREADY_CLOCKED_IN", env.Error.Code)
	assert.Equal(t, "You have already clocked in today.", env.Error.Message)

	rec, env = s.do(t, http.MethodPost, "/api/v1/attendance/clock-in", token, map[string]string{"method": "web"}, "Accept-Language", "id-ID")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "id", rec.Header().Get("Content-Language"))
	assert.Equal(t, "Anda sudah melakukan clock-in hari ini.", env.Error.Message)
}

func TestAttendance_ClockOutWithoutClockIn(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodPost, "/api/v1/attendance/clock-out", s.token(t, employeeActor), map[string]string{"method": "web"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "NO_CLOCK_IN_FOUND", env.Error.Code)
}

func TestAttendance_RequiresEmployeeProfile(t *testing.T) {
	s := newTestServer(t)
	owner := user.Actor{UserID: "user-owner", Role: user.RoleOwner}

	rec, env := s.do(t, http.MethodPost, "/api/v1/attendance/clock-in", s.token(t, owner), map[string]string{"method": "web"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)
}

func TestAttendance_RecordsAreScopedToOwner(t *testing.T) {
	s := newTestServer(t)

	_, env := s.do(t, http.MethodPost, "/api/v1/attendance/clock-in", s.token(t, employeeActor), map[string]string{"method": "web"})
	var record attendance.Attendance
	require.NoError(t, json.Unmarshal(env.Data, &record))

	other := user.Actor{UserID: "user-2", EmployeeID: "emp-2", Role: user.RoleEmployee}
	rec, _ := s.do(t, http.MethodGet, "/api/v1/attendance/"+record.ID, s.token(t, other), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/attendance?employee_id=emp-1", s.token(t, other), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = s.do(t, http.MethodGet, "/api/v1/attendance?employee_id=emp-1", s.token(t, managerActor), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(1), env.Meta.TotalItems)
}

func TestAttendance_ManualEntryNeedsManagePermission(t *testing.T) {
	s := newTestServer(t)
	body := map[string]any{
		"employee_id": "emp-1",
		"date":        "2024-02-29",
		"action":      "checkIn",
		"timestamp":   time.Date(2024, 2, 29, 8, 55, 0, 0, time.UTC),
		"reason":      "badge reader offline",
	}

	rec, _ := s.do(t, http.MethodPost, "/api/v1/attendance/manual", s.token(t, employeeActor), body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env := s.do(t, http.MethodPost, "/api/v1/attendance/manual", s.token(t, managerActor), body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var record attendance.Attendance
	require.NoError(t, json.Unmarshal(env.Data, &record))
	assert.Equal(t, "emp-1", record.EmployeeID)
}

func TestAttendance_SummaryRejectsBadDates(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/api/v1/attendance/summary?from=01-02-2024&to=2024-02-29", s.token(t, employeeActor), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Error.Details, "from")
}

func TestLeave_SubmitDecideAndBalance(t *testing.T) {
	s := newTestServer(t)
	employeeToken := s.token(t, employeeActor)

	rec, env := s.do(t, http.MethodPost, "/api/v1/leave/requests", employeeToken, map[string]any{"leave_type": "annual"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Details, "start_date")

	rec, env = s.do(t, http.MethodPost, "/api/v1/leave/requests", employeeToken, map[string]any{
		"leave_type": "annual",
		"start_date": "2024-03-04",
		"end_date":   "2024-03-05",
		"reason":     "family trip",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var request leave.LeaveRequest
	require.NoError(t, json.Unmarshal(env.Data, &request))
	assert.Equal(t, leave.LeaveRequestStatusPending, request.Status)

	decision := map[string]string{"status": "approved", "comments": "enjoy"}
	rec, _ = s.do(t, http.MethodPost, "/api/v1/leave/requests/"+request.ID+"/decision", employeeToken, decision)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = s.do(t, http.MethodPost, "/api/v1/leave/requests/"+request.ID+"/decision", s.token(t, managerActor), decision)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, &request))
	assert.Equal(t, leave.LeaveRequestStatusApproved, request.Status)

	rec, env = s.do(t, http.MethodPost, "/api/v1/leave/requests/"+request.ID+"/decision", s.token(t, managerActor), decision)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "INVALID_TRANSITION", env.Error.Code)

	rec, env = s.do(t, http.MethodGet, "/api/v1/leave/balance?year=2024", employeeToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var balance leave.Balance
	require.NoError(t, json.Unmarshal(env.Data, &balance))
	assert.Equal(t, "emp-1", balance.EmployeeID)
	for _, entry := range balance.Entries {
		if entry.LeaveType == leave.LeaveTypeAnnual {
			assert.Equal(t, request.TotalDays, entry.Used)
			assert.Equal(t, entry.Allocated-entry.Used, entry.Remaining)
		}
	}
}

func TestLeave_OnlyOwnerCanUpdate(t *testing.T) {
	s := newTestServer(t)

	_, env := s.do(t, http.MethodPost, "/api/v1/leave/requests", s.token(t, employeeActor), map[string]any{
		"leave_type": "sick",
		"start_date": "2024-03-04",
		"end_date":   "2024-03-04",
		"reason":     "flu",
	})
	var request leave.LeaveRequest
	require.NoError(t, json.Unmarshal(env.Data, &request))

	rec, env := s.do(t, http.MethodPut, "/api/v1/leave/requests/"+request.ID, s.token(t, hrActor), map[string]any{"reason": "edited"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/leave/requests/does-not-exist", s.token(t, hrActor), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPayroll_RequiresPayrollPermission(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/api/v1/payroll", s.token(t, managerActor), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "payroll.manage", env.Error.Details["required"])

	rec, _ = s.do(t, http.MethodGet, "/api/v1/payroll", s.token(t, hrActor), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func createEmployee(t *testing.T, s *testServer, code string, canInterview bool) string {
	t.Helper()
	rec, env := s.do(t, http.MethodPost, "/api/v1/employees", s.token(t, hrActor), map[string]any{
		"employee_code": code,
		"full_name":     "Employee " + code,
		"email":         code + "@example.com",
		"department":    "Engineering",
		"position":      "Engineer",
		"role":          "employee",
		"base_salary":   "50000",
		"can_interview": canInterview,
		"hire_date":     "2023-01-02",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	return created.ID
}

func TestPayroll_CalculateCreateAndLock(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, hrActor)
	employeeID := createEmployee(t, s, "EMP-100", false)

	rec, env := s.do(t, http.MethodPost, "/api/v1/payroll/calculate", token, map[string]any{
		"employee_id":  employeeID,
		"month":        2,
		"year":         2024,
		"working_days": 20,
		"present_days": 20,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var draft payroll.Draft
	require.NoError(t, json.Unmarshal(env.Data, &draft))

	rec, env = s.do(t, http.MethodPost, "/api/v1/payroll", token, map[string]any{
		"employee_id": employeeID,
		"month":       2,
		"year":        2024,
		"salary":      draft.Salary,
		"attendance":  draft.Attendance,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var record payroll.PayrollRecord
	require.NoError(t, json.Unmarshal(env.Data, &record))

	rec, env = s.do(t, http.MethodPost, "/api/v1/payroll", token, map[string]any{
		"employee_id": employeeID,
		"month":       2,
		"year":        2024,
		"salary":      draft.Salary,
		"attendance":  draft.Attendance,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "DUPLICATE_RECORD", env.Error.Code)

	for _, step := range []string{"submit", "approve"} {
		rec, _ = s.do(t, http.MethodPost, "/api/v1/payroll/"+record.ID+"/"+step, token, nil)
		require.Equal(t, http.StatusOK, rec.Code, step)
	}
	rec, _ = s.do(t, http.MethodPost, "/api/v1/payroll/"+record.ID+"/pay", token, map[string]string{"method": "bank_transfer"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env = s.do(t, http.MethodPut, "/api/v1/payroll/"+record.ID, token, map[string]string{"notes": "late change"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "PAYROLL_LOCKED", env.Error.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/payroll/"+record.ID+"/payslip", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEmployees_DuplicateCode(t *testing.T) {
	s := newTestServer(t)
	createEmployee(t, s, "EMP-200", false)

	rec, env := s.do(t, http.MethodPost, "/api/v1/employees", s.token(t, hrActor), map[string]any{
		"employee_code": "EMP-200",
		"full_name":     "Someone Else",
		"email":         "someone@example.com",
		"department":    "Finance",
		"position":      "Analyst",
		"role":          "employee",
		"hire_date":     "2023-01-02",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "The employee code is already in use.", env.Error.Message)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/employees", s.token(t, managerActor), map[string]any{})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestInterviews_ConflictDetection(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, hrActor)
	interviewerID := createEmployee(t, s, "EMP-300", true)

	slot := map[string]any{
		"candidate_id":     "cand-1",
		"candidate_name":   "Candidate One",
		"position":         "Backend Engineer",
		"interviewer_id":   interviewerID,
		"type":             "video",
		"date":             "2024-03-05",
		"time":             "10:00",
		"duration_minutes": 60,
	}
	rec, _ := s.do(t, http.MethodPost, "/api/v1/interviews", token, slot)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, env := s.do(t, http.MethodGet, "/api/v1/interviews/conflicts?interviewer_id="+interviewerID+"&date=2024-03-05&time=10:30&duration_minutes=30", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result map[string]bool
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.True(t, result["has_conflict"])

	slot["candidate_id"] = "cand-2"
	slot["time"] = "10:30"
	rec, env = s.do(t, http.MethodPost, "/api/v1/interviews", token, slot)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "INTERVIEWER_UNAVAILABLE", env.Error.Code)

	rec, env = s.do(t, http.MethodGet, "/api/v1/interviews/available-interviewers?date=2024-03-05&time=11:00&duration_minutes=30", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var available []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &available))
	require.Len(t, available, 1)
	assert.Equal(t, interviewerID, available[0].ID)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/interviews", s.token(t, employeeActor), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
