package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-engine/internal/domain/leave"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("ATTENDANCE_LATE_GRACE_MINUTES", "5")
	t.Setenv("PAYROLL_TAX_RATE", "0.15")
	t.Setenv("INTERVIEW_REMINDER_LEAD", "2h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "Asia/Jakarta", cfg.App.Timezone)
	assert.Equal(t, time.Hour, cfg.JWT.AccessExpiration)
	assert.Equal(t, 2*time.Hour, cfg.Interview.ReminderLead)

	policy, err := cfg.AttendancePolicy()
	require.NoError(t, err)
	assert.Equal(t, 9*time.Hour, policy.WorkdayStart)
	assert.Equal(t, 17*time.Hour, policy.WorkdayEnd)
	assert.Equal(t, 5*time.Minute, policy.LateGrace)

	rules, err := cfg.PayrollRules()
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.15").Equal(rules.TaxRate))
	assert.True(t, decimal.RequireFromString("0.4").Equal(rules.HRARate))
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
database:
  driver: memory
leave:
  allocations:
    annual: 25
    sabbatical: 30
`), 0o600))

	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("CONFIG_FILE", file)

	cfg, err := Load()
	require.NoError(t, err)

	alloc := cfg.LeaveAllocations()
	assert.Equal(t, 25.0, alloc[leave.LeaveTypeAnnual])
	assert.Equal(t, 10.0, alloc[leave.LeaveTypeSick])
	assert.Equal(t, 30.0, alloc[leave.LeaveType("sabbatical")])
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:        AppConfig{Timezone: "UTC"},
			Database:   DatabaseConfig{Driver: DriverPostgres, Password: "pw"},
			JWT:        JWTConfig{Secret: "secret"},
			Attendance: AttendanceConfig{WorkdayStart: "09:00", WorkdayEnd: "17:00"},
			Payroll: PayrollConfig{
				HRARate: "0.4", Medical: "2000", Transport: "1500", Food: "1000",
				TaxRate: "0.1", ProvidentFundRate: "0.12", Insurance: "500", OvertimeMultiplier: "1.5",
			},
			Interview: InterviewConfig{ReminderInterval: time.Minute},
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"missing secret", func(c *Config) { c.JWT.Secret = "" }, "JWT_SECRET_KEY"},
		{"postgres without password", func(c *Config) { c.Database.Password = "" }, "DB_PASSWORD"},
		{"mongodb without uri", func(c *Config) { c.Database.Driver = DriverMongoDB }, "MONGODB_URI"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "sqlite" }, "DB_DRIVER"},
		{"bad timezone", func(c *Config) { c.App.Timezone = "Mars/Base" }, "APP_TIMEZONE"},
		{"inverted workday", func(c *Config) { c.Attendance.WorkdayEnd = "08:00" }, "ATTENDANCE_WORKDAY_END"},
		{"negative rate", func(c *Config) { c.Payroll.TaxRate = "-0.1" }, "PAYROLL_TAX_RATE"},
		{"smtp without sender", func(c *Config) { c.SMTP.Host = "smtp.example.com" }, "SMTP_FROM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestOrigins(t *testing.T) {
	c := &Config{App: AppConfig{AllowedOrigins: "http://a.test, http://b.test,,"}}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.Origins())
}
