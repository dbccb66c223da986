package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/cmlabs-hris/hris-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/calendar"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Database   DatabaseConfig   `mapstructure:"database"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	RabbitMQ   RabbitMQConfig   `mapstructure:"rabbitmq"`
	Attendance AttendanceConfig `mapstructure:"attendance"`
	Payroll    PayrollConfig    `mapstructure:"payroll"`
	Leave      LeaveConfig      `mapstructure:"leave"`
	Interview  InterviewConfig  `mapstructure:"interview"`
	SMTP       SMTPConfig       `mapstructure:"smtp"`
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int    `mapstructure:"port"`
	Env            string `mapstructure:"env"`
	LogLevel       string `mapstructure:"log_level"`
	Timezone       string `mapstructure:"timezone"`
	DefaultLocale  string `mapstructure:"default_locale"`
	AllowedOrigins string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Driver    string `mapstructure:"driver"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	User      string `mapstructure:"user"`
	Password  string `mapstructure:"password"`
	Name      string `mapstructure:"name"`
	SSLMode   string `mapstructure:"ssl_mode"`
	MongoURI  string `mapstructure:"mongo_uri"`
	MongoName string `mapstructure:"mongo_name"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string        `mapstructure:"secret"`
	AccessExpiration time.Duration `mapstructure:"access_expiration"`
}

type RabbitMQConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

type AttendanceConfig struct {
	WorkdayStart     string `mapstructure:"workday_start"`
	WorkdayEnd       string `mapstructure:"workday_end"`
	LateGraceMinutes int    `mapstructure:"late_grace_minutes"`
}

// PayrollConfig keeps amounts as strings so they parse exactly.
type PayrollConfig struct {
	HRARate            string `mapstructure:"hra_rate"`
	Medical            string `mapstructure:"medical"`
	Transport          string `mapstructure:"transport"`
	Food               string `mapstructure:"food"`
	TaxRate            string `mapstructure:"tax_rate"`
	ProvidentFundRate  string `mapstructure:"provident_fund_rate"`
	Insurance          string `mapstructure:"insurance"`
	OvertimeMultiplier string `mapstructure:"overtime_multiplier"`
}

type LeaveConfig struct {
	Allocations map[string]float64 `mapstructure:"allocations"`
}

type InterviewConfig struct {
	ReminderLead     time.Duration `mapstructure:"reminder_lead"`
	ReminderInterval time.Duration `mapstructure:"reminder_interval"`
}

// SMTPConfig is optional; an empty Host disables reminder emails.
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	FromName string `mapstructure:"from_name"`
}

const (
	DriverPostgres = "postgres"
	DriverMongoDB  = "mongodb"
	DriverMemory   = "memory"
)

// envBindings keeps the variable names the deployment already uses.
var envBindings = map[string]string{
	"app.port":                      "APP_PORT",
	"app.env":                       "APP_ENV",
	"app.log_level":                 "LOG_LEVEL",
	"app.timezone":                  "APP_TIMEZONE",
	"app.default_locale":            "APP_DEFAULT_LOCALE",
	"app.allowed_origins":           "CORS_ALLOWED_ORIGINS",
	"database.driver":               "DB_DRIVER",
	"database.host":                 "DB_HOST",
	"database.port":                 "DB_PORT",
	"database.user":                 "DB_USER",
	"database.password":             "DB_PASSWORD",
	"database.name":                 "DB_NAME",
	"database.ssl_mode":             "DB_SSL_MODE",
	"database.mongo_uri":            "MONGODB_URI",
	"database.mongo_name":           "MONGODB_DATABASE",
	"jwt.secret":                    "JWT_SECRET_KEY",
	"jwt.access_expiration":         "JWT_ACCESS_EXPIRATION_TIME",
	"rabbitmq.url":                  "RABBITMQ_URL",
	"rabbitmq.exchange":             "RABBITMQ_EXCHANGE",
	"attendance.workday_start":      "ATTENDANCE_WORKDAY_START",
	"attendance.workday_end":        "ATTENDANCE_WORKDAY_END",
	"attendance.late_grace_minutes": "ATTENDANCE_LATE_GRACE_MINUTES",
	"payroll.hra_rate":              "PAYROLL_HRA_RATE",
	"payroll.medical":               "PAYROLL_MEDICAL",
	"payroll.transport":             "PAYROLL_TRANSPORT",
	"payroll.food":                  "PAYROLL_FOOD",
	"payroll.tax_rate":              "PAYROLL_TAX_RATE",
	"payroll.provident_fund_rate":   "PAYROLL_PROVIDENT_FUND_RATE",
	"payroll.insurance":             "PAYROLL_INSURANCE",
	"payroll.overtime_multiplier":   "PAYROLL_OVERTIME_MULTIPLIER",
	"interview.reminder_lead":       "INTERVIEW_REMINDER_LEAD",
	"interview.reminder_interval":   "INTERVIEW_REMINDER_INTERVAL",
	"smtp.host":                     "SMTP_HOST",
	"smtp.port":                     "SMTP_PORT",
	"smtp.username":                 "SMTP_USERNAME",
	"smtp.password":                 "SMTP_PASSWORD",
	"smtp.from":                     "SMTP_FROM",
	"smtp.from_name":                "SMTP_FROM_NAME",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.env", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.timezone", "Asia/Jakarta")
	v.SetDefault("app.default_locale", "en")
	v.SetDefault("app.allowed_origins", "http://localhost:3000")

	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "hris")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.mongo_name", "hris")

	v.SetDefault("jwt.access_expiration", time.Hour)
	v.SetDefault("rabbitmq.exchange", "hris.events")

	policy := attendance.DefaultPolicy()
	v.SetDefault("attendance.workday_start", clockString(policy.WorkdayStart))
	v.SetDefault("attendance.workday_end", clockString(policy.WorkdayEnd))
	v.SetDefault("attendance.late_grace_minutes", int(policy.LateGrace/time.Minute))

	rules := payroll.DefaultRules()
	v.SetDefault("payroll.hra_rate", rules.HRARate.String())
	v.SetDefault("payroll.medical", rules.Medical.String())
	v.SetDefault("payroll.transport", rules.Transport.String())
	v.SetDefault("payroll.food", rules.FoodAllowance.String())
	v.SetDefault("payroll.tax_rate", rules.TaxRate.String())
	v.SetDefault("payroll.provident_fund_rate", rules.ProvidentFundRate.String())
	v.SetDefault("payroll.insurance", rules.Insurance.String())
	v.SetDefault("payroll.overtime_multiplier", rules.OvertimeMultiplier.String())

	v.SetDefault("interview.reminder_lead", 24*time.Hour)
	v.SetDefault("interview.reminder_interval", 15*time.Minute)

	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.from_name", "HRIS")
}

// Load reads an optional .env file, then the environment and an optional
// YAML file named by CONFIG_FILE, and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case DriverMongoDB:
		if c.Database.MongoURI == "" {
			return fmt.Errorf("MONGODB_URI is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.Database.Driver)
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.AttendancePolicy(); err != nil {
		return err
	}
	if _, err := c.PayrollRules(); err != nil {
		return err
	}
	if c.Interview.ReminderInterval <= 0 {
		return fmt.Errorf("INTERVIEW_REMINDER_INTERVAL must be positive")
	}
	if c.SMTP.Host != "" && c.SMTP.From == "" {
		return fmt.Errorf("SMTP_FROM is required when SMTP_HOST is set")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location is the business timezone every engine works in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	return loc, nil
}

// Origins splits the comma separated CORS origins.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.App.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (c *Config) AttendancePolicy() (attendance.Policy, error) {
	start, err := clockOffset(c.Attendance.WorkdayStart)
	if err != nil {
		return attendance.Policy{}, fmt.Errorf("invalid ATTENDANCE_WORKDAY_START: %w", err)
	}
	end, err := clockOffset(c.Attendance.WorkdayEnd)
	if err != nil {
		return attendance.Policy{}, fmt.Errorf("invalid ATTENDANCE_WORKDAY_END: %w", err)
	}
	if end <= start {
		return attendance.Policy{}, fmt.Errorf("ATTENDANCE_WORKDAY_END must be after ATTENDANCE_WORKDAY_START")
	}
	return attendance.Policy{
		WorkdayStart: start,
		WorkdayEnd:   end,
		LateGrace:    time.Duration(c.Attendance.LateGraceMinutes) * time.Minute,
	}, nil
}

func (c *Config) PayrollRules() (payroll.Rules, error) {
	rules := payroll.DefaultRules()
	fields := []struct {
		env   string
		value string
		dst   *decimal.Decimal
	}{
		{"PAYROLL_HRA_RATE", c.Payroll.HRARate, &rules.HRARate},
		{"PAYROLL_MEDICAL", c.Payroll.Medical, &rules.Medical},
		{"PAYROLL_TRANSPORT", c.Payroll.Transport, &rules.Transport},
		{"PAYROLL_FOOD", c.Payroll.Food, &rules.FoodAllowance},
		{"PAYROLL_TAX_RATE", c.Payroll.TaxRate, &rules.TaxRate},
		{"PAYROLL_PROVIDENT_FUND_RATE", c.Payroll.ProvidentFundRate, &rules.ProvidentFundRate},
		{"PAYROLL_INSURANCE", c.Payroll.Insurance, &rules.Insurance},
		{"PAYROLL_OVERTIME_MULTIPLIER", c.Payroll.OvertimeMultiplier, &rules.OvertimeMultiplier},
	}
	for _, f := range fields {
		d, err := decimal.NewFromString(f.value)
		if err != nil {
			return payroll.Rules{}, fmt.Errorf("invalid %s: %w", f.env, err)
		}
		if d.IsNegative() {
			return payroll.Rules{}, fmt.Errorf("%s must not be negative", f.env)
		}
		*f.dst = d
	}
	return rules, nil
}

// LeaveAllocations overlays configured entitlements on the defaults.
func (c *Config) LeaveAllocations() leave.Allocations {
	alloc := leave.DefaultAllocations()
	for t, days := range c.Leave.Allocations {
		alloc[leave.LeaveType(t)] = days
	}
	return alloc
}

func clockOffset(hhmm string) (time.Duration, error) {
	h, m, err := calendar.ParseClock(hhmm)
	if err != nil {
		return 0, err
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}

func clockString(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d/time.Hour), int(d%time.Hour/time.Minute))
}
