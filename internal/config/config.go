package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type EmailConfig struct {
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	FromEmail    string `yaml:"from_email"`
	Enabled      bool   `yaml:"enabled"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type SchedulerConfig struct {
	// cron specs (with seconds field); defaults match the production
	// schedule: weekly check Friday 17:00, monthly check on the 15th
	// 10:00, reminder sweep daily 09:00.
	WeeklySpec         string `yaml:"weekly_spec"`
	MonthlySpec        string `yaml:"monthly_spec"`
	ReminderSpec       string `yaml:"reminder_spec"`
	ReminderHoursAhead int    `yaml:"reminder_hours_ahead"`
}

type AuthConfig struct {
	JWTSecret    string `yaml:"jwt_secret"`
	TokenTTLMins int    `yaml:"token_ttl_minutes"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Files struct {
		RootDir string `yaml:"root_dir"`
	} `yaml:"files"`
	Email     EmailConfig     `yaml:"email"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Auth      AuthConfig      `yaml:"auth"`
}

func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Scheduler.WeeklySpec == "" {
		c.Scheduler.WeeklySpec = "0 0 17 * * FRI"
	}
	if c.Scheduler.MonthlySpec == "" {
		c.Scheduler.MonthlySpec = "0 0 10 15 * *"
	}
	if c.Scheduler.ReminderSpec == "" {
		c.Scheduler.ReminderSpec = "0 0 9 * * *"
	}
	if c.Scheduler.ReminderHoursAhead == 0 {
		c.Scheduler.ReminderHoursAhead = 72
	}
	if c.Files.RootDir == "" {
		c.Files.RootDir = "./files"
	}
	if c.Auth.TokenTTLMins == 0 {
		c.Auth.TokenTTLMins = 60
	}
}
