// Package config loads YAML configuration for the world server.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// ResetSchedule holds the wall-clock reset hour and weekday consumed
// by the reset scheduler. Unused by dungeons without a reset
// schedule.
type ResetSchedule struct {
	DailyHour int `yaml:"daily_hour"`  // 0-23, default 9
	WeeklyDay int `yaml:"weekly_day"`  // time.Weekday, default Tuesday
}

// WorldServer holds all configuration for the world server process
// that hosts the instance lock manager.
type WorldServer struct {
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`

	Database      DatabaseConfig `yaml:"database"`
	ResetSchedule ResetSchedule  `yaml:"reset_schedule"`
}

// DefaultResetSchedule returns the default reset schedule: 09:00,
// Tuesday.
func DefaultResetSchedule() ResetSchedule {
	return ResetSchedule{
		DailyHour: 9,
		WeeklyDay: 2, // time.Tuesday
	}
}

// DefaultWorldServer returns WorldServer config with sensible
// defaults.
func DefaultWorldServer() WorldServer {
	return WorldServer{
		BindAddress:   "0.0.0.0",
		Port:          7777,
		ResetSchedule: DefaultResetSchedule(),
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "dragonflight",
			Password: "dragonflight",
			DBName:   "dragonflight",
			SSLMode:  "disable",
		},
	}
}

// LoadWorldServer loads world server config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadWorldServer(path string) (WorldServer, error) {
	cfg := DefaultWorldServer()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
