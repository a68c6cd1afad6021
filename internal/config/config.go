// Package config loads client settings from an optional YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds everything the client needs to join a room.
type Config struct {
	ServerURL string `yaml:"server_url"`
	SocketURL string `yaml:"socket_url"`
	AuthToken string `yaml:"auth_token"`
	// UserID is the backend's integer user id.
	UserID   int     `yaml:"user_id"`
	Username string  `yaml:"username"`
	RoomCode string  `yaml:"room_code"`
	Volume   float64 `yaml:"volume"`
	LogLevel string  `yaml:"log_level"`
}

// Load reads the YAML file at path (skipped when path is empty or the
// file does not exist), then applies environment overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{
		ServerURL: "http://localhost:8000",
		SocketURL: "ws://localhost:8000/ws/game",
		Volume:    0.7,
		LogLevel:  "info",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.ServerURL = getEnv("QUIZBEAT_SERVER_URL", cfg.ServerURL)
	cfg.SocketURL = getEnv("QUIZBEAT_SOCKET_URL", cfg.SocketURL)
	cfg.AuthToken = getEnv("QUIZBEAT_AUTH_TOKEN", cfg.AuthToken)
	cfg.UserID = getEnvAsInt("QUIZBEAT_USER_ID", cfg.UserID)
	cfg.Username = getEnv("QUIZBEAT_USERNAME", cfg.Username)
	cfg.RoomCode = getEnv("QUIZBEAT_ROOM_CODE", cfg.RoomCode)
	cfg.Volume = getEnvAsFloat("QUIZBEAT_VOLUME", cfg.Volume)
	cfg.LogLevel = getEnv("QUIZBEAT_LOG_LEVEL", cfg.LogLevel)

	return cfg, nil
}

// RoomSocketURL returns the push-channel endpoint for a room.
func (c *Config) RoomSocketURL() string {
	return fmt.Sprintf("%s/%s/", c.SocketURL, c.RoomCode)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
