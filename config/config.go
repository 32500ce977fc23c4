package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ProgramDir   string
	ProgramName  string
	CameraWidth  int
	CameraHeight int
	PulseMs      int
	LogLevel     string
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		ProgramDir:   envOr("PROGRAM_DIR", "programs"),
		ProgramName:  os.Getenv("PROGRAM_NAME"),
		CameraWidth:  envInt("CAMERA_WIDTH", 640),
		CameraHeight: envInt("CAMERA_HEIGHT", 480),
		PulseMs:      envInt("PULSE_MS", 100),
		LogLevel:     envOr("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
