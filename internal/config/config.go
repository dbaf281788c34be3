package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Host           string
	Port           int
	AllowOrigins   []string
	LogLevel       string
	MaxUploadMB    int
	LogFile        string
	BackendURL     string // base URL of the gestionale that serves commesse
	BackendTimeout time.Duration
}

func Load() Config {
	port, _ := strconv.Atoi(getenv("PORT", "8084"))
	mb, _ := strconv.Atoi(getenv("MAX_UPLOAD_MB", "128"))
	toSec, _ := strconv.Atoi(getenv("BACKEND_TIMEOUT_SEC", "30"))
	origins := strings.Split(getenv("ALLOW_ORIGINS", "*"), ",")
	return Config{
		Host:           getenv("HOST", "127.0.0.1"),
		Port:           port,
		AllowOrigins:   origins,
		LogLevel:       getenv("LOG_LEVEL", "info"),
		MaxUploadMB:    mb,
		LogFile:        getenv("LOG_FILE", "logs/confronto-service.log"),
		BackendURL:     getenv("BACKEND_URL", "http://127.0.0.1:8080"),
		BackendTimeout: time.Duration(toSec) * time.Second,
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
