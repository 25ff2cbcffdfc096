package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	DatabaseURL string
	Port        string
	Environment string

	// Shop API (apply step only)
	ShopName        string
	ShopAPIVersion  string
	ShopAccessToken string

	// Engine option overrides
	Mode            string
	CooldownDays    int
	BenchmarkFloor  bool
	MaxDailyChanges int
	PriorityBrands  []string
}

func Load() *Config {
	defaultDSN := "pricer:pricer@tcp(127.0.0.1:3306)/pricing?charset=utf8mb4&parseTime=True&loc=Local"

	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", defaultDSN),
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		ShopName:        getEnv("SHOP_NAME", ""),
		ShopAPIVersion:  getEnv("SHOP_API_VERSION", "2025-04"),
		ShopAccessToken: getEnv("SHOP_ACCESS_TOKEN", ""),

		Mode:            getEnv("PRICING_MODE", "Steady"),
		CooldownDays:    getEnvInt("COOLDOWN_DAYS", 7),
		BenchmarkFloor:  getEnv("BENCHMARK_FLOOR", "false") == "true",
		MaxDailyChanges: getEnvInt("MAX_DAILY_CHANGES", 50),
		PriorityBrands:  splitList(getEnv("PRIORITY_BRANDS", "")),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
