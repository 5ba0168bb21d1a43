package env

import (
	"os"
	"strconv"
	"strings"
)

// GetEnvOrDefault returns the trimmed value of key, or def when unset or blank
func GetEnvOrDefault(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return def
}

// GetEnvBoolOrDefault accepts anything strconv.ParseBool does; junk falls back to def
func GetEnvBoolOrDefault(key string, def bool) bool {
	v := GetEnvOrDefault(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func GetEnvIntOrDefault(key string, def int) int {
	v := GetEnvOrDefault(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
