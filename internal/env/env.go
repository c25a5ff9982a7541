package env

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Get returns the trimmed value of k, or def when unset or blank.
func Get(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func GetInt(k string, def int) int {
	v := Get(k, "")
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func GetFloat(k string, def float64) float64 {
	v := Get(k, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func GetBool(k string, def bool) bool {
	v := Get(k, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// GetDuration accepts Go duration syntax ("90s", "6h") or a bare number of
// seconds.
func GetDuration(k string, def time.Duration) time.Duration {
	v := Get(k, "")
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}

// List splits a comma separated value, dropping blanks.
func List(k string, def []string) []string {
	v := Get(k, "")
	if v == "" {
		return def
	}
	return Split(v)
}

func Split(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
