package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	ListenAddr    string
	HTTPAddr      string
	PoWDifficulty int
	PoWTTL        time.Duration
	LogLevel      string
	ShutdownWait  time.Duration

	// DataDir is the badger directory; empty runs the store in memory.
	DataDir         string
	GrantAllowance  decimal.Decimal
	ContractAccount string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string, def int) int {
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n
	}
	return def
}

func amount(s string, def decimal.Decimal) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return def
	}
	return d
}

// Load reads the given dotenv files into the process environment and then parses it.
// Variables already set win over file values. With no files, ./.env is read if present.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
		return Parse(), nil
	}
	if err := godotenv.Load(files...); err != nil {
		return Config{}, fmt.Errorf("load env files: %w", err)
	}
	return Parse(), nil
}

func Parse() Config {
	ttl, _ := time.ParseDuration(getenv("POW_TTL", "60s"))
	wait, _ := time.ParseDuration(getenv("SHUTDOWN_WAIT", "5s"))
	defAllowance := decimal.RequireFromString("0.25")
	return Config{
		ListenAddr:      getenv("LISTEN_ADDR", ":8080"),
		HTTPAddr:        getenv("HTTP_ADDR", ":8081"),
		PoWDifficulty:   atoi(getenv("POW_DIFFICULTY", "22"), 22),
		PoWTTL:          ttl,
		LogLevel:        getenv("LOG_LEVEL", "info"),
		ShutdownWait:    wait,
		DataDir:         os.Getenv("DATA_DIR"),
		GrantAllowance:  amount(getenv("GRANT_ALLOWANCE", "0.25"), defAllowance),
		ContractAccount: getenv("CONTRACT_ACCOUNT", "crossword.escrow"),
	}
}
