package config

import (
	"errors"
	"flag"
	"net"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr        string
	DBUrl       string
	TokenSecret string
	TokenTTL    time.Duration
	AdminUser   string
	AdminPass   string
	Debug       bool
}

// ParseFlags builds the configuration from command line flags, with defaults
// taken from the environment (a .env file is loaded first, if present).
func ParseFlags() (cfg Config, err error) {
	_ = godotenv.Load()

	var host string
	flag.StringVar(&host, "host", envOr("HOST", "0.0.0.0"), "listen host name")
	var port uint
	flag.UintVar(&port, "port", envOrUint("PORT", 5000), "listen port number")
	flag.StringVar(&cfg.DBUrl, "db-url", envOr("DB_URL", "acadforms.sqlite"), "path to SQLite3 DB file")
	flag.StringVar(&cfg.TokenSecret, "token-secret", os.Getenv("TOKEN_SECRET"), "secret key for session token signing")
	var ttl uint
	flag.UintVar(&ttl, "token-ttl", envOrUint("TOKEN_TTL", 60), "session token TTL in minutes")
	flag.StringVar(&cfg.AdminUser, "admin-user", envOr("ADMIN_USER", "admin"), "administrator username")
	flag.StringVar(&cfg.AdminPass, "admin-pass", os.Getenv("ADMIN_PASS"), "administrator password")
	flag.BoolVar(&cfg.Debug, "debug", false, "log at DEBUG level")
	flag.Parse()

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))
	cfg.TokenTTL = time.Duration(ttl) * time.Minute

	switch {
	case cfg.TokenSecret == "":
		err = errors.New("missing parameter -token-secret")
	case cfg.AdminPass == "":
		err = errors.New("missing parameter -admin-pass")
	}
	return
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrUint(key string, fallback uint) uint {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			return uint(n)
		}
	}
	return fallback
}
