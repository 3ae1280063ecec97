package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config agrupa la configuración de proceso (API y CLI).
type Config struct {
	AppName   string
	Port      string
	LogLevel  string
	LogFormat string

	StoreDriver string
	DBDSN       string
	SQLitePath  string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool
	S3Prefix    string

	S3AccessKeyID     string
	S3SecretAccessKey string

	MedInfoBaseURL   string
	MedInfoAPIKey    string
	MedInfoTimeout   time.Duration
	MedInfoStubDelay time.Duration

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
}

// Load lee un .env opcional y luego el entorno del proceso.
// Las variables ya presentes en el entorno ganan sobre el archivo.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load env file: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv construye la config con un lookup inyectable (tests).
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	var errs []error
	dur := func(key, def string) time.Duration {
		raw := get(key, def)
		d, err := time.ParseDuration(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return 0
		}
		return d
	}
	boolean := func(key string) bool {
		raw := get(key, "false")
		b, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
		return b
	}

	c := Config{
		AppName:   get("APP_NAME", "medication-tracker"),
		Port:      get("PORT", "8080"),
		LogLevel:  get("LOG_LEVEL", "info"),
		LogFormat: get("LOG_FORMAT", "text"),

		StoreDriver: strings.ToLower(get("STORE_DRIVER", "")),
		DBDSN:       get("DB_DSN", ""),
		SQLitePath:  get("SQLITE_PATH", "medtracker.db"),

		S3Bucket:    get("S3_BUCKET", ""),
		S3Region:    get("S3_REGION", "us-east-1"),
		S3Endpoint:  get("S3_ENDPOINT", ""),
		S3PathStyle: boolean("S3_PATH_STYLE"),
		S3Prefix:    get("S3_PREFIX", ""),

		S3AccessKeyID:     get("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: get("S3_SECRET_ACCESS_KEY", ""),

		MedInfoBaseURL:   get("MEDINFO_BASE_URL", ""),
		MedInfoAPIKey:    get("MEDINFO_API_KEY", ""),
		MedInfoTimeout:   dur("MEDINFO_TIMEOUT", "10s"),
		MedInfoStubDelay: dur("MEDINFO_STUB_DELAY", "1500ms"),

		HTTPReadTimeout:  dur("HTTP_READ_TIMEOUT", "5s"),
		HTTPWriteTimeout: dur("HTTP_WRITE_TIMEOUT", "10s"),
	}

	if c.StoreDriver == "" {
		if c.DBDSN != "" {
			c.StoreDriver = "postgres"
		} else {
			c.StoreDriver = "memory"
		}
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

// Addr devuelve la dirección de escucha para http.Server.
func (c Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}
