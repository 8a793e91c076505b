package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/wizix/pickem-pool/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                  string
	ServiceName             string
	ServiceVersion          string
	HTTPAddr                string
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	DBURL                   string
	DBDisablePreparedBinary bool
	CacheEnabled            bool
	CacheTTL                time.Duration
	CORSAllowedOrigins      []string
	CurrentSeason           int
	ESPNBaseURL             string
	ESPNTimeout             time.Duration
	ESPNMaxAttempts         int
	ESPNRetryBaseDelay      time.Duration
	ESPNCircuitEnabled      bool
	ESPNCircuitFailureCount int
	ESPNCircuitOpenTimeout  time.Duration
	ESPNCircuitHalfOpenMax  int
	PollEnabled             bool
	PollInterval            time.Duration
	ResultWorkers           int
	SupabaseJWTSecret       string
	SupabaseJWTAudience     string
	RedisAddr               string
	RedisPassword           string
	RealtimeChannel         string
	InternalJobToken        string
	UptraceEnabled          bool
	UptraceDSN              string
	PprofEnabled            bool
	PprofAddr               string
	PyroscopeEnabled        bool
	PyroscopeServerAddress  string
	PyroscopeAppName        string
	PyroscopeAuthToken      string
	PyroscopeBasicAuthUser  string
	PyroscopeBasicAuthPass  string
	PyroscopeUploadRate     time.Duration
	LogLevel                logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	currentSeason, err := getEnvAsInt("CURRENT_SEASON", time.Now().UTC().Year())
	if err != nil {
		return Config{}, fmt.Errorf("parse CURRENT_SEASON: %w", err)
	}
	if currentSeason < 2000 {
		return Config{}, fmt.Errorf("CURRENT_SEASON must be a four-digit year")
	}

	espnTimeout, err := time.ParseDuration(getEnv("ESPN_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_TIMEOUT: %w", err)
	}
	if espnTimeout <= 0 {
		return Config{}, fmt.Errorf("ESPN_TIMEOUT must be > 0")
	}
	espnMaxAttempts, err := getEnvAsInt("ESPN_MAX_ATTEMPTS", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_MAX_ATTEMPTS: %w", err)
	}
	if espnMaxAttempts < 1 {
		return Config{}, fmt.Errorf("ESPN_MAX_ATTEMPTS must be >= 1")
	}
	espnRetryBaseDelay, err := time.ParseDuration(getEnv("ESPN_RETRY_BASE_DELAY", "1s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_RETRY_BASE_DELAY: %w", err)
	}
	if espnRetryBaseDelay <= 0 {
		return Config{}, fmt.Errorf("ESPN_RETRY_BASE_DELAY must be > 0")
	}
	espnCircuitEnabled, err := strconv.ParseBool(getEnv("ESPN_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_CIRCUIT_ENABLED: %w", err)
	}
	espnCircuitFailureCount, err := getEnvAsInt("ESPN_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if espnCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("ESPN_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	espnCircuitOpenTimeout, err := time.ParseDuration(getEnv("ESPN_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if espnCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("ESPN_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	espnCircuitHalfOpenMax, err := getEnvAsInt("ESPN_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if espnCircuitHalfOpenMax < 1 {
		return Config{}, fmt.Errorf("ESPN_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	pollEnabled, err := strconv.ParseBool(getEnv("POLL_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse POLL_ENABLED: %w", err)
	}
	pollInterval, err := time.ParseDuration(getEnv("POLL_INTERVAL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse POLL_INTERVAL: %w", err)
	}
	if pollInterval <= 0 {
		return Config{}, fmt.Errorf("POLL_INTERVAL must be > 0")
	}

	resultWorkers, err := getEnvAsInt("RESULT_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse RESULT_WORKERS: %w", err)
	}
	if resultWorkers < 1 {
		return Config{}, fmt.Errorf("RESULT_WORKERS must be >= 1")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	supabaseJWTSecret := strings.TrimSpace(getEnv("SUPABASE_JWT_SECRET", ""))
	if appEnv == EnvProd && supabaseJWTSecret == "" {
		return Config{}, fmt.Errorf("SUPABASE_JWT_SECRET is required in prod")
	}

	cfg := Config{
		AppEnv:                  appEnv,
		ServiceName:             getEnv("APP_SERVICE_NAME", "pickem-pool-api"),
		ServiceVersion:          getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:             readTimeout,
		WriteTimeout:            writeTimeout,
		DBURL:                   strings.TrimSpace(getEnv("DB_URL", "")),
		DBDisablePreparedBinary: dbDisablePreparedBinary,
		CacheEnabled:            cacheEnabled,
		CacheTTL:                cacheTTL,
		CORSAllowedOrigins:      splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		CurrentSeason:           currentSeason,
		ESPNBaseURL:             strings.TrimSpace(getEnv("ESPN_BASE_URL", "")),
		ESPNTimeout:             espnTimeout,
		ESPNMaxAttempts:         espnMaxAttempts,
		ESPNRetryBaseDelay:      espnRetryBaseDelay,
		ESPNCircuitEnabled:      espnCircuitEnabled,
		ESPNCircuitFailureCount: espnCircuitFailureCount,
		ESPNCircuitOpenTimeout:  espnCircuitOpenTimeout,
		ESPNCircuitHalfOpenMax:  espnCircuitHalfOpenMax,
		PollEnabled:             pollEnabled,
		PollInterval:            pollInterval,
		ResultWorkers:           resultWorkers,
		SupabaseJWTSecret:       supabaseJWTSecret,
		SupabaseJWTAudience:     strings.TrimSpace(getEnv("SUPABASE_JWT_AUDIENCE", "authenticated")),
		RedisAddr:               strings.TrimSpace(getEnv("REDIS_ADDR", "")),
		RedisPassword:           strings.TrimSpace(getEnv("REDIS_PASSWORD", "")),
		RealtimeChannel:         strings.TrimSpace(getEnv("REALTIME_CHANNEL", "")),
		InternalJobToken:        strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		UptraceEnabled:          uptraceEnabled,
		UptraceDSN:              uptraceDSN,
		PprofEnabled:            pprofEnabled,
		PprofAddr:               pprofAddr,
		PyroscopeEnabled:        pyroscopeEnabled,
		PyroscopeServerAddress:  pyroscopeServerAddress,
		PyroscopeAuthToken:      strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:  strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPass:  strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:     pyroscopeUploadRate,
		LogLevel:                parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}

	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if appEnv == EnvProd && cfg.DBURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required in prod")
	}

	return cfg, nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}
