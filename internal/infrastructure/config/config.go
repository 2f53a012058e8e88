package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort                     = "8080"
	defaultOpenAPISpec              = "api/openapi.yaml"
	defaultShutdownTimeout          = 10 * time.Second
	defaultDBReadinessTimeout       = 30 * time.Second
	defaultDBReadinessRetryInterval = 2 * time.Second
	defaultMigrationsPath           = "internal/adapters/outbound/persistence/postgresql/migrations"
	defaultEnvironment              = "development"
	defaultPollerInterval           = 30 * time.Second
	defaultPollerBatchSize          = 50
)

type ConfigError struct {
	Code     string
	Message  string
	Metadata map[string]string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

type Config struct {
	Port                     string
	OpenAPISpecPath          string
	ShutdownTimeout          time.Duration
	DatabaseURL              string
	DatabaseTarget           string
	DBReadinessTimeout       time.Duration
	DBReadinessRetryInterval time.Duration
	MigrationsPath           string
	Environment              string

	BlockchainInfoBaseURL string
	BlockCypherBaseURL    string
	BlockCypherToken      string
	EtherscanBaseURL      string
	EtherscanAPIKey       string
	ETHFallbackBaseURL    string
	ETHFallbackAPIKey     string
	MoneroWalletRPCURL    string

	PollerEnabled   bool
	PollerInterval  time.Duration
	PollerBatchSize int
}

func LoadConfig() (Config, *ConfigError) {
	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		return Config{}, &ConfigError{
			Code:    "CONFIG_DATABASE_URL_REQUIRED",
			Message: "DATABASE_URL is required",
		}
	}

	databaseTarget, parseErr := parseDatabaseTarget(databaseURL)
	if parseErr != nil {
		return Config{}, parseErr
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	openAPISpecPath := os.Getenv("OPENAPI_SPEC_PATH")
	if openAPISpecPath == "" {
		openAPISpecPath = defaultOpenAPISpec
	}

	environment := strings.ToLower(strings.TrimSpace(os.Getenv("ENVIRONMENT")))
	if environment == "" {
		environment = defaultEnvironment
	}
	switch environment {
	case "development", "production":
	default:
		return Config{}, &ConfigError{
			Code:    "CONFIG_ENVIRONMENT_INVALID",
			Message: "ENVIRONMENT must be development or production",
			Metadata: map[string]string{
				"environment": environment,
			},
		}
	}

	etherscanAPIKey := strings.TrimSpace(os.Getenv("ETHERSCAN_API_KEY"))
	if environment == "production" && etherscanAPIKey == "" {
		return Config{}, &ConfigError{
			Code:    "CONFIG_ETHERSCAN_API_KEY_REQUIRED",
			Message: "ETHERSCAN_API_KEY is required in production",
		}
	}

	pollerEnabled := true
	rawPollerEnabled := strings.TrimSpace(os.Getenv("ORDER_POLLER_ENABLED"))
	if rawPollerEnabled != "" {
		parsed, err := strconv.ParseBool(rawPollerEnabled)
		if err != nil {
			return Config{}, &ConfigError{
				Code:    "CONFIG_ORDER_POLLER_ENABLED_INVALID",
				Message: "ORDER_POLLER_ENABLED must be a boolean",
			}
		}
		pollerEnabled = parsed
	}

	pollerInterval := defaultPollerInterval
	rawPollerInterval := strings.TrimSpace(os.Getenv("ORDER_POLLER_INTERVAL"))
	if rawPollerInterval != "" {
		parsed, err := time.ParseDuration(rawPollerInterval)
		if err != nil || parsed <= 0 {
			return Config{}, &ConfigError{
				Code:    "CONFIG_ORDER_POLLER_INTERVAL_INVALID",
				Message: "ORDER_POLLER_INTERVAL must be a positive duration",
			}
		}
		pollerInterval = parsed
	}

	pollerBatchSize := defaultPollerBatchSize
	rawPollerBatchSize := strings.TrimSpace(os.Getenv("ORDER_POLLER_BATCH_SIZE"))
	if rawPollerBatchSize != "" {
		parsed, err := strconv.Atoi(rawPollerBatchSize)
		if err != nil || parsed <= 0 {
			return Config{}, &ConfigError{
				Code:    "CONFIG_ORDER_POLLER_BATCH_SIZE_INVALID",
				Message: "ORDER_POLLER_BATCH_SIZE must be a positive integer",
			}
		}
		pollerBatchSize = parsed
	}

	return Config{
		Port:                     port,
		OpenAPISpecPath:          openAPISpecPath,
		ShutdownTimeout:          defaultShutdownTimeout,
		DatabaseURL:              databaseURL,
		DatabaseTarget:           databaseTarget,
		DBReadinessTimeout:       defaultDBReadinessTimeout,
		DBReadinessRetryInterval: defaultDBReadinessRetryInterval,
		MigrationsPath:           defaultMigrationsPath,
		Environment:              environment,
		BlockchainInfoBaseURL:    strings.TrimSpace(os.Getenv("BLOCKCHAIN_INFO_BASE_URL")),
		BlockCypherBaseURL:       strings.TrimSpace(os.Getenv("BLOCKCYPHER_BASE_URL")),
		BlockCypherToken:         strings.TrimSpace(os.Getenv("BLOCKCYPHER_TOKEN")),
		EtherscanBaseURL:         strings.TrimSpace(os.Getenv("ETHERSCAN_BASE_URL")),
		EtherscanAPIKey:          etherscanAPIKey,
		ETHFallbackBaseURL:       strings.TrimSpace(os.Getenv("ETH_FALLBACK_BASE_URL")),
		ETHFallbackAPIKey:        strings.TrimSpace(os.Getenv("ETH_FALLBACK_API_KEY")),
		MoneroWalletRPCURL:       strings.TrimSpace(os.Getenv("MONERO_WALLET_RPC_URL")),
		PollerEnabled:            pollerEnabled,
		PollerInterval:           pollerInterval,
		PollerBatchSize:          pollerBatchSize,
	}, nil
}

func (c Config) Address() string {
	return ":" + c.Port
}

func (c Config) DevelopmentMode() bool {
	return c.Environment == "development"
}

func parseDatabaseTarget(databaseURL string) (string, *ConfigError) {
	parsed, err := url.Parse(databaseURL)
	if err != nil {
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_URL_INVALID",
			Message: "DATABASE_URL is invalid",
		}
	}

	switch parsed.Scheme {
	case "postgres", "postgresql":
	default:
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_URL_SCHEME_INVALID",
			Message: "DATABASE_URL must use postgres or postgresql scheme",
		}
	}

	if parsed.Host == "" {
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_URL_HOST_MISSING",
			Message: "DATABASE_URL host is required",
		}
	}

	databaseName := strings.TrimPrefix(parsed.Path, "/")
	if databaseName == "" {
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_NAME_MISSING",
			Message: "DATABASE_URL database name is required",
		}
	}

	return parsed.Host + "/" + databaseName, nil
}
