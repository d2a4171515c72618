package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env     string
	APIPort string
	JWTKey  []byte
	JWTExp  time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Execution host layout. Each language runs inside its own
	// long-lived container; StagingRoot is the host-side scratch area
	// and SandboxRoot the per-execution area inside the containers.
	DockerBin       string
	StagingRoot     string
	SandboxRoot     string
	CPPContainer    string
	JavaContainer   string
	PythonContainer string

	// InnerTimeout is the shell-level `timeout` applied inside the
	// container; OuterTimeout is the hard backstop on the docker exec
	// itself and must stay strictly longer than InnerTimeout.
	InnerTimeout   time.Duration
	OuterTimeout   time.Duration
	CompileTimeout time.Duration

	// Admission control per execution host.
	ExecutionSlots   int
	ExecutionSlotTTL time.Duration
}

var AppConfig *Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = &Config{
		Env:     getEnv("APP_ENV", "development"),
		APIPort: getEnv("API_PORT", "8080"),
		JWTKey:  []byte(getEnv("JWT_SECRET", "defaultsecret")),
		JWTExp:  time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 72)) * time.Hour,

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "user"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "neocode_db"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		DockerBin:       getEnv("DOCKER_BIN", "docker"),
		StagingRoot:     getEnv("EXECUTION_STAGING_ROOT", "/tmp/neocode-staging"),
		SandboxRoot:     getEnv("EXECUTION_SANDBOX_ROOT", "/tmp/neocode"),
		CPPContainer:    getEnv("CPP_CONTAINER", "neocode-cpp"),
		JavaContainer:   getEnv("JAVA_CONTAINER", "neocode-java"),
		PythonContainer: getEnv("PYTHON_CONTAINER", "neocode-python"),

		InnerTimeout:   time.Duration(getEnvAsInt("EXECUTION_INNER_TIMEOUT_SECONDS", 3)) * time.Second,
		OuterTimeout:   time.Duration(getEnvAsInt("EXECUTION_OUTER_TIMEOUT_SECONDS", 4)) * time.Second,
		CompileTimeout: time.Duration(getEnvAsInt("COMPILE_TIMEOUT_SECONDS", 10)) * time.Second,

		ExecutionSlots:   getEnvAsInt("EXECUTION_SLOTS_PER_HOST", 4),
		ExecutionSlotTTL: time.Duration(getEnvAsInt("EXECUTION_SLOT_TTL_SECONDS", 300)) * time.Second,
	}

	AppConfig.DBConnStr = "host=" + AppConfig.DBHost +
		" port=" + AppConfig.DBPort +
		" user=" + AppConfig.DBUser +
		" password=" + AppConfig.DBPassword +
		" dbname=" + AppConfig.DBName +
		" sslmode=" + AppConfig.DBSslMode
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
