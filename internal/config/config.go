package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	SessionSecret string
	SessionTTL    time.Duration

	// Redis (optional; in-memory fallbacks are used when unset)
	UseRedis      bool
	RedisAddr     string
	RedisPassword string

	CORSAllowedOrigins []string

	// Backend service base URLs
	IdentityServiceURL      string
	PatientServiceURL       string
	DoctorServiceURL        string
	NurseServiceURL         string
	PharmacistServiceURL    string
	LabServiceURL           string
	AppointmentServiceURL   string
	PrescriptionServiceURL  string
	MedicalRecordServiceURL string
	AdminServiceURL         string
	ChatbotServiceURL       string

	UpstreamTimeout time.Duration
	ChatReplyDelay  time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		SessionSecret: getEnv("SESSION_SECRET", ""),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 12*time.Hour),

		UseRedis:      getEnvAsBool("USE_REDIS", false),
		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "")),

		IdentityServiceURL:      getEnv("IDENTITY_SERVICE_URL", "http://localhost:8000/api/identity"),
		PatientServiceURL:       getEnv("PATIENT_SERVICE_URL", "http://localhost:8001/api"),
		DoctorServiceURL:        getEnv("DOCTOR_SERVICE_URL", "http://localhost:8002/api"),
		NurseServiceURL:         getEnv("NURSE_SERVICE_URL", "http://localhost:8003/api"),
		AppointmentServiceURL:   getEnv("APPOINTMENT_SERVICE_URL", "http://localhost:8004/api"),
		PharmacistServiceURL:    getEnv("PHARMACIST_SERVICE_URL", "http://localhost:8005/api"),
		LabServiceURL:           getEnv("LAB_SERVICE_URL", "http://localhost:8006/api"),
		MedicalRecordServiceURL: getEnv("MEDICAL_RECORD_SERVICE_URL", "http://localhost:8007/api"),
		PrescriptionServiceURL:  getEnv("PRESCRIPTION_SERVICE_URL", "http://localhost:8008/api"),
		AdminServiceURL:         getEnv("ADMIN_SERVICE_URL", "http://localhost:8009/api"),
		ChatbotServiceURL:       getEnv("CHATBOT_SERVICE_URL", "http://localhost:8000/api/chatbot"),

		UpstreamTimeout: getEnvAsDuration("UPSTREAM_TIMEOUT", 10*time.Second),
		ChatReplyDelay:  getEnvAsDuration("CHAT_REPLY_DELAY", 600*time.Millisecond),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
