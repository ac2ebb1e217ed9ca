package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

type Config struct {
	Mode Mode

	Port string

	GCPProjectID string
	GCPLocation  string
	ModelName    string
	GeminiAPIKey string // when set, the Gemini API backend is used instead of Vertex

	StorageBackend string // "memory" or "firestore"
	UseMockLLM     bool   // true = use mock even on GCP

	// Review workflow
	RestaurantName  string
	NumReviews      int
	RatingThreshold int // reviews rated at or below this go to the approval queue

	// Outbound messaging
	MessagingBackend string // "mock" or "twilio"
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	TemplatesPath    string // optional YAML file with content-template IDs

	// Scraper
	ScraperBackend string // "fixture" or "rod"

	// Idle-reminder policy
	IdleReminderAfter time.Duration
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d", key, v, def)
		return def
	}
	return n
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %s", key, v, def)
		return def
	}
	return d
}

// Load reads all env vars and builds the config
func Load() *Config {
	modeStr := getEnv("REVIEWSENSE_MODE", "local")
	var mode Mode
	switch modeStr {
	case "gcp":
		mode = ModeGCP
	default:
		mode = ModeLocal
	}

	cfg := &Config{
		Mode: mode,

		Port: getEnv("REVIEWSENSE_PORT", "8080"),

		GCPProjectID: getEnv("REVIEWSENSE_GCP_PROJECT", ""),
		GCPLocation:  getEnv("REVIEWSENSE_GCP_LOCATION", "us-central1"),
		ModelName:    getEnv("REVIEWSENSE_MODEL_NAME", "gemini-2.0-flash"),
		GeminiAPIKey: getEnv("GOOGLE_API_KEY", ""),

		StorageBackend: getEnv("REVIEWSENSE_STORAGE_BACKEND", "memory"),
		UseMockLLM:     getBoolEnv("REVIEWSENSE_USE_MOCK_LLM", mode == ModeLocal),

		RestaurantName:  getEnv("REVIEWSENSE_RESTAURANT", "kfc"),
		NumReviews:      getIntEnv("REVIEWSENSE_NUM_REVIEWS", 15),
		RatingThreshold: getIntEnv("REVIEWSENSE_RATING_THRESHOLD", 3),

		MessagingBackend: getEnv("REVIEWSENSE_MESSAGING_BACKEND", "mock"),
		TwilioAccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber: getEnv("TWILIO_WHATSAPP_NUMBER", ""),
		TemplatesPath:    getEnv("REVIEWSENSE_TEMPLATES_PATH", ""),

		ScraperBackend: getEnv("REVIEWSENSE_SCRAPER_BACKEND", "fixture"),

		IdleReminderAfter: getDurationEnv("REVIEWSENSE_IDLE_REMINDER_AFTER", 4*time.Hour),
	}

	// Minimal validation in GCP mode
	if cfg.Mode == ModeGCP && cfg.GCPProjectID == "" && cfg.GeminiAPIKey == "" {
		log.Fatal("REVIEWSENSE_GCP_PROJECT or GOOGLE_API_KEY must be set in gcp mode")
	}
	if cfg.MessagingBackend == "twilio" && (cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioFromNumber == "") {
		log.Fatal("TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_WHATSAPP_NUMBER must be set for the twilio backend")
	}

	return cfg
}
