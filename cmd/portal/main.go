package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/careorbit/careportal/internal/api/router"
	"github.com/careorbit/careportal/internal/auth"
	"github.com/careorbit/careportal/internal/chat"
	appconfig "github.com/careorbit/careportal/internal/config"
	"github.com/careorbit/careportal/internal/dashboard"
	"github.com/careorbit/careportal/internal/history"
	"github.com/careorbit/careportal/internal/observability/metrics"
	"github.com/careorbit/careportal/internal/session"
	"github.com/careorbit/careportal/internal/upstream"
	"github.com/careorbit/careportal/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting careportal gateway",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	sessionSecret := cfg.SessionSecret
	if sessionSecret == "" {
		// Sessions won't survive a restart without a configured secret.
		sessionSecret = randomSecret()
		logger.Warn("SESSION_SECRET not set; using an ephemeral secret")
	}

	var redisClient *redis.Client
	if cfg.UseRedis {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Error("redis unreachable", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
	}

	var sessionStore session.Store
	var transcript chat.TranscriptStore
	if redisClient != nil {
		sessionStore = session.NewRedisStore(redisClient, cfg.SessionTTL)
		transcript = chat.NewRedisTranscript(redisClient)
	} else {
		sessionStore = session.NewMemoryStore()
		transcript = chat.NewMemoryTranscript()
	}
	codec := session.NewCookieCodec(sessionSecret, cfg.SessionTTL, cfg.Env == "production")

	portalMetrics := metrics.NewPortalMetrics(nil)

	clientFor := func(baseURL string) upstream.Config {
		return upstream.Config{
			BaseURL:  baseURL,
			Timeout:  cfg.UpstreamTimeout,
			Logger:   logger,
			Observer: portalMetrics,
		}
	}
	identity, err := upstream.NewIdentityClient(clientFor(cfg.IdentityServiceURL))
	exitOnErr(logger, err)
	patients, err := upstream.NewPatientsClient(clientFor(cfg.PatientServiceURL))
	exitOnErr(logger, err)
	doctors, err := upstream.NewDoctorsClient(clientFor(cfg.DoctorServiceURL))
	exitOnErr(logger, err)
	nurses, err := upstream.NewNursesClient(clientFor(cfg.NurseServiceURL))
	exitOnErr(logger, err)
	pharmacists, err := upstream.NewPharmacistsClient(clientFor(cfg.PharmacistServiceURL))
	exitOnErr(logger, err)
	labtechs, err := upstream.NewLabTechsClient(clientFor(cfg.LabServiceURL))
	exitOnErr(logger, err)
	labClient, err := upstream.NewLabClient(clientFor(cfg.LabServiceURL))
	exitOnErr(logger, err)
	appointments, err := upstream.NewAppointmentsClient(clientFor(cfg.AppointmentServiceURL))
	exitOnErr(logger, err)
	prescriptions, err := upstream.NewPrescriptionsClient(clientFor(cfg.PrescriptionServiceURL))
	exitOnErr(logger, err)
	records, err := upstream.NewRecordsClient(clientFor(cfg.MedicalRecordServiceURL))
	exitOnErr(logger, err)
	admin, err := upstream.NewAdminClient(clientFor(cfg.AdminServiceURL))
	exitOnErr(logger, err)
	chatbot, err := upstream.NewChatbotClient(clientFor(cfg.ChatbotServiceURL))
	exitOnErr(logger, err)

	routerCfg := &router.Config{
		Logger:             logger,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		SessionCodec:       codec,
		SessionStore:       sessionStore,
		Auth: auth.NewHandler(auth.Config{
			Identity: identity,
			Sessions: sessionStore,
			Cookies:  codec,
			Logger:   logger,
			Metrics:  portalMetrics,
		}),
		Patient: dashboard.NewPatientHandler(dashboard.PatientConfig{
			Patients: patients, Doctors: doctors, Appointments: appointments,
			Prescriptions: prescriptions, Logger: logger,
		}),
		Doctor: dashboard.NewDoctorHandler(dashboard.DoctorConfig{
			Doctors: doctors, Patients: patients, Appointments: appointments,
			Prescriptions: prescriptions, Lab: labClient, Records: records, Logger: logger,
		}),
		Pharmacist: dashboard.NewPharmacistHandler(dashboard.PharmacistConfig{
			Pharmacists: pharmacists, Prescriptions: prescriptions, Logger: logger,
		}),
		Nurse: dashboard.NewNurseHandler(dashboard.NurseConfig{
			Nurses: nurses, Patients: patients, Logger: logger,
		}),
		LabTech: dashboard.NewLabTechHandler(dashboard.LabTechConfig{
			LabTechs: labtechs, Lab: labClient, Logger: logger,
		}),
		Admin: dashboard.NewAdminHandler(dashboard.AdminConfig{
			Admin: admin, Logger: logger,
		}),
		History: history.NewHandler(history.Config{Records: records, Logger: logger}),
		Chat: chat.NewHandler(chat.Config{
			Chatbot:    chatbot,
			Transcript: transcript,
			Logger:     logger,
			Metrics:    portalMetrics,
			ReplyDelay: cfg.ChatReplyDelay,
		}),
		MetricsHandler: promhttp.Handler(),
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}

	logger.Info("server stopped")
}

func exitOnErr(logger *logging.Logger, err error) {
	if err != nil {
		logger.Error("failed to build upstream client", "error", err)
		os.Exit(1)
	}
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "careportal-dev-secret"
	}
	return hex.EncodeToString(b)
}
