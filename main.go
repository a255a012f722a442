package main

import (
	"context"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/qmdx00/lifecycle"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"kickoff-calendar/core"
	"kickoff-calendar/pkg/resources"
	"kickoff-calendar/pkg/servers"
)

func main() {
	var err error

	name, version := "kickoff-calendar", "1.0"

	// 1. Config
	resources.InitConfig()

	// 2. Logger base
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().
		Str("service", name).Str("version", version).Logger()
	ctx := log.Logger.WithContext(context.Background())

	startupLogger := log.Ctx(ctx).With().Str("stage", "startup").Str("component", "main").Logger()
	shutdownLogger := log.Ctx(ctx).With().Str("stage", "shut down").Str("component", "main").Logger()

	startupLogger.Info().Msg("application starting up")
	defer shutdownLogger.Info().Msg("application stopped")

	// 3. Telemetry (traces/metrics/logs)
	stopTracerFn, err := resources.CreateTracer(ctx)
	if err != nil {
		shutdownLogger.Fatal().Err(err).Msg("unable to setup tracing")
	}
	defer stopTelemetry(stopTracerFn)

	stopMeterFn, err := resources.CreateMeter(ctx)
	if err != nil {
		shutdownLogger.Fatal().Err(err).Msg("unable to setup metrics")
	}
	defer stopTelemetry(stopMeterFn)

	stopLoggerFn, err := resources.CreateLogger(ctx)
	if err != nil {
		shutdownLogger.Fatal().Err(err).Msg("unable to setup log export")
	}
	defer stopTelemetry(stopLoggerFn)

	// 4. Bridge zerolog -> OTel Logs (still prints to stdout; additionally exports via OTLP)
	log.Logger = log.Logger.Hook(resources.NewZerologHook(name, version))
	ctx = log.Logger.WithContext(ctx)

	// 5. Core resources
	sessions := core.NewSessions(false)
	client := core.NewClient(viper.GetString("CALENDAR_API_BASE_URL"))

	// 6. Wiring
	handlers := core.NewHandlers(client, sessions)

	// 7. Daemons/servers setup

	gin.SetMode(gin.ReleaseMode)

	restHandler := gin.Default()
	restHandler.Use(resources.TracerMiddleware(name))
	restHandler.Use(resources.MeterMiddleware(name))
	restHandler.LoadHTMLGlob(viper.GetString("TEMPLATES_GLOB"))

	restHandler.GET("/", handlers.GetAuth)
	restHandler.POST("/", handlers.PostAuth)
	restHandler.GET("/signup", handlers.GetAuth)
	restHandler.POST("/signup", handlers.PostAuth)
	restHandler.POST("/logout", handlers.PostLogout)

	guarded := restHandler.Group("/", core.RequireSession(sessions))
	guarded.GET("/calendar", handlers.GetCalendar)
	guarded.POST("/calendar/event", handlers.PostEvent)
	guarded.PATCH("/calendar/event/:id", handlers.PatchEvent)
	guarded.DELETE("/calendar/event/:id", handlers.DeleteEvent)
	guarded.GET("/table/:eventType", handlers.GetTable)

	debugHandler := http.NewServeMux()
	debugHandler.HandleFunc("/debug/pprof/", pprof.Index)
	debugHandler.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	debugHandler.HandleFunc("/debug/pprof/profile", pprof.Profile)
	debugHandler.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	debugHandler.HandleFunc("/debug/pprof/trace", pprof.Trace)

	// 8. Daemons/servers lifecycle

	app := lifecycle.NewApp(
		lifecycle.WithName(name),
		lifecycle.WithVersion(version),
	)

	app.Attach(servers.BuildBaseServer())
	app.Attach(servers.BuildHttpServer("rest-server", &http.Server{
		Addr:              net.JoinHostPort(viper.GetString("HTTP_HOST"), viper.GetString("HTTP_PORT")),
		Handler:           restHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}))
	app.Attach(servers.BuildHttpServer("debug-server", &http.Server{
		Addr:              net.JoinHostPort(viper.GetString("DEBUG_HOST"), viper.GetString("DEBUG_PORT")),
		Handler:           debugHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}))

	startupLogger.Info().Msg("application running")

	err = app.Run()
	if err != nil {
		shutdownLogger.Error().Err(err).Msg("runtime error")
	}
}

func stopTelemetry(stopFn func(context.Context) error) {
	ctx, cancelFn := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelFn()

	_ = stopFn(ctx)
}
