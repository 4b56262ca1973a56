package routes

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/hospital-backend/config"
	atencionControllers "github.com/c14220110/hospital-backend/internal/atenciones/controllers"
	atencionRoutes "github.com/c14220110/hospital-backend/internal/atenciones/routes"
	atencionServices "github.com/c14220110/hospital-backend/internal/atenciones/services"
	citaControllers "github.com/c14220110/hospital-backend/internal/citas/controllers"
	citaRoutes "github.com/c14220110/hospital-backend/internal/citas/routes"
	citaServices "github.com/c14220110/hospital-backend/internal/citas/services"
	"github.com/c14220110/hospital-backend/internal/common/middlewares"
	dashboardControllers "github.com/c14220110/hospital-backend/internal/dashboard/controllers"
	dashboardRoutes "github.com/c14220110/hospital-backend/internal/dashboard/routes"
	dashboardServices "github.com/c14220110/hospital-backend/internal/dashboard/services"
	habitacionControllers "github.com/c14220110/hospital-backend/internal/habitaciones/controllers"
	habitacionRoutes "github.com/c14220110/hospital-backend/internal/habitaciones/routes"
	habitacionServices "github.com/c14220110/hospital-backend/internal/habitaciones/services"
	historialControllers "github.com/c14220110/hospital-backend/internal/historial/controllers"
	historialRoutes "github.com/c14220110/hospital-backend/internal/historial/routes"
	historialServices "github.com/c14220110/hospital-backend/internal/historial/services"
	pacienteControllers "github.com/c14220110/hospital-backend/internal/pacientes/controllers"
	pacienteRoutes "github.com/c14220110/hospital-backend/internal/pacientes/routes"
	pacienteServices "github.com/c14220110/hospital-backend/internal/pacientes/services"
	doctorControllers "github.com/c14220110/hospital-backend/internal/personal/controllers"
	doctorRoutes "github.com/c14220110/hospital-backend/internal/personal/routes"
	doctorServices "github.com/c14220110/hospital-backend/internal/personal/services"
	prediccionControllers "github.com/c14220110/hospital-backend/internal/prediccion/controllers"
	prediccionRoutes "github.com/c14220110/hospital-backend/internal/prediccion/routes"
	prediccionServices "github.com/c14220110/hospital-backend/internal/prediccion/services"
	"github.com/c14220110/hospital-backend/pkg/events"
	"github.com/c14220110/hospital-backend/pkg/storage/mariadb"
	"github.com/c14220110/hospital-backend/ws"
)

// Deps is everything the HTTP layer needs from main.
type Deps struct {
	DB     *sql.DB
	Config *config.Config
	Events events.Emitter

	// Hub is optional; without it /ws is not registered.
	Hub *ws.Hub
}

// Init menginisialisasi semua routes menggunakan Echo framework
func Init(e *echo.Echo, d Deps) {
	cfg := d.Config
	emitter := d.Events
	if emitter == nil {
		emitter = events.Nop{}
	}

	// Inisialisasi service
	pacienteService := pacienteServices.NewPacienteService(d.DB)
	doctorService := doctorServices.NewDoctorService(d.DB)
	citaService := citaServices.NewCitaService(d.DB)
	atencionService := atencionServices.NewAtencionService(d.DB)
	historialService := historialServices.NewHistorialService(d.DB)
	habitacionService := habitacionServices.NewHabitacionService(d.DB)
	dashboardService := dashboardServices.NewDashboardService(d.DB)
	prediccionClient := prediccionServices.NewClient(cfg.PredictionURL, cfg.ExplanationURL, cfg.ExplanationAPIKey, cfg.HTTPClientTimeout)
	prediccionService := prediccionServices.NewPrediccionService(prediccionClient, historialService)

	// Inisialisasi controller
	pacienteController := pacienteControllers.NewPacienteController(pacienteService, emitter, cfg.MaxPhotoBytes)
	doctorController := doctorControllers.NewDoctorController(doctorService, cfg.MaxPhotoBytes)
	citaController := citaControllers.NewCitaController(citaService, emitter)
	atencionController := atencionControllers.NewAtencionController(atencionService, emitter)
	historialController := historialControllers.NewHistorialController(historialService)
	habitacionController := habitacionControllers.NewHabitacionController(habitacionService, emitter)
	dashboardController := dashboardControllers.NewDashboardController(dashboardService)
	prediccionController := prediccionControllers.NewPrediccionController(prediccionService)

	e.GET("/health", Health(d.DB))
	if d.Hub != nil {
		e.GET("/ws", ws.ServeWS(d.Hub, ws.NewUpgrader(cfg.CORSOrigins)))
	}

	// Grup API utama
	api := e.Group("/api")
	api.Use(middlewares.BodyLimit(cfg.MaxPhotoBytes))
	if cfg.AuthEnabled() {
		api.Use(middlewares.JWTMiddleware(cfg.JWTSecret))
	}

	pacienteRoutes.RegisterPacienteRoutes(api, pacienteController)
	doctorRoutes.RegisterDoctorRoutes(api, doctorController)
	citaRoutes.RegisterCitaRoutes(api, citaController)
	atencionRoutes.RegisterAtencionRoutes(api, atencionController)
	historialRoutes.RegisterHistorialRoutes(api, historialController)
	habitacionRoutes.RegisterHabitacionRoutes(api, habitacionController)
	dashboardRoutes.RegisterDashboardRoutes(api, dashboardController)
	prediccionRoutes.RegisterPrediccionRoutes(api, prediccionController)
}

// Health pings the pool: 200 with pool counters when reachable, 503 otherwise.
func Health(db *sql.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		stats, err := mariadb.Check(c.Request().Context(), db)
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unhealthy", "error": err.Error(), "pool": stats})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "healthy", "pool": stats})
	}
}
