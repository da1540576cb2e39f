package api

import (
	"github.com/gin-gonic/gin"

	"github.com/kreuzberg-io/kreuzberg/internal/api/handler"
	"github.com/kreuzberg-io/kreuzberg/internal/api/middleware"
	"github.com/kreuzberg-io/kreuzberg/internal/extract"
	"github.com/kreuzberg-io/kreuzberg/internal/store"
)

// SetupRouter configures the Gin router with all routes.
// Parameters:
//   - stores: configured store adapters for health reporting.
//   - pipeline: extraction pipeline for format reporting.
//   - mode: gin mode (release, test, debug).
//   - cors: CORS configuration.
// Returns:
//   - *gin.Engine: configured router.
func SetupRouter(stores *store.Set, pipeline *extract.Pipeline, mode string, cors middleware.CORSConfig) *gin.Engine {
	switch mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cors))

	healthHandler := handler.NewHealthHandler(stores)
	jobsHandler := handler.NewJobsHandler(stores.Recorder)
	formatsHandler := handler.NewFormatsHandler(pipeline)

	r.GET("/health", healthHandler.Health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/targets", healthHandler.Targets)
		v1.GET("/formats", formatsHandler.Formats)
		v1.GET("/jobs", jobsHandler.ListJobs)
		v1.GET("/jobs/:id", jobsHandler.GetJob)
	}

	return r
}
