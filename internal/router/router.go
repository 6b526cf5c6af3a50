package router

import (
	"database/sql"
	"net/http"

	_ "adopta-api/docs"
	"adopta-api/internal/adapters/notify/logsink"
	mem "adopta-api/internal/adapters/storage/memory"
	pg "adopta-api/internal/adapters/storage/postgres"
	"adopta-api/internal/domain/animals"
	"adopta-api/internal/domain/decisions"
	"adopta-api/internal/domain/feed"
	"adopta-api/internal/domain/petitions"
	"adopta-api/internal/domain/profile"
	"adopta-api/internal/middleware"
	"adopta-api/internal/platform/metrics"
	"adopta-api/internal/ports/auth"
	"adopta-api/internal/ports/media"
	"adopta-api/internal/ports/notify"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

const DefaultMediaPrefix = "animals"

type Options struct {
	Verifier auth.Verifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: sin store las subidas de imagen fallan con upload_error.
	Media       media.Store
	MediaPrefix string

	// Opcional: por defecto las notificaciones solo se loguean.
	Notifier notify.Sink

	Logger  *zap.Logger
	Metrics *metrics.Recorder

	CORSOrigins []string
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	rec := opts.Metrics
	if rec == nil {
		rec = metrics.New("adopta-api")
	}
	sink := opts.Notifier
	if sink == nil {
		sink = logsink.New()
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID(log))
	r.Use(middleware.AccessLog)
	r.Use(middleware.Recover)
	r.Use(rec.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept", "Authorization", "Content-Type", "X-Request-ID",
			middleware.HeaderDebugUserID, middleware.HeaderDebugRole, middleware.HeaderDebugProvince,
		},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Use(middleware.AuthContext(opts.Verifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", rec.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	var (
		animalRepo   animals.Repository
		decisionRepo decisions.Repository
		petitionRepo petitions.Repository
	)

	if opts.DB != nil {
		animalRepo = pg.NewAnimalsRepo(opts.DB)
		decisionRepo = pg.NewDecisionsRepo(opts.DB)
		petitionRepo = pg.NewPetitionsRepo(opts.DB)
	} else {
		// Los tres repos comparten el mismo store para cascadas y la tx de peticiones.
		store := mem.NewDB()
		animalRepo = mem.NewAnimalRepo(store)
		decisionRepo = mem.NewDecisionRepo(store)
		petitionRepo = mem.NewPetitionRepo(store)
	}

	// Services por módulo
	var animalOpts []animals.Option
	if opts.Media != nil {
		prefix := opts.MediaPrefix
		if prefix == "" {
			prefix = DefaultMediaPrefix
		}
		animalOpts = append(animalOpts, animals.WithMediaStore(opts.Media, prefix))
	}
	animalsSvc := animals.NewService(animalRepo, animalOpts...)
	decisionsSvc := decisions.NewService(decisionRepo, animalsSvc, rec)
	feedSvc := feed.NewService(animalsSvc, decisionsSvc)
	petitionsSvc := petitions.NewService(petitionRepo, animalsSvc, sink, rec)

	// Rutas por módulo
	profile.RegisterRoutes(r)
	animals.RegisterRoutes(r, animalsSvc, feedSvc)
	decisions.RegisterRoutes(r, decisionsSvc)
	petitions.RegisterRoutes(r, petitionsSvc)

	return r
}
