// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	activitiesfeature "github.com/projecthubhq/projecthub/internal/app/features/activities"
	healthfeature "github.com/projecthubhq/projecthub/internal/app/features/health"
	projectsfeature "github.com/projecthubhq/projecthub/internal/app/features/projects"
	submissionsfeature "github.com/projecthubhq/projecthub/internal/app/features/submissions"
	tasksfeature "github.com/projecthubhq/projecthub/internal/app/features/tasks"
	"github.com/projecthubhq/projecthub/internal/app/service/mutation"
	activitystore "github.com/projecthubhq/projecthub/internal/app/store/activities"
	projectstore "github.com/projecthubhq/projecthub/internal/app/store/projects"
	submissionstore "github.com/projecthubhq/projecthub/internal/app/store/submissions"
	taskstore "github.com/projecthubhq/projecthub/internal/app/store/tasks"
	userstore "github.com/projecthubhq/projecthub/internal/app/store/users"
	"github.com/projecthubhq/projecthub/internal/app/system/activitylog"
	"github.com/projecthubhq/projecthub/internal/app/system/auth"
	"github.com/projecthubhq/projecthub/internal/app/system/filestore"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. ProjectHub wires the stores, the
// mutation service, and the JSON feature routers here; everything except
// /health and the uploads file server sits behind the session middleware.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	files, err := filestore.NewLocal(appCfg.StorageLocalPath, appCfg.StorageLocalURL)
	if err != nil {
		logger.Error("file storage init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase
	acts := activitystore.New(db)
	svc := mutation.New(mutation.Deps{
		Projects: projectstore.New(db),
		Users:    userstore.New(db),
		Tasks:    taskstore.New(db),
		Subs:     submissionstore.New(db),
		Acts:     acts,
		Activity: activitylog.New(acts, logger),
		Files:    files,
		Log:      logger,
	})

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Stored uploads, served by path as recorded in file descriptors.
	r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Group(func(api chi.Router) {
		api.Use(sessionMgr.LoadSessionUser)
		api.Use(auth.RequireSignedIn)

		projectsHandler := projectsfeature.NewHandler(svc, files, logger)
		api.Route("/projects", projectsHandler.MountRoutes)

		tasksHandler := tasksfeature.NewHandler(svc, logger)
		api.Route("/tasks", tasksHandler.MountRoutes)

		submissionsHandler := submissionsfeature.NewHandler(svc, files, logger)
		api.Route("/submissions", submissionsHandler.MountRoutes)

		activitiesHandler := activitiesfeature.NewHandler(svc, logger)
		api.Route("/activities", activitiesHandler.MountRoutes)
	})

	return r, nil
}
