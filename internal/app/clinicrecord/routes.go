package clinicrecord

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/clinicboard/clinic-record-service/internal/broadcast"
	"github.com/clinicboard/clinic-record-service/internal/http/handlers/auth/currentuser"
	"github.com/clinicboard/clinic-record-service/internal/http/handlers/auth/deleteaccount"
	"github.com/clinicboard/clinic-record-service/internal/http/handlers/auth/login"
	"github.com/clinicboard/clinic-record-service/internal/http/handlers/auth/resetpassword"
	drugcreate "github.com/clinicboard/clinic-record-service/internal/http/handlers/drug/create"
	druglist "github.com/clinicboard/clinic-record-service/internal/http/handlers/drug/list"
	"github.com/clinicboard/clinic-record-service/internal/http/handlers/events"
	"github.com/clinicboard/clinic-record-service/internal/http/handlers/health"
	patientcreate "github.com/clinicboard/clinic-record-service/internal/http/handlers/patient/create"
	patientlist "github.com/clinicboard/clinic-record-service/internal/http/handlers/patient/list"
	patientremove "github.com/clinicboard/clinic-record-service/internal/http/handlers/patient/remove"
	patientupdate "github.com/clinicboard/clinic-record-service/internal/http/handlers/patient/update"
	"github.com/clinicboard/clinic-record-service/internal/http/middlewarectx"
	"github.com/clinicboard/clinic-record-service/internal/lib/jwt"
	authservice "github.com/clinicboard/clinic-record-service/internal/services/auth"
	drugservice "github.com/clinicboard/clinic-record-service/internal/services/drug"
	patientservice "github.com/clinicboard/clinic-record-service/internal/services/patient"
	"github.com/clinicboard/clinic-record-service/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
//
// Чтение списков, вход и канал событий открыты; все мутации находятся
// в группе с JWT-аутентификацией и ограничением частоты запросов.
func RegisterRoutes(r chi.Router, logger *slog.Logger, jwtMaker jwt.Maker,
	db *repository.Storage, hub *broadcast.Hub,
	authSvc *authservice.AuthService,
	patientSvc *patientservice.PatientService,
	drugSvc *drugservice.DrugService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Открытые конечные точки
	r.Post("/login", login.New(logger, authSvc).ServeHTTP)
	r.Get("/patients", patientlist.New(logger, patientSvc).ServeHTTP)
	r.Get("/drugs", druglist.New(logger, drugSvc).ServeHTTP)
	r.Get("/events", events.New(logger, hub).ServeHTTP)
	r.Get("/health", health.New(logger, db).ServeHTTP)

	// Группа с JWT аутентификацией
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
		r.Use(middlewarectx.RateLimitMiddleware(logger))
		r.Get("/user", currentuser.New(logger, authSvc).ServeHTTP)
		r.Post("/reset-password/{doctorID}", resetpassword.New(logger, authSvc).ServeHTTP)
		r.Delete("/account", deleteaccount.New(logger, authSvc).ServeHTTP)
		r.Post("/patients", patientcreate.New(logger, patientSvc).ServeHTTP)
		r.Put("/patients/{id}", patientupdate.New(logger, patientSvc).ServeHTTP)
		r.Delete("/patients/{id}", patientremove.New(logger, patientSvc).ServeHTTP)
		r.Post("/drugs", drugcreate.New(logger, drugSvc).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
