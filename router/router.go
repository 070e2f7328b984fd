package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"event-manager-backend/auth"
	"event-manager-backend/codec"
	"event-manager-backend/config"
	"event-manager-backend/dashboard"
	"event-manager-backend/factory"
	"event-manager-backend/geo"
	"event-manager-backend/handler"
	"event-manager-backend/healthcheck"
	"event-manager-backend/hook"
	"event-manager-backend/listing"
	"event-manager-backend/logger"
	"event-manager-backend/middleware"
	"event-manager-backend/model"
	"event-manager-backend/permalink"
	"event-manager-backend/render"
	"event-manager-backend/response"
	"event-manager-backend/schema"
	"event-manager-backend/shortcode"
	"event-manager-backend/structured"
	"event-manager-backend/submission"
	"event-manager-backend/upload"
	"event-manager-backend/validation"

	"github.com/gorilla/mux"
	"github.com/spf13/viper"
)

const geocodeTimeout = 2 * time.Second

// SiteLocation is the configured site timezone, UTC when unknown.
func SiteLocation(ctx context.Context) *time.Location {
	name := viper.GetString(config.SiteTimezone)
	loc, err := time.LoadLocation(name)
	if err != nil {
		logger.Warnf(ctx, "siteLocation: unknown timezone %q, using UTC: %v", name, err)
		return time.UTC
	}
	return loc
}

// Router returns the router for all the API handler.
func Router(ctx context.Context, f factory.Factory) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.SetCorrelationIDHeader)
	r.Use(middleware.PanicHandler)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		response.ResourceNotFound(fmt.Sprintf("The requested resource was not found: path: %s, method: %s", req.URL.Path, req.Method), "The requested resource was not found!").Send(req.Context(), w)
	})

	r.Use(middleware.ResponseTimeLogging)
	r.Use(middleware.RequestLogging)
	r.Use(middleware.SetContentTypeHeader)

	s := f.Store(ctx)
	opts := f.Options(ctx)
	loc := SiteLocation(ctx)
	links := permalink.New(viper.GetString(config.SiteURL))
	bus := hook.New()

	sealer, err := codec.NewSealer([]byte(viper.GetString(config.CookieKey)))
	if err != nil {
		logger.Fatalf(ctx, "router: Error creating cookie sealer: %+v", err)
	}
	nonces := auth.NewNonces([]byte(viper.GetString(config.NonceSecret)))
	resolver := auth.NewResolver(opts, []byte(viper.GetString(config.Secret)),
		time.Duration(viper.GetInt(config.JWTOfflineInterval))*time.Second)

	engine := listing.New(s, opts, bus, loc)
	submit := submission.New(s, schema.NewRegistry(opts), validation.New(s, opts, bus), opts, bus, sealer, links)
	dash := dashboard.New(s, opts, bus, nonces, links, submit)
	renderer := render.New(s, opts, links, geo.NewLocator(s, nil, geocodeTimeout))
	shortcodes := shortcode.New(s, opts, engine, renderer, submit, dash, links)
	emitter := structured.New(s, bus, links, loc)
	uploads := upload.DefaultConfig(viper.GetString(config.UploadDir), viper.GetString(config.UploadURL), viper.GetInt64(config.UploadMaxSize))

	r.Use(middleware.Authenticate(resolver))

	r.HandleFunc("/healthcheck", healthcheck.Self).Methods(http.MethodGet)
	r.HandleFunc("/logout", handler.Logout).Methods(http.MethodPost)

	ajaxRouter := r.PathPrefix("/em-ajax").Subrouter()
	ajaxRouter.HandleFunc("/get_listings", handler.GetListings(engine, renderer, links)).Methods(http.MethodGet, http.MethodPost)
	ajaxRouter.HandleFunc("/get_upcoming_listings", handler.GetUpcomingListings(engine, renderer)).Methods(http.MethodGet, http.MethodPost)
	ajaxRouter.HandleFunc("/load_more_upcoming_events", handler.LoadMoreUpcomingEvents(engine, renderer)).Methods(http.MethodGet, http.MethodPost)
	ajaxRouter.HandleFunc("/upload_file", handler.UploadFile(uploads)).Methods(http.MethodPost)
	ajaxRouter.HandleFunc("/add_dj", handler.AddEntity(model.KindDJ, submit, nonces, renderer)).Methods(http.MethodPost)
	ajaxRouter.HandleFunc("/add_local", handler.AddEntity(model.KindLocal, submit, nonces, renderer)).Methods(http.MethodPost)

	shortcodeRouter := r.PathPrefix("/shortcode").Subrouter()
	shortcodeRouter.HandleFunc("", handler.Shortcodes(shortcodes)).Methods(http.MethodGet)
	shortcodeRouter.HandleFunc("/{name}", handler.Shortcode(shortcodes, uploads)).Methods(http.MethodGet, http.MethodPost)

	eventRouter := r.PathPrefix("/events").Subrouter()
	eventRouter.HandleFunc("/{id:[0-9]+}/structured-data", handler.StructuredData(emitter, s)).Methods(http.MethodGet)

	return r
}
