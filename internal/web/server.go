// Package web hosts the application form over HTTP: a page route that
// embeds the rendered fragment and an ajax route that accepts submissions,
// mirroring the contract the form's page script expects.
package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ianbrown80/workable-plugin/internal/messages"
	"github.com/ianbrown80/workable-plugin/pkg/api"
	"github.com/ianbrown80/workable-plugin/pkg/model"
	"github.com/ianbrown80/workable-plugin/pkg/render"
	"github.com/ianbrown80/workable-plugin/pkg/submission"
)

// Config carries the server settings.
type Config struct {
	Listen     string
	SuccessURL string

	// NonceSecret keys the anti-forgery tokens. Required.
	NonceSecret []byte
	// NonceLifetime bounds token validity; zero means one hour.
	NonceLifetime time.Duration

	Logger *slog.Logger
}

// Server serves the form page and its ajax endpoint.
type Server struct {
	*http.Server
	Router *mux.Router

	client    *api.Client
	renderer  *render.Renderer
	submitter *submission.Submitter
	catalog   *messages.Catalog
	nonces    *NonceIssuer

	successURL string
	log        *slog.Logger
}

// NewServer wires the pipeline behind a mux.Router and an http.Server with
// sane timeouts.
func NewServer(client *api.Client, renderer *render.Renderer, catalog *messages.Catalog, cfg Config) (*Server, error) {
	if client == nil {
		return nil, errors.New("web: api client is required")
	}
	if renderer == nil {
		return nil, errors.New("web: renderer is required")
	}
	if catalog == nil {
		return nil, errors.New("web: message catalog is required")
	}
	if len(cfg.NonceSecret) == 0 {
		return nil, errors.New("web: nonce secret is required")
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	srv := &Server{
		Router:     mux.NewRouter(),
		client:     client,
		renderer:   renderer,
		submitter:  submission.NewSubmitter(client, catalog),
		catalog:    catalog,
		nonces:     NewNonceIssuer(cfg.NonceSecret, cfg.NonceLifetime),
		successURL: cfg.SuccessURL,
		log:        log,
	}
	srv.routes()

	listen := cfg.Listen
	if listen == "" {
		listen = ":8080"
	}
	srv.Server = &http.Server{
		Addr:         listen,
		Handler:      srv.Router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return srv, nil
}

func (ws *Server) routes() {
	ws.Router.StrictSlash(true)
	ws.Router.HandleFunc("/forms/{shortcode}", ws.handleForm).Methods(http.MethodGet)
	ws.Router.HandleFunc("/ajax", ws.handleAjax).Methods(http.MethodPost)
}

// Start runs ListenAndServe in a goroutine and returns.
func (ws *Server) Start() {
	go func() {
		if err := ws.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ws.log.Error("web server stopped", "error", err)
		}
	}()
}

// Stop shuts the server down, waiting for in-flight requests.
func (ws *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = ws.Shutdown(ctx)
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
{{.Fragment}}
</body>
</html>
`))

func (ws *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	shortcode := mux.Vars(r)["shortcode"]
	log := ws.log.With("shortcode", shortcode)

	form, err := ws.buildForm(r.Context(), shortcode)
	if err != nil {
		status := fetchStatus(err)
		log.Warn("fetch application form failed", "error", err, "status", status)
		http.Error(w, http.StatusText(status), status)
		return
	}

	fragment, err := ws.renderer.RenderForm("", form, render.Options{
		Nonce:      ws.nonces.Issue(shortcode),
		SuccessURL: ws.successURL,
	})
	if err != nil {
		log.Error("render form failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct {
		Title    string
		Fragment template.HTML
	}{
		Title:    "Application form",
		Fragment: template.HTML(fragment),
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		log.Error("write form page failed", "error", err)
	}
}

func (ws *Server) buildForm(ctx context.Context, shortcode string) (model.Form, error) {
	app, err := ws.client.GetApplicationForm(ctx, shortcode)
	if err != nil {
		return model.Form{}, err
	}
	form, err := model.Build(shortcode, app)
	if err != nil {
		return model.Form{}, fmt.Errorf("web: build form model: %w", err)
	}
	return form, nil
}

// fetchStatus maps a schema fetch failure to the status the page route
// responds with.
func fetchStatus(err error) int {
	var fetchErr *api.FetchError
	if !errors.As(err, &fetchErr) {
		return http.StatusInternalServerError
	}
	switch fetchErr.Code {
	case api.FetchMissingShortcode:
		return http.StatusBadRequest
	case api.FetchNotFound:
		return http.StatusNotFound
	case api.FetchNotAuthorised:
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}
