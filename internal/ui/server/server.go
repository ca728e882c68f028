// Package server serves the portfolio shell, its WASM bundle and the
// same-origin contact relay.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Its-donkey/portfolio/internal/config"
	"github.com/Its-donkey/portfolio/internal/contact"
	"github.com/Its-donkey/portfolio/internal/content"
	"github.com/Its-donkey/portfolio/internal/ui/render"
	"github.com/Its-donkey/portfolio/logging"
)

const shutdownTimeout = 5 * time.Second

// Options configures the portfolio HTTP server.
type Options struct {
	Config    config.Config
	Content   *content.Store
	Relay     contact.Relay
	Logger    *logging.Logger
	Templates *template.Template
	// Watch reloads the content file when it changes on disk.
	Watch bool
	// Ready is called with the bound address once the listener is open.
	Ready func(addr string)
}

type server struct {
	assetsDir   string
	siteName    string
	description string
	templates   *template.Template
	content     *content.Store
	relay       contact.Relay
	logger      *logging.Logger
	currentYear int
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, opts Options) error {
	handler, srv, err := build(opts)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", opts.Config.ListenAddr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", opts.Config.ListenAddr(), err)
	}
	httpServer := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	addr := listener.Addr().String()
	srv.logger.Info("server", "serving portfolio", map[string]any{"addr": "http://" + addr, "site": srv.siteName})
	if opts.Ready != nil {
		opts.Ready(addr)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		srv.logger.Info("server", "server stopped", nil)
		return nil
	})
	if opts.Watch && srv.content.Path() != "" {
		g.Go(func() error {
			return srv.content.Watch(gctx)
		})
	}
	return g.Wait()
}

// NewHandler builds the routed handler without listening. It runs the same
// startup checks as Run.
func NewHandler(opts Options) (http.Handler, error) {
	handler, _, err := build(opts)
	return handler, err
}

func build(opts Options) (http.Handler, *server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	cfg := opts.Config

	store := opts.Content
	if store == nil {
		loaded, err := content.NewStore(cfg.App.Content, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("load content: %w", err)
		}
		store = loaded
	}
	if err := checkNavigation(store.Current()); err != nil {
		return nil, nil, err
	}
	store.OnReload(func(p *content.Portfolio) {
		if err := checkNavigation(p); err != nil {
			logger.Error("content", "reloaded content breaks navigation", err, nil)
		}
	})

	relay := opts.Relay
	if relay == nil {
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
		client, err := contact.NewWeb3FormsClient(contact.ClientOptions{
			Endpoint:  cfg.Contact.Endpoint,
			AccessKey: cfg.Contact.AccessKey,
			Subject:   cfg.Contact.Subject,
			Timeout:   cfg.Contact.Timeout(),
		})
		if err != nil {
			return nil, nil, err
		}
		relay = client
	}

	tmpl := opts.Templates
	if tmpl == nil {
		loaded, err := loadTemplates()
		if err != nil {
			return nil, nil, fmt.Errorf("load templates: %w", err)
		}
		tmpl = loaded
	}

	assetsDir, err := filepath.Abs(cfg.App.Assets)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve assets dir: %w", err)
	}

	srv := &server{
		assetsDir:   assetsDir,
		siteName:    cfg.App.Name,
		description: strings.TrimSpace(cfg.App.Description),
		templates:   tmpl,
		content:     store,
		relay:       relay,
		logger:      logger,
		currentYear: time.Now().Year(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", srv.handleHome)
	mux.Handle("GET /styles.css", srv.assetHandler("styles.css", "text/css; charset=utf-8"))
	mux.Handle("GET /wasm_exec.js", srv.assetHandler("wasm_exec.js", "application/javascript"))
	mux.Handle("GET /main.wasm", srv.assetHandler("main.wasm", "application/wasm"))
	mux.HandleFunc("GET /api/content", srv.handleContent)
	mux.HandleFunc("/api/contact", srv.handleContact)
	mux.HandleFunc("GET /healthz", srv.handleHealth)
	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return logging.NewHTTPLogger(logger, 0).Middleware(mux), srv, nil
}

// checkNavigation renders p the way the client will and verifies the
// section anchors and nav items line up.
func checkNavigation(p *content.Portfolio) error {
	page := render.Page(p, render.View{})
	if err := render.VerifyNavigation(strings.NewReader(page)); err != nil {
		return fmt.Errorf("content: %w", err)
	}
	return nil
}

func (s *server) assetHandler(name, contentType string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(s.assetsDir, name)
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		http.ServeFile(w, r, path)
	})
}
