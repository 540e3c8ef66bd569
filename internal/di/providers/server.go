package providers

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/tvrec/tvrec-server/internal/api"
	"github.com/tvrec/tvrec-server/internal/config"
	"github.com/tvrec/tvrec-server/internal/logger"
	"github.com/tvrec/tvrec-server/internal/service"
)

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 30 * time.Second

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	api *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	defer h.api.Close()
	return h.Server.Shutdown(ctx)
}

// ProvideAPIServices collects the services the HTTP API exposes.
// Services whose provider is not configured are left nil and logged.
func ProvideAPIServices(i do.Injector) (*api.Services, error) {
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Ratings: do.MustInvoke[*service.RatingsService](i),
		Images:  do.MustInvoke[*service.ImageService](i),
	}

	if crossRef, err := do.Invoke[*service.CrossRefService](i); err == nil {
		services.CrossRef = crossRef
	} else {
		log.Warn("Known shows search disabled", "error", err)
	}

	if recommend, err := do.Invoke[*service.RecommendService](i); err == nil {
		services.Recommend = recommend
	} else {
		log.Warn("Recommendations disabled", "error", err)
	}

	return services, nil
}

// ProvideHTTPServer provides the HTTP server. The listener is bound here so
// port conflicts fail startup; serving happens in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	services := do.MustInvoke[*api.Services](i)

	handler := api.NewServer(services, cfg.Server, log.Component("api"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		handler.Close()
		return nil, err
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", ln.Addr().String())

	return &HTTPServerHandle{Server: srv, api: handler}, nil
}
