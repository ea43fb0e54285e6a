package api

import (
	"context"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/tbukov/mdeco/internal/api/metadatas"
	"github.com/tbukov/mdeco/pkg/logger"
)

var log = logger.Get("API")

type (
	RestConfig struct {
		Enabled  bool   `yaml:"enabled" env:"API_ENABLED" env-default:"false"`
		HostAddr string `yaml:"host_address" env:"API_HOST_ADDR" env-default:"0.0.0.0:8080"`
	}

	controller interface {
		SetRoutes(*echo.Group)
	}

	// The RestGateway is a thin wrapper around the Echo HTTP router.
	// Its sole responsibility is to create the routes mdeco exposes
	// and manage the server lifecycle.
	RestGateway struct {
		config              *RestConfig
		ec                  *echo.Echo
		metadatasController controller
	}
)

// NewRestGateway constructs the Echo router and populates it with the
// routes defined by the metadata controller.
func NewRestGateway(config *RestConfig, metadataService metadatas.Service) *RestGateway {
	ec := echo.New()
	ec.OnAddRouteHandler = func(host string, route echo.Route, handler echo.HandlerFunc, middleware []echo.MiddlewareFunc) {
		log.Emit(logger.DEBUG, "Registered new route %s %s\n", route.Method, route.Path)
	}
	ec.HidePort = true
	ec.HideBanner = true

	gateway := &RestGateway{
		config:              config,
		ec:                  ec,
		metadatasController: metadatas.New(metadataService),
	}

	ec.Use(middleware.Logger())
	ec.Use(middleware.Recover())
	ec.Pre(middleware.AddTrailingSlash())

	records := ec.Group("/api/mdeco/v1/metadata")
	gateway.metadatasController.SetRoutes(records)

	return gateway
}

func (gateway *RestGateway) Run(parentCtx context.Context) error {
	ctx, ctxCancel := context.WithCancelCause(parentCtx)
	wg := &sync.WaitGroup{}

	// Start echo router
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := gateway.ec.Start(gateway.config.HostAddr); err != nil {
			ctxCancel(err)
		}
	}()

	// Start thread to listen for context cancellation
	go func(ec *echo.Echo) {
		<-ctx.Done()
		ec.Close()
	}(gateway.ec)

	wg.Wait()

	// Return cancellation cause if any, otherwise nil as parent context
	// cancellation is not an error case we should report.
	if cause := context.Cause(ctx); cause != ctx.Err() {
		return cause
	}

	return nil
}
