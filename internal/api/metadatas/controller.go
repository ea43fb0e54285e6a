package metadatas

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tbukov/mdeco/internal/scanner"
	"github.com/tbukov/mdeco/internal/service"
	"github.com/tbukov/mdeco/internal/treedict"
	"github.com/tbukov/mdeco/pkg/logger"
)

var controllerLogger = logger.Get("MetadatasController")

type (
	Service interface {
		GetMetadata(path string) (*treedict.Tree, error)
		CheckDependencies() []service.ScannerStatus
	}

	// MetadatasController defines the routes for collecting metadata
	// records over HTTP and for inspecting scanner readiness.
	MetadatasController struct {
		service Service
	}

	scannerDto struct {
		Name      string   `json:"name"`
		MimeTypes []string `json:"mime_types"`
		Ready     bool     `json:"ready"`
		Steps     []string `json:"steps,omitempty"`
		Error     string   `json:"error,omitempty"`
	}
)

func New(serv Service) *MetadatasController {
	return &MetadatasController{service: serv}
}

func (controller *MetadatasController) SetRoutes(group *echo.Group) {
	group.GET("/", controller.getMetadata)
	group.GET("/scanners/", controller.listScanners)
}

// getMetadata collects the composite metadata record for the file named
// by the 'path' query parameter.
func (controller *MetadatasController) getMetadata(ec echo.Context) error {
	path := ec.QueryParam("path")
	if path == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter 'path' is mandatory")
	}

	record, err := controller.service.GetMetadata(path)
	if err != nil {
		if errors.Is(err, scanner.ErrNotRegularFile) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}

		controllerLogger.Emit(logger.ERROR, "Failed to collect metadata for %s: %v\n", path, err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return ec.JSON(http.StatusOK, record)
}

// listScanners reports every registered scanner - represented as DTOs -
// along with its readiness outcome.
func (controller *MetadatasController) listScanners(ec echo.Context) error {
	statuses := controller.service.CheckDependencies()

	dtos := make([]scannerDto, len(statuses))
	for k, v := range statuses {
		dtos[k] = scannerDto{
			Name:      v.Name,
			MimeTypes: v.MimeTypes,
			Ready:     v.Ready,
			Steps:     v.Steps,
			Error:     v.Error,
		}
	}

	return ec.JSON(http.StatusOK, dtos)
}
