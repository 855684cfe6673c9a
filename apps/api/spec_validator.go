package main

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	oapimiddleware "github.com/oapi-codegen/nethttp-middleware"
	"go.uber.org/zap"

	"github.com/parsa000721/CopTrack/contracts"
	"github.com/parsa000721/CopTrack/platform/go/httpapi"
	platformmiddleware "github.com/parsa000721/CopTrack/platform/go/middleware"
)

// newSpecValidator loads the embedded contract and builds the oapi-codegen validator middleware
// that every /api/v1 request passes through.
func newSpecValidator(logger *zap.Logger) (func(http.Handler) http.Handler, error) {
	spec, err := contracts.Load()
	if err != nil {
		return nil, err
	}

	logSecuritySchemes(logger, contracts.FileName, spec)

	return oapimiddleware.OapiRequestValidatorWithOptions(spec, &oapimiddleware.Options{
		Options: openapi3filter.Options{
			AuthenticationFunc: platformmiddleware.ValidateAuthenticationViaSwagger,
		},
		// servers holds only the relative /api/v1 base, so no Host matching happens
		SilenceServersWarning: true,
		ErrorHandler:          writeContractProblem,
	}), nil
}

func writeContractProblem(w http.ResponseWriter, message string, statusCode int) {
	switch statusCode {
	case http.StatusUnauthorized:
		httpapi.WriteProblem(w, httpapi.Unauthorized())
	case http.StatusNotFound:
		httpapi.WriteProblem(w, httpapi.NewProblem("Not Found", message, httpapi.ProblemTypeNotFound, statusCode, nil))
	case http.StatusMethodNotAllowed:
		httpapi.WriteProblem(w, httpapi.NewProblem("Method Not Allowed", message, "about:blank", statusCode, nil))
	case http.StatusBadRequest:
		httpapi.WriteProblem(w, httpapi.BadRequest(message))
	default:
		httpapi.WriteProblem(w, httpapi.NewProblem("Internal Server Error", message, httpapi.ProblemTypeInternal, statusCode, nil))
	}
}

func logSecuritySchemes(logger *zap.Logger, path string, spec *openapi3.T) {
	if spec.Components.SecuritySchemes == nil {
		spec.Components.SecuritySchemes = openapi3.SecuritySchemes{}
	}

	if _, ok := spec.Components.SecuritySchemes["bearerAuth"]; !ok {
		spec.Components.SecuritySchemes["bearerAuth"] = &openapi3.SecuritySchemeRef{
			Value: &openapi3.SecurityScheme{
				Type:   "http",
				Scheme: "bearer",
			},
		}
		logger.Warn("injecting default bearerAuth security scheme", zap.String("path", path))
	}

	names := make([]string, 0, len(spec.Components.SecuritySchemes))
	for name := range spec.Components.SecuritySchemes {
		names = append(names, name)
	}
	logger.Info("loaded security schemes", zap.String("path", path), zap.Strings("names", names))
}
