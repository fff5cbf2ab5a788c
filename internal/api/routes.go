package api

import (
	"net/http"

	"github.com/RMahshie/lumen/internal/api/handlers"
	"github.com/RMahshie/lumen/internal/inquiry"
	"github.com/RMahshie/lumen/internal/repository"
	"github.com/RMahshie/lumen/internal/storage"
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
)

// formOverheadBytes leaves room for the question and multipart boundaries
const formOverheadBytes = 1 << 20

// Dependencies are the services the routes are wired to
type Dependencies struct {
	Repository     repository.InquiryRepository
	Storage        storage.S3Service
	Processing     inquiry.ProcessingService
	Model          string
	MaxUploadBytes int64
}

// RegisterRoutes sets up all API routes and the upload page
func RegisterRoutes(router chi.Router, api huma.API, deps Dependencies) {
	// Initialize handlers
	inquiryHandler := handlers.NewInquiryHandler(deps.Repository, deps.Storage, deps.Processing, deps.Model, deps.MaxUploadBytes)
	skinDepthHandler := handlers.NewSkinDepthHandler()

	router.Get("/", serveIndex)

	// Register inquiry routes
	huma.Register(api, huma.Operation{
		OperationID:   "createInquiry",
		Method:        http.MethodPost,
		Path:          "/api/inquiries",
		DefaultStatus: http.StatusCreated,
		Summary:       "Ask a question about an image",
		Description:   "Uploads an image with an optional question and starts processing it against the vision model",
		Tags:          []string{"Inquiry"},
		MaxBodyBytes:  inquiryHandler.MaxUploadBytes() + formOverheadBytes,
	}, inquiryHandler.CreateInquiry)

	huma.Register(api, huma.Operation{
		OperationID: "getInquiryStatus",
		Method:      http.MethodGet,
		Path:        "/api/inquiries/{id}/status",
		Summary:     "Get inquiry status",
		Description: "Returns the current status and progress of an inquiry",
		Tags:        []string{"Inquiry"},
	}, inquiryHandler.GetInquiryStatus)

	huma.Register(api, huma.Operation{
		OperationID: "getInquiry",
		Method:      http.MethodGet,
		Path:        "/api/inquiries/{id}",
		Summary:     "Get inquiry answer",
		Description: "Returns a finished inquiry with the model's answer or the upstream error",
		Tags:        []string{"Inquiry"},
	}, inquiryHandler.GetInquiry)

	huma.Register(api, huma.Operation{
		OperationID: "getInquiryImage",
		Method:      http.MethodGet,
		Path:        "/api/inquiries/{id}/image",
		Summary:     "Get inquiry image URL",
		Description: "Returns a pre-signed URL for the uploaded image",
		Tags:        []string{"Inquiry"},
	}, inquiryHandler.GetInquiryImage)

	huma.Register(api, huma.Operation{
		OperationID: "listSessionInquiries",
		Method:      http.MethodGet,
		Path:        "/api/sessions/{session_id}/inquiries",
		Summary:     "List session inquiries",
		Description: "Lists every inquiry of a session, newest first",
		Tags:        []string{"Inquiry"},
	}, inquiryHandler.ListSessionInquiries)

	huma.Register(api, huma.Operation{
		OperationID: "exportSessionInquiries",
		Method:      http.MethodGet,
		Path:        "/api/sessions/{session_id}/inquiries/export",
		Summary:     "Export session inquiries",
		Description: "Downloads a session's inquiries as CSV or JSON",
		Tags:        []string{"Inquiry"},
	}, inquiryHandler.ExportSession)

	// Register skin-depth routes
	huma.Register(api, huma.Operation{
		OperationID: "getSkinDepth",
		Method:      http.MethodGet,
		Path:        "/api/skin-depth",
		Summary:     "Evaluate skin depth",
		Description: "Computes constant-conductivity and Drude skin depths over a log-spaced frequency sweep",
		Tags:        []string{"SkinDepth"},
	}, skinDepthHandler.GetSkinDepth)

	huma.Register(api, huma.Operation{
		OperationID: "getSkinDepthPlot",
		Method:      http.MethodGet,
		Path:        "/api/skin-depth/plot",
		Summary:     "Plot skin depth",
		Description: "Renders both skin-depth curves on log-log axes as PNG or SVG",
		Tags:        []string{"SkinDepth"},
	}, skinDepthHandler.GetSkinDepthPlot)
}
