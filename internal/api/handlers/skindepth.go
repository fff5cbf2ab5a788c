package handlers

import (
	"bytes"
	"context"
	"errors"

	"github.com/RMahshie/lumen/internal/skindepth"
	"github.com/RMahshie/lumen/pkg/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"
)

// SkinDepthHandler evaluates and plots skin-depth curves
type SkinDepthHandler struct{}

// NewSkinDepthHandler creates a new skin-depth handler
func NewSkinDepthHandler() *SkinDepthHandler {
	return &SkinDepthHandler{}
}

// GetSkinDepth returns both skin-depth sequences over the requested sweep
func (h *SkinDepthHandler) GetSkinDepth(ctx context.Context, req *models.SkinDepthRequest) (*models.SkinDepthResponse, error) {
	curves, err := evaluate(req)
	if err != nil {
		return nil, err
	}

	resp := &models.SkinDepthResponse{}
	resp.Body.Curves = curves
	resp.Body.Summary = skindepth.Summary(curves)
	return resp, nil
}

// GetSkinDepthPlot renders the log-log comparison figure
func (h *SkinDepthHandler) GetSkinDepthPlot(ctx context.Context, req *models.SkinDepthPlotRequest) (*models.FileResponse, error) {
	curves, err := evaluate(&req.SkinDepthRequest)
	if err != nil {
		return nil, err
	}

	opts := skindepth.DefaultPlotOptions()
	if req.Format != "" {
		opts.Format = req.Format
	}

	var buf bytes.Buffer
	if err := skindepth.WritePlot(&buf, curves, opts); err != nil {
		return nil, huma.Error500InternalServerError("Failed to render plot", err)
	}

	return &models.FileResponse{
		ContentType:        skindepth.ContentType(opts.Format),
		ContentDisposition: "inline; filename=\"skin-depth." + opts.Format + "\"",
		Body:               buf.Bytes(),
	}, nil
}

func evaluate(req *models.SkinDepthRequest) (*skindepth.Curves, error) {
	curves, err := skindepth.Evaluate(req.Constants(), req.Sweep())
	if errors.Is(err, skindepth.ErrInvalidConstant) || errors.Is(err, skindepth.ErrInvalidSweep) {
		return nil, huma.Error400BadRequest(err.Error(), err)
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to evaluate skin depth", err)
	}

	log.Debug().
		Float64("kappa0", req.Kappa0).
		Float64("gamma", req.Gamma).
		Int("points", curves.Len()).
		Msg("Evaluated skin-depth sweep")
	return curves, nil
}
