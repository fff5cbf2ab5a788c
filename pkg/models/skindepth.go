package models

import "github.com/RMahshie/lumen/internal/skindepth"

// SkinDepthRequest holds the material constants and sweep as query parameters
type SkinDepthRequest struct {
	Kappa0      float64 `query:"kappa0" default:"23.6e6" doc:"DC conductivity in S/m"`
	Gamma       float64 `query:"gamma" default:"1.5e14" doc:"Drude damping frequency in rad/s"`
	Mu          float64 `query:"mu" default:"1.2566370614359173e-06" doc:"Magnetic permeability in H/m"`
	StartDecade float64 `query:"start_decade" default:"9" doc:"log10 of the first angular frequency"`
	EndDecade   float64 `query:"end_decade" default:"17" doc:"log10 of the last angular frequency"`
	Points      int     `query:"points" default:"500" doc:"Number of sweep points"`
}

// Constants returns the material constants of the request
func (r *SkinDepthRequest) Constants() skindepth.Constants {
	return skindepth.Constants{Kappa0: r.Kappa0, Gamma: r.Gamma, Mu: r.Mu}
}

// Sweep returns the frequency sweep of the request
func (r *SkinDepthRequest) Sweep() skindepth.Sweep {
	return skindepth.Sweep{StartDecade: r.StartDecade, EndDecade: r.EndDecade, Points: r.Points}
}

// SkinDepthResponse returns the evaluated curves
type SkinDepthResponse struct {
	Body struct {
		Curves  *skindepth.Curves `json:"curves" doc:"Sweep and derived sequences"`
		Summary skindepth.Report  `json:"summary" doc:"Endpoints and Drude crossover"`
	}
}

// SkinDepthPlotRequest adds an image format to SkinDepthRequest
type SkinDepthPlotRequest struct {
	SkinDepthRequest
	Format string `query:"format" enum:"png,svg" default:"png" doc:"Image format"`
}
