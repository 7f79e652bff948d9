package granular

import "fmt"

// HeatSubmodel computes conductive heat exchange across the contact.
type HeatSubmodel interface {
	Submodel

	// Flux is the heat flow into body i, positive when j is hotter.
	Flux(c *Contact) float64
}

// HeatNone disables heat conduction.
type HeatNone struct {
	submodel
}

func NewHeatNone() *HeatNone {
	h := &HeatNone{}
	h.name = "none"
	return h
}

func (h *HeatNone) deriveLocal() error { return nil }
func (h *HeatNone) Flux(_ *Contact) float64 { return 0 }

// HeatArea conducts heat in proportion to the contact radius.
// Coefficients: conductivity.
type HeatArea struct {
	submodel
	ks float64
}

func NewHeatArea() *HeatArea {
	h := &HeatArea{}
	h.name = "area"
	h.numCoeffs = 1
	return h
}

func (h *HeatArea) deriveLocal() error {
	h.ks = h.coeffs[0]
	if h.ks < 0 {
		return errCoeff(h.name, fmt.Errorf("%w: conductivity must be nonnegative", ErrInvalidParameters))
	}
	return nil
}

func (h *HeatArea) Flux(c *Contact) float64 {
	return h.ks * c.Area * c.DeltaT
}
