package granular

import (
	"errors"
	"fmt"
)

// Configuration-time errors. Force evaluation itself never fails; invalid
// setups are rejected before any contact is evaluated.
var (
	// ErrInvalidParameters indicates a negative or otherwise illegal
	// coefficient passed to a force law.
	ErrInvalidParameters = errors.New("granular: invalid model parameters")

	// ErrMissingMaterialProperty indicates a law that derives stiffness from
	// elastic properties was paired with a normal law that does not expose them.
	ErrMissingMaterialProperty = errors.New("granular: normal model does not provide material properties")

	// ErrUnknownModel indicates an unregistered law name.
	ErrUnknownModel = errors.New("granular: unknown model")

	// ErrMixIncompatible indicates an attempt to mix two models built from
	// different law variants.
	ErrMixIncompatible = errors.New("granular: cannot mix different model variants")

	// ErrCoeffCount indicates a coefficient list whose length does not match
	// the law's declared contract.
	ErrCoeffCount = errors.New("granular: wrong number of coefficients")
)

func errCoeffCount(name string, want, got int) error {
	return fmt.Errorf("%w: %s expects %d, got %d", ErrCoeffCount, name, want, got)
}

func errCoeff(name string, err error) error {
	return fmt.Errorf("%s model: %w", name, err)
}
