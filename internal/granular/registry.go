package granular

import (
	"fmt"
	"sort"
)

// Law-variant registries, one per physical aspect. The variant sets are
// closed: selection happens once at configuration time, and evaluation
// dispatches through the aspect interfaces.

var normalModels = map[string]func() NormalSubmodel{
	"hooke":          func() NormalSubmodel { return NewNormalHooke() },
	"hertz":          func() NormalSubmodel { return NewNormalHertz() },
	"hertz/material": func() NormalSubmodel { return NewNormalHertzMaterial() },
	"dmt":            func() NormalSubmodel { return NewNormalDMT() },
	"jkr":            func() NormalSubmodel { return NewNormalJKR() },
}

var dampingModels = map[string]func() DampingSubmodel{
	"none":          func() DampingSubmodel { return NewDampingNone() },
	"velocity":      func() DampingSubmodel { return NewDampingVelocity() },
	"mass_velocity": func() DampingSubmodel { return NewDampingMassVelocity() },
	"viscoelastic":  func() DampingSubmodel { return NewDampingViscoelastic() },
	"tsuji":         func() DampingSubmodel { return NewDampingTsuji() },
}

var tangentialModels = map[string]func() TangentialSubmodel{
	"linear_nohistory":      func() TangentialSubmodel { return NewTangentialLinearNoHistory() },
	"linear_history":        func() TangentialSubmodel { return NewTangentialLinearHistory() },
	"mindlin":               func() TangentialSubmodel { return NewTangentialMindlin() },
	"mindlin/force":         func() TangentialSubmodel { return NewTangentialMindlinForce() },
	"mindlin/rescale":       func() TangentialSubmodel { return NewTangentialMindlinRescale() },
	"mindlin/rescale/force": func() TangentialSubmodel { return NewTangentialMindlinRescaleForce() },
}

var rollingModels = map[string]func() RollingSubmodel{
	"none": func() RollingSubmodel { return NewRollingNone() },
	"sds":  func() RollingSubmodel { return NewRollingSDS() },
}

var twistingModels = map[string]func() TwistingSubmodel{
	"none":     func() TwistingSubmodel { return NewTwistingNone() },
	"sds":      func() TwistingSubmodel { return NewTwistingSDS() },
	"marshall": func() TwistingSubmodel { return NewTwistingMarshall() },
}

var heatModels = map[string]func() HeatSubmodel{
	"none": func() HeatSubmodel { return NewHeatNone() },
	"area": func() HeatSubmodel { return NewHeatArea() },
}

func NewNormal(name string) (NormalSubmodel, error) {
	fn, ok := normalModels[name]
	if !ok {
		return nil, fmt.Errorf("%w: normal %q", ErrUnknownModel, name)
	}
	return fn(), nil
}

func NewDamping(name string) (DampingSubmodel, error) {
	fn, ok := dampingModels[name]
	if !ok {
		return nil, fmt.Errorf("%w: damping %q", ErrUnknownModel, name)
	}
	return fn(), nil
}

func NewTangential(name string) (TangentialSubmodel, error) {
	fn, ok := tangentialModels[name]
	if !ok {
		return nil, fmt.Errorf("%w: tangential %q", ErrUnknownModel, name)
	}
	return fn(), nil
}

func NewRolling(name string) (RollingSubmodel, error) {
	fn, ok := rollingModels[name]
	if !ok {
		return nil, fmt.Errorf("%w: rolling %q", ErrUnknownModel, name)
	}
	return fn(), nil
}

func NewTwisting(name string) (TwistingSubmodel, error) {
	fn, ok := twistingModels[name]
	if !ok {
		return nil, fmt.Errorf("%w: twisting %q", ErrUnknownModel, name)
	}
	return fn(), nil
}

func NewHeat(name string) (HeatSubmodel, error) {
	fn, ok := heatModels[name]
	if !ok {
		return nil, fmt.Errorf("%w: heat %q", ErrUnknownModel, name)
	}
	return fn(), nil
}

// Variant lists one registered law for the CLI listing.
type Variant struct {
	Aspect    string
	Name      string
	NumCoeffs int
	History   int
}

// Variants returns every registered law, sorted by aspect then name.
func Variants() []Variant {
	var out []Variant
	add := func(aspect, name string, s Submodel) {
		out = append(out, Variant{Aspect: aspect, Name: name, NumCoeffs: s.NumCoeffs(), History: s.HistorySize()})
	}
	for name, fn := range normalModels {
		add("normal", name, fn())
	}
	for name, fn := range dampingModels {
		add("damping", name, fn())
	}
	for name, fn := range tangentialModels {
		add("tangential", name, fn())
	}
	for name, fn := range rollingModels {
		add("rolling", name, fn())
	}
	for name, fn := range twistingModels {
		add("twisting", name, fn())
	}
	for name, fn := range heatModels {
		add("heat", name, fn())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Aspect != out[j].Aspect {
			return out[i].Aspect < out[j].Aspect
		}
		return out[i].Name < out[j].Name
	})
	return out
}
