// Package material is the configuration front end for the contact engine:
// a yaml-backed database of named material types, each selecting one law
// variant per physical aspect with its raw coefficients. Pairwise models for
// unlike types come from coefficient mixing; wall types use the one-sided
// formulas.
package material

import (
	"fmt"
	"os"

	"github.com/san-kum/granular/internal/granular"
	"gopkg.in/yaml.v3"
)

type Law struct {
	Model  string    `yaml:"model"`
	Coeffs []float64 `yaml:"coeffs,omitempty"`
}

type Material struct {
	Name       string `yaml:"name"`
	Wall       bool   `yaml:"wall,omitempty"`
	Normal     Law    `yaml:"normal"`
	Damping    Law    `yaml:"damping"`
	Tangential Law    `yaml:"tangential"`
	Rolling    *Law   `yaml:"rolling,omitempty"`
	Twisting   *Law   `yaml:"twisting,omitempty"`
	Heat       *Law   `yaml:"heat,omitempty"`

	LimitDamping bool `yaml:"limit_damping,omitempty"`
}

type Database struct {
	Materials []Material `yaml:"materials"`
}

// Default is a small two-material database used by the demo scenes.
func Default() *Database {
	return &Database{
		Materials: []Material{
			{
				Name:       "bead",
				Normal:     Law{Model: "hertz", Coeffs: []float64{1e5, 0.3}},
				Damping:    Law{Model: "mass_velocity"},
				Tangential: Law{Model: "mindlin", Coeffs: []float64{8e4, 1.0, 0.5}},
			},
			{
				Name:       "rough_bead",
				Normal:     Law{Model: "hertz", Coeffs: []float64{2e5, 0.4}},
				Damping:    Law{Model: "mass_velocity"},
				Tangential: Law{Model: "mindlin", Coeffs: []float64{1.2e5, 1.0, 0.9}},
				Rolling:    &Law{Model: "sds", Coeffs: []float64{500, 10, 0.3}},
				Twisting:   &Law{Model: "marshall"},
			},
		},
	}
}

func Load(path string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	db := &Database{}
	if err := yaml.Unmarshal(data, db); err != nil {
		return nil, err
	}
	return db, nil
}

func Save(path string, db *Database) error {
	data, err := yaml.Marshal(db)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (db *Database) find(name string) (*Material, error) {
	for i := range db.Materials {
		if db.Materials[i].Name == name {
			return &db.Materials[i], nil
		}
	}
	return nil, fmt.Errorf("unknown material: %s", name)
}

// Build constructs and finalizes the model governing contacts between two
// bodies of the named type.
func (db *Database) Build(name string) (*granular.Model, error) {
	mat, err := db.find(name)
	if err != nil {
		return nil, err
	}
	m, err := mat.assemble()
	if err != nil {
		return nil, err
	}
	if err := m.Finalize(); err != nil {
		return nil, fmt.Errorf("material %s: %w", name, err)
	}
	return m, nil
}

// BuildPair constructs the mixed model governing contacts between two named
// types. Same-type pairs use the type's own coefficients; pairs with a wall
// type use the one-sided wall mixing.
func (db *Database) BuildPair(a, b string) (*granular.Model, error) {
	if a == b {
		return db.Build(a)
	}
	ma, err := db.find(a)
	if err != nil {
		return nil, err
	}
	mb, err := db.find(b)
	if err != nil {
		return nil, err
	}

	if ma.Wall || mb.Wall {
		particle := ma
		if ma.Wall {
			particle = mb
		}
		base, err := particle.assemble()
		if err != nil {
			return nil, err
		}
		mixed, err := base.MixWall()
		if err != nil {
			return nil, fmt.Errorf("materials %s/%s: %w", a, b, err)
		}
		return mixed, nil
	}

	modelA, err := ma.assemble()
	if err != nil {
		return nil, err
	}
	modelB, err := mb.assemble()
	if err != nil {
		return nil, err
	}
	mixed, err := modelA.MixWith(modelB)
	if err != nil {
		return nil, fmt.Errorf("materials %s/%s: %w", a, b, err)
	}
	return mixed, nil
}

// assemble builds the unfinalized model from the material's law selections.
func (mat *Material) assemble() (*granular.Model, error) {
	m := granular.New()
	m.LimitDamping = mat.LimitDamping

	if err := m.UseNormal(mat.Normal.Model, mat.Normal.Coeffs); err != nil {
		return nil, fmt.Errorf("material %s: %w", mat.Name, err)
	}
	damping := mat.Damping.Model
	if damping == "" {
		damping = "viscoelastic"
	}
	if err := m.UseDamping(damping); err != nil {
		return nil, fmt.Errorf("material %s: %w", mat.Name, err)
	}
	if err := m.UseTangential(mat.Tangential.Model, mat.Tangential.Coeffs); err != nil {
		return nil, fmt.Errorf("material %s: %w", mat.Name, err)
	}
	if mat.Rolling != nil {
		if err := m.UseRolling(mat.Rolling.Model, mat.Rolling.Coeffs); err != nil {
			return nil, fmt.Errorf("material %s: %w", mat.Name, err)
		}
	}
	if mat.Twisting != nil {
		if err := m.UseTwisting(mat.Twisting.Model, mat.Twisting.Coeffs); err != nil {
			return nil, fmt.Errorf("material %s: %w", mat.Name, err)
		}
	}
	if mat.Heat != nil {
		if err := m.UseHeat(mat.Heat.Model, mat.Heat.Coeffs); err != nil {
			return nil, fmt.Errorf("material %s: %w", mat.Name, err)
		}
	}
	return m, nil
}
