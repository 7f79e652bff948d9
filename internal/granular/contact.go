package granular

import "github.com/san-kum/granular/internal/vec3"

// Contact is the per-evaluation context: the local kinematic state of one
// touching pair plus the outputs the submodels write back. One Contact is
// reused across all pairs evaluated sequentially by a worker; it is never
// shared between pairs evaluated at the same instant.
type Contact struct {
	// Geometry. Nx points from body j toward body i.
	Nx     vec3.Vec
	R      float64 // center distance
	Delta  float64 // geometric overlap, radsum - r
	Radi   float64
	Radj   float64
	Radsum float64
	Reff   float64 // effective radius, radi*radj/radsum
	Meff   float64 // effective mass

	// Kinematics.
	Vnnr     float64  // relative normal speed along Nx
	Vtr      vec3.Vec // relative tangential velocity at the contact point
	Vrel     float64  // |Vtr|
	Relrot   vec3.Vec // relative angular velocity, wi - wj
	Vrl      vec3.Vec // relative rolling velocity
	Magtwist float64  // relative rotation rate about the normal

	// Heat conduction input: temperature difference Tj - Ti.
	DeltaT float64

	Dt float64

	// HistoryUpdate gates all mutation of the history slice. Trial
	// evaluations (neighbor rebuilds, energy recomputation) run with it
	// false and must be idempotent.
	HistoryUpdate bool

	// History is this contact's persistent slice of scalar slots, owned by
	// the neighbor subsystem and indexed via each submodel's offset.
	History []float64

	// Area is the instantaneous contact radius, set by the normal law
	// before any other law runs.
	Area float64

	// Fncrit is the critical normal force bounding friction, set by the
	// normal law before the tangential law runs.
	Fncrit float64

	// Outputs.
	Fnormal     float64  // total scalar normal force along Nx
	Fs          vec3.Vec // tangential force
	Fr          vec3.Vec // rolling resistance pseudo-force
	Magtortwist float64  // twisting torque magnitude about the normal
	Q           float64  // heat flux into body i
}

// BodyState is the kinematic state of one contact participant as supplied by
// the surrounding integration loop.
type BodyState struct {
	Pos    vec3.Vec
	Vel    vec3.Vec
	Omega  vec3.Vec
	Radius float64
	Mass   float64
	Temp   float64
}

// Prep fills the geometric and kinematic fields from two body states,
// leaving outputs and history untouched. It returns false when the bodies
// are geometrically separated (beyond-contact laws decide touching
// themselves via Model.Touch).
func (c *Contact) Prep(i, j *BodyState) bool {
	dx := vec3.Sub(i.Pos, j.Pos)
	c.R = vec3.Len(dx)
	c.Radi = i.Radius
	c.Radj = j.Radius
	c.Radsum = i.Radius + j.Radius
	c.Delta = c.Radsum - c.R
	if c.R == 0 {
		return false
	}
	c.Nx = vec3.Scale(1/c.R, dx)
	c.Reff = c.Radi * c.Radj / c.Radsum
	c.Meff = i.Mass * j.Mass / (i.Mass + j.Mass)

	// relative translational velocity, split into normal and tangential parts
	vr := vec3.Sub(i.Vel, j.Vel)
	c.Vnnr = vec3.Dot(vr, c.Nx)
	vt := vec3.AddScaled(vr, -c.Vnnr, c.Nx)

	// surface velocity from rotation
	wr := vec3.AddScaled(vec3.Scale(c.Radi, i.Omega), c.Radj, j.Omega)
	c.Vtr = vec3.Sub(vt, vec3.Cross(wr, c.Nx))
	c.Vrel = vec3.Len(c.Vtr)

	c.Relrot = vec3.Sub(i.Omega, j.Omega)
	c.Vrl = vec3.Scale(c.Reff, vec3.Cross(c.Relrot, c.Nx))
	c.Magtwist = vec3.Dot(c.Relrot, c.Nx)

	c.DeltaT = j.Temp - i.Temp

	return c.Delta >= 0
}

// WallPrep fills the context for a particle-wall contact: the wall
// contributes no mass, so Meff is the particle mass and Reff the particle
// radius.
func (c *Contact) WallPrep(p *BodyState, wallPoint vec3.Vec, wallVel vec3.Vec) bool {
	dx := vec3.Sub(p.Pos, wallPoint)
	c.R = vec3.Len(dx)
	c.Radi = p.Radius
	c.Radj = 0
	c.Radsum = p.Radius
	c.Delta = c.Radsum - c.R
	if c.R == 0 {
		return false
	}
	c.Nx = vec3.Scale(1/c.R, dx)
	c.Reff = p.Radius
	c.Meff = p.Mass

	vr := vec3.Sub(p.Vel, wallVel)
	c.Vnnr = vec3.Dot(vr, c.Nx)
	vt := vec3.AddScaled(vr, -c.Vnnr, c.Nx)

	wr := vec3.Scale(c.Radi, p.Omega)
	c.Vtr = vec3.Sub(vt, vec3.Cross(wr, c.Nx))
	c.Vrel = vec3.Len(c.Vtr)

	c.Relrot = p.Omega
	c.Vrl = vec3.Scale(c.Reff, vec3.Cross(c.Relrot, c.Nx))
	c.Magtwist = vec3.Dot(c.Relrot, c.Nx)

	c.DeltaT = 0

	return c.Delta >= 0
}

// Virial is this pair's contribution to the system virial, F · r over the
// separation vector. The tangential force is perpendicular to the
// separation, so only the normal part survives.
func (c *Contact) Virial() float64 {
	return c.R * c.Fnormal
}

// TotalForce is the force on body i: normal plus tangential contributions.
// Body j receives the opposite; rolling resistance enters through the
// torques only.
func (c *Contact) TotalForce() vec3.Vec {
	return vec3.Add(vec3.Scale(c.Fnormal, c.Nx), c.Fs)
}

// Torques returns the torque on each participant from the tangential force,
// rolling resistance, and twisting resistance.
func (c *Contact) Torques() (ti, tj vec3.Vec) {
	tor := vec3.Cross(c.Nx, c.Fs)
	disti := c.Radi - 0.5*c.Delta
	distj := c.Radj - 0.5*c.Delta
	ti = vec3.Scale(-disti, tor)
	tj = vec3.Scale(-distj, tor)

	if !vec3.IsZero(c.Fr) {
		torroll := vec3.Scale(c.Reff, vec3.Cross(c.Nx, c.Fr))
		ti = vec3.Add(ti, torroll)
		tj = vec3.Sub(tj, torroll)
	}

	if c.Magtortwist != 0 {
		tortwist := vec3.Scale(c.Magtortwist, c.Nx)
		ti = vec3.Add(ti, tortwist)
		tj = vec3.Sub(tj, tortwist)
	}
	return ti, tj
}
