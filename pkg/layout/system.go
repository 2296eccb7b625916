package layout

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/castgraph/pkg/graph"
)

// minDist2 bounds the squared distance used by the repulsion term so that
// coincident nodes produce a large but finite force.
const minDist2 = 1.0

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) add(q Point) Point     { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) sub(q Point) Point     { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) scale(f float64) Point { return Point{p.X * f, p.Y * f} }
func (p Point) norm() float64         { return math.Hypot(p.X, p.Y) }
func (p Point) finite() bool          { return !math.IsNaN(p.X+p.Y) && !math.IsInf(p.X+p.Y, 0) }
func polar(r, theta float64) Point    { return Point{r * math.Cos(theta), r * math.Sin(theta)} }

// Positions maps character ids to coordinates.
type Positions map[string]Point

// State is one step of the simulation. Slices are indexed like the
// snapshot's node list.
type State struct {
	Pos  []Point
	Vel  []Point
	Iter int

	// MaxDisp is the largest displacement applied in the last iteration.
	MaxDisp float64
}

// System is the force model for one snapshot. It is immutable and safe for
// concurrent use.
type System struct {
	cfg   Config
	ids   []string
	edges [][2]int
}

// NewSystem prepares the force model for snap. Self-loops exert no force.
func NewSystem(snap *graph.Snapshot, cfg Config) *System {
	nodes := snap.Nodes()
	s := &System{cfg: cfg, ids: make([]string, len(nodes))}
	for i, n := range nodes {
		s.ids[i] = n.ID
	}
	for _, e := range snap.Edges() {
		u, v := snap.NodeIndex(e.Source), snap.NodeIndex(e.Target)
		if u < 0 || v < 0 || u == v {
			continue
		}
		s.edges = append(s.edges, [2]int{u, v})
	}
	return s
}

// Len returns the number of nodes.
func (s *System) Len() int { return len(s.ids) }

// Config returns the parameters the system was built with.
func (s *System) Config() Config { return s.cfg }

// Initial returns the starting state: nodes evenly spaced on a circle in
// snapshot order, or scattered by a seeded generator when Randomize is set.
func (s *System) Initial() State {
	n := len(s.ids)
	st := State{Pos: make([]Point, n), Vel: make([]Point, n)}
	if n <= 1 {
		return st
	}

	radius := s.cfg.IdealEdgeLength * float64(n) / (2 * math.Pi)
	radius = max(radius, s.cfg.IdealEdgeLength/2)

	if s.cfg.Randomize {
		rng := rand.New(rand.NewPCG(s.cfg.Seed, s.cfg.Seed^0x9e3779b97f4a7c15))
		for i := range st.Pos {
			st.Pos[i] = Point{(rng.Float64()*2 - 1) * radius, (rng.Float64()*2 - 1) * radius}
		}
		return st
	}
	for i := range st.Pos {
		st.Pos[i] = polar(radius, 2*math.Pi*float64(i)/float64(n))
	}
	return st
}

// Temperature returns the displacement cap for iteration k.
func (s *System) Temperature(k int) float64 {
	t := s.cfg.InitialTemp * math.Pow(s.cfg.CoolingFactor, float64(k))
	return max(t, s.cfg.MinTemp)
}

// Done reports whether the simulation has finished: the iteration budget is
// spent, or the last iteration moved no node more than the convergence
// threshold.
func (s *System) Done(st State) bool {
	if len(s.ids) == 0 || st.Iter >= s.cfg.NumIter {
		return true
	}
	return st.Iter > 0 && st.MaxDisp <= s.cfg.ConvergenceThreshold
}

// Converged reports whether st stopped before the iteration budget.
func (s *System) Converged(st State) bool {
	return st.Iter < s.cfg.NumIter && s.Done(st)
}

// Step runs one iteration and returns the next state. st is not modified.
func (s *System) Step(st State) State {
	n := len(s.ids)
	force := make([]Point, n)

	// Repulsion between every pair.
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := st.Pos[i].sub(st.Pos[j])
			dist := d.norm()
			var dir Point
			if dist == 0 {
				dir = pairDirection(i, j)
			} else {
				dir = d.scale(1 / dist)
			}
			f := dir.scale(s.cfg.NodeRepulsion / max(dist*dist, minDist2))
			force[i] = force[i].add(f)
			force[j] = force[j].sub(f)
		}
	}

	// Springs toward the ideal edge length.
	for _, e := range s.edges {
		u, v := e[0], e[1]
		d := st.Pos[v].sub(st.Pos[u])
		dist := d.norm()
		if dist == 0 {
			continue
		}
		delta := dist - s.cfg.IdealEdgeLength
		mag := delta * math.Abs(delta) / s.cfg.EdgeElasticity
		f := d.scale(mag / dist)
		force[u] = force[u].add(f)
		force[v] = force[v].sub(f)
	}

	// Gravity toward the centroid.
	if s.cfg.Gravity > 0 && n > 1 {
		var c Point
		for _, p := range st.Pos {
			c = c.add(p)
		}
		c = c.scale(1 / float64(n))
		for i, p := range st.Pos {
			d := c.sub(p)
			dist := d.norm()
			if dist == 0 {
				continue
			}
			mag := s.cfg.Gravity * dist / (dist + s.cfg.IdealEdgeLength)
			force[i] = force[i].add(d.scale(mag / dist))
		}
	}

	temp := s.Temperature(st.Iter)
	next := State{
		Pos:  make([]Point, n),
		Vel:  make([]Point, n),
		Iter: st.Iter + 1,
	}
	disp := make([]Point, n)
	var mean Point
	for i, f := range force {
		if !f.finite() {
			f = Point{}
		}
		if m := f.norm(); m > temp {
			f = f.scale(temp / m)
		}
		disp[i] = f
		mean = mean.add(f)
	}

	// Capping breaks the balance of pairwise forces. Removing the mean
	// keeps the centroid fixed so the cloud cannot drift.
	mean = mean.scale(1 / float64(n))
	var peak float64
	for i := range disp {
		disp[i] = disp[i].sub(mean)
		peak = max(peak, disp[i].norm())
	}
	if peak > temp {
		for i := range disp {
			disp[i] = disp[i].scale(temp / peak)
		}
		peak = temp
	}

	for i, d := range disp {
		next.Vel[i] = d
		next.Pos[i] = st.Pos[i].add(d)
	}
	next.MaxDisp = peak
	return next
}

// Positions converts st to a map keyed by character id.
func (s *System) Positions(st State) Positions {
	out := make(Positions, len(s.ids))
	for i, id := range s.ids {
		out[id] = st.Pos[i]
	}
	return out
}

// pairDirection returns a fixed unit vector for a coincident pair so that
// identical inputs separate identically.
func pairDirection(i, j int) Point {
	const golden = 2.399963229728653 // golden angle in radians
	return polar(1, golden*float64(i*31+j))
}
