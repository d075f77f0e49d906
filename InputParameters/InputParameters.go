package InputParameters

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/femsolids/types"
)

// Parameters obtained from the YAML input file. ghodss/yaml routes through
// encoding/json, so the json tags name the YAML keys.
type InputParameters2D struct {
	Title           string           `json:"Title"`
	Material        MaterialInput    `json:"Material"`
	Thickness       float64          `json:"Thickness"`
	MeshFile        string           `json:"MeshFile"` // SU2 mesh, replaces Mesh when set
	Mesh            MeshInput        `json:"Mesh"`
	QuadratureOrder int              `json:"QuadratureOrder"` // 0 uses the interpolation default
	Solver          SolverInput      `json:"Solver"`
	Refinement      RefinementInput  `json:"Refinement"`
	Tractions       []TractionInput  `json:"Tractions"`
	Dirichlet       []DirichletInput `json:"Dirichlet"`
	Workers         int              `json:"Workers"`
}

type MaterialInput struct {
	G         float64 `json:"G"`
	K         float64 `json:"K"`
	Condition string  `json:"Condition"` // PlaneStrain (default) or PlaneStress
}

// MeshInput describes a structured rectangle of Nx by Ny cell pairs
type MeshInput struct {
	Nx  int        `json:"Nx"`
	Ny  int        `json:"Ny"`
	Min [2]float64 `json:"Min"`
	Max [2]float64 `json:"Max"`
}

type SolverInput struct {
	Method        string  `json:"Method"` // cg or cholesky
	Tolerance     float64 `json:"Tolerance"`
	MaxIterations int     `json:"MaxIterations"`
}

type RefinementInput struct {
	Passes   int     `json:"Passes"`
	Fraction float64 `json:"Fraction"` // cells above Fraction of the peak energy are refined
}

type TractionInput struct {
	FaceSet string     `json:"FaceSet"`
	Value   [2]float64 `json:"Value"`
}

type DirichletInput struct {
	FaceSet    string  `json:"FaceSet"`
	NodeSet    string  `json:"NodeSet"`
	Components []int   `json:"Components"`
	Value      float64 `json:"Value"`
}

func (ip *InputParameters2D) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return fmt.Errorf("parsing input: %v: %w", err, types.ErrInvalidParameter)
	}
	ip.setDefaults()
	return ip.Validate()
}

func (ip *InputParameters2D) setDefaults() {
	if ip.Thickness == 0 {
		ip.Thickness = 1
	}
	if ip.Material.Condition == "" {
		ip.Material.Condition = "PlaneStrain"
	}
	if ip.Solver.Method == "" {
		ip.Solver.Method = "cg"
	}
	if ip.Solver.Tolerance == 0 {
		ip.Solver.Tolerance = 1.e-10
	}
	if ip.Refinement.Fraction == 0 {
		ip.Refinement.Fraction = 0.5
	}
}

func (ip *InputParameters2D) Validate() error {
	invalid := func(format string, args ...interface{}) error {
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), types.ErrInvalidParameter)
	}
	switch {
	case !(ip.Material.G > 0) || !(ip.Material.K > 0):
		return invalid("material needs positive G and K, have G = %v, K = %v", ip.Material.G, ip.Material.K)
	case !(ip.Thickness > 0):
		return invalid("thickness = %v", ip.Thickness)
	case ip.QuadratureOrder < 0:
		return invalid("quadrature order = %d", ip.QuadratureOrder)
	case ip.Refinement.Passes < 0:
		return invalid("refinement passes = %d", ip.Refinement.Passes)
	case !(ip.Refinement.Fraction > 0 && ip.Refinement.Fraction <= 1):
		return invalid("refinement fraction = %v, need (0,1]", ip.Refinement.Fraction)
	case !(ip.Solver.Tolerance > 0) || ip.Solver.MaxIterations < 0:
		return invalid("solver tolerance %v and iterations %d", ip.Solver.Tolerance, ip.Solver.MaxIterations)
	case ip.Workers < 0:
		return invalid("workers = %d", ip.Workers)
	case len(ip.Dirichlet) == 0:
		return invalid("no Dirichlet conditions, the body is free to move")
	}
	switch strings.ToLower(ip.Material.Condition) {
	case "planestrain", "planestress":
	default:
		return invalid("unknown condition %q", ip.Material.Condition)
	}
	switch strings.ToLower(ip.Solver.Method) {
	case "cg", "cholesky":
	default:
		return invalid("unknown solver %q", ip.Solver.Method)
	}
	if ip.MeshFile == "" {
		m := ip.Mesh
		if m.Nx < 1 || m.Ny < 1 || !(m.Max[0] > m.Min[0]) || !(m.Max[1] > m.Min[1]) {
			return invalid("mesh %dx%d over %v to %v", m.Nx, m.Ny, m.Min, m.Max)
		}
	}
	for i, tr := range ip.Tractions {
		if tr.FaceSet == "" {
			return invalid("traction %d has no face set", i)
		}
	}
	for i, d := range ip.Dirichlet {
		if (d.FaceSet == "") == (d.NodeSet == "") {
			return invalid("dirichlet %d needs exactly one of FaceSet and NodeSet", i)
		}
		if len(d.Components) == 0 {
			return invalid("dirichlet %d constrains no component", i)
		}
		for _, c := range d.Components {
			if c < 0 || c > 1 {
				return invalid("dirichlet %d component %d", i, c)
			}
		}
	}
	return nil
}

func (ip *InputParameters2D) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("G = %g, K = %g, %s\t= Material\n", ip.Material.G, ip.Material.K, ip.Material.Condition)
	fmt.Printf("%8.5f\t\t= Thickness\n", ip.Thickness)
	if ip.MeshFile != "" {
		fmt.Printf("[%s]\t\t= Mesh File\n", ip.MeshFile)
	} else {
		fmt.Printf("%dx%d over %v-%v\t= Mesh\n", ip.Mesh.Nx, ip.Mesh.Ny, ip.Mesh.Min, ip.Mesh.Max)
	}
	fmt.Printf("[%s] tol %g\t\t= Solver\n", ip.Solver.Method, ip.Solver.Tolerance)
	fmt.Printf("%d passes at %4.2f\t= Refinement\n", ip.Refinement.Passes, ip.Refinement.Fraction)
	tractions := make([]string, len(ip.Tractions))
	for i, tr := range ip.Tractions {
		tractions[i] = fmt.Sprintf("%s%v", tr.FaceSet, tr.Value)
	}
	sort.Strings(tractions)
	for _, tr := range tractions {
		fmt.Printf("Traction[%s]\n", tr)
	}
	for _, d := range ip.Dirichlet {
		set := d.FaceSet
		if set == "" {
			set = d.NodeSet
		}
		fmt.Printf("Dirichlet[%s] components %v = %g\n", set, d.Components, d.Value)
	}
}
