/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/femsolids/InputParameters"
	"github.com/notargets/femsolids/assembly"
	"github.com/notargets/femsolids/dofs"
	"github.com/notargets/femsolids/element"
	"github.com/notargets/femsolids/geometry2D"
	"github.com/notargets/femsolids/material"
	"github.com/notargets/femsolids/mesh"
	"github.com/notargets/femsolids/readfiles"
	"github.com/notargets/femsolids/refine"
	"github.com/notargets/femsolids/solver"
	"github.com/notargets/femsolids/transfer"
	"github.com/notargets/femsolids/types"
	"github.com/notargets/femsolids/utils"
)

type ModelSolve struct {
	InputFile string
	GridFile  string
	Graph     bool
	Profile   string
	Verbose   bool
}

var exampleFile = `
########################################
Title: "Cantilever"
Material:
  G: 80
  K: 160
  Condition: PlaneStrain # or PlaneStress
Thickness: 1
Mesh:
  Nx: 8
  Ny: 2
  Min: [0, 0]
  Max: [4, 1]
Solver:
  Method: cg # or cholesky
Refinement:
  Passes: 3
  Fraction: 0.5
Tractions:
  - FaceSet: right
    Value: [0, -0.01]
Dirichlet:
  - FaceSet: left
    Components: [0, 1]
########################################
`

// SolveCmd represents the solve command
var SolveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve an elasticity problem with adaptive refinement",
	Long:  `Solve an elasticity problem with adaptive refinement, then carry the solution to quadratic elements`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ms := &ModelSolve{}
		if ms.InputFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			return
		}
		if ms.GridFile, err = cmd.Flags().GetString("gridFile"); err != nil {
			return
		}
		if ms.Graph, err = cmd.Flags().GetBool("graph"); err != nil {
			return
		}
		if ms.Profile, err = cmd.Flags().GetString("profile"); err != nil {
			return
		}
		ms.Verbose = viper.GetBool("verbose")
		if len(ms.InputFile) == 0 {
			fmt.Printf("Example File:%s\n", exampleFile)
			return fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile): %w",
				types.ErrInvalidParameter)
		}
		switch ms.Profile {
		case "":
		case "cpu":
			defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
		case "mem":
			defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
		default:
			return fmt.Errorf("profile %q, have cpu or mem: %w", ms.Profile, types.ErrInvalidParameter)
		}
		var ip *InputParameters.InputParameters2D
		if ip, err = processInput(ms); err != nil {
			return
		}
		if ms.Verbose {
			ip.Print()
		}
		var res *Result
		if res, err = RunSolve(ip); err != nil {
			return
		}
		report(res)
		if ms.Graph {
			g := res.Grid
			utils.PlotTriMesh(g.Nodes, g.CornerTriangles())
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(SolveCmd)
	SolveCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- Material\n\t- Loads and supports")
	SolveCmd.Flags().StringP("gridFile", "F", "", "Grid file to read in SU2 (.su2) format, replaces the input mesh")
	SolveCmd.Flags().BoolP("graph", "g", false, "display the final mesh")
	SolveCmd.Flags().String("profile", "", "write a cpu or mem profile to the working directory")
	SolveCmd.Flags().IntP("workers", "w", 0, "assembly workers, 0 uses one per CPU")
	_ = viper.BindPFlag("workers", SolveCmd.Flags().Lookup("workers"))
}

func processInput(ms *ModelSolve) (ip *InputParameters.InputParameters2D, err error) {
	var data []byte
	if data, err = os.ReadFile(ms.InputFile); err != nil {
		return
	}
	ip = &InputParameters.InputParameters2D{}
	// Parse validates, and a grid file stands in for the input's Mesh block
	if len(ms.GridFile) != 0 {
		ip.MeshFile = ms.GridFile
	}
	if err = ip.Parse(data); err != nil {
		return
	}
	// The command line wins over a MeshFile given in the input
	if len(ms.GridFile) != 0 {
		ip.MeshFile = ms.GridFile
	}
	if w := viper.GetInt("workers"); w > 0 {
		ip.Workers = w
	}
	return
}

// Pass records one solve of the adaptive loop
type Pass struct {
	Cells, Dofs int
	Energy      float64
}

type Result struct {
	Grid       *mesh.Grid // the last linear grid
	Dofs       *dofs.DofHandler
	U          []float64
	Energy     []float64 // per cell of Grid
	History    []Pass
	Quadratic  *dofs.DofHandler
	UQuadratic []float64 // U carried onto Quadratic
}

// RunSolve solves on the input grid, refines where the strain energy is
// largest and repeats for the requested passes. The final linear solution is
// transferred to the quadratic version of the last grid.
func RunSolve(ip *InputParameters.InputParameters2D) (res *Result, err error) {
	var (
		g    *mesh.Grid
		m    material.LinearElasticity
		opts solver.Options
		ch   = &assembly.ConstraintHandler{}
	)
	if g, err = buildGrid(ip); err != nil {
		return
	}
	cond := material.PlaneStrain
	if strings.EqualFold(ip.Material.Condition, "PlaneStress") {
		cond = material.PlaneStress
	}
	if m, err = material.NewLinearElasticity(ip.Material.G, ip.Material.K, material.WithCondition(cond)); err != nil {
		return
	}
	opts = solver.DefaultOptions()
	if opts.Method, err = solver.ParseMethod(ip.Solver.Method); err != nil {
		return
	}
	opts.Tolerance, opts.MaxIterations = ip.Solver.Tolerance, ip.Solver.MaxIterations
	asm := &assembly.Assembler{
		Material:        m,
		Thickness:       ip.Thickness,
		QuadratureOrder: ip.QuadratureOrder,
		Formulation:     element.Primal,
		Workers:         utils.DefaultWorkers(ip.Workers),
	}
	for _, tr := range ip.Tractions {
		asm.Loads = append(asm.Loads, assembly.Traction{FaceSet: tr.FaceSet, Value: tr.Value})
	}
	for _, d := range ip.Dirichlet {
		value := d.Value
		ch.Add(assembly.Dirichlet{
			FaceSet:    d.FaceSet,
			NodeSet:    d.NodeSet,
			Components: d.Components,
			Value:      func([2]float64) float64 { return value },
		})
	}
	res = &Result{}
	for pass := 0; ; pass++ {
		var (
			sys        *assembly.System
			prescribed map[int]float64
		)
		res.Grid = g
		if res.Dofs, err = dofs.NewDofHandler(g, 2); err != nil {
			return
		}
		if sys, err = asm.Assemble(res.Dofs); err != nil {
			return
		}
		if prescribed, err = ch.Prescribed(res.Dofs); err != nil {
			return
		}
		if res.U, err = solver.Solve(sys, prescribed, opts); err != nil {
			return
		}
		if res.Energy, err = asm.StrainEnergy(res.Dofs, res.U); err != nil {
			return
		}
		p := Pass{Cells: g.NumCells(), Dofs: res.Dofs.NDofs()}
		for _, e := range res.Energy {
			p.Energy += e
		}
		res.History = append(res.History, p)
		utils.LogMemUsage("memory")
		slog.Info("solved", "pass", pass, "cells", p.Cells, "dofs", p.Dofs, "energy", p.Energy)
		if pass == ip.Refinement.Passes {
			break
		}
		var marked []int
		if marked, err = refine.MarkFraction(res.Energy, ip.Refinement.Fraction); err != nil {
			return
		}
		if len(marked) == 0 {
			break
		}
		var rg *mesh.Grid
		if rg, err = refine.Rivara(g, marked); err != nil {
			return
		}
		if err = carrySets(g, rg); err != nil {
			return
		}
		g = rg
	}
	var gq *mesh.Grid
	if gq, err = g.ToQuadratic(); err != nil {
		return
	}
	if res.Quadratic, err = dofs.NewDofHandler(gq, 2); err != nil {
		return
	}
	res.UQuadratic, err = transfer.LinearToQuadratic(res.Dofs, res.Quadratic, res.U)
	return
}

func buildGrid(ip *InputParameters.InputParameters2D) (g *mesh.Grid, err error) {
	if len(ip.MeshFile) != 0 {
		return readfiles.ReadSU2File(ip.MeshFile, false)
	}
	var (
		ll = geometry2D.NewPoint(ip.Mesh.Min[0], ip.Mesh.Min[1])
		ur = geometry2D.NewPoint(ip.Mesh.Max[0], ip.Mesh.Max[1])
	)
	if g, err = mesh.GenerateGrid(mesh.Triangle, ip.Mesh.Nx, ip.Mesh.Ny, ll, ur); err != nil {
		return
	}
	tol := 1.e-10 * g.BoundingBox().Diagonal()
	g.AddNodeSet("lowerLeft", func(x geometry2D.Point) bool { return x.Dist(ll) <= tol })
	g.AddNodeSet("lowerRight", func(x geometry2D.Point) bool {
		return x.Dist(geometry2D.NewPoint(ur.X[0], ll.X[1])) <= tol
	})
	return
}

// carrySets rebuilds the face and node sets of from on the refined grid to
func carrySets(from, to *mesh.Grid) (err error) {
	tol := 1.e-10 * from.BoundingBox().Diagonal()
	for _, name := range from.FaceSetNames() {
		var pred mesh.Predicate
		if pred, err = from.OnFaceSet(name, tol); err != nil {
			return
		}
		if err = to.AddFaceSet(name, pred); err != nil {
			return
		}
	}
	for name, nodes := range from.NodeSets {
		pl := geometry2D.NewPointLocator(tol)
		for _, n := range nodes {
			pl.Insert(from.Nodes[n], n)
		}
		to.AddNodeSet(name, func(x geometry2D.Point) bool {
			_, found := pl.Find(x)
			return found
		})
	}
	return
}

func report(res *Result) {
	var (
		umax  float64
		where int
		dh    = res.Quadratic
		g     = dh.Grid()
	)
	for n := 0; n < g.NumNodes(); n++ {
		d := dh.NodeDofs(n)
		if d == nil {
			continue
		}
		if mag := math.Hypot(res.UQuadratic[d[0]], res.UQuadratic[d[1]]); mag > umax {
			umax, where = mag, n
		}
	}
	for i, p := range res.History {
		fmt.Printf("pass %d: %d cells, %d dofs, strain energy %12.6e\n", i, p.Cells, p.Dofs, p.Energy)
	}
	fmt.Printf("max displacement %12.6e at %v\n", umax, g.Nodes[where].X)
}
