package assembly

import (
	"fmt"

	"github.com/notargets/femsolids/dofs"
	"github.com/notargets/femsolids/element"
	"github.com/notargets/femsolids/shape"
	"github.com/notargets/femsolids/types"
	"github.com/notargets/femsolids/utils"
)

// StrainEnergy returns the elastic energy stored in each cell by displacement u
func (a *Assembler) StrainEnergy(dh *dofs.DofHandler, u []float64) (energy []float64, err error) {
	if len(u) != dh.NDofs() {
		return nil, fmt.Errorf("solution has %d values, need %d: %w", len(u), dh.NDofs(), types.ErrInvalidParameter)
	}
	var (
		g  = dh.Grid()
		ip shape.Interpolation
	)
	if ip, err = Interpolation(g); err != nil {
		return
	}
	energy = make([]float64, g.NumCells())
	pm := utils.NewPartitionMap(utils.DefaultWorkers(a.Workers), g.NumCells())
	err = pm.Run(func(bn, kMin, kMax int) (err error) {
		var (
			cv *shape.CellValues
			cd []int
			ue = make([]float64, dh.NDofsPerCell())
			es element.ElementStress
		)
		if cv, err = shape.NewCellValues(ip, a.quadratureOrder(ip)); err != nil {
			return
		}
		for k := kMin; k < kMax; k++ {
			if err = cv.Reinit(g.Coordinates(k)); err != nil {
				return fmt.Errorf("cell %d: %w", k, err)
			}
			cd = dh.CellDofs(cd, k)
			for i, d := range cd {
				ue[i] = u[d]
			}
			if es, err = element.Stress(a.Material, cv, ue); err != nil {
				return
			}
			energy[k] = es.Energy * a.Thickness
		}
		return
	})
	if err != nil {
		return nil, err
	}
	return
}
