//go:build netlib && cgo

package utils

import (
	"log/slog"

	"gonum.org/v1/gonum/blas/blas64"
	netblas "gonum.org/v1/netlib/blas/netlib"
)

// Built with -tags netlib, dense kernels (element matrices, Cholesky) run on
// the system BLAS through cgo
func init() {
	blas64.Use(netblas.Implementation{})
	slog.Debug("using netlib to accelerate BLAS")
}
