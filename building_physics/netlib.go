//go:build netlib

package building_physics

// Opt-in CGO-backed linear algebra. Building with -tags netlib swaps
// the pure-Go BLAS/LAPACK kernels behind gonum/mat for the system
// libraries, which speeds up the dense solves of the RC network on
// long sub-hourly runs.

import (
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"
	netblas "gonum.org/v1/netlib/blas/netlib"
	netlapack "gonum.org/v1/netlib/lapack/netlib"
)

func init() {
	blas64.Use(netblas.Implementation{})
	lapack64.Use(netlapack.Implementation{})
}
