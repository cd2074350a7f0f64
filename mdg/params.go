// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdg

import (
	"sync/atomic"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/floats"
)

// BcType defines the type of boundary condition on a face
type BcType int

const (
	BcNone BcType = iota // no condition given; behaves as zero flux
	BcNeu                // Neumann: prescribed flux along the face normal
	BcDir                // Dirichlet: prescribed value
)

// String returns the short name of a boundary condition type
func (o BcType) String() string {
	switch o {
	case BcNeu:
		return "neu"
	case BcDir:
		return "dir"
	}
	return "none"
}

// NewBcType returns a boundary condition type from its name. ex: "dir", "neu", "none"
func NewBcType(name string) (BcType, error) {
	switch name {
	case "dir", "dirichlet":
		return BcDir, nil
	case "neu", "neumann":
		return BcNeu, nil
	case "none", "":
		return BcNone, nil
	}
	return BcNone, chk.Err("boundary condition type %q is not available", name)
}

// BoundaryCondition holds the type of boundary condition on each face of a grid
type BoundaryCondition struct {
	Types []BcType // [nfaces]
}

// NewBoundaryCondition returns a new BoundaryCondition with all faces set to BcNone
func NewBoundaryCondition(g *Grid) *BoundaryCondition {
	return &BoundaryCondition{Types: make([]BcType, g.Nfaces)}
}

// Set sets the type of boundary condition on the given faces
//  Note: only boundary faces not lying on fractures can be set
func (o *BoundaryCondition) Set(g *Grid, faces []int, typ BcType) (err error) {
	for _, f := range faces {
		if f < 0 || f >= len(o.Types) {
			return chk.Err("face %d is out of range [0,%d)", f, len(o.Types))
		}
		if !g.IsBoundary(f) {
			return chk.Err("cannot set boundary condition on interior face %d", f)
		}
		if g.OnFracture(f) {
			return chk.Err("cannot set boundary condition on fracture face %d", f)
		}
		o.Types[f] = typ
	}
	return
}

// IsDir tells whether face f has a Dirichlet condition
func (o *BoundaryCondition) IsDir(f int) bool { return o.Types[f] == BcDir }

// IsNeu tells whether face f has a Neumann condition
func (o *BoundaryCondition) IsNeu(f int) bool { return o.Types[f] == BcNeu }

// Tensor holds a second order tensor for each cell
type Tensor struct {
	K [][3][3]float64 // [ncells] tensor components
}

// NewTensorIso returns an isotropic tensor with kxx = kyy = kzz = k[c]
func NewTensorIso(k []float64) *Tensor {
	return NewTensorDiag(k, k, k)
}

// NewTensorDiag returns a diagonal tensor. A nil kyy or kzz is replaced by kxx
func NewTensorDiag(kxx, kyy, kzz []float64) *Tensor {
	if kyy == nil {
		kyy = kxx
	}
	if kzz == nil {
		kzz = kxx
	}
	o := &Tensor{K: make([][3][3]float64, len(kxx))}
	for c := range kxx {
		o.K[c][0][0] = kxx[c]
		o.K[c][1][1] = kyy[c]
		o.K[c][2][2] = kzz[c]
	}
	return o
}

// revision is the package-wide revision counter; every change draws a new value from it
var revision uint64

// nextRevision returns a revision number never returned before
func nextRevision() uint64 { return atomic.AddUint64(&revision, 1) }

// Parameters holds the parameters of one physics on one grid or interface
//  Note: MatRev increases whenever a quantity affecting the system matrix changes;
//        RhsRev increases whenever a quantity affecting only the right-hand side changes.
//        Revisions are drawn from a package-wide counter, thus new Parameters replacing
//        old ones always carry larger revisions.
type Parameters struct {
	Physics string // e.g. "transport", "flow"

	// sizes
	ncells int // number of cells; number of cell pairs for interfaces
	nfaces int // number of faces; number of cell pairs for interfaces

	// matrix data
	bc         *BoundaryCondition // [nfaces] types of boundary conditions
	tensor     *Tensor            // [ncells] second order tensor; e.g. diffusivity
	porosity   []float64          // [ncells] porosity
	aperture   []float64          // [ncells] aperture; 1 for subdomains of maximum dimension
	discharge  []float64          // [nfaces] Darcy flux along face normals (advection)
	normalDiff []float64          // [ncells] normal diffusivity (interfaces only)

	// right-hand side data
	bcVal  []float64 // [nfaces] boundary values
	source []float64 // [ncells] source integrated over cells

	// revisions
	matRev uint64
	rhsRev uint64
}

// NewParameters returns new Parameters filled with defaults:
//  bc none, bc values 0, source 0, porosity 1, aperture 1, isotropic tensor 1, discharge 0, normal diffusivity 1
func NewParameters(physics string, ncells, nfaces int) (o *Parameters) {
	o = new(Parameters)
	o.Physics = physics
	o.ncells = ncells
	o.nfaces = nfaces
	o.bc = &BoundaryCondition{Types: make([]BcType, nfaces)}
	o.tensor = NewTensorIso(ones(ncells))
	o.porosity = ones(ncells)
	o.aperture = ones(ncells)
	o.discharge = make([]float64, nfaces)
	o.normalDiff = ones(ncells)
	o.bcVal = make([]float64, nfaces)
	o.source = make([]float64, ncells)
	o.matRev = nextRevision()
	o.rhsRev = nextRevision()
	return
}

// Ncells returns the number of cells these parameters were allocated for
func (o *Parameters) Ncells() int { return o.ncells }

// Nfaces returns the number of faces these parameters were allocated for
func (o *Parameters) Nfaces() int { return o.nfaces }

// MatRev returns the revision of matrix-affecting data
func (o *Parameters) MatRev() uint64 { return o.matRev }

// RhsRev returns the revision of right-hand side data
func (o *Parameters) RhsRev() uint64 { return o.rhsRev }

// getters ////////////////////////////////////////////////////////////////////////////////////////

func (o *Parameters) Bc() *BoundaryCondition { return o.bc }
func (o *Parameters) Tensor() *Tensor { return o.tensor }
func (o *Parameters) Porosity() []float64 { return o.porosity }
func (o *Parameters) Aperture() []float64 { return o.aperture }
func (o *Parameters) Discharge() []float64 { return o.discharge }
func (o *Parameters) NormalDiff() []float64 { return o.normalDiff }
func (o *Parameters) BcVal() []float64 { return o.bcVal }
func (o *Parameters) Source() []float64 { return o.source }

// setters ////////////////////////////////////////////////////////////////////////////////////////

// SetBc sets the boundary condition types
func (o *Parameters) SetBc(bc *BoundaryCondition) (err error) {
	if bc == nil || len(bc.Types) != o.nfaces {
		return chk.Err("%s: boundary condition must have %d face types", o.Physics, o.nfaces)
	}
	same := true
	for f, t := range bc.Types {
		if o.bc.Types[f] != t {
			same = false
			break
		}
	}
	o.bc = &BoundaryCondition{Types: append([]BcType{}, bc.Types...)}
	if !same {
		o.matRev = nextRevision()
		o.rhsRev = nextRevision()
	}
	return
}

// SetTensor sets the second order tensor
func (o *Parameters) SetTensor(t *Tensor) (err error) {
	if t == nil || len(t.K) != o.ncells {
		return chk.Err("%s: tensor must have %d cells", o.Physics, o.ncells)
	}
	o.tensor = &Tensor{K: append([][3][3]float64{}, t.K...)}
	o.matRev = nextRevision()
	return
}

// SetPorosity sets the porosity
func (o *Parameters) SetPorosity(v []float64) error {
	return o.set("porosity", &o.porosity, v, o.ncells, &o.matRev)
}

// SetAperture sets the aperture
func (o *Parameters) SetAperture(v []float64) error {
	return o.set("aperture", &o.aperture, v, o.ncells, &o.matRev)
}

// SetDischarge sets the Darcy flux along face normals
func (o *Parameters) SetDischarge(v []float64) error {
	return o.set("discharge", &o.discharge, v, o.nfaces, &o.matRev)
}

// SetNormalDiff sets the normal diffusivity
func (o *Parameters) SetNormalDiff(v []float64) error {
	return o.set("normal diffusivity", &o.normalDiff, v, o.ncells, &o.matRev)
}

// SetBcVal sets the boundary values
func (o *Parameters) SetBcVal(v []float64) error {
	return o.set("bc values", &o.bcVal, v, o.nfaces, &o.rhsRev)
}

// SetSource sets the source term (integrated over cells)
func (o *Parameters) SetSource(v []float64) error {
	return o.set("source", &o.source, v, o.ncells, &o.rhsRev)
}

// auxiliary //////////////////////////////////////////////////////////////////////////////////////

// set copies v into dest and increases rev if values changed
func (o *Parameters) set(name string, dest *[]float64, v []float64, n int, rev *uint64) error {
	if len(v) != n {
		return chk.Err("%s: %s must have length %d. len=%d is invalid", o.Physics, name, n, len(v))
	}
	if floats.Equal(*dest, v) {
		return nil
	}
	*dest = append([]float64{}, v...)
	*rev = nextRevision()
	return nil
}

func ones(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}
	return v
}
