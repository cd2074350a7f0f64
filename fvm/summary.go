// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fvm

import (
	"bytes"
	"os"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/floats"
)

// Summary records summary of outputs
type Summary struct {
	OutTimes []float64 // [nsteps+1] times of all solutions, including the initial one
	Norms    []float64 // [nsteps+1] Euclidean norms of all solutions
	Ndof     int       // number of degrees of freedom
	Dirout   string    // directory where results are stored
	Fnkey    string    // filename key of simulation
	Enc      string    // encoder type
}

// Collect collects the history of the solver of p
func (o *Summary) Collect(p *Problem) {
	ts, xs := p.Solver.History()
	o.OutTimes = append([]float64{}, ts...)
	o.Norms = make([]float64, len(xs))
	for i, x := range xs {
		o.Norms[i] = floats.Norm(x, 2)
	}
	if len(xs) > 0 {
		o.Ndof = len(xs[0])
	}
}

// Save saves summary to disc
func (o *Summary) Save(dirout, fnkey, enctype string, verbose bool) (err error) {

	// set flags before saving
	o.Dirout, o.Fnkey, o.Enc = dirout, fnkey, enctype

	// buffer and encoder
	var buf bytes.Buffer
	enc := GetEncoder(&buf, enctype)

	// encode summary
	err = enc.Encode(o)
	if err != nil {
		return chk.Err("cannot encode summary:\n%v", err)
	}

	// save file
	return save_file(out_sum_path(dirout, fnkey, enctype), &buf, verbose)
}

// ReadSummary reads summary back
func ReadSummary(dirout, fnkey, enctype string) (o *Summary, err error) {

	// open file
	fn := out_sum_path(dirout, fnkey, enctype)
	fil, err := os.Open(fn)
	if err != nil {
		return nil, chk.Err("cannot open summary file:\n%v", err)
	}
	defer fil.Close()

	// decode summary
	o = new(Summary)
	dec := GetDecoder(fil, enctype)
	err = dec.Decode(o)
	if err != nil {
		return nil, chk.Err("cannot decode summary:\n%v", err)
	}
	return
}
