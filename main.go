// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/anderalex803/porepy/fvm"
	"github.com/anderalex803/porepy/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/spf13/cobra"
)

// command line flags
var (
	verbose   bool
	erasePrev bool
	saveEvery int
	alias     string
)

var rootCmd = &cobra.Command{
	Use:   "porepy",
	Short: "Mixed-dimensional finite volume solver for advection-diffusion in fractured media",
}

var runCmd = &cobra.Command{
	Use:   "run <file.sim>",
	Short: "Run simulation",
	Long:  `Reads a .sim file (JSON or YAML), solves the problem until the final time and writes VTU/PVD files and a summary.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0])
	},
}

var infoCmd = &cobra.Command{
	Use:   "info <file.sim>",
	Short: "Show simulation data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sim, err := inp.ReadSim(args[0], alias, false, false)
		if err != nil {
			return err
		}
		return sim.GetInfo(os.Stdout)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", true, "show messages")
	rootCmd.PersistentFlags().StringVar(&alias, "alias", "", "alias added to the simulation key")
	runCmd.Flags().BoolVar(&erasePrev, "erase", true, "erase previous results")
	runCmd.Flags().IntVar(&saveEvery, "save-every", 0, "export every n-th solution; 0 means use the .sim file")
	rootCmd.AddCommand(runCmd, infoCmd)
}

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("\nERROR: %v", err)
			io.Pf("See location of error below:\n")
			chk.Verbose = true
			for i := 5; i > 3; i-- {
				chk.CallerInfo(i)
			}
			os.Exit(1)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// run reads the simulation file, builds the grid and runs the problem
func run(fnamepath string) (err error) {

	// message
	if verbose {
		io.PfWhite("\nPorepy -- mixed-dimensional finite volume method\n")
		io.Pf("\n%v\n", io.ArgsTable("INPUT ARGUMENTS",
			"filename path", "fnamepath", fnamepath,
			"show messages", "verbose", verbose,
			"erase previous results", "erasePrev", erasePrev,
			"save every", "saveEvery", saveEvery,
		))
	}

	// simulation data
	sim, err := inp.ReadSim(fnamepath, alias, erasePrev, true)
	if err != nil {
		return
	}
	if saveEvery > 0 {
		sim.Data.SaveEvery = saveEvery
	}

	// grid
	b, err := sim.Mesh.GetBucket(sim.Dir)
	if err != nil {
		return chk.Err("cannot build grid:\n%v", err)
	}

	// run simulation
	p, err := fvm.NewProblem(b, sim, verbose)
	if err != nil {
		return
	}
	return p.Run()
}
