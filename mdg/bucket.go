// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdg

import (
	"github.com/cpmech/gosl/chk"
	"github.com/james-bowman/sparse"
)

// Cache holds the results of a discretization on a node or an edge together with the
// revisions of the parameters it was computed from
type Cache struct {
	Mats   []*sparse.DOK // one local matrix for nodes; four coupling blocks for edges
	Rhs    [][]float64   // right-hand side vectors
	MatRev uint64        // sum of matrix revisions of the parameters used
	RhsRev uint64        // sum of right-hand side revisions of the parameters used
}

// Data holds the state attached to a node or an edge
type Data struct {
	Param  *Parameters            // physical parameters; required before assembling
	Fields map[string][]float64   // named unknown fields; e.g. "transport" => [ncells]
	Cache  map[string]*Cache      // discretization results by key
	Extra  map[string]interface{} // extension slot for user data
}

// NewData returns a new empty Data
func NewData() *Data {
	return &Data{
		Fields: make(map[string][]float64),
		Cache:  make(map[string]*Cache),
		Extra:  make(map[string]interface{}),
	}
}

// Node holds one subdomain
type Node struct {
	Idx  int   // index in the bucket; defines the position of its DOFs in the global vector
	Grid *Grid // geometry
	Data *Data // state
}

// Edge holds one interface between two subdomains whose dimensions differ by one
//  Note: Faces[k] (face of the higher-dimensional grid) is paired with Cells[k] (cell of the
//        lower-dimensional grid)
type Edge struct {
	Idx   int   // index in the bucket
	A, B  *Node // nodes in the order they were given
	Faces []int // [npairs] faces of the higher-dimensional grid
	Cells []int // [npairs] cells of the lower-dimensional grid
	Data  *Data // state; e.g. normal diffusivity and interface discharge
}

// HighLow returns the higher- and lower-dimensional nodes of the edge
func (o *Edge) HighLow() (high, low *Node) {
	if o.A.Grid.Dim > o.B.Grid.Dim {
		return o.A, o.B
	}
	return o.B, o.A
}

// Npairs returns the number of face-cell pairs
func (o *Edge) Npairs() int { return len(o.Faces) }

// Bucket holds the hierarchy of subdomains (nodes) and interfaces (edges)
//  Note: nodes are kept in registration order; this order defines the global DOF numbering
type Bucket struct {
	Nodes []*Node
	Edges []*Edge
}

// NewBucket returns a new empty Bucket
func NewBucket() *Bucket {
	return new(Bucket)
}

// AddNode registers a new subdomain
func (o *Bucket) AddNode(g *Grid) (n *Node, err error) {
	if g == nil {
		return nil, chk.Err("cannot add nil grid")
	}
	if g.CellFaces == nil {
		err = g.Init()
		if err != nil {
			return
		}
	}
	n = &Node{Idx: len(o.Nodes), Grid: g, Data: NewData()}
	o.Nodes = append(o.Nodes, n)
	return
}

// AddEdge registers a new interface between nodes a and b
func (o *Bucket) AddEdge(a, b *Node, faces, cells []int) (e *Edge, err error) {
	if a == nil || b == nil {
		return nil, chk.Err("cannot add edge with nil node")
	}
	if a.Idx >= len(o.Nodes) || o.Nodes[a.Idx] != a || b.Idx >= len(o.Nodes) || o.Nodes[b.Idx] != b {
		return nil, chk.Err("edge nodes must belong to this bucket")
	}
	e = &Edge{Idx: len(o.Edges), A: a, B: b, Faces: append([]int{}, faces...), Cells: append([]int{}, cells...), Data: NewData()}
	high, low := e.HighLow()
	if high.Grid.Dim-low.Grid.Dim != 1 {
		return nil, chk.Err("edge nodes must have dimensions differing by one. dims=(%d,%d)", a.Grid.Dim, b.Grid.Dim)
	}
	if len(faces) != len(cells) || len(faces) == 0 {
		return nil, chk.Err("edge must have the same (positive) number of faces and cells. %d != %d", len(faces), len(cells))
	}
	for k := range faces {
		if faces[k] < 0 || faces[k] >= high.Grid.Nfaces {
			return nil, chk.Err("edge face %d is out of range [0,%d)", faces[k], high.Grid.Nfaces)
		}
		if !high.Grid.IsBoundary(faces[k]) {
			return nil, chk.Err("edge face %d must have only one neighbour cell", faces[k])
		}
		if cells[k] < 0 || cells[k] >= low.Grid.Ncells {
			return nil, chk.Err("edge cell %d is out of range [0,%d)", cells[k], low.Grid.Ncells)
		}
	}
	o.Edges = append(o.Edges, e)
	return
}

// Ncells returns the total number of cells
func (o *Bucket) Ncells() (n int) {
	for _, nd := range o.Nodes {
		n += nd.Grid.Ncells
	}
	return
}

// MaxDim returns the maximum dimension among all grids
func (o *Bucket) MaxDim() (dim int) {
	for _, nd := range o.Nodes {
		if nd.Grid.Dim > dim {
			dim = nd.Grid.Dim
		}
	}
	return
}

// EdgesOf returns the edges connected to node n
func (o *Bucket) EdgesOf(n *Node) (edges []*Edge) {
	for _, e := range o.Edges {
		if e.A == n || e.B == n {
			edges = append(edges, e)
		}
	}
	return
}

// MatRev returns the sum of matrix revisions of all parameters; nodes or edges without
// parameters are skipped
func (o *Bucket) MatRev() (rev uint64) {
	for _, d := range o.all() {
		if d.Param != nil {
			rev += d.Param.MatRev()
		}
	}
	return
}

// RhsRev returns the sum of right-hand side revisions of all parameters
func (o *Bucket) RhsRev() (rev uint64) {
	for _, d := range o.all() {
		if d.Param != nil {
			rev += d.Param.RhsRev()
		}
	}
	return
}

// ClearCache removes all cached discretizations with the given key; all keys if key == ""
func (o *Bucket) ClearCache(key string) {
	for _, d := range o.all() {
		if key == "" {
			d.Cache = make(map[string]*Cache)
			continue
		}
		delete(d.Cache, key)
	}
}

func (o *Bucket) all() (res []*Data) {
	for _, n := range o.Nodes {
		res = append(res, n.Data)
	}
	for _, e := range o.Edges {
		res = append(res, e.Data)
	}
	return
}
