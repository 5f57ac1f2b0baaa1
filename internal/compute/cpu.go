package compute

import (
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"
)

// ParallelThreshold is the body count at which CPUBackend fans out.
const ParallelThreshold = 64

type CPUBackend struct {
	workers int
}

func NewCPUBackend() *CPUBackend {
	return NewCPUBackendWorkers(runtime.NumCPU())
}

// NewCPUBackendWorkers caps the worker count; 1 forces the serial path.
func NewCPUBackendWorkers(workers int) *CPUBackend {
	if workers < 1 {
		workers = 1
	}
	return &CPUBackend{workers: workers}
}

func (c *CPUBackend) Name() string {
	if c.workers == 1 {
		return "cpu-serial"
	}
	return "cpu"
}

func (c *CPUBackend) Workers() int { return c.workers }

func (c *CPUBackend) NBodyForces(positions []r3.Vec, masses, radii []float64, g float64, out []r3.Vec) {
	n := len(masses)
	if c.workers == 1 || n < ParallelThreshold {
		c.nbodySerial(positions, masses, radii, g, out)
		return
	}
	c.nbodyParallel(positions, masses, radii, g, out)
}

func (c *CPUBackend) nbodySerial(pos []r3.Vec, masses, radii []float64, g float64, out []r3.Vec) {
	n := len(masses)
	for i := 0; i < n; i++ {
		out[i] = r3.Vec{}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			f := PairForce(pos[i], pos[j], masses[i], masses[j], radii[i], radii[j], g)
			out[i] = r3.Add(out[i], f)
			out[j] = r3.Sub(out[j], f)
		}
	}
}

func (c *CPUBackend) nbodyParallel(pos []r3.Vec, masses, radii []float64, g float64, out []r3.Vec) {
	n := len(masses)
	chunkSize := (n + c.workers - 1) / c.workers

	var eg errgroup.Group
	eg.SetLimit(c.workers)
	for start := 0; start < n; start += chunkSize {
		start, end := start, min(start+chunkSize, n)
		eg.Go(func() error {
			for i := start; i < end; i++ {
				out[i] = ForceOn(i, pos, masses, radii, g)
			}
			return nil
		})
	}
	// Workers only write their own slots and never fail.
	_ = eg.Wait()
}
