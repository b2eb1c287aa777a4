// Package harness runs bytecode benchmarks against measurement backends.
package harness

// Result holds every sample one measurement took. Values and Gas are
// index-aligned, one entry per iteration.
type Result struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Unit     string   `json:"unit"`
	Hostname string   `json:"hostname"`
	Values   []uint64 `json:"values"`
	Gas      []uint64 `json:"gas"`
}
