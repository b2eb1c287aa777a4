// Package report writes benchmark results.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/weiihann/evmbench/harness"
)

// WriteJSON writes results as a single JSON line. If encoding fails the
// error message is written in place of the payload.
func WriteJSON(w io.Writer, results []harness.Result) error {
	if results == nil {
		results = []harness.Result{}
	}

	payload, err := json.Marshal(results)
	if err != nil {
		_, werr := fmt.Fprintln(w, err.Error())
		return werr
	}

	_, err = fmt.Fprintln(w, string(payload))

	return err
}

// WriteTable writes one markdown table per result, listing every
// iteration's value and gas.
func WriteTable(w io.Writer, results []harness.Result) error {
	if len(results) == 0 {
		return fmt.Errorf("no results to report")
	}

	fmt.Fprintln(w, "## Benchmark Samples")

	for _, r := range results {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "### %s (`%s`, %s) on %s\n", r.Name, r.ID, r.Unit, r.Hostname)
		fmt.Fprintln(w)

		if len(r.Values) == 0 {
			fmt.Fprintln(w, "No iterations.")
			continue
		}

		fmt.Fprintln(w, "| Iteration | Value | Gas |")
		fmt.Fprintln(w, "|-----------|-------|-----|")

		for i, v := range r.Values {
			var gas string
			if i < len(r.Gas) {
				gas = strconv.FormatUint(r.Gas[i], 10)
			}

			fmt.Fprintf(w, "| %d | %s | %s |\n", i, formatValue(v, r.Unit), gas)
		}
	}

	return nil
}

func formatValue(v uint64, unit string) string {
	if unit != "ns" || v < 1000 {
		return strconv.FormatUint(v, 10)
	}

	return fmt.Sprintf("%d (%s)", v, formatNs(v))
}

func formatNs(ns uint64) string {
	switch {
	case ns < 1_000_000:
		return fmt.Sprintf("%.2fµs", float64(ns)/1e3)
	case ns < 1_000_000_000:
		return fmt.Sprintf("%.2fms", float64(ns)/1e6)
	default:
		return fmt.Sprintf("%.2fs", float64(ns)/1e9)
	}
}
