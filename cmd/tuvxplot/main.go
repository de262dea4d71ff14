// tuvxplot renders TUV-x solver benchmark and spectral diagnostic charts.
//
// Two modes:
//  1. bench: read the benchmark CSV (stdin or a file, harness chatter tolerated),
//     classify rows into Beer-Lambert and energy-conservation cases and write the
//     beer_lambert, energy_conservation and parameter_space reports.
//  2. spectral: load the spectral CSVs of a data directory and write one report
//     per dataset present plus a 2x2 summary.
//
// Every report is written as {prefix}_{name}.png and .svg. Missing inputs skip
// their report; the exit code is non-zero only when input cannot be read or
// every attempted report failed.
package main

func main() {
	Execute()
}
