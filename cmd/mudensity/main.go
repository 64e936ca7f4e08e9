// Command mudensity computes MU densities of beam delivery records.
//
// Records are read from YAML (or JSON) files, one beam per document:
//
//	mudensity calc --input plan.yaml --png beam
//	mudensity metersets --input log.yaml --angles 0,90,180
//	mudensity compare --evaluated log.yaml --reference plan.yaml --png diff.png
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
