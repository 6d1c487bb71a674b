// fitslic modifies license information in the primary header of a FITS
// file.
//
// Usage:
//
//	fitslic -l FILE          list available licenses
//	fitslic -i FILE          show the license recorded in FILE
//	fitslic -a cc_by FILE    add a license to FILE
//	fitslic -d FILE          delete the license from FILE
package main

import "github.com/saimn/fitslic/internal/cli"

func main() {
	cli.Execute()
}
