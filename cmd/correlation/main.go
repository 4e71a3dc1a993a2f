// Command correlation compares the value estimates of two trained
// ensembles on the states of a datafile.
//
// Usage:
//
//	correlation -model-dirs runs/a -model-dirs runs/b output_dir qtm_datafile
//	correlation -model-dirs runs/a,runs/b output_dir qtm_datafile
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/samuelfneumann/speedcube/analysis"
)

var modelDirs dirList

func init() {
	flag.Var(&modelDirs, "model-dirs", "Run directory of an ensemble, given twice or as a comma separated pair")
}

// dirList collects run directories from repeated or comma separated
// flag values. At most two directories are accepted.
type dirList []string

func (d *dirList) String() string {
	return strings.Join(*d, ",")
}

func (d *dirList) Set(value string) error {
	for _, dir := range strings.Split(value, ",") {
		if dir = strings.TrimSpace(dir); dir == "" {
			continue
		}
		if len(*d) == 2 {
			return fmt.Errorf("at most two directories, have %v and %q",
				d.String(), dir)
		}
		*d = append(*d, dir)
	}
	return nil
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Usage: %s -model-dirs dir1 -model-dirs dir2 output_dir "+
				"qtm_datafile\n",
			os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	})

	if flag.NArg() != 2 || len(modelDirs) != 2 {
		flag.Usage()
		os.Exit(2)
	}
	out, datafile := flag.Arg(0), flag.Arg(1)

	r, err := analysis.ValueCorrelations(out, datafile, modelDirs)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not compute value correlations")
	}
	fmt.Printf("Pearson correlation: %.4f\n", r)
}
