package analysis

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/samuelfneumann/speedcube/environment"
	"github.com/samuelfneumann/speedcube/environment/envconfig"
	"github.com/samuelfneumann/speedcube/experiment"
	"github.com/samuelfneumann/speedcube/utils/errs"
)

// ValueCorrelations compares the value estimates of two trained
// ensembles on the states of datafile. The mean prediction of each
// ensemble is computed for every state, the predictions are plotted
// against each other in out/value-correlations.png, and their Pearson
// correlation is returned.
func ValueCorrelations(out, datafile string, modelDirs []string) (float64,
	error) {
	if len(modelDirs) != 2 {
		return 0, errs.New("valuecorrelations", errs.InvalidArgument,
			"invalid number of model directories \n\twant(2) \n\thave(%v)",
			len(modelDirs))
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return 0, errs.Wrap("valuecorrelations", errs.PersistenceFailure, err)
	}

	// Networks are built for a fixed batch size, so states are loaded
	// before the ensembles
	first, err := runEnv(modelDirs[0])
	if err != nil {
		return 0, fmt.Errorf("valueCorrelations: %w", err)
	}
	states, err := LoadStates(datafile, first)
	if err != nil {
		return 0, fmt.Errorf("valueCorrelations: %w", err)
	}
	input := first.MultipleOneHot(states)
	log.Info().Int("states", states.Len()).Str("file", datafile).
		Msg("Loaded states")

	var ensembles [2]*Ensemble
	var preds [2][]float64
	for i, dir := range modelDirs {
		ensembles[i], err = LoadEnsemble(dir, states.Len())
		if err != nil {
			return 0, fmt.Errorf("valueCorrelations: %w", err)
		}
		if ensembles[i].Config.Env != first.Name() {
			return 0, errs.New("valuecorrelations", errs.InvalidArgument,
				"ensembles trained on different environments \n\twant(%v) "+
					"\n\thave(%v)", first.Name(), ensembles[i].Config.Env)
		}
		log.Info().Str("dir", dir).Int("models", len(ensembles[i].Networks)).
			Msg("Loaded ensemble")

		preds[i], err = ensembles[i].MeanPredictions(input)
		if err != nil {
			return 0, fmt.Errorf("valueCorrelations: %w", err)
		}
	}

	r, err := Correlation(preds[0], preds[1])
	if err != nil {
		return 0, fmt.Errorf("valueCorrelations: %w", err)
	}

	path := filepath.Join(out, PlotFile)
	if err := ScatterPlot(path, preds[0], preds[1], ensembles[0].Name,
		ensembles[1].Name); err != nil {
		return r, fmt.Errorf("valueCorrelations: %w", err)
	}
	log.Info().Str("plot", path).Float64("r", r).Msg("Saved value correlations")

	return r, nil
}

// runEnv creates the environment a run in dir was trained on
func runEnv(dir string) (environment.Environment, error) {
	c, err := experiment.LoadConfig(dir)
	if err != nil {
		return nil, err
	}
	return envconfig.Create(c.Env)
}
