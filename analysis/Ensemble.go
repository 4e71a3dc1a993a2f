// Package analysis implements offline analysis of trained ensembles
package analysis

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/speedcube/experiment"
	"github.com/samuelfneumann/speedcube/network"
	"github.com/samuelfneumann/speedcube/utils/errs"
)

// Ensemble is a set of trained value networks loaded from a run
// directory
type Ensemble struct {
	Name     string // Base name of the run directory
	Config   experiment.TrainConfig
	Networks []network.NeuralNet
}

// LoadEnsemble loads every network saved in the run directory dir. Each
// network takes batch states as input and is built without dropout.
func LoadEnsemble(dir string, batch int) (*Ensemble, error) {
	trainConfig, err := experiment.LoadConfig(dir)
	if err != nil {
		return nil, fmt.Errorf("loadEnsemble: %w", err)
	}
	modelConfig, err := network.LoadConfig(dir)
	if err != nil {
		return nil, fmt.Errorf("loadEnsemble: %w", err)
	}

	nets := make([]network.NeuralNet, trainConfig.NumModels)
	for i := range nets {
		net, err := network.New(modelConfig, batch, false)
		if err != nil {
			return nil, fmt.Errorf("loadEnsemble: %w", err)
		}
		if err := loadModel(filepath.Join(dir, experiment.ModelFile(i)),
			net); err != nil {
			return nil, fmt.Errorf("loadEnsemble: model %v: %w", i, err)
		}
		nets[i] = net
	}

	return &Ensemble{
		Name:     filepath.Base(filepath.Clean(dir)),
		Config:   trainConfig,
		Networks: nets,
	}, nil
}

// loadModel loads weights saved at path into net
func loadModel(path string, net network.NeuralNet) error {
	f, err := os.Open(path)
	if err != nil {
		return errs.Wrap("loadmodel", errs.PersistenceFailure, err)
	}
	defer f.Close()

	return net.Load(f)
}

// MeanPredictions returns the predictions on input averaged over all
// networks of the ensemble
func (e *Ensemble) MeanPredictions(input *tensor.Dense) ([]float64, error) {
	return MeanPredictions(e.Networks, input)
}

// MeanPredictions returns the predictions of nets on input averaged
// over nets
func MeanPredictions(nets []network.NeuralNet,
	input *tensor.Dense) ([]float64, error) {
	if len(nets) == 0 {
		return nil, errs.New("meanpredictions", errs.InvalidArgument,
			"no networks to predict with")
	}

	var mean []float64
	for i, net := range nets {
		eval := network.NewEvaluator(net)
		preds, err := eval.Evaluate(input)
		eval.Close()
		if err != nil {
			return nil, fmt.Errorf("meanPredictions: network %v: %w", i, err)
		}

		if mean == nil {
			mean = preds
		} else {
			floats.Add(mean, preds)
		}
	}
	floats.Scale(1/float64(len(nets)), mean)

	return mean, nil
}
