package network

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samuelfneumann/speedcube/initwfn"
	"github.com/samuelfneumann/speedcube/utils/errs"
)

// ConfigFile is the name of the file a Config is saved to inside a run
// directory
const ConfigFile = "model_config.json"

// Config describes the architecture of a value network:
//
//	input ─→ hidden layers ─→ [projection] ─→ residual blocks ─→ output
//
// Every hidden layer applies Activation and, in training networks,
// dropout. A projection layer to ResidualSize units is added only when
// the last hidden layer has a different width. Each residual block
// computes act(x + W₂·act(W₁·x)). The output layer is linear with a
// single unit.
type Config struct {
	StateSize         int              `json:"state_size"`
	HiddenLayerSizes  []int            `json:"hidden_layer_sizes"`
	NumResidualBlocks int              `json:"num_residual_blocks"`
	ResidualSize      int              `json:"residual_size"`
	Dropout           float64          `json:"dropout"`
	Activation        *Activation      `json:"activation"`
	InitWFn           *initwfn.InitWFn `json:"init"`
}

// NewConfig returns a Config with ReLU activations and Glorot uniform
// weight initialization
func NewConfig(stateSize int, hiddenLayerSizes []int, numResidualBlocks,
	residualSize int, dropout float64) Config {
	return Config{
		StateSize:         stateSize,
		HiddenLayerSizes:  hiddenLayerSizes,
		NumResidualBlocks: numResidualBlocks,
		ResidualSize:      residualSize,
		Dropout:           dropout,
		Activation:        ReLU(),
		InitWFn:           initwfn.NewGlorotU(1.0),
	}
}

// Validate returns an error describing whether or not the Config is
// valid
func (c Config) Validate() error {
	if c.StateSize <= 0 {
		return errs.New("validate", errs.InvalidArgument,
			"state size must be positive \n\twant(>0) \n\thave(%v)",
			c.StateSize)
	}
	for i, size := range c.HiddenLayerSizes {
		if size <= 0 {
			return errs.New("validate", errs.InvalidArgument,
				"hidden layer %v must have positive size \n\twant(>0) "+
					"\n\thave(%v)", i, size)
		}
	}
	if c.NumResidualBlocks < 0 {
		return errs.New("validate", errs.InvalidArgument,
			"number of residual blocks must be non-negative \n\twant(>=0) "+
				"\n\thave(%v)", c.NumResidualBlocks)
	}
	if c.NumResidualBlocks > 0 && c.ResidualSize <= 0 {
		return errs.New("validate", errs.InvalidArgument,
			"residual size must be positive \n\twant(>0) \n\thave(%v)",
			c.ResidualSize)
	}
	if c.Dropout < 0 || c.Dropout >= 1 {
		return errs.New("validate", errs.InvalidArgument,
			"dropout must be in [0, 1) \n\thave(%v)", c.Dropout)
	}
	if c.Activation == nil {
		return errs.New("validate", errs.InvalidArgument,
			"no activation specified")
	}
	if c.InitWFn == nil {
		return errs.New("validate", errs.InvalidArgument,
			"no weight initializer specified")
	}
	return nil
}

// Save saves the Config as indented JSON in dir
func (c Config) Save(dir string) error {
	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return errs.Wrap("save", errs.PersistenceFailure, err)
	}
	path := filepath.Join(dir, ConfigFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.Wrap("save", errs.PersistenceFailure, err)
	}
	return nil
}

// LoadConfig loads a Config saved in dir
func LoadConfig(dir string) (Config, error) {
	c, err := ReadConfig(filepath.Join(dir, ConfigFile))
	if err != nil {
		return c, fmt.Errorf("loadconfig: %w", err)
	}
	return c, nil
}

// ReadConfig reads a Config from a JSON file
func ReadConfig(path string) (Config, error) {
	var c Config
	data, err := os.ReadFile(path)
	if err != nil {
		return c, errs.Wrap("readconfig", errs.PersistenceFailure, err)
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, errs.Wrap("readconfig", errs.PersistenceFailure,
			fmt.Errorf("could not decode %v: %v", path, err))
	}
	return c, nil
}
