package experiment

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samuelfneumann/speedcube/agent/adi"
	"github.com/samuelfneumann/speedcube/environment/envconfig"
	"github.com/samuelfneumann/speedcube/schedule"
	"github.com/samuelfneumann/speedcube/utils/errs"
)

// ConfigFile is the name of the file a TrainConfig is saved to inside a
// run directory
const ConfigFile = "train_config.json"

// TrainConfig represents a configuration of a training run. A
// TrainConfig is not modified once training starts.
type TrainConfig struct {
	Env           string            `json:"env"`
	NumModels     int               `json:"num_models"`
	Batches       int               `json:"batches"`
	BatchSize     int               `json:"batch_size"`
	ScrambleDepth int               `json:"scramble_depth"`
	LR            float64           `json:"lr"`
	Tau           float64           `json:"tau"`
	TargetNetwork adi.TargetNetwork `json:"target_network"`
	Seed          uint64            `json:"seed"`

	// CheckpointEvery is the number of batches between checkpoints,
	// 0 if no checkpoints are saved
	CheckpointEvery int `json:"checkpoint_every"`
}

// Validate returns an error describing whether or not the
// configuration is valid or not.
func (c TrainConfig) Validate() error {
	if _, err := envconfig.Create(c.Env); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if c.Batches < 0 {
		return errs.New("validate", errs.InvalidArgument,
			"number of batches must be non-negative \n\twant(>=0) "+
				"\n\thave(%v)", c.Batches)
	}
	if c.ScrambleDepth < 0 {
		return errs.New("validate", errs.InvalidArgument,
			"scramble depth must be non-negative \n\twant(>=0) \n\thave(%v)",
			c.ScrambleDepth)
	}
	if c.CheckpointEvery < 0 {
		return errs.New("validate", errs.InvalidArgument,
			"checkpoint interval must be non-negative \n\twant(>=0) "+
				"\n\thave(%v)", c.CheckpointEvery)
	}
	return c.TrainerConfig().Validate()
}

// TrainerConfig returns the configuration of the ensemble trained by
// the run
func (c TrainConfig) TrainerConfig() adi.Config {
	target := c.TargetNetwork
	if target == "" {
		target = adi.Live
	}
	return adi.Config{
		NumModels:     c.NumModels,
		BatchSize:     c.BatchSize,
		LearnRate:     c.LR,
		Tau:           c.Tau,
		TargetNetwork: target,
		WeightDecay:   adi.DefaultWeightDecay,
		RestartPeriod: schedule.DefaultT0,
	}
}

// Save saves the TrainConfig as indented JSON in dir
func (c TrainConfig) Save(dir string) error {
	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return errs.Wrap("save", errs.PersistenceFailure, err)
	}
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), data,
		0o644); err != nil {
		return errs.Wrap("save", errs.PersistenceFailure, err)
	}
	return nil
}

// LoadConfig loads a TrainConfig saved in dir
func LoadConfig(dir string) (TrainConfig, error) {
	c, err := ReadConfig(filepath.Join(dir, ConfigFile))
	if err != nil {
		return c, fmt.Errorf("loadconfig: %w", err)
	}
	return c, nil
}

// ReadConfig reads a TrainConfig from a JSON file
func ReadConfig(path string) (TrainConfig, error) {
	c := TrainConfig{TargetNetwork: adi.Live}
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
