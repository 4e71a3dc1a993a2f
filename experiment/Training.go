package experiment

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/samuelfneumann/speedcube/agent"
	"github.com/samuelfneumann/speedcube/environment"
	"github.com/samuelfneumann/speedcube/environment/envconfig"
	"github.com/samuelfneumann/speedcube/experiment/checkpointer"
	"github.com/samuelfneumann/speedcube/experiment/tracker"
	"github.com/samuelfneumann/speedcube/experiment/trackers"
	"github.com/samuelfneumann/speedcube/network"
	ts "github.com/samuelfneumann/speedcube/timestep"
	"github.com/samuelfneumann/speedcube/utils/errs"
	"github.com/samuelfneumann/speedcube/utils/intutils"
)

// CheckpointPrefix prefixes the names of checkpoint directories inside
// a run directory
const CheckpointPrefix = "checkpoint"

// ModelFile returns the name of the file the weights of model i are
// saved to inside a run directory
func ModelFile(i int) string {
	return fmt.Sprintf("model-%d.gob", i)
}

// Training is an Experiment that trains an ensemble on freshly
// scrambled states every batch
type Training struct {
	config TrainConfig
	model  network.Config
	dir    string

	env       environment.Environment
	scrambler *environment.Scrambler
	trainer   agent.Trainer

	results       *trackers.Results
	trackers      []tracker.Tracker
	checkpointers []checkpointer.Checkpointer

	currentBatch int
	logger       zerolog.Logger
}

// New creates and returns a new Training experiment which saves its
// data in dir. The directory is created immediately so that an
// unwritable location is reported before training.
func New(c TrainConfig, model network.Config, dir string) (*Training,
	error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errs.Wrap("new", errs.PersistenceFailure, err)
	}

	logger := log.With().Str("run", filepath.Base(dir)).Logger()

	logger.Info().Str("env", c.Env).Msg("Setting up environment")
	env, err := envconfig.Create(c.Env)
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}
	if model.StateSize == 0 {
		model.StateSize = env.OneHotSize()
	}

	scrambler, err := environment.NewScrambler(env, c.ScrambleDepth, c.Seed)
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	logger.Info().Int("models", c.NumModels).Msg("Building models")
	trainer, err := c.TrainerConfig().CreateTrainer(env, model)
	if err != nil {
		return nil, fmt.Errorf("new: could not create trainer: %w", err)
	}

	nets := trainer.Networks()
	perModel := nets[0].NumParams()
	logger.Info().
		Str("per_model", intutils.Commas(perModel)).
		Str("total", intutils.Commas(perModel*len(nets))).
		Msg("Parameters")
	logger.Debug().Msg(nets[0].String())

	results := trackers.NewResults(c.NumModels)
	t := &Training{
		config:    c,
		model:     model,
		dir:       dir,
		env:       env,
		scrambler: scrambler,
		trainer:   trainer,
		results:   results,
		trackers:  []tracker.Tracker{results},
		logger:    logger,
	}

	if c.CheckpointEvery > 0 {
		check, err := checkpointer.NewNStep(
			c.CheckpointEvery,
			checkpointer.SaverFunc(t.SaveTo),
			checkpointer.DirEnumerator(dir, CheckpointPrefix),
		)
		if err != nil {
			return nil, fmt.Errorf("new: %w", err)
		}
		t.checkpointers = append(t.checkpointers, check)
	}

	return t, nil
}

// Register registers a tracker.Tracker with the Experiment so that
// data generated during the experiment can be tracked and saved
func (t *Training) Register(tr tracker.Tracker) {
	t.trackers = append(t.trackers, tr)
}

// RunBatch runs a single training batch: c.NumModels·c.BatchSize states
// are scrambled and each model is trained on its own contiguous share
// of them.
func (t *Training) RunBatch() (bool, error) {
	if t.currentBatch >= t.config.Batches {
		return true, nil
	}
	t.currentBatch++
	start := time.Now()

	n := t.config.NumModels * t.config.BatchSize
	t.logger.Debug().Int("states", n).Msg("Generating scrambled states")
	states, err := t.scrambler.Generate(n)
	if err != nil {
		return true, fmt.Errorf("runBatch: %w", err)
	}
	t.logger.Debug().
		Str("bytes", intutils.Commas(states.Bytes())).
		Msg("Size of all states")

	losses, lr, err := t.trainer.Step(states)
	if err != nil {
		return true, fmt.Errorf("runBatch: batch %v: %w", t.currentBatch, err)
	}
	if d, ok := t.trainer.(agent.Diagnoser); ok {
		d.LogDiagnostics(t.logger)
	}

	step := ts.New(t.currentBatch, losses, lr, time.Since(start))
	t.logger.Info().
		Int("batch", step.Number).
		Int("batches", t.config.Batches).
		Floats64("losses", step.Losses).
		Float64("lr", step.LearnRate).
		Dur("duration", step.Duration).
		Msg("Batch")

	if err := t.track(step); err != nil {
		return true, err
	}
	if err := t.checkpoint(step); err != nil {
		return true, err
	}

	return t.currentBatch >= t.config.Batches, nil
}

// Run runs all batches of the experiment
func (t *Training) Run() error {
	t.logger.Info().Int("batches", t.config.Batches).Msg("Starting training")
	for done := t.config.Batches == 0; !done; {
		var err error
		if done, err = t.RunBatch(); err != nil {
			return err
		}
	}
	return nil
}

// track tracks the current batch by caching its data in each Tracker
func (t *Training) track(step ts.TimeStep) error {
	for _, tr := range t.trackers {
		if err := tr.Track(step); err != nil {
			return fmt.Errorf("track: %w", err)
		}
	}
	return nil
}

// checkpoint saves the run to a checkpoint directory if any
// Checkpointer requests it
func (t *Training) checkpoint(step ts.TimeStep) error {
	for _, c := range t.checkpointers {
		if err := c.Checkpoint(step); err != nil {
			return err
		}
	}
	return nil
}

// Save saves the configurations, results, and model weights of the run
// in the run directory, and finalizes all registered Trackers
func (t *Training) Save() error {
	t.logger.Info().Str("dir", t.dir).Msg("Saving")
	if err := t.SaveTo(t.dir); err != nil {
		return err
	}
	for _, tr := range t.trackers {
		if tr == tracker.Tracker(t.results) {
			continue
		}
		if err := tr.Save(t.dir); err != nil {
			return fmt.Errorf("save: %w", err)
		}
	}
	return nil
}

// SaveTo saves the configurations, results, and model weights of the
// run in dir
func (t *Training) SaveTo(dir string) error {
	if err := t.config.Save(dir); err != nil {
		return fmt.Errorf("saveTo: %w", err)
	}
	if err := t.model.Save(dir); err != nil {
		return fmt.Errorf("saveTo: %w", err)
	}
	if err := t.results.Save(dir); err != nil {
		return fmt.Errorf("saveTo: %w", err)
	}

	for i, net := range t.trainer.Networks() {
		if err := saveModel(filepath.Join(dir, ModelFile(i)), net); err != nil {
			return fmt.Errorf("saveTo: model %v: %w", i, err)
		}
	}
	return nil
}

// saveModel saves the weights of net to path
func saveModel(path string, net network.NeuralNet) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap("savemodel", errs.PersistenceFailure, err)
	}
	if err := net.Save(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errs.Wrap("savemodel", errs.PersistenceFailure, err)
	}
	return nil
}

// Results returns the metrics tracked so far
func (t *Training) Results() trackers.TrainResults {
	return t.results.Results()
}

// Trainer returns the Trainer of the run
func (t *Training) Trainer() agent.Trainer {
	return t.trainer
}

// Dir returns the run directory
func (t *Training) Dir() string {
	return t.dir
}

// Close releases the resources held by the Trainer
func (t *Training) Close() error {
	return t.trainer.Close()
}

var _ Experiment = &Training{}
