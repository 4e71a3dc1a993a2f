// Command train trains an ensemble of value networks with approximate
// value iteration and saves the run to a directory
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/samuelfneumann/speedcube/agent/adi"
	"github.com/samuelfneumann/speedcube/environment/envconfig"
	"github.com/samuelfneumann/speedcube/experiment"
	"github.com/samuelfneumann/speedcube/experiment/trackers"
	"github.com/samuelfneumann/speedcube/network"
)

var (
	configPath      = flag.String("config", "", "Optional train_config.json; explicitly set flags override its fields")
	modelConfigPath = flag.String("model-config", "", "Optional model_config.json; explicitly set flags override its fields")
	outDir          = flag.String("out", "", "Run directory (default runs/<uuid>)")
	verbose         = flag.Bool("v", false, "Log debug diagnostics")
	progress        = flag.Bool("progress", false, "Display a progress bar")

	envName         = flag.String("env", "cube", "Environment, one of "+strings.Join(envconfig.Names(), ", "))
	numModels       = flag.Int("num-models", 1, "Number of models in the ensemble")
	batches         = flag.Int("batches", 1000, "Number of training batches")
	batchSize       = flag.Int("batch-size", 1000, "States per model per batch")
	scrambleDepth   = flag.Int("scramble-depth", 30, "Maximum number of random moves applied to a solved state")
	lr              = flag.Float64("lr", 1e-4, "Initial learning rate")
	tau             = flag.Float64("tau", 1, "Polyak averaging constant of the generator networks")
	targetNetwork   = flag.String("target-network", string(adi.Live), `Network estimating neighbour values: "live" or "generator"`)
	seed            = flag.Uint64("seed", 0, "Scramble seed (default: time based)")
	checkpointEvery = flag.Int("checkpoint-every", 0, "Batches between checkpoints (0=off)")

	hidden         = flag.String("hidden", "5000,1000", "Comma separated hidden layer sizes")
	residualBlocks = flag.Int("residual-blocks", 4, "Number of residual blocks")
	residualSize   = flag.Int("residual-size", 1000, "Width of the residual blocks")
	dropout        = flag.Float64("dropout", 0, "Dropout probability after hidden layers")
)

func main() {
	flag.Parse()
	setupLogging(*verbose)

	c, model, err := configs()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	dir := *outDir
	if dir == "" {
		dir = filepath.Join("runs", uuid.New().String())
	}

	exp, err := experiment.New(c, model, dir)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not set up training")
	}
	defer exp.Close()

	if *progress {
		exp.Register(trackers.NewProgress(40, c.Batches))
	}

	if err := exp.Run(); err != nil {
		log.Fatal().Err(err).Msg("Training failed")
	}
	if err := exp.Save(); err != nil {
		log.Fatal().Err(err).Msg("Could not save run")
	}
	log.Info().Str("dir", dir).Msg("Done")
}

// setupLogging logs human readable lines to stderr
func setupLogging(debug bool) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	})
}

// configs returns the configurations of the run, read from the config
// files if given and then overridden by explicitly set flags
func configs() (experiment.TrainConfig, network.Config, error) {
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	c := experiment.TrainConfig{
		Env:             *envName,
		NumModels:       *numModels,
		Batches:         *batches,
		BatchSize:       *batchSize,
		ScrambleDepth:   *scrambleDepth,
		LR:              *lr,
		Tau:             *tau,
		TargetNetwork:   adi.TargetNetwork(*targetNetwork),
		Seed:            *seed,
		CheckpointEvery: *checkpointEvery,
	}
	if *configPath != "" {
		loaded, err := experiment.ReadConfig(*configPath)
		if err != nil {
			return c, network.Config{}, err
		}
		override(&loaded, c, set)
		c = loaded
	} else if !set["seed"] {
		c.Seed = uint64(time.Now().UnixNano())
	}

	sizes, err := parseSizes(*hidden)
	if err != nil {
		return c, network.Config{}, err
	}
	env, err := envconfig.Create(c.Env)
	if err != nil {
		return c, network.Config{}, err
	}
	model := network.NewConfig(env.OneHotSize(), sizes, *residualBlocks,
		*residualSize, *dropout)
	if *modelConfigPath != "" {
		loaded, err := network.ReadConfig(*modelConfigPath)
		if err != nil {
			return c, model, err
		}
		if set["hidden"] {
			loaded.HiddenLayerSizes = sizes
		}
		if set["residual-blocks"] {
			loaded.NumResidualBlocks = *residualBlocks
		}
		if set["residual-size"] {
			loaded.ResidualSize = *residualSize
		}
		if set["dropout"] {
			loaded.Dropout = *dropout
		}
		model = loaded
	}

	return c, model, nil
}

// override sets the fields of c whose flags were explicitly set to
// their values in flags
func override(c *experiment.TrainConfig, flags experiment.TrainConfig,
	set map[string]bool) {
	if set["env"] {
		c.Env = flags.Env
	}
	if set["num-models"] {
		c.NumModels = flags.NumModels
	}
	if set["batches"] {
		c.Batches = flags.Batches
	}
	if set["batch-size"] {
		c.BatchSize = flags.BatchSize
	}
	if set["scramble-depth"] {
		c.ScrambleDepth = flags.ScrambleDepth
	}
	if set["lr"] {
		c.LR = flags.LR
	}
	if set["tau"] {
		c.Tau = flags.Tau
	}
	if set["target-network"] {
		c.TargetNetwork = flags.TargetNetwork
	}
	if set["seed"] {
		c.Seed = flags.Seed
	}
	if set["checkpoint-every"] {
		c.CheckpointEvery = flags.CheckpointEvery
	}
}

// parseSizes parses a comma separated list of layer sizes
func parseSizes(list string) ([]int, error) {
	var sizes []int
	for _, field := range strings.Split(list, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		size, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("parseSizes: invalid layer size %q", field)
		}
		sizes = append(sizes, size)
	}
	return sizes, nil
}
