package experiment

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/speedcube/agent/adi"
	"github.com/samuelfneumann/speedcube/environment/cube"
	"github.com/samuelfneumann/speedcube/experiment/trackers"
	"github.com/samuelfneumann/speedcube/network"
	"github.com/samuelfneumann/speedcube/utils/errs"
)

func smallConfig() TrainConfig {
	return TrainConfig{
		Env:           cube.Name,
		NumModels:     1,
		Batches:       1,
		BatchSize:     4,
		ScrambleDepth: 1,
		LR:            1e-3,
		Tau:           1,
		TargetNetwork: adi.Live,
		Seed:          42,
	}
}

func smallModel() network.Config {
	return network.NewConfig(cube.New().OneHotSize(), []int{16}, 1, 8, 0.1)
}

func TestTraining(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	c := smallConfig()

	exp, err := New(c, smallModel(), dir)
	if err != nil {
		t.Fatal(err)
	}
	defer exp.Close()

	if err := exp.Run(); err != nil {
		t.Fatal(err)
	}
	if err := exp.Save(); err != nil {
		t.Fatal(err)
	}

	results, err := trackers.LoadTrainResults(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(results.Losses) != 1 || len(results.Losses[0]) != 1 {
		t.Errorf("losses \n\twant(1 model with 1 entry) \n\thave(%v)",
			results.Losses)
	}
	if len(results.LR) != 1 || results.LR[0] != c.LR {
		t.Errorf("learning rates \n\twant([%v]) \n\thave(%v)", c.LR,
			results.LR)
	}

	for _, file := range []string{ConfigFile, network.ConfigFile,
		trackers.ResultsFile, ModelFile(0)} {
		if _, err := os.Stat(filepath.Join(dir, file)); err != nil {
			t.Errorf("missing %v: %v", file, err)
		}
	}
}

func TestConfigRoundTrip(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	c := smallConfig()
	c.TargetNetwork = adi.Generator
	c.CheckpointEvery = 10

	if err := c.Save(first); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadConfig(first)
	if err != nil {
		t.Fatal(err)
	}
	if loaded != c {
		t.Errorf("config round trip \n\twant(%+v) \n\thave(%+v)", c, loaded)
	}
	if err := loaded.Save(second); err != nil {
		t.Fatal(err)
	}

	want, err := os.ReadFile(filepath.Join(first, ConfigFile))
	if err != nil {
		t.Fatal(err)
	}
	have, err := os.ReadFile(filepath.Join(second, ConfigFile))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(want, have) {
		t.Errorf("saved config \n\twant(%s) \n\thave(%s)", want, have)
	}
}

func TestResultsRoundTrip(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	results := trackers.NewResults(2)
	dir := filepath.Join(t.TempDir(), "run")
	exp, err := New(TrainConfig{
		Env: cube.Name, NumModels: 2, Batches: 3, BatchSize: 2,
		ScrambleDepth: 2, LR: 0.01, Tau: 0.5, TargetNetwork: adi.Generator,
		Seed: 1,
	}, smallModel(), dir)
	if err != nil {
		t.Fatal(err)
	}
	defer exp.Close()
	exp.Register(results)
	if err := exp.Run(); err != nil {
		t.Fatal(err)
	}

	if err := results.Save(first); err != nil {
		t.Fatal(err)
	}
	loaded, err := trackers.LoadTrainResults(first)
	if err != nil {
		t.Fatal(err)
	}
	if err := loaded.Save(second); err != nil {
		t.Fatal(err)
	}

	want, _ := os.ReadFile(filepath.Join(first, trackers.ResultsFile))
	have, _ := os.ReadFile(filepath.Join(second, trackers.ResultsFile))
	if !bytes.Equal(want, have) {
		t.Errorf("saved results \n\twant(%s) \n\thave(%s)", want, have)
	}
	if len(loaded.LR) != 3 || len(loaded.Losses) != 2 ||
		len(loaded.Losses[1]) != 3 {
		t.Errorf("results shape \n\twant(3 lrs, 2x3 losses) \n\thave(%+v)",
			loaded)
	}
}

func TestCheckpoints(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	c := smallConfig()
	c.Batches = 4
	c.CheckpointEvery = 2

	exp, err := New(c, smallModel(), dir)
	if err != nil {
		t.Fatal(err)
	}
	defer exp.Close()
	if err := exp.Run(); err != nil {
		t.Fatal(err)
	}

	for i, batches := range []int{2, 4} {
		checkpoint := filepath.Join(dir,
			fmt.Sprintf("%v-%d", CheckpointPrefix, i+1))
		results, err := trackers.LoadTrainResults(checkpoint)
		if err != nil {
			t.Fatal(err)
		}
		if len(results.LR) != batches {
			t.Errorf("%v: batches \n\twant(%v) \n\thave(%v)", checkpoint,
				batches, len(results.LR))
		}
		if _, err := os.Stat(filepath.Join(checkpoint, ModelFile(0))); err != nil {
			t.Errorf("%v: missing model: %v", checkpoint, err)
		}
	}
}

func TestInvalidConfig(t *testing.T) {
	invalid := []func(*TrainConfig){
		func(c *TrainConfig) { c.Env = "tetris" },
		func(c *TrainConfig) { c.NumModels = 0 },
		func(c *TrainConfig) { c.BatchSize = -1 },
		func(c *TrainConfig) { c.ScrambleDepth = -1 },
		func(c *TrainConfig) { c.Tau = 0 },
		func(c *TrainConfig) { c.LR = 0 },
		func(c *TrainConfig) { c.CheckpointEvery = -1 },
		func(c *TrainConfig) { c.Batches = -1 },
	}

	for i, modify := range invalid {
		c := smallConfig()
		modify(&c)
		_, err := New(c, smallModel(), filepath.Join(t.TempDir(), "run"))
		if !errs.IsInvalidArgument(err) {
			t.Errorf("config %v \n\twant(%v) \n\thave(%v)", i,
				errs.InvalidArgument, err)
		}
	}
}

func TestUnwritableDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := New(smallConfig(), smallModel(), filepath.Join(file, "run"))
	if !errs.IsPersistence(err) {
		t.Errorf("unwritable run directory \n\twant(%v) \n\thave(%v)",
			errs.PersistenceFailure, err)
	}
}
