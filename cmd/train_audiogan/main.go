package main

import "context"
import "flag"
import "math/rand/v2"
import "time"

import "github.com/klauspost/cpuid/v2"
import "go.uber.org/fx"
import "go.uber.org/zap"

import "github.com/neurlang/audiogan/config"
import clips "github.com/neurlang/audiogan/datasets/audio"
import "github.com/neurlang/audiogan/gan"
import "github.com/neurlang/audiogan/infrastructure"
import "github.com/neurlang/audiogan/parallel"
import "github.com/neurlang/audiogan/tensor"
import "github.com/neurlang/audiogan/trainer"

type flags struct {
	config string
	epochs int
	batch  int
	resume string
	pgo    bool
}

type networks struct {
	generator     *gan.Network
	discriminator *gan.Network
	combined      *gan.Combined
}

func loadConfig(f flags) (*config.Config, error) {
	cfg, err := config.Load(f.config)
	if err != nil {
		return nil, err
	}
	if f.epochs > 0 {
		cfg.Train.Epochs = f.epochs
	}
	if f.batch > 0 {
		cfg.Train.BatchSize = f.batch
	}
	return cfg, cfg.Validate()
}

func newDataset(cfg *config.Config, log *zap.Logger) (*clips.Dataset, error) {
	return clips.Load(cfg.Data, log)
}

func newNetworks(cfg *config.Config) (*networks, error) {
	seed := cfg.Train.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, ^seed))
	gen, err := gan.NewGenerator(cfg.Model, rng)
	if err != nil {
		return nil, err
	}
	disc, err := gan.NewDiscriminator(cfg.Model, rng)
	if err != nil {
		return nil, err
	}
	comb, err := gan.NewCombined(gen, disc, cfg.Model.Optimizer)
	if err != nil {
		return nil, err
	}
	return &networks{generator: gen, discriminator: disc, combined: comb}, nil
}

func newTrainer(cfg *config.Config, log *zap.Logger, data *clips.Dataset, nets *networks) *trainer.Trainer {
	return &trainer.Trainer{
		Generator:     nets.generator,
		Discriminator: nets.discriminator,
		Combined:      nets.combined,
		Data:          data,
		Store: &trainer.DirStore{
			Dir:      cfg.Output.ModelDir,
			Half:     cfg.Output.HalfWeights,
			Snapshot: cfg.WriteYAML,
		},
		LatentSteps: cfg.Model.LatentSteps,
		LatentDim:   cfg.Model.LatentDim,
		Options:     cfg.Train,
		Output:      cfg.Output,
		Log:         log,
	}
}

type trainingParams struct {
	fx.In
	LC         fx.Lifecycle
	Shutdowner fx.Shutdowner
	Log        *zap.Logger
	Flags      flags
	Nets       *networks
	Trainer    *trainer.Trainer
}

// registerTraining runs the training loop once the app has started and shuts the
// app down with its exit code.
func registerTraining(p trainingParams) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	sugar := p.Log.Sugar()

	p.LC.Append(fx.Hook{
		OnStart: func(context.Context) error {
			sugar.Infof("CPU %s, %d threads, dot kernel unrolled: %v",
				cpuid.CPU.BrandName, parallel.Threads, tensor.Unrolled)
			sugar.Infof("generator %d weights, discriminator %d weights",
				p.Nets.generator.Net().Len(), p.Nets.discriminator.Net().Len())

			if err := trainer.Resume(p.Trainer.Store, p.Flags.resume, p.Nets.combined); err != nil {
				return err
			}
			go func() {
				defer close(done)
				code := 0
				res, err := p.Trainer.Run(ctx)
				if err != nil {
					sugar.Errorf("training failed: %v", err)
					code = 1
				} else {
					sugar.Infof("Model id: %s", res.RunID)
				}
				if err := p.Shutdowner.Shutdown(fx.ExitCode(code)); err != nil {
					sugar.Errorf("shutdown: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(stop context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stop.Done():
				return stop.Err()
			}
		},
	})
}

func main() {
	configPath := flag.String("config", "", "yaml or json config file")
	epochs := flag.Int("epochs", 0, "number of epochs, overrides train.epochs")
	batch := flag.Int("batch", 0, "batch size, overrides train.batch_size")
	resume := flag.String("resume", "", "run id to load the weights from before training")
	pgo := flag.Bool("pgo", false, "write a cpu profile to default.pgo")
	flag.Parse()

	app := fx.New(
		fx.Supply(flags{
			config: *configPath,
			epochs: *epochs,
			batch:  *batch,
			resume: *resume,
			pgo:    *pgo,
		}),
		fx.Provide(
			loadConfig,
			newDataset,
			newNetworks,
			newTrainer,
		),
		infrastructure.LoggerModule,
		fx.WithLogger(infrastructure.NewFxLoggerAdapter),
		fx.Invoke(registerProfile, registerTraining),
	)
	app.Run()
}
