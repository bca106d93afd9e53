package main

import "flag"
import "math/rand/v2"
import "os"
import "path/filepath"
import "time"

import "github.com/neurlang/audiogan/audio"
import "github.com/neurlang/audiogan/config"
import "github.com/neurlang/audiogan/gan"
import "github.com/neurlang/audiogan/infrastructure"
import "github.com/neurlang/audiogan/learning"
import "github.com/neurlang/audiogan/net/feedforward"
import "github.com/neurlang/audiogan/tensor"
import "github.com/neurlang/audiogan/trainer"

// defaultRate is used when neither -rate nor the run config give a sample rate
const defaultRate = 22050

func main() {
	model := flag.String("model", "", "generator directory, saved_model/<run-id>/generator")
	out := flag.String("o", "test.wav", "output wav file")
	duration := flag.Float64("duration", 5, "seconds of audio")
	rate := flag.Int("rate", 0, "sample rate, read from the run config.yaml when zero")
	mode := flag.String("mode", audio.Once, "once or tile")
	seed := flag.Uint64("seed", 0, "noise seed, time based when zero")
	level := flag.String("log", "info", "log level")
	flag.Parse()

	logger, err := infrastructure.NewLogger(*level)
	if err != nil {
		panic(err.Error())
	}
	defer logger.Sync()
	log := logger.Sugar()

	if *model == "" {
		log.Error("-model is required")
		os.Exit(2)
	}
	net, err := feedforward.ReadTopologyFromFile(filepath.Join(*model, trainer.TopologyFile))
	if err != nil {
		log.Fatalf("read topology: %v", err)
	}
	if err := net.ReadCompressedWeightsFromFile(filepath.Join(*model, trainer.WeightsFile)); err != nil {
		log.Fatalf("read weights: %v", err)
	}
	if len(net.InputShape()) != 2 {
		log.Fatalf("%s takes %v, not (latent_steps, latent_dim) noise", net.Name(), net.InputShape())
	}

	if *rate <= 0 {
		*rate = defaultRate
		if cfg, err := config.Load(filepath.Join(*model, "..", trainer.ConfigFile)); err == nil {
			*rate = cfg.Data.SampleRate
		} else {
			log.Warnf("no run config, using %d Hz: %v", defaultRate, err)
		}
	}
	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(*seed, ^*seed))
	in := net.InputShape()
	noise := func() *tensor.Tensor {
		return tensor.Normal(rng, 1, in[0], in[1])
	}

	gen := gan.NewNetwork(net, learning.Default())
	wave, err := audio.Synthesize(gen, noise, *rate, *duration, *mode, logger)
	if err != nil {
		log.Fatalf("synthesize: %v", err)
	}
	if err := audio.WriteWav(*out, wave, *rate); err != nil {
		log.Fatalf("write %s: %v", *out, err)
	}
	log.Infof("wrote %d samples at %d Hz to %s, spectral centroid %.0f Hz",
		len(wave), *rate, *out, audio.SpectralCentroid(wave, *rate))
}
