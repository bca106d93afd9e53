package trainer

import "context"
import "fmt"
import "math/rand/v2"
import "os"
import "path/filepath"
import "time"

import "github.com/google/uuid"
import "go.uber.org/zap"

import "github.com/neurlang/audiogan/audio"
import "github.com/neurlang/audiogan/datasets"
import "github.com/neurlang/audiogan/tensor"

// spectrogram window of the sample images
const (
	sampleShift = 64
	sampleLen   = 256
)

// Model is a trainable network
type Model interface {
	Artifact
	Predict(x *tensor.Tensor) (*tensor.Tensor, error)
	TrainOnBatch(x, y *tensor.Tensor) (float64, error)
}

// Trainer alternates discriminator and generator updates
type Trainer struct {
	Generator     Model
	Discriminator Model
	Combined      Model

	Data  datasets.Sampler
	Store Persister

	// LatentSteps and LatentDim shape the noise fed to the generator
	LatentSteps, LatentDim int

	Options Options
	Output  Output
	Log     *zap.Logger

	// RunID names the saved run, a fresh time based uuid when empty
	RunID string
}

// Result summarizes a finished run
type Result struct {
	RunID   string
	Epochs  int
	DLoss   []float64
	GLoss   []float64
	WavPath string
}

// Run trains for Options.Epochs epochs, saves the three models under one run id and
// writes a synthesized waveform. A cancelled ctx stops the loop between epochs.
func (t *Trainer) Run(ctx context.Context) (*Result, error) {
	if err := t.Options.Validate(); err != nil {
		return nil, err
	}
	if err := t.Output.Validate(); err != nil {
		return nil, err
	}
	if t.Data.Len() == 0 {
		return nil, fmt.Errorf("trainer: no training frames")
	}
	log := t.Log
	if log == nil {
		log = zap.NewNop()
	}
	seed := t.Options.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	res := &Result{RunID: t.RunID}
	if res.RunID == "" {
		id, err := uuid.NewUUID()
		if err != nil {
			return nil, err
		}
		res.RunID = id.String()
	}

	batch := t.Options.BatchSize
	half := batch / 2
	valid, fake, validAll := targets(half, 1), targets(half, 0), targets(batch, 1)

	for epoch := 0; epoch < t.Options.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		frames, err := t.Data.Batch(datasets.RandomIndices(rng, t.Data.Len(), half))
		if err != nil {
			return res, fmt.Errorf("epoch %d: %w", epoch, err)
		}
		gen, err := t.Generator.Predict(t.noise(rng, half))
		if err != nil {
			return res, fmt.Errorf("epoch %d: %w", epoch, err)
		}
		dReal, err := t.Discriminator.TrainOnBatch(frames, valid)
		if err != nil {
			return res, fmt.Errorf("epoch %d: %w", epoch, err)
		}
		dFake, err := t.Discriminator.TrainOnBatch(gen, fake)
		if err != nil {
			return res, fmt.Errorf("epoch %d: %w", epoch, err)
		}
		dLoss := 0.5 * (dReal + dFake)

		gLoss, err := t.Combined.TrainOnBatch(t.noise(rng, batch), validAll)
		if err != nil {
			return res, fmt.Errorf("epoch %d: %w", epoch, err)
		}

		res.Epochs++
		res.DLoss = append(res.DLoss, dLoss)
		res.GLoss = append(res.GLoss, gLoss)
		log.Info("epoch",
			zap.Int("epoch", epoch),
			zap.Float64("d_loss", dLoss),
			zap.Float64("g_loss", gLoss),
		)

		if n := t.Options.SampleInterval; n > 0 && epoch%n == 0 {
			if err := t.sample(rng, epoch, log); err != nil {
				return res, err
			}
		}
		if n := t.Options.CheckpointInterval; n > 0 && (epoch+1)%n == 0 && epoch+1 < t.Options.Epochs {
			if err := t.save(res.RunID); err != nil {
				return res, err
			}
			log.Info("checkpoint saved", zap.String("model_id", res.RunID), zap.Int("epoch", epoch))
		}
	}

	if err := t.save(res.RunID); err != nil {
		return res, err
	}
	log.Info("model saved", zap.String("model_id", res.RunID))

	wave, err := audio.Synthesize(t.Generator, func() *tensor.Tensor { return t.noise(rng, 1) },
		t.Data.SampleRate(), t.Options.Duration, t.Options.SynthMode, log)
	if err != nil {
		return res, err
	}
	if err := audio.WriteWav(t.Output.WavPath, wave, t.Data.SampleRate()); err != nil {
		return res, err
	}
	res.WavPath = t.Output.WavPath
	log.Info("audio written", zap.String("path", res.WavPath), zap.Int("samples", len(wave)))
	return res, nil
}

func (t *Trainer) save(runID string) error {
	return t.Store.Save(runID, t.Generator, t.Discriminator, t.Combined)
}

// noise draws a (n, latent_steps, latent_dim) standard normal batch
func (t *Trainer) noise(rng *rand.Rand, n int) *tensor.Tensor {
	return tensor.Normal(rng, n, t.LatentSteps, t.LatentDim)
}

// sample renders the spectrogram of one generated frame to <image_dir>/<epoch>.png
func (t *Trainer) sample(rng *rand.Rand, epoch int, log *zap.Logger) error {
	if t.Output.ImageDir == "" {
		return nil
	}
	frame, err := t.Generator.Predict(t.noise(rng, 1))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(t.Output.ImageDir, 0755); err != nil {
		return err
	}
	path := filepath.Join(t.Output.ImageDir, fmt.Sprintf("%d.png", epoch))
	if err := audio.WriteSpectrogramPNG(path, audio.Spectrogram(frame.Data, sampleShift, sampleLen)); err != nil {
		return err
	}
	log.Debug("sample written",
		zap.String("path", path),
		zap.Float64("centroid_hz", audio.SpectralCentroid(frame.Data, t.Data.SampleRate())),
	)
	return nil
}

func targets(n int, v float64) *tensor.Tensor {
	t := tensor.New(n, 1)
	t.Fill(v)
	return t
}
