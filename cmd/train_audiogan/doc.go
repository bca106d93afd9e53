// Package main trains the audio GAN on a directory of clips. The generator, the
// discriminator and the combined model are saved under saved_model/<run-id>/ and a
// few seconds of generated audio are written to test.wav when training ends.
//
// Usage:
//
//	train_audiogan -config audiogan.yaml -epochs 100 -batch 32
//	train_audiogan -resume <run-id>
//
// Every config key can be overridden from the environment, for example
// AUDIOGAN_DATA_PARENT_DIR=cv-valid-train.
package main
