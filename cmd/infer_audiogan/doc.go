// Package main synthesizes audio with a trained generator. It rebuilds the network from
// model.json, loads model_weights.lzw and writes a wav file.
//
// Usage:
//
//	infer_audiogan -model saved_model/<run-id>/generator -o out.wav -duration 5
package main
