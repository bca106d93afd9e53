// Package trainer runs the adversarial training loop and persists its artifacts.
// Each epoch trains the discriminator on a half batch of real frames and a half
// batch of generated frames, then trains the generator through the combined model.
package trainer
