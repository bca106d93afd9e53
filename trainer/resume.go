package trainer

// Resume restores the weights of models from a previous run before training continues
func Resume(store Persister, runID string, models ...Artifact) error {
	if runID == "" {
		return nil
	}
	return store.Load(runID, models...)
}
