package gentask

func SetStatus(status Status) UpdateSetter {
	return func(t *Task) error {
		if !status.IsValid() {
			return ErrInvalidStatus
		}
		t.Status = status
		return nil
	}
}

func SetConfig(config JSONMap) UpdateSetter {
	return func(t *Task) error {
		t.Config = config
		return nil
	}
}

func SetResult(result JSONMap) UpdateSetter {
	return func(t *Task) error {
		t.Result = result
		return nil
	}
}

func SetProgress(progress int, stage string) UpdateSetter {
	return func(t *Task) error {
		if progress < 0 || progress > 100 {
			return ErrInvalidProgress
		}
		t.Progress = progress
		t.Stage = stage
		return nil
	}
}
