package session

// StepProgress tracks checks made on a single step within one attempt.
type StepProgress struct {
	Step          Step    `json:"step"`
	TotalAttempts int     `json:"totalAttempts"`
	CorrectCount  int     `json:"correctCount"`
	Accuracy      float64 `json:"accuracy"` // CorrectCount / TotalAttempts (computed)
}

// Record adds a check result to the progress.
func (sp *StepProgress) Record(correct bool) {
	sp.TotalAttempts++
	if correct {
		sp.CorrectCount++
	}
	if sp.TotalAttempts > 0 {
		sp.Accuracy = float64(sp.CorrectCount) / float64(sp.TotalAttempts)
	}
}

// FirstTry reports whether the step was passed on its first check.
func (sp *StepProgress) FirstTry() bool {
	return sp.TotalAttempts == 1 && sp.CorrectCount == 1
}
