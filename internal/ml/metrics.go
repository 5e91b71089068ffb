package ml

// ClassificationReport carries accuracy plus precision/recall/F1 averaged
// over classes weighted by support. Computed on the training set itself:
// a measurement of fit, not generalization.
type ClassificationReport struct {
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
}

// Evaluate scores predictions against true labels. Classes with zero
// predicted (or actual) instances contribute zero, matching a
// zero-division policy of 0.
func Evaluate(yTrue, yPred []string) ClassificationReport {
	var report ClassificationReport
	n := len(yTrue)
	if n == 0 || len(yPred) != n {
		return report
	}

	truePos := make(map[string]int)
	falsePos := make(map[string]int)
	falseNeg := make(map[string]int)
	support := make(map[string]int)

	correct := 0
	for i := 0; i < n; i++ {
		support[yTrue[i]]++
		if yTrue[i] == yPred[i] {
			correct++
			truePos[yTrue[i]]++
		} else {
			falsePos[yPred[i]]++
			falseNeg[yTrue[i]]++
		}
	}
	report.Accuracy = float64(correct) / float64(n)

	for label, sup := range support {
		weight := float64(sup) / float64(n)

		var precision, recall float64
		if predicted := truePos[label] + falsePos[label]; predicted > 0 {
			precision = float64(truePos[label]) / float64(predicted)
		}
		if actual := truePos[label] + falseNeg[label]; actual > 0 {
			recall = float64(truePos[label]) / float64(actual)
		}
		var f1 float64
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}

		report.Precision += weight * precision
		report.Recall += weight * recall
		report.F1 += weight * f1
	}
	return report
}
