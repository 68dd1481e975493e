package learned

// Regressor is a trained model that predicts one value per encoded row.
type Regressor interface {
	// Schema describes the columns Predict expects.
	Schema() Schema
	// Predict returns one prediction per row, in row order.
	Predict(rows [][]float64) ([]float64, error)
}
