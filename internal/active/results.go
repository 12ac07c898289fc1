package active

// RoundResult is one row of the results (or baseline) table: metric
// mean/std across the repeated evaluation trainings of a round.
type RoundResult struct {
	Round       int     `json:"num_query"`
	NumTraining int     `json:"num_training"`
	NumTest     int     `json:"num_test"`
	MAE         float64 `json:"mae"`
	MAEStd      float64 `json:"mae_std"`
	RMSE        float64 `json:"rmse"`
	RMSEStd     float64 `json:"rmse_std"`
	R2          float64 `json:"r2"`
	R2Std       float64 `json:"r2_std"`
}
