// Package domain holds the decision logic of the farm advisor: soil input
// validation, the yield regression, the crop suggestion table, and the
// weather result type that gates both.
//
// # Inputs
//
// Soil moisture is a whole percentage in [0, 100] and soil pH a real number
// in [4.0, 9.0]. Both arrive from the user on every request; the defaults
// (50 %, pH 6.5) apply when a caller omits them. Range checks happen in
// [NewSoilSample] only. [Fit], [Model.Predict] and [SuggestCrops] accept any
// value and extrapolate silently.
//
// Weather is fetched per request through a [WeatherProvider]. Every failure
// (transport error, non-200 status, undecodable body) collapses into an
// unavailable [WeatherResult]; callers never branch on the cause.
//
// # Yield Model
//
// The model is an ordinary least-squares fit over five constant rows
// (see [TrainingRows]) with four predictors:
//
//	temperature (°C), humidity (%), soil moisture (%), soil pH  →  yield (tons/acre)
//
// Predictors and response are centered on their means and the coefficients
// are the minimum-norm least-squares solution obtained from an SVD, with the
// intercept recovered as mean(y) − mean(X)·β. Every predictor column of the
// constant table is an affine function of the row index, so the centered
// design matrix has rank 1 and the fit collapses to a straight line through
// the row means. Predictions at the training rows are therefore
// 1.80, 1.87, 1.94, 2.01, 2.08 rather than the recorded yields.
//
// The model is rebuilt on every call to [FitDefault]. Nothing is cached.
//
// # Crop Table
//
// [SuggestCrops] evaluates, first match wins:
//
//	pH < 6                     Rice, Potato, Maize
//	6 ≤ pH ≤ 7, temp < 25 °C   Wheat, Barley, Soybean
//	6 ≤ pH ≤ 7, temp ≥ 25 °C   Sugarcane, Corn, Sunflower
//	otherwise                  Cotton, Sorghum, Groundnut
//
// "Otherwise" covers pH > 7 and NaN.
package domain
