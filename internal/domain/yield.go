package domain

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

const numFeatures = 4

// rcond is the relative singular-value cutoff below which directions of the
// centered design matrix are treated as zero.
const rcond = 1e-10

// TrainingRows returns the constant yield training table. Each call returns a
// fresh copy.
func TrainingRows() []TrainingRow {
	return []TrainingRow{
		{Features: Features{TemperatureC: 20, HumidityPct: 50, MoisturePct: 20, PH: 5.5}, Yield: 1.5},
		{Features: Features{TemperatureC: 25, HumidityPct: 60, MoisturePct: 40, PH: 6.0}, Yield: 2.0},
		{Features: Features{TemperatureC: 30, HumidityPct: 70, MoisturePct: 60, PH: 6.5}, Yield: 2.3},
		{Features: Features{TemperatureC: 35, HumidityPct: 80, MoisturePct: 80, PH: 7.0}, Yield: 2.1},
		{Features: Features{TemperatureC: 40, HumidityPct: 90, MoisturePct: 100, PH: 7.5}, Yield: 1.8},
	}
}

// Model is a fitted linear yield surface.
type Model struct {
	Intercept float64
	// Coefficients are ordered temperature, humidity, moisture, pH.
	Coefficients [numFeatures]float64
}

// Predict evaluates the model at f. Inputs outside the training range are
// extrapolated.
func (m Model) Predict(f Features) float64 {
	v := f.vector()
	y := m.Intercept
	for i := range v {
		y += m.Coefficients[i] * v[i]
	}
	return y
}

// FitDefault fits a new model on TrainingRows.
func FitDefault() (Model, error) {
	return Fit(TrainingRows())
}

// Fit computes the ordinary least-squares model for rows. Predictors and
// response are centered, and the coefficients are the minimum-norm solution
// so rank-deficient tables still produce a unique model.
func Fit(rows []TrainingRow) (Model, error) {
	n := len(rows)
	if n == 0 {
		return Model{}, errors.New("fit yield model: no training rows")
	}

	var xMean [numFeatures]float64
	var yMean float64
	for _, r := range rows {
		v := r.vector()
		for j := range v {
			xMean[j] += v[j]
		}
		yMean += r.Yield
	}
	for j := range xMean {
		xMean[j] /= float64(n)
	}
	yMean /= float64(n)

	x := mat.NewDense(n, numFeatures, nil)
	y := mat.NewDense(n, 1, nil)
	for i, r := range rows {
		v := r.vector()
		for j := range v {
			x.Set(i, j, v[j]-xMean[j])
		}
		y.Set(i, 0, r.Yield-yMean)
	}

	// A zero matrix has no direction to fit; the model is the mean response.
	if mat.Norm(x, 2) == 0 {
		return Model{Intercept: yMean}, nil
	}

	var svd mat.SVD
	if !svd.Factorize(x, mat.SVDThin) {
		return Model{}, fmt.Errorf("fit yield model: SVD factorization failed for %d rows", n)
	}
	rank := svd.Rank(rcond)
	if rank == 0 {
		return Model{Intercept: yMean}, nil
	}

	var beta mat.Dense
	svd.SolveTo(&beta, y, rank)

	m := Model{Intercept: yMean}
	for j := 0; j < numFeatures; j++ {
		m.Coefficients[j] = beta.At(j, 0)
		m.Intercept -= m.Coefficients[j] * xMean[j]
	}
	return m, nil
}

// FormatYield renders a prediction for display, e.g. "1.91 tons/acre".
func FormatYield(v float64) string {
	return fmt.Sprintf("%.2f tons/acre", v)
}

func (f Features) vector() [numFeatures]float64 {
	return [numFeatures]float64{f.TemperatureC, f.HumidityPct, f.MoisturePct, f.PH}
}
