// Package metrics は平滑化結果の評価指標を提供する。
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/scismooth/pkg/errors"
)

// checkPair は長さの一致と空でないことを検証する
func checkPair(op string, yTrue, yPred *mat.VecDense) (int, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.Wrap(errors.ErrEmptyData, op)
	}
	if yPred.Len() != n {
		return 0, errors.NewLengthMismatchError(op, "y_pred", n, yPred.Len())
	}
	return n, nil
}

// RSS は残差平方和 Σ(yTrue - yPred)² を計算する
func RSS(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("RSS", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}
	return sum, nil
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	rss, err := RSS(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return rss / float64(yTrue.Len()), nil
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	// MAE = (1/n) * Σ|yTrue - yPred|
	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}
	return sum / float64(n), nil
}

// R2Score は決定係数（R²）を計算する
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	yMean := mat.Sum(yTrue) / float64(n)

	// 全変動（TSS）と残差変動（RSS）を計算
	var tss, rss float64
	for i := 0; i < n; i++ {
		yTrueVal := yTrue.AtVec(i)
		yPredVal := yPred.AtVec(i)

		tss += (yTrueVal - yMean) * (yTrueVal - yMean)
		rss += (yTrueVal - yPredVal) * (yTrueVal - yPredVal)
	}

	// 全変動が0の場合（すべてのyTrueが同じ値）
	if tss == 0 {
		return 0, errors.Newf("R2Score: total sum of squares is zero (no variance in yTrue)")
	}

	return 1 - rss/tss, nil
}

// WeightedRMS は重み付き二乗平均平方根 sqrt(Σ w·v² / Σ w) を計算する。
// weights が nil の場合は sqrt(Σ v² / n)。重みゼロの位置の値は参照しない
// （NaN であってもよい）。
func WeightedRMS(values, weights *mat.VecDense) (float64, error) {
	n := values.Len()
	if n == 0 {
		return 0, errors.Wrap(errors.ErrEmptyData, "WeightedRMS")
	}
	if weights == nil {
		var sum float64
		for i := 0; i < n; i++ {
			v := values.AtVec(i)
			sum += v * v
		}
		return math.Sqrt(sum / float64(n)), nil
	}
	if weights.Len() != n {
		return 0, errors.NewLengthMismatchError("WeightedRMS", "weights", n, weights.Len())
	}

	var sum, wsum float64
	for i := 0; i < n; i++ {
		w := weights.AtVec(i)
		if w == 0 {
			continue
		}
		v := values.AtVec(i)
		sum += w * v * v
		wsum += w
	}
	if wsum == 0 {
		return 0, errors.Wrap(errors.ErrEmptyData, "WeightedRMS: all weights are zero")
	}
	return math.Sqrt(sum / wsum), nil
}

// SerialCorrelation は残差のラグ1自己相関を計算する。
// 両端の重みが非ゼロである隣接ペアのみを使う。ペアが3組未満の場合や
// 残差の分散がゼロの場合は NaN を返す。
func SerialCorrelation(residuals, weights *mat.VecDense) (float64, error) {
	n := residuals.Len()
	if weights != nil && weights.Len() != n {
		return 0, errors.NewLengthMismatchError("SerialCorrelation", "weights", n, weights.Len())
	}

	observed := func(i int) bool { return weights == nil || weights.AtVec(i) != 0 }
	lead := make([]float64, 0, n)
	lag := make([]float64, 0, n)
	for i := 0; i+1 < n; i++ {
		if observed(i) && observed(i+1) {
			lead = append(lead, residuals.AtVec(i))
			lag = append(lag, residuals.AtVec(i+1))
		}
	}
	if len(lead) < 3 {
		return math.NaN(), nil
	}
	return stat.Correlation(lead, lag, nil), nil
}
