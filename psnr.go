package gomotion

import "math"

// peakSignal is the largest 8-bit sample value.
const peakSignal = 255.0

// PSNRIdentical is the PSNR reported for two identical frames, whose mean
// squared error is zero.
var PSNRIdentical = math.Inf(1)

// IsIdentical reports whether psnr is the value PSNR returns for identical
// frames.
func IsIdentical(psnr float64) bool { return math.IsInf(psnr, 1) }

// MSE returns the mean squared error between actual and predicted over all
// pixels.
//
// Returns ErrInvalidDimension if the frames are unusable or differ in size.
func MSE(actual, predicted *Frame) (float64, error) {
	if err := validatePair(actual, predicted, "actual",
		"predicted"); err != nil {
		return 0, err
	}

	var sum uint64
	for i, a := range actual.Pix {
		d := int64(a) - int64(predicted.Pix[i])
		sum += uint64(d * d)
	}
	return float64(sum) / float64(len(actual.Pix)), nil
}

// PSNR returns the peak signal-to-noise ratio of predicted against actual in
// decibels, 10*log10(255²/MSE). Identical frames yield PSNRIdentical.
//
// Returns ErrInvalidDimension if the frames are unusable or differ in size.
func PSNR(actual, predicted *Frame) (float64, error) {
	mse, err := MSE(actual, predicted)
	if err != nil {
		return 0, err
	}
	return psnrFromMSE(mse), nil
}

func psnrFromMSE(mse float64) float64 {
	if mse == 0 {
		return PSNRIdentical
	}
	return 10 * math.Log10(peakSignal*peakSignal/mse)
}
