package selector

// freeDisposalAlpha tabulates the unique root in (3,4) of x = (1 +
// (x-2)/(k+1))^(k+1), precomputed for k ∈ {10,20,...,100} (spec §6, Design
// Notes §9: "Global state... represent as compile-time maps").
var freeDisposalAlpha = map[int]float64{
	10:  3.24105,
	20:  3.19397,
	30:  3.17813,
	40:  3.17017,
	50:  3.16539,
	60:  3.16220,
	70:  3.15992,
	80:  3.15821,
	90:  3.15687,
	100: 3.15581,
}

// onlineAdaptiveEta tabulates the positive root of (1+x)^(k+1) = kx+x+2,
// precomputed for k ∈ {10,20,...,150}.
var onlineAdaptiveEta = map[int]float64{
	10:  0.112823,
	20:  0.0568559,
	30:  0.0380041,
	40:  0.0285408,
	50:  0.0228508,
	60:  0.0190525,
	70:  0.0163369,
	80:  0.0142988,
	90:  0.0127129,
	100: 0.0114436,
	110: 0.0104048,
	120: 0.0095389,
	130: 0.00880604,
	140: 0.00817776,
	150: 0.00763315,
}

// freeDisposalThreshold derives (alpha, beta, gamma) for a given k, per
// FreeDisposal's constructor: beta = 1 + (alpha-2)/(k+1), gamma =
// k(beta-1)/(1-beta^-k). Returns ok=false if k is outside the tabulated range.
func freeDisposalThreshold(k int) (alpha, beta, gamma float64, ok bool) {
	a, present := freeDisposalAlpha[k]
	if !present {
		return 0, 0, 0, false
	}
	b := 1 + (a-2)/float64(k+1)
	g := float64(k) * (b - 1) / (1 - pow(b, -k))

	return a, b, g, true
}

// onlineAdaptiveEtaFor looks up eta(k); ok=false if k is outside the
// tabulated range.
func onlineAdaptiveEtaFor(k int) (eta float64, ok bool) {
	eta, ok = onlineAdaptiveEta[k]
	return eta, ok
}

// pow is integer-exponent math.Pow, kept local so params.go has no
// dependency beyond what it tabulates.
func pow(base float64, exp int) float64 {
	if exp < 0 {
		return 1 / pow(base, -exp)
	}
	result := 1.0
	for i := 0; i < exp; i++ {
		result *= base
	}

	return result
}
