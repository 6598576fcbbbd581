package signal

// Overbought thresholds. Both comparisons are strict.
const (
	OverboughtShort = 70.0
	OverboughtLong  = 60.0
)

// Regime classifies the short SMA against the long SMA.
type Regime int8

const (
	Neutral Regime = iota
	Bullish
	Bearish
)

func (r Regime) String() string {
	switch r {
	case Bullish:
		return "bullish"
	case Bearish:
		return "bearish"
	default:
		return "neutral"
	}
}

// RegimeOf returns Neutral when the two averages are exactly equal.
func RegimeOf(s Snapshot) Regime {
	switch {
	case s.SMAShort > s.SMALong:
		return Bullish
	case s.SMAShort < s.SMALong:
		return Bearish
	default:
		return Neutral
	}
}

// Overbought reports rsi_short > 70 or rsi_long > 60.
func Overbought(s Snapshot) bool {
	return s.RSIShort > OverboughtShort || s.RSILong > OverboughtLong
}

// ShouldSell reports whether an invested position should be exited at the
// close of the snapshot's day.
func ShouldSell(s Snapshot) bool {
	if Overbought(s) {
		return true
	}

	switch RegimeOf(s) {
	case Bullish:
		// close broke below the lower band
		return s.Close < s.BollingerLower
	case Bearish:
		return s.SMALong < s.BollingerUpper
	}
	return false
}

// ShouldBuy reports whether cash should be put back to work at the close of
// the snapshot's day. It is not the negation of ShouldSell: both may be
// false on the same day.
func ShouldBuy(s Snapshot) bool {
	if Overbought(s) {
		return false
	}

	switch RegimeOf(s) {
	case Bullish:
		return s.Close > s.BollingerLower
	case Bearish:
		return s.BollingerUpper < s.SMAShort
	}
	return false
}
