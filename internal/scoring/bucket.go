package scoring

// Bucket is the color band a score is displayed in.
type Bucket string

const (
	BucketHigh Bucket = "high"
	BucketMid  Bucket = "mid"
	BucketLow  Bucket = "low"
)

const (
	highThreshold = 4.0
	midThreshold  = 2.5
)

// BucketFor maps a score to its band. Both thresholds are inclusive.
func BucketFor(score float64) Bucket {
	switch {
	case score >= highThreshold:
		return BucketHigh
	case score >= midThreshold:
		return BucketMid
	default:
		return BucketLow
	}
}

// Color is the CSS class suffix used by the dashboard.
func (b Bucket) Color() string {
	switch b {
	case BucketHigh:
		return "green"
	case BucketMid:
		return "yellow"
	default:
		return "red"
	}
}
