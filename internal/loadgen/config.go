// Package loadgen drives a running simulator with generated candidate
// profiles and reports throughput and response sanity.
package loadgen

import "time"

// Config holds configuration for a load run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Requests int           // Number of simulations to submit
	Workers  int           // Number of concurrent workers
	Timeout  time.Duration // HTTP request timeout
	Token    string        // Bearer token; when empty each request carries a generated X-User-ID
	Verbose  bool          // Log every failed request
}

// Stats holds run statistics.
type Stats struct {
	Generated  int
	Submitted  int
	Successful int
	Rejected   int // 4xx responses
	Failed     int // transport errors and 5xx responses
	Invalid    int // 200 responses whose scores fall outside their ranges
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration

	TotalLatency time.Duration
	MaxLatency   time.Duration
}

// MeanLatency returns the average latency of submitted requests.
func (s *Stats) MeanLatency() time.Duration {
	if s.Submitted == 0 {
		return 0
	}
	return s.TotalLatency / time.Duration(s.Submitted)
}

// SuccessRate returns the share of successful submissions as a percentage.
func (s *Stats) SuccessRate() float64 {
	if s.Submitted == 0 {
		return 0
	}
	return float64(s.Successful) / float64(s.Submitted) * percentageMultiplier
}

const (
	percentageMultiplier    = 100
	workerChannelMultiplier = 2
)
