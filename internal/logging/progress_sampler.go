package logging

import "strings"

// ProgressSampler thins high-frequency progress output down to bucket
// crossings. The transcode and transfer stages report a percent for every
// subprocess line or copied chunk; logging each one would drown the log, so
// a sampler emits only when the percent enters a new bucket or the stage
// changes.
type ProgressSampler struct {
	bucketSize float64
	stage      string
	bucket     int
}

// NewProgressSampler returns a sampler with the given bucket width in
// percent. Widths of zero or less fall back to 5.
func NewProgressSampler(bucketSize float64) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 5
	}
	return &ProgressSampler{bucketSize: bucketSize, bucket: -1}
}

// ShouldLog reports whether this progress value deserves a log line. A
// negative percent means the stage could not compute one yet and never
// advances the bucket.
func (s *ProgressSampler) ShouldLog(percent float64, stage string) bool {
	if s == nil {
		return true
	}
	emit := false
	if stage = strings.TrimSpace(stage); stage != "" && stage != s.stage {
		s.stage = stage
		s.bucket = -1
		emit = true
	}
	if percent >= 0 {
		if bucket := s.bucketFor(percent); bucket > s.bucket {
			s.bucket = bucket
			emit = true
		}
	}
	return emit
}

func (s *ProgressSampler) bucketFor(percent float64) int {
	if percent > 100 {
		percent = 100
	}
	return int(percent / s.bucketSize)
}

// Reset clears state between jobs so the next run logs from zero again.
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.stage = ""
	s.bucket = -1
}
