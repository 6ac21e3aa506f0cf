package entity

import "time"

// Stage ramps the virtual user count linearly to Target over Duration
type Stage struct {
	Duration time.Duration `mapstructure:"duration"`
	Target   int           `mapstructure:"target"`
}

// LoadProfile is an ordered list of stages
type LoadProfile struct {
	StartTarget int
	Stages      []Stage
}

// DefaultStages is the 1s/30s/1s ramp to 100, 2000 and back to 100 users
func DefaultStages() []Stage {
	return []Stage{
		{Duration: time.Second, Target: 100},
		{Duration: 30 * time.Second, Target: 2000},
		{Duration: time.Second, Target: 100},
	}
}

// Validate validates the load profile
func (p LoadProfile) Validate() error {
	if len(p.Stages) == 0 {
		return ErrNoStages
	}
	if p.StartTarget < 0 {
		return ErrNegativeStageTarget
	}
	for _, s := range p.Stages {
		if s.Duration < 0 {
			return ErrNegativeStageDuration
		}
		if s.Target < 0 {
			return ErrNegativeStageTarget
		}
	}
	if p.Duration() == 0 {
		return ErrEmptyProfile
	}
	return nil
}

// Duration returns the total length of the profile
func (p LoadProfile) Duration() time.Duration {
	var total time.Duration
	for _, s := range p.Stages {
		total += s.Duration
	}
	return total
}

// MaxTarget returns the highest concurrency the profile reaches
func (p LoadProfile) MaxTarget() int {
	peak := p.StartTarget
	for _, s := range p.Stages {
		if s.Target > peak {
			peak = s.Target
		}
	}
	return peak
}

// TargetAt returns the virtual user count wanted at elapsed time.
// Within a stage the count moves linearly from the previous target,
// truncated toward the previous target. Past the end it is the last target.
func (p LoadProfile) TargetAt(elapsed time.Duration) int {
	prev := p.StartTarget
	for _, s := range p.Stages {
		if elapsed < s.Duration {
			delta := float64(s.Target-prev) * float64(elapsed) / float64(s.Duration)
			return prev + int(delta)
		}
		elapsed -= s.Duration
		prev = s.Target
	}
	return prev
}
