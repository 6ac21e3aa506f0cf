package entity

import (
	"testing"
	"time"
)

func TestLoadProfile_TargetAt(t *testing.T) {
	profile := LoadProfile{Stages: DefaultStages()}

	tests := []struct {
		name    string
		elapsed time.Duration
		want    int
	}{
		{name: "start", elapsed: 0, want: 0},
		{name: "halfway through first ramp", elapsed: 500 * time.Millisecond, want: 50},
		{name: "first stage boundary", elapsed: time.Second, want: 100},
		{name: "middle of long ramp", elapsed: 16 * time.Second, want: 1050},
		{name: "peak", elapsed: 31 * time.Second, want: 2000},
		{name: "halfway down", elapsed: 31*time.Second + 500*time.Millisecond, want: 1050},
		{name: "end of profile", elapsed: 32 * time.Second, want: 100},
		{name: "past the end", elapsed: time.Minute, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := profile.TargetAt(tt.elapsed); got != tt.want {
				t.Errorf("LoadProfile.TargetAt(%v) = %d, want %d", tt.elapsed, got, tt.want)
			}
		})
	}
}

func TestLoadProfile_TargetAt_ZeroDurationStage(t *testing.T) {
	profile := LoadProfile{
		StartTarget: 3,
		Stages: []Stage{
			{Duration: 0, Target: 10},
			{Duration: 10 * time.Second, Target: 10},
		},
	}

	if got := profile.TargetAt(0); got != 10 {
		t.Errorf("TargetAt(0) = %d, want 10", got)
	}
	if got := profile.TargetAt(5 * time.Second); got != 10 {
		t.Errorf("TargetAt(5s) = %d, want 10", got)
	}
}

func TestLoadProfile_Validate(t *testing.T) {
	tests := []struct {
		name    string
		profile LoadProfile
		wantErr error
	}{
		{
			name:    "default profile",
			profile: LoadProfile{Stages: DefaultStages()},
			wantErr: nil,
		},
		{
			name:    "no stages",
			profile: LoadProfile{},
			wantErr: ErrNoStages,
		},
		{
			name:    "negative duration",
			profile: LoadProfile{Stages: []Stage{{Duration: -time.Second, Target: 1}}},
			wantErr: ErrNegativeStageDuration,
		},
		{
			name:    "negative target",
			profile: LoadProfile{Stages: []Stage{{Duration: time.Second, Target: -1}}},
			wantErr: ErrNegativeStageTarget,
		},
		{
			name:    "negative start target",
			profile: LoadProfile{StartTarget: -2, Stages: DefaultStages()},
			wantErr: ErrNegativeStageTarget,
		},
		{
			name:    "only instant stages",
			profile: LoadProfile{Stages: []Stage{{Duration: 0, Target: 5}}},
			wantErr: ErrEmptyProfile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.profile.Validate(); err != tt.wantErr {
				t.Errorf("LoadProfile.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadProfile_DurationAndMaxTarget(t *testing.T) {
	profile := LoadProfile{Stages: DefaultStages()}

	if got := profile.Duration(); got != 32*time.Second {
		t.Errorf("Duration() = %v, want 32s", got)
	}
	if got := profile.MaxTarget(); got != 2000 {
		t.Errorf("MaxTarget() = %d, want 2000", got)
	}
}

func TestCheckTally_PassRate(t *testing.T) {
	tests := []struct {
		name  string
		tally CheckTally
		want  string
	}{
		{name: "no evaluations", tally: CheckTally{}, want: "0.00"},
		{name: "all pass", tally: CheckTally{Passes: 7}, want: "100.00"},
		{name: "two thirds", tally: CheckTally{Passes: 2, Fails: 1}, want: "66.67"},
		{name: "all fail", tally: CheckTally{Fails: 4}, want: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tally.PassRate(); got != tt.want {
				t.Errorf("CheckTally.PassRate() = %s, want %s", got, tt.want)
			}
		})
	}
}
