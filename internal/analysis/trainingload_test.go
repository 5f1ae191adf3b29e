package analysis

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()

	if p.RestingHR != 45 {
		t.Errorf("DefaultProfile().RestingHR = %v, want 45", p.RestingHR)
	}
	if p.MaxHR != 197 {
		t.Errorf("DefaultProfile().MaxHR = %v, want 197", p.MaxHR)
	}
}

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		wantErr bool
	}{
		{"defaults are valid", DefaultProfile(), false},
		{"max equals resting", Profile{RestingHR: 100, MaxHR: 100}, true},
		{"max below resting", Profile{RestingHR: 100, MaxHR: 80}, true},
		{"custom valid", Profile{RestingHR: 50, MaxHR: 190}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTRIMP(t *testing.T) {
	defaultProfile := DefaultProfile()

	tests := []struct {
		name        string
		durationMin float64
		avgHR       float64
		profile     Profile
		expected    float64
		delta       float64
	}{
		{
			name:        "no HR data contributes zero load",
			durationMin: 60,
			avgHR:       0,
			profile:     defaultProfile,
			expected:    0,
			delta:       0,
		},
		{
			name:        "30 min at 150 bpm",
			durationMin: 30,
			avgHR:       150,
			profile:     defaultProfile,
			// hrr = (150-45)/(197-45) = 105/152 = 0.691
			// load = 30 * 0.691 * 0.64 * e^(1.92*0.691)
			expected: 50.0,
			delta:    0.5,
		},
		{
			name:        "zero duration is zero load",
			durationMin: 0,
			avgHR:       150,
			profile:     defaultProfile,
			expected:    0,
			delta:       0,
		},
		{
			name:        "longer session scales linearly",
			durationMin: 60,
			avgHR:       150,
			profile:     defaultProfile,
			expected:    99.9,
			delta:       1,
		},
		{
			name:        "degenerate zero reserve",
			durationMin: 60,
			avgHR:       150,
			profile:     Profile{RestingHR: 100, MaxHR: 100},
			expected:    0,
			delta:       0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TRIMP(tt.durationMin, tt.avgHR, tt.profile)
			if math.Abs(result-tt.expected) > tt.delta {
				t.Errorf("TRIMP() = %v, want %v (±%v)", result, tt.expected, tt.delta)
			}
		})
	}
}

func TestTRIMPBelowRestingNotClamped(t *testing.T) {
	// avg HR under resting yields a negative hrr; the formula is
	// applied as-is and the result is a small negative load
	result := TRIMP(30, 40, DefaultProfile())
	if result >= 0 {
		t.Errorf("TRIMP(30, 40) = %v, want negative", result)
	}
	if math.Abs(result) > 1 {
		t.Errorf("TRIMP(30, 40) = %v, magnitude should be near zero", result)
	}
}

func TestTRIMPMonotonicInHR(t *testing.T) {
	p := DefaultProfile()
	prev := TRIMP(60, 100, p)
	for hr := 110.0; hr <= 190; hr += 10 {
		cur := TRIMP(60, hr, p)
		if cur <= prev {
			t.Errorf("TRIMP(60, %v) = %v, should exceed TRIMP at lower HR (%v)", hr, cur, prev)
		}
		prev = cur
	}
}

func TestBuildDailySeries(t *testing.T) {
	baseDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	profile := DefaultProfile()

	tests := []struct {
		name    string
		records []WorkoutRecord
		asOf    time.Time
		wantErr error
		checkFn func(t *testing.T, series []DailyLoad)
	}{
		{
			name:    "no records",
			records: []WorkoutRecord{},
			asOf:    baseDate,
			wantErr: ErrNoData,
		},
		{
			name: "negative duration rejected",
			records: []WorkoutRecord{
				{Date: baseDate, DurationMin: -10, AvgHR: 150},
			},
			asOf:    baseDate,
			wantErr: ErrInvalidRecord,
		},
		{
			name: "NaN heart rate rejected",
			records: []WorkoutRecord{
				{Date: baseDate, DurationMin: 30, AvgHR: math.NaN()},
			},
			asOf:    baseDate,
			wantErr: ErrInvalidRecord,
		},
		{
			name: "infinite duration rejected",
			records: []WorkoutRecord{
				{Date: baseDate, DurationMin: math.Inf(1), AvgHR: 150},
			},
			asOf:    baseDate,
			wantErr: ErrInvalidRecord,
		},
		{
			name: "missing date rejected",
			records: []WorkoutRecord{
				{DurationMin: 30, AvgHR: 150},
			},
			asOf:    baseDate,
			wantErr: ErrInvalidRecord,
		},
		{
			name: "single record single day",
			records: []WorkoutRecord{
				{Date: baseDate, DurationMin: 30, AvgHR: 150},
			},
			asOf: baseDate,
			checkFn: func(t *testing.T, series []DailyLoad) {
				if len(series) != 1 {
					t.Fatalf("expected 1 day, got %d", len(series))
				}
				if math.Abs(series[0].Load-50.0) > 0.5 {
					t.Errorf("Load = %v, want ~50.0", series[0].Load)
				}
			},
		},
		{
			name: "gap days are filled with zero",
			records: []WorkoutRecord{
				{Date: baseDate, DurationMin: 30, AvgHR: 150},
				{Date: baseDate.AddDate(0, 0, 5), DurationMin: 30, AvgHR: 150},
			},
			asOf: baseDate.AddDate(0, 0, 5),
			checkFn: func(t *testing.T, series []DailyLoad) {
				if len(series) != 6 {
					t.Fatalf("expected 6 days (dense range), got %d", len(series))
				}
				for i := 1; i < 5; i++ {
					if series[i].Load != 0 {
						t.Errorf("day %d load = %v, want 0 (rest day)", i, series[i].Load)
					}
					wantDate := baseDate.AddDate(0, 0, i)
					if !series[i].Date.Equal(wantDate) {
						t.Errorf("day %d date = %v, want %v", i, series[i].Date, wantDate)
					}
				}
			},
		},
		{
			name: "same-day sessions accumulate",
			records: []WorkoutRecord{
				{Date: baseDate.Add(7 * time.Hour), DurationMin: 30, AvgHR: 150},
				{Date: baseDate.Add(18 * time.Hour), DurationMin: 30, AvgHR: 150},
			},
			asOf: baseDate,
			checkFn: func(t *testing.T, series []DailyLoad) {
				if len(series) != 1 {
					t.Fatalf("expected 1 day, got %d", len(series))
				}
				single := TRIMP(30, 150, DefaultProfile())
				if math.Abs(series[0].Load-2*single) > 0.01 {
					t.Errorf("Load = %v, want %v (two summed sessions)", series[0].Load, 2*single)
				}
			},
		},
		{
			name: "series extends through asOf",
			records: []WorkoutRecord{
				{Date: baseDate, DurationMin: 30, AvgHR: 150},
			},
			asOf: baseDate.AddDate(0, 0, 9),
			checkFn: func(t *testing.T, series []DailyLoad) {
				if len(series) != 10 {
					t.Fatalf("expected 10 days through asOf, got %d", len(series))
				}
				for i := 1; i < 10; i++ {
					if series[i].Load != 0 {
						t.Errorf("day %d load = %v, want 0", i, series[i].Load)
					}
				}
			},
		},
		{
			name: "records after asOf extend the range",
			records: []WorkoutRecord{
				{Date: baseDate, DurationMin: 30, AvgHR: 150},
				{Date: baseDate.AddDate(0, 0, 3), DurationMin: 30, AvgHR: 150},
			},
			asOf: baseDate,
			checkFn: func(t *testing.T, series []DailyLoad) {
				if len(series) != 4 {
					t.Fatalf("expected 4 days, got %d", len(series))
				}
			},
		},
		{
			name: "unsorted input is handled",
			records: []WorkoutRecord{
				{Date: baseDate.AddDate(0, 0, 2), DurationMin: 30, AvgHR: 150},
				{Date: baseDate, DurationMin: 30, AvgHR: 150},
			},
			asOf: baseDate.AddDate(0, 0, 2),
			checkFn: func(t *testing.T, series []DailyLoad) {
				if len(series) != 3 {
					t.Fatalf("expected 3 days, got %d", len(series))
				}
				if !series[0].Date.Equal(baseDate) {
					t.Errorf("first day = %v, want %v", series[0].Date, baseDate)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series, err := BuildDailySeries(tt.records, tt.asOf, profile)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("BuildDailySeries() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildDailySeries() unexpected error: %v", err)
			}
			tt.checkFn(t, series)
		})
	}
}

func TestApplyPhysiology(t *testing.T) {
	baseDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		daily   []DailyLoad
		checkFn func(t *testing.T, metrics []DayMetrics)
	}{
		{
			name:  "empty series",
			daily: []DailyLoad{},
			checkFn: func(t *testing.T, metrics []DayMetrics) {
				if metrics != nil {
					t.Errorf("expected nil, got %v", metrics)
				}
			},
		},
		{
			name: "first day seeds both averages",
			daily: []DailyLoad{
				{Date: baseDate, Load: 100},
			},
			checkFn: func(t *testing.T, metrics []DayMetrics) {
				if len(metrics) != 1 {
					t.Fatalf("expected 1 metric, got %d", len(metrics))
				}
				if metrics[0].Fitness != 100 || metrics[0].Fatigue != 100 {
					t.Errorf("seed: fitness=%v fatigue=%v, both want 100",
						metrics[0].Fitness, metrics[0].Fatigue)
				}
				if metrics[0].Form != 0 {
					t.Errorf("seed day form = %v, want 0", metrics[0].Form)
				}
			},
		},
		{
			name: "form is always fitness minus fatigue",
			daily: func() []DailyLoad {
				loads := make([]DailyLoad, 30)
				for i := range loads {
					load := 0.0
					if i%3 != 0 {
						load = float64(50 + i*5)
					}
					loads[i] = DailyLoad{Date: baseDate.AddDate(0, 0, i), Load: load}
				}
				return loads
			}(),
			checkFn: func(t *testing.T, metrics []DayMetrics) {
				for i, m := range metrics {
					if math.Abs(m.Form-(m.Fitness-m.Fatigue)) > 1e-9 {
						t.Errorf("day %d: form = %v, want fitness-fatigue = %v",
							i, m.Form, m.Fitness-m.Fatigue)
					}
				}
			},
		},
		{
			name: "fatigue reacts faster than fitness",
			daily: func() []DailyLoad {
				// rest block, then a hard week
				loads := make([]DailyLoad, 20)
				for i := range loads {
					load := 10.0
					if i >= 13 {
						load = 150
					}
					loads[i] = DailyLoad{Date: baseDate.AddDate(0, 0, i), Load: load}
				}
				return loads
			}(),
			checkFn: func(t *testing.T, metrics []DayMetrics) {
				last := metrics[len(metrics)-1]
				if last.Fatigue <= last.Fitness {
					t.Errorf("after a hard week fatigue (%v) should exceed fitness (%v)",
						last.Fatigue, last.Fitness)
				}
			},
		},
		{
			name: "both averages decay toward zero on rest",
			daily: func() []DailyLoad {
				loads := []DailyLoad{{Date: baseDate, Load: 200}}
				for i := 1; i < 30; i++ {
					loads = append(loads, DailyLoad{Date: baseDate.AddDate(0, 0, i)})
				}
				return loads
			}(),
			checkFn: func(t *testing.T, metrics []DayMetrics) {
				for i := 1; i < len(metrics); i++ {
					if metrics[i].Fitness >= metrics[i-1].Fitness {
						t.Errorf("fitness should decay: day %d = %v, day %d = %v",
							i-1, metrics[i-1].Fitness, i, metrics[i].Fitness)
					}
					if metrics[i].Fatigue >= metrics[i-1].Fatigue {
						t.Errorf("fatigue should decay: day %d = %v, day %d = %v",
							i-1, metrics[i-1].Fatigue, i, metrics[i].Fatigue)
					}
				}
				// fatigue sheds load faster
				last := metrics[len(metrics)-1]
				if last.Fatigue >= last.Fitness {
					t.Errorf("after long rest fatigue (%v) should sit below fitness (%v)",
						last.Fatigue, last.Fitness)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics := ApplyPhysiology(tt.daily)
			tt.checkFn(t, metrics)
		})
	}
}

func TestApplyPhysiologyCausal(t *testing.T) {
	baseDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	loads := make([]DailyLoad, 15)
	for i := range loads {
		loads[i] = DailyLoad{Date: baseDate.AddDate(0, 0, i), Load: float64(40 + i*7)}
	}

	full := ApplyPhysiology(loads)
	prefix := ApplyPhysiology(loads[:10])

	// appending future days must not change the past
	for i := range prefix {
		if math.Abs(full[i].Fitness-prefix[i].Fitness) > 1e-9 ||
			math.Abs(full[i].Fatigue-prefix[i].Fatigue) > 1e-9 {
			t.Errorf("day %d changed when later days were added: full=%+v prefix=%+v",
				i, full[i], prefix[i])
		}
	}
}

func TestApplyPhysiologyDeterministic(t *testing.T) {
	baseDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	loads := make([]DailyLoad, 25)
	for i := range loads {
		loads[i] = DailyLoad{Date: baseDate.AddDate(0, 0, i), Load: float64(i * 11 % 70)}
	}

	a := ApplyPhysiology(loads)
	b := ApplyPhysiology(loads)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("day %d differs between identical runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name       string
		fitness    float64
		fatigue    float64
		wantRatio  float64
		wantStatus Status
	}{
		{"zero fitness is recovery", 0, 50, 0, StatusRecovery},
		{"well rested", 100, 50, 0.5, StatusRecovery},
		{"lower optimal boundary", 100, 80, 0.8, StatusOptimal},
		{"mid optimal", 100, 100, 1.0, StatusOptimal},
		{"upper optimal boundary", 10, 13, 1.3, StatusOptimal},
		{"just into high", 100, 135, 1.35, StatusHigh},
		{"upper high boundary", 100, 150, 1.5, StatusHigh},
		{"overreaching", 100, 160, 1.6, StatusOverreach},
		{"just under optimal", 100, 79, 0.79, StatusRecovery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ratio, status := ClassifyStatus(tt.fitness, tt.fatigue)
			if math.Abs(ratio-tt.wantRatio) > 1e-9 {
				t.Errorf("ratio = %v, want %v", ratio, tt.wantRatio)
			}
			if status != tt.wantStatus {
				t.Errorf("status = %v, want %v", status, tt.wantStatus)
			}
		})
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status   Status
		expected string
	}{
		{StatusRecovery, "Recovery"},
		{StatusOptimal, "Optimal"},
		{StatusHigh, "High"},
		{StatusOverreach, "Overreach"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.status.String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestCurrentSnapshot(t *testing.T) {
	baseDate := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	profile := DefaultProfile()

	t.Run("no data", func(t *testing.T) {
		_, err := CurrentSnapshot(nil, baseDate, profile)
		if !errors.Is(err, ErrNoData) {
			t.Errorf("error = %v, want ErrNoData", err)
		}
	})

	t.Run("single session end to end", func(t *testing.T) {
		records := []WorkoutRecord{
			{Date: baseDate, DurationMin: 30, AvgHR: 150},
		}

		snap, err := CurrentSnapshot(records, baseDate, profile)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if math.Abs(snap.Latest.Load-50.0) > 0.5 {
			t.Errorf("load = %v, want ~50.0", snap.Latest.Load)
		}
		// one-day history seeds both averages with the load itself
		if snap.Latest.Fitness != snap.Latest.Load || snap.Latest.Fatigue != snap.Latest.Load {
			t.Errorf("fitness=%v fatigue=%v, both want %v",
				snap.Latest.Fitness, snap.Latest.Fatigue, snap.Latest.Load)
		}
		if snap.Latest.Form != 0 {
			t.Errorf("form = %v, want 0", snap.Latest.Form)
		}
		if math.Abs(snap.Ratio-1.0) > 1e-9 {
			t.Errorf("ratio = %v, want 1.0", snap.Ratio)
		}
		if snap.Status != StatusOptimal {
			t.Errorf("status = %v, want Optimal", snap.Status)
		}
	})

	t.Run("stale data decays into recovery", func(t *testing.T) {
		records := []WorkoutRecord{
			{Date: baseDate, DurationMin: 60, AvgHR: 160},
		}

		snap, err := CurrentSnapshot(records, baseDate.AddDate(0, 0, 21), profile)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if snap.Status != StatusRecovery {
			t.Errorf("status after 3 idle weeks = %v, want Recovery", snap.Status)
		}
		if snap.Latest.Form <= 0 {
			t.Errorf("form after long rest = %v, want positive", snap.Latest.Form)
		}
	})
}
