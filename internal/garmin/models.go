package garmin

import (
	"strings"
	"time"
)

// Timestamp handles Garmin's "2006-01-02 15:04:05" JSON format,
// which is neither RFC3339 nor unix.
type Timestamp struct {
	time.Time
}

const timestampLayout = "2006-01-02 15:04:05"

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		t.Time = time.Time{}
		return nil
	}
	// Some endpoints include fractional seconds
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	parsed, err := time.Parse(timestampLayout, s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(timestampLayout) + `"`), nil
}

// Activity is one entry from the activity search endpoint
type Activity struct {
	ActivityID     int64        `json:"activityId"`
	ActivityName   string       `json:"activityName"`
	ActivityType   ActivityType `json:"activityType"`
	StartTimeGMT   Timestamp    `json:"startTimeGMT"`
	StartTimeLocal Timestamp    `json:"startTimeLocal"`
	Duration       float64      `json:"duration"` // seconds
	Distance       float64      `json:"distance"` // meters
	AverageHR      float64      `json:"averageHR"`
	MaxHR          float64      `json:"maxHR"`
	Calories       float64      `json:"calories"`
	ElevationGain  float64      `json:"elevationGain"` // meters
	AverageSpeed   float64      `json:"averageSpeed"`  // m/s
}

// ActivityType nests the type key the way the API does
type ActivityType struct {
	TypeKey string `json:"typeKey"`
}

// DailySummary is the user summary for one calendar day
type DailySummary struct {
	CalendarDate            string  `json:"calendarDate"`
	TotalSteps              int     `json:"totalSteps"`
	RestingHeartRate        float64 `json:"restingHeartRate"`
	AverageStressLevel      float64 `json:"averageStressLevel"`
	BodyBatteryHighestValue float64 `json:"bodyBatteryHighestValue"`
	BodyBatteryLowestValue  float64 `json:"bodyBatteryLowestValue"`
}

// SleepData is the nightly sleep summary
type SleepData struct {
	DailySleepDTO struct {
		CalendarDate     string  `json:"calendarDate"`
		SleepTimeSeconds float64 `json:"sleepTimeSeconds"`
		SleepScores      struct {
			Overall struct {
				Value float64 `json:"value"`
			} `json:"overall"`
		} `json:"sleepScores"`
	} `json:"dailySleepDTO"`
}

// Score returns the overall sleep score
func (s *SleepData) Score() float64 {
	return s.DailySleepDTO.SleepScores.Overall.Value
}

// Hours returns the time asleep in hours
func (s *SleepData) Hours() float64 {
	return s.DailySleepDTO.SleepTimeSeconds / 3600
}

// HRVSummary is the nightly heart rate variability summary
type HRVSummary struct {
	HRVSummary struct {
		CalendarDate string  `json:"calendarDate"`
		LastNightAvg float64 `json:"lastNightAvg"`
		WeeklyAvg    float64 `json:"weeklyAvg"`
		Status       string  `json:"status"`
	} `json:"hrvSummary"`
}

// MaxMetrics carries the fitness-level estimate for one day
type MaxMetrics struct {
	Generic struct {
		VO2MaxValue float64 `json:"vo2MaxValue"`
	} `json:"generic"`
}

// UserProfile is the minimal profile info the sync needs
type UserProfile struct {
	DisplayName string `json:"displayName"`
	FullName    string `json:"fullName"`
}
