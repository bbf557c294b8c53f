package dataset

import "time"

// Column names as they appear in the pre-processed bike sharing files.
const (
	ColDate       = "dteday"
	ColSeason     = "season"
	ColYear       = "yr"
	ColMonth      = "mnth"
	ColHoliday    = "holiday"
	ColWeekday    = "weekday"
	ColWorkingDay = "workingday"
	ColWeather    = "weathersit"
	ColTemp       = "temp"
	ColATemp      = "atemp"
	ColHumidity   = "hum"
	ColWindspeed  = "windspeed"
	ColCasual     = "casual"
	ColRegistered = "registered"
	ColCount      = "cnt"
	ColHour       = "hr"
)

// DailyRecord is one row of the daily table.
type DailyRecord struct {
	Date       time.Time
	Season     int
	Year       int
	Month      int
	Holiday    int
	Weekday    int
	WorkingDay int
	Weather    int
	Temp       float64
	ATemp      float64
	Humidity   float64
	Windspeed  float64
	Casual     int
	Registered int
	Count      int
}

// Value returns the numeric value of a named column.
func (r DailyRecord) Value(col string) (float64, bool) {
	switch col {
	case ColSeason:
		return float64(r.Season), true
	case ColYear:
		return float64(r.Year), true
	case ColMonth:
		return float64(r.Month), true
	case ColHoliday:
		return float64(r.Holiday), true
	case ColWeekday:
		return float64(r.Weekday), true
	case ColWorkingDay:
		return float64(r.WorkingDay), true
	case ColWeather:
		return float64(r.Weather), true
	case ColTemp:
		return r.Temp, true
	case ColATemp:
		return r.ATemp, true
	case ColHumidity:
		return r.Humidity, true
	case ColWindspeed:
		return r.Windspeed, true
	case ColCasual:
		return float64(r.Casual), true
	case ColRegistered:
		return float64(r.Registered), true
	case ColCount:
		return float64(r.Count), true
	}
	return 0, false
}

// HourlyRecord is one row of the hourly table: a day's dimensions plus the hour of day.
type HourlyRecord struct {
	DailyRecord
	Hour int
}

// Value returns the numeric value of a named column, including "hr".
func (r HourlyRecord) Value(col string) (float64, bool) {
	if col == ColHour {
		return float64(r.Hour), true
	}
	return r.DailyRecord.Value(col)
}

// DailyTable is an ordered slice of daily rows.
type DailyTable []DailyRecord

func (t DailyTable) Len() int { return len(t) }
func (t DailyTable) Value(i int, col string) (float64, bool) { return t[i].Value(col) }
func (t DailyTable) Date(i int) time.Time { return t[i].Date }

// HourlyTable is an ordered slice of hourly rows.
type HourlyTable []HourlyRecord

func (t HourlyTable) Len() int { return len(t) }
func (t HourlyTable) Value(i int, col string) (float64, bool) { return t[i].Value(col) }
func (t HourlyTable) Date(i int) time.Time { return t[i].Date }
