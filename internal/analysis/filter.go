package analysis

import "github.com/KaramelBytes/bikedash-cli/internal/dataset"

// FilterDaily keeps the rows whose season and weather situation both equal the inputs.
// A combination that matches nothing yields an empty table.
func FilterDaily(records dataset.DailyTable, season, weather int) dataset.DailyTable {
	out := dataset.DailyTable{}
	for _, r := range records {
		if r.Season == season && r.Weather == weather {
			out = append(out, r)
		}
	}
	return out
}

// FilterHourly keeps the rows recorded at the given hour of day.
// Range checking of hour belongs to the caller's input bounds.
func FilterHourly(records dataset.HourlyTable, hour int) dataset.HourlyTable {
	out := dataset.HourlyTable{}
	for _, r := range records {
		if r.Hour == hour {
			out = append(out, r)
		}
	}
	return out
}
