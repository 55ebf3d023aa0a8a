package shift

import (
	"math"
	"sort"
	"time"
)

// Duration returns the length of a closed shift in hours. Open shifts have
// no duration yet and report ok=false.
func Duration(rec Record) (hours float64, ok bool) {
	if rec.ClockOutTime == nil {
		return 0, false
	}
	return rec.ClockOutTime.Sub(rec.ClockInTime).Hours(), true
}

// Summary is the dashboard headline block.
type Summary struct {
	TotalShifts        int     `json:"total_shifts"`
	TotalHours         float64 `json:"total_hours"`
	AvgHoursPerShift   float64 `json:"avg_hours_per_shift"`
	ActiveWorkers      int     `json:"active_workers"`
	CurrentlyClockedIn int     `json:"currently_clocked_in"`
}

// Summarize derives headline statistics over the given records. Open shifts
// contribute nothing to hour totals but count toward CurrentlyClockedIn.
func Summarize(records []Record) Summary {
	var sum Summary
	sum.TotalShifts = len(records)
	workers := make(map[string]struct{})
	var hours float64
	for _, rec := range records {
		workers[rec.WorkerID] = struct{}{}
		if d, ok := Duration(rec); ok {
			hours += d
		} else {
			sum.CurrentlyClockedIn++
		}
	}
	sum.ActiveWorkers = len(workers)
	sum.TotalHours = round2(hours)
	if sum.TotalShifts > 0 {
		sum.AvgHoursPerShift = round2(hours / float64(sum.TotalShifts))
	}
	return sum
}

// HourBuckets partitions shifts by local clock-in hour: morning [6,12),
// afternoon [12,18), night everything else.
type HourBuckets struct {
	Morning   int `json:"morning"`
	Afternoon int `json:"afternoon"`
	Night     int `json:"night"`
}

func BucketByHourOfDay(records []Record) HourBuckets {
	var b HourBuckets
	for _, rec := range records {
		switch h := rec.ClockInTime.Hour(); {
		case h >= 6 && h < 12:
			b.Morning++
		case h >= 12 && h < 18:
			b.Afternoon++
		default:
			b.Night++
		}
	}
	return b
}

// DayHours is one point of the daily-hours trend series.
type DayHours struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Hours float64 `json:"hours"`
}

// DailyHours groups closed-shift hours by calendar date of clock-in over the
// trailing n days ending at now, oldest first. Days without shifts appear
// with zero hours so the chart axis stays continuous.
func DailyHours(records []Record, n int, now time.Time) []DayHours {
	if n <= 0 {
		return nil
	}
	perDay := make(map[string]float64)
	for _, rec := range records {
		d, ok := Duration(rec)
		if !ok {
			continue
		}
		perDay[rec.ClockInTime.Format("2006-01-02")] += d
	}
	out := make([]DayHours, 0, n)
	for i := n - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i).Format("2006-01-02")
		out = append(out, DayHours{Date: date, Hours: round2(perDay[date])})
	}
	return out
}

// WorkerHours is a per-worker total for the top-employees chart.
type WorkerHours struct {
	WorkerID string  `json:"worker_id"`
	Hours    float64 `json:"hours"`
	Shifts   int     `json:"shifts"`
}

// HoursByWorker totals closed-shift hours per worker, sorted by hours
// descending. Open shifts are excluded entirely; a worker with only an open
// shift does not appear.
func HoursByWorker(records []Record) []WorkerHours {
	totals := make(map[string]*WorkerHours)
	var order []string
	for _, rec := range records {
		d, closed := Duration(rec)
		if !closed {
			continue
		}
		wh, ok := totals[rec.WorkerID]
		if !ok {
			wh = &WorkerHours{WorkerID: rec.WorkerID}
			totals[rec.WorkerID] = wh
			order = append(order, rec.WorkerID)
		}
		wh.Shifts++
		wh.Hours += d
	}
	out := make([]WorkerHours, 0, len(order))
	for _, id := range order {
		wh := totals[id]
		wh.Hours = round2(wh.Hours)
		out = append(out, *wh)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Hours > out[j].Hours })
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
