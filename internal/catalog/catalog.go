// Package catalog shapes showtime listings for browsing: which locations a
// movie plays in and which showings fall on which day.
package catalog

import (
	"sort"

	"github.com/iliyamo/cinema-booking-client/internal/model"
)

// Day groups the showings of one date.
type Day struct {
	Date     string          `json:"date"`
	Showings []model.ShownIn `json:"showings"`
}

// Locations returns the distinct theatre locations of shownIn in
// first-seen order.  Showings without a theatre are skipped.
func Locations(shownIn []model.ShownIn) []model.Location {
	seen := make(map[string]bool)
	var out []model.Location
	for _, s := range shownIn {
		t := s.Hall.Theatre
		if t == nil || t.Location == "" || seen[t.Location] {
			continue
		}
		seen[t.Location] = true
		out = append(out, model.Location{Location: t.Location, SlugLocation: t.SlugLocation})
	}
	return out
}

// GroupByDate groups shownIn by showtime date, dates ascending and
// showings within a day by start time.  A non-empty location keeps only
// showings at theatres in that location; it matches either the location
// name or its slug.
func GroupByDate(shownIn []model.ShownIn, location string) []Day {
	byDate := make(map[string][]model.ShownIn)
	for _, s := range shownIn {
		if location != "" && !inLocation(s, location) {
			continue
		}
		d := s.Showtime.ShowtimeDate
		byDate[d] = append(byDate[d], s)
	}
	days := make([]Day, 0, len(byDate))
	for date, list := range byDate {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Showtime.MovieStartTime < list[j].Showtime.MovieStartTime
		})
		days = append(days, Day{Date: date, Showings: list})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

func inLocation(s model.ShownIn, location string) bool {
	t := s.Hall.Theatre
	return t != nil && (t.Location == location || t.SlugLocation == location)
}
