package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-booking-client/internal/model"
)

func showing(id, date, start, location, slug string) model.ShownIn {
	return model.ShownIn{
		ShowtimeID: id,
		Showtime:   model.Showtime{ID: id, ShowtimeDate: date, MovieStartTime: start},
		Hall:       model.Hall{ID: "h-" + id, Theatre: &model.Theatre{Location: location, SlugLocation: slug}},
	}
}

var listing = []model.ShownIn{
	showing("s1", "2025-06-02", "19:30", "Ho Chi Minh", "ho-chi-minh"),
	showing("s2", "2025-06-01", "21:00", "Ha Noi", "ha-noi"),
	showing("s3", "2025-06-01", "09:00", "Ho Chi Minh", "ho-chi-minh"),
	{ShowtimeID: "s4", Showtime: model.Showtime{ShowtimeDate: "2025-06-03"}},
}

func TestLocationsFirstSeenUnique(t *testing.T) {
	locs := Locations(listing)
	require.Len(t, locs, 2)
	assert.Equal(t, "Ho Chi Minh", locs[0].Location)
	assert.Equal(t, "ha-noi", locs[1].SlugLocation)
}

func TestGroupByDate(t *testing.T) {
	days := GroupByDate(listing, "")
	require.Len(t, days, 3)
	assert.Equal(t, "2025-06-01", days[0].Date)
	require.Len(t, days[0].Showings, 2)
	assert.Equal(t, "s3", days[0].Showings[0].ShowtimeID)
	assert.Equal(t, "s2", days[0].Showings[1].ShowtimeID)
	assert.Equal(t, "2025-06-03", days[2].Date)
}

func TestGroupByDateFiltersLocation(t *testing.T) {
	days := GroupByDate(listing, "ho-chi-minh")
	require.Len(t, days, 2)
	assert.Equal(t, "s3", days[0].Showings[0].ShowtimeID)
	assert.Equal(t, "s1", days[1].Showings[0].ShowtimeID)

	assert.Empty(t, GroupByDate(listing, "Da Nang"))
}
