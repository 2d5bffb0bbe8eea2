package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := map[string]int64{
		"":          0,
		"45000":     45000,
		"45000.00":  45000,
		" 85000.5 ": 85001,
		"0.49":      0,
	}
	for in, want := range cases {
		got, err := ParseAmount(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseAmount("abc")
	assert.Error(t, err)
	_, err = ParseAmount("NaN")
	assert.Error(t, err)
}

func TestSeatOwnership(t *testing.T) {
	u := "u1"
	s := Seat{ID: "A1", Status: SeatPending, UserID: &u}
	assert.True(t, s.OwnedBy("u1"))
	assert.False(t, s.OwnedBy("u2"))
	assert.False(t, s.OwnedBy(""))
	assert.Equal(t, "u1", s.Owner())
	assert.True(t, s.Status.Held())

	free := Seat{ID: "A2", Status: SeatEmpty}
	assert.False(t, free.OwnedBy(""))
	assert.Equal(t, "", free.Owner())
	assert.False(t, free.Status.Held())
}
