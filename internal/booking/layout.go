package booking

// SeatsPerRow is how many seats the hall map shows per row, split into
// two blocks around the aisle.
const SeatsPerRow = 24

// Row is one labelled row of the seat map.
type Row struct {
	Label string     `json:"label"`
	Left  []SeatView `json:"left"`
	Right []SeatView `json:"right"`
}

// Layout cuts seats, in backend order, into rows of perRow seats labelled
// A, B, ... Z, AA, AB ...  Each row is split in half around the aisle.
func Layout(seats []SeatView, perRow int) []Row {
	if perRow <= 0 {
		perRow = SeatsPerRow
	}
	half := (perRow + 1) / 2
	var rows []Row
	for start, i := 0, 0; start < len(seats); start, i = start+perRow, i+1 {
		end := start + perRow
		if end > len(seats) {
			end = len(seats)
		}
		chunk := seats[start:end]
		split := half
		if split > len(chunk) {
			split = len(chunk)
		}
		rows = append(rows, Row{Label: rowLabel(i), Left: chunk[:split], Right: chunk[split:]})
	}
	return rows
}

func rowLabel(i int) string {
	label := ""
	for i >= 0 {
		label = string(rune('A'+i%26)) + label
		i = i/26 - 1
	}
	return label
}
