package models

// Museum is a slot definition: read-only catalog data from the
// booking core's perspective.
type Museum struct {
	Name            string `json:"museum_name"`
	Location        string `json:"location"`
	Address         string `json:"address"`
	Description     string `json:"description"`
	BestTimeToVisit string `json:"best_time_to_visit"`
	Theme           string `json:"theme"`
	Timings         string `json:"timings"`
	PricePerSeat    int64  `json:"price_per_seat"`
	UPIID           string `json:"upi_id"`
	MaximumSeats    int    `json:"maximum_seats"`
}
