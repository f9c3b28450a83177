package httpgin

type EntryRequest struct {
	Plate       string `json:"plate" binding:"required"`
	VehicleType string `json:"vehicle_type" binding:"required"`
}

type ExitRequest struct {
	Plate         string `json:"plate" binding:"required"`
	Method        string `json:"method" binding:"required"`
	TenderedCents int64  `json:"tendered_cents"`
}

type IssueFineRequest struct {
	Plate         string  `json:"plate" binding:"required"`
	Reason        string  `json:"reason" binding:"required"`
	Scheme        string  `json:"scheme" binding:"required"`
	OverstayHours float64 `json:"overstay_hours"`
}

type PayFineRequest struct {
	Plate  string `json:"plate" binding:"required"`
	Method string `json:"method" binding:"required"`
}

type InitLotRequest struct {
	Floors       int `json:"floors" binding:"required,gt=0"`
	RowsPerFloor int `json:"rows_per_floor" binding:"required,gt=0"`
	SlotsPerRow  int `json:"slots_per_row" binding:"required,gt=0"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type InitLotResponse struct {
	Created int `json:"created"`
}

type PayFineResponse struct {
	Paid bool `json:"paid"`
}

type RevokeFineResponse struct {
	Revoked bool `json:"revoked"`
}
