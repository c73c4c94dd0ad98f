package domain

// Address is a shipment address. Selection of an address is client-side
// session state and is never persisted.
type Address struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	FlatBuildingNo string `json:"flat_building_no"`
	City           string `json:"city"`
	Pincode        int    `json:"pincode"`
	State          string `json:"state"`
	Country        string `json:"country"`
}
