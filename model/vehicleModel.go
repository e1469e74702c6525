// model/vehicle.go
package model

import "time"

type VehicleStatus string

const (
	VehicleActive   VehicleStatus = "active"
	VehicleInactive VehicleStatus = "inactive"
)

type Vehicle struct {
	ID        int64         `json:"id"`
	VehicleID string        `json:"vehicle_id"` // fleet code, unique
	PlatNo    string        `json:"plat_no"`    // stored uppercase
	Brand     string        `json:"brand"`
	Model     string        `json:"model"`
	Status    VehicleStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func (v Vehicle) DisplayName() string { return v.Brand + " " + v.Model }
