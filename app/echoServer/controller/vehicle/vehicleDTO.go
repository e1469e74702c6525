package vehicle

type CreateVehicleReq struct {
	VehicleID string `json:"vehicle_id" validate:"required,max=255"`
	PlatNo    string `json:"plat_no" validate:"required,max=255"`
	Brand     string `json:"brand" validate:"required,max=255"`
	Model     string `json:"model" validate:"required,max=255"`
	Status    string `json:"status" validate:"omitempty,oneof=active inactive"`
}

type UpdateVehicleReq struct {
	VehicleID *string `json:"vehicle_id,omitempty" validate:"omitempty,max=255"`
	PlatNo    *string `json:"plat_no,omitempty" validate:"omitempty,max=255"`
	Brand     *string `json:"brand,omitempty" validate:"omitempty,max=255"`
	Model     *string `json:"model,omitempty" validate:"omitempty,max=255"`
	Status    *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}
