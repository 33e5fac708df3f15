package domain

var (
	MessageSuccessAddAdditives = "additives added successfully"
	MessageFailedAddAdditives  = "failed to add additives"
)

type AddAdditivesRequest struct {
	Names []string `json:"names" validate:"required,min=1,dive,required"`
}
