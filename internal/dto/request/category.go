package request

type CategoryRequest struct {
	Name   string  `json:"name" validate:"required,max=255"`
	Status *string `json:"status,omitempty" validate:"omitnil,oneof=active inactive"`
}

type CategoryUpdateRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitnil,filled,max=255"`
	Status *string `json:"status,omitempty" validate:"omitnil,oneof=active inactive"`
}

func (r *CategoryUpdateRequest) IsEmpty() bool {
	return r.Name == nil && r.Status == nil
}
