package request

import "io"

// FileUpload is an uploaded file handed from the transport to a service.
type FileUpload struct {
	Filename string
	Size     int64
	File     io.Reader
}

type ProductRequest struct {
	Name        string      `json:"name" validate:"required,max=255"`
	Description *string     `json:"description,omitempty"`
	CategoryID  int64       `json:"category_id" validate:"required,gt=0"`
	Thumbnail   *FileUpload `json:"-"`
}

type ProductUpdateRequest struct {
	Name        *string     `json:"name,omitempty" validate:"omitnil,filled,max=255"`
	Description *string     `json:"description,omitempty"`
	CategoryID  *int64      `json:"category_id,omitempty" validate:"omitnil,gt=0"`
	Thumbnail   *FileUpload `json:"-"`
}

func (r *ProductUpdateRequest) IsEmpty() bool {
	return r.Name == nil && r.Description == nil && r.CategoryID == nil && r.Thumbnail == nil
}
