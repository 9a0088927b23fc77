package entity

type CategoryStatus string

const (
	CategoryStatusActive   CategoryStatus = "active"
	CategoryStatusInactive CategoryStatus = "inactive"
)

type Category struct {
	Base
	Name   string         `db:"name"`
	Status CategoryStatus `db:"status"`
}

func (c *Category) IsActive() bool {
	return c.Status == CategoryStatusActive
}
