package entity

type Product struct {
	Base
	Name        string  `db:"name"`
	Description *string `db:"description"`
	Thumbnail   *string `db:"thumbnail"`
	CategoryID  int64   `db:"category_id"`

	// Category is filled by queries that join the categories table
	Category *Category `db:"-"`
}
