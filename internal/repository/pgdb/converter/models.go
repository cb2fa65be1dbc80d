package converter

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID       int64   `db:"id"`
	Name     string  `db:"name"`
	Price    int64   `db:"price"`
	ImageURL string  `db:"image_url"`
	Category *string `db:"category"`
	Color    *string `db:"color"`
}
