package domain

// Product описывает товар каталога.
// Category и Color заполняются синхронизатором после инференса;
// nil означает, что атрибут ещё не вычислен.
type Product struct {
	ID       int64
	Name     string
	Price    int64 // Цена хранится в копейках
	ImageURL string
	Category *string
	Color    *string
}

func NewProduct(id int64, name string, price int64, imageURL string) *Product {
	return &Product{
		ID:       id,
		Name:     name,
		Price:    price,
		ImageURL: imageURL,
	}
}
