package usecase

// PRODUCT USECASE

// ProductInfo — DTO с информацией о товаре для внешнего использования.
type ProductInfo struct {
	ID       int64
	Name     string
	Price    int64 // в копейках
	ImageURL string
	Category *string
	Color    *string
}

// SearchByImageReq — запрос визуального поиска.
type SearchByImageReq struct {
	Image     []byte
	MimeType  string  // Content-Type из multipart (image/jpeg)
	Threshold float64 // минимальная косинусная близость
}

// SCORING

// ScoredID — идентификатор товара с его похожестью на запрос.
type ScoredID struct {
	ProductID  int64
	Similarity float64
}

// INFRASTRUCTURE

// ProductEnrichedEvent — событие о вычисленных атрибутах товара.
type ProductEnrichedEvent struct {
	EventID   string `json:"event_id"`
	ProductID int64  `json:"product_id"`
	Category  string `json:"category"`
	Color     string `json:"color"`
	VectorDim int    `json:"vector_dim"`
}

// MAPPERS

func NewProductInfo(id int64, name string, price int64, imageURL string, category, color *string) ProductInfo {
	return ProductInfo{
		ID:       id,
		Name:     name,
		Price:    price,
		ImageURL: imageURL,
		Category: category,
		Color:    color,
	}
}

func NewSearchByImageReq(image []byte, mimeType string, threshold float64) *SearchByImageReq {
	return &SearchByImageReq{
		Image:     image,
		MimeType:  mimeType,
		Threshold: threshold,
	}
}

func NewProductEnrichedEvent(eventID string, productID int64, category, color string, vectorDim int) *ProductEnrichedEvent {
	return &ProductEnrichedEvent{
		EventID:   eventID,
		ProductID: productID,
		Category:  category,
		Color:     color,
		VectorDim: vectorDim,
	}
}
