package domain

// Embedding представляет визуальный эмбеддинг одного товара.
// Все сохранённые векторы обязаны иметь одну и ту же размерность;
// расхождение — повреждение данных, а не рабочая ситуация.
type Embedding struct {
	ProductID int64
	Vector    []float32
}

func NewEmbedding(productID int64, vector []float32) *Embedding {
	return &Embedding{
		ProductID: productID,
		Vector:    vector,
	}
}

// CrossModalEmbedding — изображение и батч текстов, вложенные в общее
// кросс-модальное пространство. Векторы сравнимы скалярным произведением
// после L2-нормализации. LogitScale — выученная температура модели
// (уже экспоненцированная).
type CrossModalEmbedding struct {
	ImageVector []float32
	TextVectors [][]float32
	LogitScale  float32
}
