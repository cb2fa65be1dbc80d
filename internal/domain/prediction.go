package domain

// FallbackLabel — вырожденная метка, в которую деградируют классификаторы.
const FallbackLabel = "other"

// CategoryPrediction — результат zero-shot классификации категории.
type CategoryPrediction struct {
	Category   string
	Confidence float64 // всегда в [0, 1]
}

func NewCategoryPrediction(category string, confidence float64) CategoryPrediction {
	return CategoryPrediction{
		Category:   category,
		Confidence: confidence,
	}
}

// Degraded — предсказание-заглушка при сбое классификатора.
// Поведение осознанное: доступность важнее корректности, сбой
// инференса не должен валить обработку товара или запроса.
func Degraded() CategoryPrediction {
	return CategoryPrediction{Category: FallbackLabel, Confidence: 0.0}
}
