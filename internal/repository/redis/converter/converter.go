//go:generate goverter gen github.com/DRSN-tech/visual-search/internal/repository/redis/converter

package converter

import (
	"github.com/DRSN-tech/visual-search/internal/usecase"
)

// goverter:converter
// goverter:extend ConvertPointerString
type ProductInfoConverter interface {
	ToRedisModel(entity *usecase.ProductInfo) *ProductInfoRedisModel
	ToUseCase(model *ProductInfoRedisModel) *usecase.ProductInfo
	ToArrRedisModel(entities []usecase.ProductInfo) []ProductInfoRedisModel
	ToArrUseCase(models []ProductInfoRedisModel) []usecase.ProductInfo
}

func ConvertPointerString(s *string) *string {
	return s
}
