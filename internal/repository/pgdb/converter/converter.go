//go:generate goverter gen github.com/DRSN-tech/visual-search/internal/repository/pgdb/converter
package converter

import (
	"github.com/DRSN-tech/visual-search/internal/domain"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
// goverter:converter
// goverter:extend ConvertPointerString
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
}

func ConvertPointerString(s *string) *string {
	return s
}
