package http

import (
	"net/http"

	"github.com/DRSN-tech/visual-search/internal/cfg"
	"github.com/DRSN-tech/visual-search/internal/usecase"
	"github.com/DRSN-tech/visual-search/pkg/e"
	"github.com/DRSN-tech/visual-search/pkg/logger"
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	searchCfg      *cfg.SearchCfg
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, searchCfg *cfg.SearchCfg, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, searchCfg: searchCfg, logger: logger}
}

// listProducts
//
//	@Summary		Список товаров каталога
//	@Description	Возвращает все товары с вычисленными категориями и цветами
//	@Tags			products
//	@Produce		json
//	@Success		200	{array}		ProductResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := p.productUsecase.ListProducts(r.Context())
	if err != nil {
		p.logger.Errorf(err, "list products failed")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toArrProductResponse(products))
}

// searchByText
//
//	@Summary		Поиск товаров по названию
//	@Description	Подстрочный поиск без учёта регистра; пустой запрос возвращает весь каталог
//	@Tags			search
//	@Produce		json
//	@Param			query	query		string	false	"Поисковый запрос"
//	@Success		200		{array}		ProductResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/search/text [get]
func (p *ProductHandler) searchByText(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	products, err := p.productUsecase.SearchByText(r.Context(), query)
	if err != nil {
		p.logger.Errorf(err, "text search failed: %q", query)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toArrProductResponse(products))
}

// searchByImage
//
//	@Summary		Визуальный поиск по изображению
//	@Description	Принимает изображение и возвращает похожие товары по убыванию косинусной близости
//	@Tags			search
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file					formData	file	true	"Изображение-запрос"
//	@Param			similarity_threshold	formData	number	false	"Минимальная похожесть (по умолчанию 0.5)"
//	@Success		200						{array}		ProductResponse
//	@Failure		400						{object}	ErrorResponse
//	@Failure		500						{object}	ErrorResponse
//	@Router			/search/image-search [post]
func (p *ProductHandler) searchByImage(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 20 << 20
		maxMemory           = 16 << 20
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	image, mimeType, err := parseImageFile(r.MultipartForm.File["file"])
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	threshold, err := parseThreshold(r.FormValue("similarity_threshold"), p.searchCfg.DefaultThreshold)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	products, err := p.productUsecase.SearchByImage(r.Context(), usecase.NewSearchByImageReq(image, mimeType, threshold))
	if err != nil {
		p.logger.Warnf("image search failed: %s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toArrProductResponse(products))
}
