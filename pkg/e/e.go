package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Внутренние ошибки с векторами
	ErrEmptyVector       = fmt.Errorf("empty embedding vector")
	ErrVectorDimMismatch = fmt.Errorf("embedding dimension mismatch")
	ErrExtraction        = fmt.Errorf("feature extraction failed")

	// 400 Bad Request
	ErrStatusBadRequest     = fmt.Errorf("bad request")
	ErrExpectedMultipart    = fmt.Errorf("expected multipart/form-data")
	ErrNoImage              = fmt.Errorf("no image provided")
	ErrFileTooLarge         = fmt.Errorf("file too large")
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")
	ErrUndecodableImage     = fmt.Errorf("invalid image file")
	ErrInvalidThreshold     = fmt.Errorf("invalid similarity threshold")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")

	// Фатальные ошибки старта
	ErrCatalogNotFound      = fmt.Errorf("catalog file not found")
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
