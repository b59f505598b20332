package common

import (
	"errors"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`              // 錯誤代碼
	Message string `json:"message"`           // 錯誤信息
	Details string `json:"details,omitempty"` // 詳細信息（僅在開發模式顯示）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap 回傳原始錯誤
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Is 以錯誤代碼比對，讓 Wrap 後的錯誤仍可用 errors.Is 判斷
func (e *CustomError) Is(target error) bool {
	var t *CustomError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Wrap 以同樣的代碼包裝原始錯誤
func (e *CustomError) Wrap(err error) *CustomError {
	return &CustomError{
		Code:    e.Code,
		Message: e.Message,
		Status:  e.Status,
		Err:     err,
	}
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// ToResponse 轉為 API 錯誤響應；debug 模式下附上原始錯誤
func ToResponse(err error, debug bool) (int, ErrorResponse) {
	var ce *CustomError
	if !errors.As(err, &ce) {
		ce = ErrInternalError.Wrap(err)
	}
	resp := ErrorResponse{Code: ce.Code, Message: ce.Message}
	if debug && ce.Err != nil {
		resp.Details = ce.Err.Error()
	}
	return ce.Status, resp
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest  = "INVALID_REQUEST"   // 400
	ErrCodeNotFound        = "NOT_FOUND"         // 404
	ErrCodeConflict        = "CONFLICT"          // 409
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE" // 413

	// 服務器錯誤 (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503

	// 業務錯誤
	ErrCodeInvalidCatalog         = "INVALID_CATALOG"
	ErrCodeCatalogParseFailed     = "CATALOG_PARSE_FAILED"
	ErrCodeCatalogNotReady        = "CATALOG_NOT_READY"
	ErrCodeElicitationAborted     = "ELICITATION_ABORTED"
	ErrCodeSessionNotStarted      = "SESSION_NOT_STARTED"
	ErrCodeInvalidSelection       = "INVALID_SELECTION"
	ErrCodePersistenceWriteFailed = "PERSISTENCE_WRITE_FAILED"
	ErrCodePersistenceReadCorrupt = "PERSISTENCE_READ_CORRUPT"
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "無效的請求", http.StatusBadRequest, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "資源不存在", http.StatusNotFound, nil)
	ErrConflict        = NewError(ErrCodeConflict, "資源衝突", http.StatusConflict, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "請求過於頻繁", http.StatusTooManyRequests, nil)
	ErrRequestTooLarge = NewError(ErrCodeRequestTooLarge, "請求內容過大", http.StatusRequestEntityTooLarge, nil)

	// 服務器錯誤
	ErrInternalError      = NewError(ErrCodeInternalError, "服務器內部錯誤", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "服務暫時不可用", http.StatusServiceUnavailable, nil)

	// 業務錯誤
	ErrInvalidCatalog         = NewError(ErrCodeInvalidCatalog, "菜單資料為空", http.StatusUnprocessableEntity, nil)
	ErrCatalogParseFailed     = NewError(ErrCodeCatalogParseFailed, "菜單資料格式錯誤", http.StatusUnprocessableEntity, nil)
	ErrCatalogNotReady        = NewError(ErrCodeCatalogNotReady, "菜單尚未載入", http.StatusServiceUnavailable, nil)
	ErrElicitationAborted     = NewError(ErrCodeElicitationAborted, "沒有可以推薦的食材", http.StatusConflict, nil)
	ErrSessionNotStarted      = NewError(ErrCodeSessionNotStarted, "尚未開始問答", http.StatusConflict, nil)
	ErrInvalidSelection       = NewError(ErrCodeInvalidSelection, "無效的選擇", http.StatusBadRequest, nil)
	ErrPersistenceWriteFailed = NewError(ErrCodePersistenceWriteFailed, "寫入儲存失敗", http.StatusInternalServerError, nil)
	ErrPersistenceReadCorrupt = NewError(ErrCodePersistenceReadCorrupt, "儲存資料損壞", http.StatusInternalServerError, nil)
)
