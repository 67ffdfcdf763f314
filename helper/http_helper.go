package helper

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/rs/zerolog"
	"gopkg.in/go-playground/validator.v9"

	"vectormag-cms/blocks"
	"vectormag-cms/editor"
	"vectormag-cms/services"
)

const (
	textError = `error`
	textOk    = `ok`
)

// Envelope codes. They are not HTTP codes, httpStatus maps them.
const (
	codeSuccess           = 200
	codeBadRequestError   = 400
	codeUnauthorizedError = 401
	codeValidationError   = 403
	codeNotFound          = 404
	codeForbidden         = 405
	codeConflict          = 409
	codeContentError      = 422
	codeInternalError     = 500
)

var httpStatus = map[int]int{
	codeSuccess:           http.StatusOK,
	codeBadRequestError:   http.StatusBadRequest,
	codeValidationError:   http.StatusBadRequest,
	codeUnauthorizedError: http.StatusUnauthorized,
	codeForbidden:         http.StatusForbidden,
	codeNotFound:          http.StatusNotFound,
	codeConflict:          http.StatusConflict,
	codeContentError:      http.StatusUnprocessableEntity,
	codeInternalError:     http.StatusInternalServerError,
}

// ResponseHelper is one response envelope waiting to be written.
type ResponseHelper struct {
	C        *gin.Context
	Status   string
	Message  string
	Data     interface{}
	Code     int // not the http code
	CodeType string
}

// HTTPHelper ...
type HTTPHelper struct {
	Validate   *validator.Validate
	Translator ut.Translator
	Logger     zerolog.Logger
}

// GetStatusCode maps a service error to its HTTP status.
func (u *HTTPHelper) GetStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, services.ErrContentUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrInvalidInput), isContentError(err):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func isContentError(err error) bool {
	var verrs blocks.ValidationErrors
	var verr *blocks.ValidationError
	var opErr *editor.OpError
	return errors.As(err, &verrs) || errors.As(err, &verr) || errors.As(err, &opErr) ||
		errors.Is(err, blocks.ErrMalformedDocument) ||
		errors.Is(err, editor.ErrOutOfRange) ||
		errors.Is(err, editor.ErrUnknownOp)
}

// SendServiceError writes the envelope matching a service error. Unexpected
// errors are logged and hidden from consumers.
func (u *HTTPHelper) SendServiceError(c *gin.Context, err error) error {
	empty := u.EmptyJsonMap()
	switch u.GetStatusCode(err) {
	case http.StatusUnauthorized:
		return u.SendUnauthorizedError(c, err.Error(), empty)
	case http.StatusForbidden:
		return u.SendForbiddenError(c, err.Error(), empty)
	case http.StatusNotFound:
		return u.SendNotFoundError(c, err.Error(), empty)
	case http.StatusConflict:
		return u.SendError(c, err.Error(), empty, codeConflict, `conflict`)
	case http.StatusUnprocessableEntity:
		return u.SendError(c, err.Error(), empty, codeContentError, `contentUnavailable`)
	case http.StatusBadRequest:
		return u.SendBadRequest(c, err.Error(), empty)
	}
	u.Logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	return u.SendError(c, "internal server error", empty, codeInternalError, `internalError`)
}

// SetResponse ...
// Set response data.
func (u *HTTPHelper) SetResponse(c *gin.Context, status string, message string, data interface{}, code int, codeType string) ResponseHelper {
	return ResponseHelper{c, status, message, data, code, codeType}
}

// SendError ...
// Send error response to consumers.
func (u *HTTPHelper) SendError(c *gin.Context, message string, data interface{}, code int, codeType string) error {
	return u.SendResponse(u.SetResponse(c, textError, message, data, code, codeType))
}

func (u *HTTPHelper) SendBadRequest(c *gin.Context, message string, data interface{}) error {
	return u.SendError(c, message, data, codeBadRequestError, `badRequest`)
}

func (u *HTTPHelper) SendForbiddenError(c *gin.Context, message string, data interface{}) error {
	return u.SendError(c, message, data, codeForbidden, `forbidden`)
}

func (u *HTTPHelper) SendUnauthorizedError(c *gin.Context, message string, data interface{}) error {
	return u.SendError(c, message, data, codeUnauthorizedError, `unAuthorized`)
}

func (u *HTTPHelper) SendNotFoundError(c *gin.Context, message string, data interface{}) error {
	return u.SendError(c, message, data, codeNotFound, `notFound`)
}

// SendValidationError ...
// Send translated validator messages keyed by snake_case field name.
func (u *HTTPHelper) SendValidationError(c *gin.Context, validationErrors validator.ValidationErrors) error {
	fields := map[string][]string{}
	translated := validationErrors.Translate(u.Translator)
	for _, fe := range validationErrors {
		key := Underscore(fe.StructField())
		fields[key] = append(fields[key], translated[fe.Namespace()])
	}

	c.JSON(http.StatusBadRequest, map[string]interface{}{
		"code":         codeValidationError,
		"code_type":    "validationError",
		"code_message": fields,
		"data":         u.EmptyJsonMap(),
	})
	return nil
}

// SendSuccess ...
// Send success response to consumers.
func (u *HTTPHelper) SendSuccess(c *gin.Context, message string, data interface{}) error {
	return u.SendResponse(u.SetResponse(c, textOk, message, data, codeSuccess, `success`))
}

func (u *HTTPHelper) SendCreated(c *gin.Context, message string, data interface{}) error {
	return u.write(c, http.StatusCreated, u.SetResponse(c, textOk, message, data, codeSuccess, `success`))
}

// SendAccepted is for work finished in the background.
func (u *HTTPHelper) SendAccepted(c *gin.Context, message string, data interface{}) error {
	return u.write(c, http.StatusAccepted, u.SetResponse(c, textOk, message, data, codeSuccess, `accepted`))
}

// SendResponse ...
// Send response with the HTTP status matching the envelope code.
func (u *HTTPHelper) SendResponse(res ResponseHelper) error {
	status, ok := httpStatus[res.Code]
	if !ok {
		status = http.StatusBadRequest
	}
	return u.write(res.C, status, res)
}

func (u *HTTPHelper) write(c *gin.Context, status int, res ResponseHelper) error {
	if len(res.Message) == 0 {
		res.Message = `success`
	}
	c.JSON(status, map[string]interface{}{
		"code":         res.Code,
		"code_type":    res.CodeType,
		"code_message": res.Message,
		"data":         res.Data,
	})
	return nil
}

func (u *HTTPHelper) EmptyJsonMap() map[string]interface{} {
	return make(map[string]interface{})
}

// PageLinks are absolute URLs, empty when the page does not exist.
type PageLinks struct {
	Previous string `json:"previous"`
	Next     string `json:"next"`
	First    string `json:"first"`
	Last     string `json:"last"`
}

type Pagination struct {
	TotalRecords int       `json:"total_records"`
	PerPage      int       `json:"per_page"`
	CurrentPage  int       `json:"current_page"`
	TotalPages   int       `json:"total_pages"`
	Links        PageLinks `json:"links"`
}

// GetPagingUrl returns the current request URL pointing at another page.
func (u *HTTPHelper) GetPagingUrl(c *gin.Context, page, limit int) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s%s?page=%d&limit=%d", scheme, c.Request.Host, c.Request.URL.Path, page, limit)
}

// GeneratePaging builds the pagination block for a list response.
func (u *HTTPHelper) GeneratePaging(c *gin.Context, page, limit, totalRecord int) Pagination {
	if limit < 1 {
		limit = 1
	}
	totalPages := (totalRecord + limit - 1) / limit
	p := Pagination{
		TotalRecords: totalRecord,
		PerPage:      limit,
		CurrentPage:  page,
		TotalPages:   totalPages,
	}

	if page > 1 && page <= totalPages {
		p.Links.Previous = u.GetPagingUrl(c, page-1, limit)
		p.Links.First = u.GetPagingUrl(c, 1, limit)
	}
	if page < totalPages {
		p.Links.Next = u.GetPagingUrl(c, page+1, limit)
		p.Links.Last = u.GetPagingUrl(c, totalPages, limit)
	}
	return p
}
