package response

import (
	"fmt"
	"net/http"

	"ax-dashboard/config"
	"ax-dashboard/internal/global/logger"

	"github.com/gin-gonic/gin"
)

// Business error codes. HTTP status is always 200; clients switch on Code.
var (
	ErrInvalidRequest = newError(40001, "invalid request")
	ErrNotFound       = newError(40004, "not found")
	ErrAlreadyExists  = newError(40009, "already exists")
	ErrServerInternal = newError(50000, "internal server error")
	ErrDatabase       = newError(50001, "database error")
)

type ResponseBody struct {
	Code int32  `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

func Success(c *gin.Context, data ...any) {
	body := ResponseBody{Code: 200, Msg: "ok"}
	if len(data) > 0 {
		body.Data = data[0]
	}
	c.JSON(http.StatusOK, body)
}

func Fail(c *gin.Context, err *Error) {
	body := ResponseBody{Code: err.Code, Msg: err.Message}
	// Origin is only surfaced in debug mode.
	if config.Get().Mode == config.ModeDebug && err.Origin != "" {
		body.Data = gin.H{"origin": err.Origin}
	}
	c.JSON(http.StatusOK, body)
	c.Abort()
}

// Recovery is deferred by the recovery middleware to turn panics into the
// internal-error envelope.
func Recovery(c *gin.Context) {
	if r := recover(); r != nil {
		logger.New("Recovery").Error("panic recovered",
			"panic", fmt.Sprintf("%v", r),
			"path", c.Request.URL.Path,
		)
		Fail(c, ErrServerInternal.WithOrigin(fmt.Errorf("%v", r)))
	}
}
