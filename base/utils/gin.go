package utils

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// ReadHeaderTimeout same as nginx default
const ReadHeaderTimeout = 60 * time.Second

func LoadParamInt(c *gin.Context, param string, defaultValue int, query bool) (int, error) {
	var valueStr string
	if query {
		valueStr = c.Query(param)
	} else {
		valueStr = c.Param(param)
	}
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, err
	}

	return value, nil
}

// LoadPageParams reads `page` and `per_page` query params the way the
// Freshservice list endpoints define them.
func LoadPageParams(c *gin.Context, defaultPerPage, maxPerPage int) (int, int, error) {
	page, err := LoadParamInt(c, "page", 1, true)
	if err != nil {
		return 0, 0, err
	}

	perPage, err := LoadParamInt(c, "per_page", defaultPerPage, true)
	if err != nil {
		return 0, 0, err
	}

	if err := CheckPageParams(page, perPage, maxPerPage); err != nil {
		return 0, 0, err
	}

	return page, perPage, nil
}

func CheckPageParams(page, perPage, maxPerPage int) error {
	if page < 1 {
		return errors.New("page must not be less than 1")
	}
	if perPage < 1 || perPage > maxPerPage {
		return errors.Errorf("per_page must be between 1 and %d", maxPerPage)
	}
	return nil
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func RunServer(ctx context.Context, handler http.Handler, port int) error {
	addr := fmt.Sprintf(":%d", port)
	srv := http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: ReadHeaderTimeout, MaxHeaderBytes: 65535}
	go func() {
		<-ctx.Done()
		err := srv.Shutdown(context.Background())
		if err != nil {
			LogError("err", err.Error(), "server shutting down failed")
			return
		}
		LogInfo("server closed successfully")
	}()

	err := srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "server listening failed")
	}
	return nil
}
