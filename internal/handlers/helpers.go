package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// mapStoreError converts store-level failures to the API error taxonomy:
// record-not-found to 404, duplicate keys and broken references to 400 with a
// descriptive message, everything else to a generic 500.
func mapStoreError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return echo.NewHTTPError(http.StatusBadRequest, "Duplicate entry - resource already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return echo.NewHTTPError(http.StatusBadRequest, "Referenced resource not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
}

func parseUintParam(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid %s", name))
	}
	return uint(v), nil
}

func parseIntQuery(c echo.Context, name string, defaultValue int) int {
	if v := c.QueryParam(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

// uploadMountPrefix is where the router statically serves the upload dir.
const uploadMountPrefix = "/uploads"

// saveUpload stores an uploaded file under dir with a uuid-suffixed name and
// returns the URL path it will be served from. The URL is built from the
// static mount, not the storage path, so an absolute upload dir still yields
// a servable reference.
func saveUpload(file *multipart.FileHeader, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := fmt.Sprintf("upload-%s%s", uuid.NewString(), filepath.Ext(file.Filename))
	dstPath := filepath.Join(dir, name)
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return uploadMountPrefix + "/" + name, nil
}
