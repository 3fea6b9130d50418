package handler

import (
	"errors"

	"github.com/labstack/echo/v4"
)

// errNotAnImage marks an upload whose content does not sniff as an image
var errNotAnImage = errors.New("uploaded file is not a valid image")

// fieldErrors builds the field-keyed validation error body used by all
// 400 responses: {"errors": {"field": "message"}}
func fieldErrors(pairs ...string) echo.Map {
	m := echo.Map{}
	for i := 0; i+1 < len(pairs); i += 2 {
		m[pairs[i]] = pairs[i+1]
	}
	return echo.Map{"errors": m}
}
