package util

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
)

func ParamsToMap[T any](c *gin.Context) (T, error) {
	var params T

	if err := c.ShouldBindJSON(&params); err != nil {
		return params, err
	}

	return params, nil
}

// BodyToMap decodes a JSON object body. An empty body yields an empty map so
// that field rules, not the decoder, report what is missing.
func BodyToMap(c *gin.Context) (map[string]any, error) {
	body, err := ParamsToMap[map[string]any](c)

	if errors.Is(err, io.EOF) {
		return map[string]any{}, nil
	}

	if err != nil {
		return nil, err
	}

	if body == nil {
		body = map[string]any{}
	}

	return body, nil
}
