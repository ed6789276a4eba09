package handlers

import (
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var errMalformedRequest = errors.New("malformed request body")

// bindStrictJSON decodes a request body into an explicit per-endpoint struct.
// Unknown fields, missing required fields, and bad JSON are all rejected the
// same way instead of surfacing wherever a missing key happens to be read.
func bindStrictJSON(c *gin.Context, obj interface{}) error {
	if c.Request == nil || c.Request.Body == nil {
		return errMalformedRequest
	}

	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(obj); err != nil {
		return errMalformedRequest
	}

	if binding.Validator != nil {
		if err := binding.Validator.ValidateStruct(obj); err != nil {
			return errMalformedRequest
		}
	}

	return nil
}
