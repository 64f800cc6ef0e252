package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/gpuaas-go/pkg/types"
)

// GetClaimsFromContext returns the JWT claims stored by the auth middleware.
var GetClaimsFromContext = func(c *gin.Context) (*types.Claims, error) {
	claimsVal, exists := c.Get("claims")
	if !exists {
		return nil, errors.New("user claims not found in context")
	}

	claims, ok := claimsVal.(*types.Claims)
	if !ok {
		return nil, errors.New("invalid user claims type")
	}

	return claims, nil
}

func ParseIDParam(c *gin.Context, param string) (uint, error) {
	idStr := c.Param(param)
	idUint64, err := strconv.ParseUint(idStr, 10, 64)
	return uint(idUint64), err
}
