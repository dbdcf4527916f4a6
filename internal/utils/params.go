package utils

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

func GetIDParam(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Param(name)

	id, err := strconv.ParseUint(raw, 10, 64)

	if err != nil {
		return 0, fmt.Errorf("Invalid %s", name)
	}

	return uint(id), nil
}
