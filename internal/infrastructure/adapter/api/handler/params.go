package handler

import (
	"fmt"
	"strconv"

	errs "github.com/amirhossein-jamali/atm-console/internal/domain/error"
	"github.com/gin-gonic/gin"
)

// messageID reads the :id path parameter of a ledger row
func messageID(c *gin.Context) (uint64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %q", errs.ErrInvalidMessageID, raw)
	}
	return id, nil
}

// badRequest wraps a binding failure
func badRequest(err error) error {
	return fmt.Errorf("%w: %v", errs.ErrInvalidRequest, err)
}
