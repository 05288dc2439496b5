package utils

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// FormatCurrency formats an amount in the Indian grouping style (2,34,567.50)
// for receipts and notification emails.
func FormatCurrency(amount float64) string {
	formatted := fmt.Sprintf("%.2f", amount)
	parts := strings.Split(formatted, ".")
	integerPart := parts[0]
	decimalPart := parts[1]

	negative := strings.HasPrefix(integerPart, "-")
	if negative {
		integerPart = integerPart[1:]
	}

	// Indian grouping: last three digits, then pairs.
	var groups []string
	if len(integerPart) > 3 {
		head := integerPart[:len(integerPart)-3]
		groups = append(groups, integerPart[len(integerPart)-3:])
		for i := len(head); i > 0; i -= 2 {
			start := i - 2
			if start < 0 {
				start = 0
			}
			groups = append([]string{head[start:i]}, groups...)
		}
	} else {
		groups = []string{integerPart}
	}

	result := strings.Join(groups, ",") + "." + decimalPart
	if negative {
		result = "-" + result
	}
	return result
}
