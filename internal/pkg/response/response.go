package response

import "github.com/gin-gonic/gin"

// Page is the envelope of paginated lists.
type Page struct {
	Count    int64 `json:"count"`
	Next     *int  `json:"next"`
	Previous *int  `json:"previous"`
	Results  any   `json:"results"`
}

// NewPage fills next/previous page numbers from the current page, limit and total.
func NewPage(results any, total int64, page, limit int) Page {
	p := Page{Count: total, Results: results}
	if limit > 0 && int64(page*limit) < total {
		next := page + 1
		p.Next = &next
	}
	if page > 1 {
		prev := page - 1
		p.Previous = &prev
	}
	return p
}

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// Abort writes the error envelope and stops the handler chain.
func Abort(c *gin.Context, statusCode int, code string, message string) {
	Error(c, statusCode, code, message)
	c.Abort()
}
