package recipe

import (
	"fmt"
	"strings"

	"foodgram/internal/domain"
)

const (
	ShoppingListFilename    = "shopping_list.txt"
	shoppingListHeader      = "Shopping list:"
	shoppingListContentType = "text/plain; charset=utf-8"
)

// RenderShoppingList formats aggregated rows as "name (unit): total" lines
// under a header. Rows keep the order they come in.
func RenderShoppingList(items []domain.ShoppingListItem) string {
	var b strings.Builder
	b.WriteString(shoppingListHeader)
	b.WriteString("\n\n")
	for _, it := range items {
		fmt.Fprintf(&b, "%s (%s): %d\n", it.Name, it.MeasurementUnit, it.TotalAmount)
	}
	return b.String()
}
