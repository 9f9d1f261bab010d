// Package sharing formats extraction results for sending to other apps.
package sharing

import (
	"fmt"
	"strings"
)

// Item is one line of a shopping list. Extracted ingredients carry no
// quantity; Quantity is for callers that build items from hand-entered
// recipes and is printed in parentheses when set.
type Item struct {
	Name     string
	Quantity string // e.g. "2 cups"
	Bought   bool
}

// ItemsFromIngredients builds unbought items, marking the 1-based positions
// in bought as already purchased. Out of range positions are ignored.
func ItemsFromIngredients(ingredients []string, bought []int) []Item {
	done := make(map[int]bool, len(bought))
	for _, n := range bought {
		done[n] = true
	}

	items := make([]Item, 0, len(ingredients))
	for i, name := range ingredients {
		items = append(items, Item{Name: name, Bought: done[i+1]})
	}
	return items
}

// ShoppingList renders the items still to buy as a numbered plain-text list.
func ShoppingList(title string, items []Item) string {
	var toBuy []Item
	for _, it := range items {
		if !it.Bought {
			toBuy = append(toBuy, it)
		}
	}

	if len(toBuy) == 0 {
		return fmt.Sprintf("Shopping list for %s:\n✅ All items purchased!", title)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Shopping list for %s:\n\n", title)
	for i, it := range toBuy {
		fmt.Fprintf(&b, "%d. %s", i+1, it.Name)
		if q := strings.TrimSpace(it.Quantity); q != "" {
			fmt.Fprintf(&b, " (%s)", q)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nTotal items to buy: %d", len(toBuy))
	return b.String()
}
