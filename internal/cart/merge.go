package cart

// MergedItem is one line of a computed merge result, detached from any cart.
type MergedItem struct {
	ProductID string
	Quantity  int
}

// MergeItems combines the item lists of an anonymous cart and a user cart
// into one list with quantities summed per product. It is a pure function:
// the result is fully computed before the merge transaction writes anything.
// Anonymous items keep their order, user-only products follow.
func MergeItems(anon, owned []MergedItem) []MergedItem {
	merged := make([]MergedItem, 0, len(anon)+len(owned))
	index := make(map[string]int, len(anon)+len(owned))

	for _, lists := range [][]MergedItem{anon, owned} {
		for _, item := range lists {
			if i, ok := index[item.ProductID]; ok {
				merged[i].Quantity += item.Quantity
				continue
			}
			index[item.ProductID] = len(merged)
			merged = append(merged, item)
		}
	}

	return merged
}
