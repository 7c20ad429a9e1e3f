package model

// Display cap for each board column; the feed itself is not truncated.
const boardColumnLimit = 20

// FeedSnapshot is one response of the public order feed. Total and
// TotalToday come from the server and are not derivable from Orders.
type FeedSnapshot struct {
	Orders     []Order `json:"orders"`
	Total      int     `json:"total"`
	TotalToday int     `json:"totalToday"`
}

func (f FeedSnapshot) Ready() []int {
	return f.numbersWith(func(s OrderStatus) bool { return s == Done })
}

func (f FeedSnapshot) InProgress() []int {
	return f.numbersWith(func(s OrderStatus) bool { return s != Done })
}

func (f FeedSnapshot) numbersWith(match func(OrderStatus) bool) []int {
	numbers := make([]int, 0, boardColumnLimit)
	for _, order := range f.Orders {
		if len(numbers) == boardColumnLimit {
			break
		}
		if match(order.Status) {
			numbers = append(numbers, order.Number)
		}
	}
	return numbers
}
