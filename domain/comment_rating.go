package domain

const (
	MinCommentRating = 1
	MaxCommentRating = 5
)

// CommentRating is a star rating between MinCommentRating and MaxCommentRating.
type CommentRating struct {
	value int
}

func NewCommentRating(raw int) (CommentRating, error) {
	if raw < MinCommentRating || raw > MaxCommentRating {
		return CommentRating{}, NewValidationError("rating", "must be between 1 and 5")
	}
	return CommentRating{value: raw}, nil
}

func (r CommentRating) Value() int {
	return r.value
}

func (r CommentRating) Equals(other CommentRating) bool {
	return r.value == other.value
}

// AverageOf returns the mean of ratings rounded half-up to one decimal place,
// or 0 when ratings is empty.
func AverageOf(ratings []CommentRating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	var sum int64
	for _, r := range ratings {
		sum += int64(r.value)
	}
	n := int64(len(ratings))
	// tenths = floor(10*sum/n + 1/2), kept in integers so ties round exactly
	tenths := (20*sum + n) / (2 * n)
	return float64(tenths) / 10
}

// RatingSummary is the aggregate rating of a product's top-level comments.
type RatingSummary struct {
	Average float64
	Count   int
}

func NewRatingSummary(ratings []CommentRating) RatingSummary {
	return RatingSummary{
		Average: AverageOf(ratings),
		Count:   len(ratings),
	}
}
