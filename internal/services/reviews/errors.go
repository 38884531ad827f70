package reviews

import "errors"

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrAlreadyReviewed = errors.New("you have already reviewed this movie")
	ErrNotOwner        = errors.New("not authorized to modify this review")
	ErrInvalidRating   = errors.New("rating must be between 0 and 5 in half-star steps")
)
