package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAverageRating(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		want    float64
	}{
		{"no reviews", nil, 0},
		{"single review", []int{4}, 4},
		{"whole number mean", []int{2, 4}, 3},
		{"rounds to one decimal", []int{5, 4, 4}, 4.3},
		{"rounds up at midpoint", []int{4, 5}, 4.5},
		{"all ones", []int{1, 1, 1}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			movie := Movie{}
			for _, r := range tt.ratings {
				movie.Reviews = append(movie.Reviews, Review{Rating: r})
			}
			assert.Equal(t, tt.want, movie.AverageRating())
		})
	}
}
