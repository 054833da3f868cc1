package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type postPayload struct {
	Title         string   `validate:"required,min=3,max=200"`
	Content       string   `validate:"required,min=10"`
	Category      string   `validate:"required"`
	FeaturedImage string   `validate:"omitempty,url"`
	Tags          []string `validate:"omitempty,max=10"`
}

type commentPayload struct {
	Content string `validate:"required,min=1,max=1000"`
}

func TestMessages_RequiredFields(t *testing.T) {
	v := validator.New()

	err := v.Struct(postPayload{})
	require.Error(t, err)

	msgs := Messages(err)
	assert.Contains(t, msgs, "Title is required")
	assert.Contains(t, msgs, "Content is required")
	assert.Contains(t, msgs, "Category is required")
}

func TestMessages_TitleTooShort(t *testing.T) {
	v := validator.New()

	err := v.Struct(postPayload{Title: "ab", Content: "long enough content", Category: "cat"})
	require.Error(t, err)

	msgs := Messages(err)
	assert.Contains(t, msgs, "Title must be at least 3 characters long")
}

func TestMessages_CommentOverLimit(t *testing.T) {
	v := validator.New()

	err := v.Struct(commentPayload{Content: strings.Repeat("a", 1001)})
	require.Error(t, err)

	msgs := Messages(err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Content cannot exceed 1000 characters", msgs[0])
}

func TestMessages_TooManyTags(t *testing.T) {
	v := validator.New()

	tags := make([]string, 11)
	for i := range tags {
		tags[i] = "tag"
	}
	err := v.Struct(postPayload{Title: "Valid title", Content: "long enough content", Category: "cat", Tags: tags})
	require.Error(t, err)

	msgs := Messages(err)
	assert.Contains(t, msgs, "Tags cannot have more than 10 items")
}

func TestMessages_BadURL(t *testing.T) {
	v := validator.New()

	err := v.Struct(postPayload{Title: "Valid title", Content: "long enough content", Category: "cat", FeaturedImage: "not a url"})
	require.Error(t, err)

	msgs := Messages(err)
	assert.Contains(t, msgs, "FeaturedImage must be a valid URL")
}

func TestMessages_NonValidatorError(t *testing.T) {
	msgs := Messages(errors.New("unexpected EOF"))
	assert.Equal(t, []string{"Invalid request body"}, msgs)
}
