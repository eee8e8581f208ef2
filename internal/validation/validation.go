// Package validation turns raw review submissions into typed values.
package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/iyhunko/product-reviews/internal/model"
	"github.com/shopspring/decimal"
)

const (
	productIDField = "productId"
	ratingField    = "rating"
	commentField   = "comment"
	bodyField      = "body"
)

// maxExponent bounds the decimal exponent of a coerced number. Arithmetic on
// decimals rescales to a common exponent, so larger values are rejected first.
const maxExponent = 32

var maxID = decimal.NewFromInt(math.MaxInt64)

// FieldError is a single violation tagged with the path of the offending field.
type FieldError struct {
	Field   string
	Message string
}

func (f FieldError) String() string {
	return f.Field + ": " + f.Message
}

// Error aggregates every field violation found in a submission.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	return "invalid review data: " + strings.Join(e.Messages(), "; ")
}

// Messages returns the violations formatted as "field: message".
func (e *Error) Messages() []string {
	messages := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		messages = append(messages, f.String())
	}
	return messages
}

func (e *Error) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *Error) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Value holds a raw JSON value. JSON null is treated like an absent field.
type Value struct {
	raw json.RawMessage
}

// UnmarshalJSON keeps the raw bytes for later coercion.
func (v *Value) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		v.raw = nil
		return nil
	}
	v.raw = append(v.raw[:0], data...)
	return nil
}

// IsSet reports whether the field was present with a non-null value.
func (v Value) IsSet() bool {
	return len(v.raw) > 0
}

func (v Value) isString() bool {
	return len(v.raw) > 0 && v.raw[0] == '"'
}

// RawReview is a review submission before validation.
type RawReview struct {
	ProductID Value `json:"productId"`
	Rating    Value `json:"rating"`
	Comment   Value `json:"comment"`
}

// NewRawReview builds a submission from Go values, mostly for callers that do not hold JSON.
func NewRawReview(productID, rating interface{}, comment *string) (RawReview, error) {
	var raw RawReview
	for _, item := range []struct {
		dst *Value
		src interface{}
	}{
		{&raw.ProductID, productID},
		{&raw.Rating, rating},
		{&raw.Comment, comment},
	} {
		data, err := json.Marshal(item.src)
		if err != nil {
			return RawReview{}, fmt.Errorf("failed to encode review field: %w", err)
		}
		if err := item.dst.UnmarshalJSON(data); err != nil {
			return RawReview{}, err
		}
	}
	return raw, nil
}

// Review is a validated submission.
type Review struct {
	ProductID int64
	Rating    int
	Comment   *string
}

// DecodeReview parses a JSON object into a RawReview. Malformed JSON and
// unknown fields are reported as a *Error.
func DecodeReview(data []byte) (RawReview, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		verr := &Error{}
		verr.add(bodyField, "must be a JSON object")
		return RawReview{}, verr
	}

	var raw RawReview
	verr := &Error{}
	unknown := make([]string, 0)
	for name, value := range fields {
		var dst *Value
		switch name {
		case productIDField:
			dst = &raw.ProductID
		case ratingField:
			dst = &raw.Rating
		case commentField:
			dst = &raw.Comment
		default:
			unknown = append(unknown, name)
			continue
		}
		if err := dst.UnmarshalJSON(value); err != nil {
			verr.add(name, "is malformed")
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		verr.add(name, "is not allowed")
	}

	if err := verr.orNil(); err != nil {
		return RawReview{}, err
	}
	return raw, nil
}

// ValidateReview checks every field of a submission and returns the normalized
// review, or a *Error listing all violations.
func ValidateReview(raw RawReview) (Review, error) {
	verr := &Error{}
	var review Review

	if id, ok := validateProductID(raw.ProductID, verr); ok {
		review.ProductID = id
	}
	if rating, ok := validateRating(raw.Rating, verr); ok {
		review.Rating = rating
	}
	if comment, ok := validateComment(raw.Comment, verr); ok {
		review.Comment = comment
	}

	if err := verr.orNil(); err != nil {
		return Review{}, err
	}
	return review, nil
}

func validateProductID(v Value, verr *Error) (int64, bool) {
	if !v.IsSet() {
		verr.add(productIDField, "is required")
		return 0, false
	}
	n, msg := coerceNumber(v)
	switch {
	case msg == "empty":
		verr.add(productIDField, "must not be empty")
	case msg != "":
		verr.add(productIDField, "must be a string or number")
	case n.Exponent() > maxExponent && n.Sign() > 0:
		verr.add(productIDField, "is out of range")
	case n.Exponent() > maxExponent:
		verr.add(productIDField, "must be a positive integer")
	case n.Exponent() < -maxExponent || !n.IsInteger():
		verr.add(productIDField, "must be an integer")
	case !n.IsPositive():
		verr.add(productIDField, "must be a positive integer")
	case n.GreaterThan(maxID):
		verr.add(productIDField, "is out of range")
	default:
		return n.IntPart(), true
	}
	return 0, false
}

func validateRating(v Value, verr *Error) (int, bool) {
	if !v.IsSet() {
		verr.add(ratingField, "is required")
		return 0, false
	}
	n, msg := coerceNumber(v)
	switch {
	case msg != "":
		verr.add(ratingField, "must be a number")
	case n.Exponent() > maxExponent && n.Sign() > 0:
		verr.add(ratingField, fmt.Sprintf("must be at most %d", model.MaxRating))
	case n.Exponent() > maxExponent:
		verr.add(ratingField, fmt.Sprintf("must be at least %d", model.MinRating))
	case n.Exponent() < -maxExponent || !n.IsInteger():
		verr.add(ratingField, "must be an integer")
	case n.LessThan(decimal.NewFromInt(model.MinRating)):
		verr.add(ratingField, fmt.Sprintf("must be at least %d", model.MinRating))
	case n.GreaterThan(decimal.NewFromInt(model.MaxRating)):
		verr.add(ratingField, fmt.Sprintf("must be at most %d", model.MaxRating))
	default:
		return int(n.IntPart()), true
	}
	return 0, false
}

func validateComment(v Value, verr *Error) (*string, bool) {
	if !v.IsSet() {
		return nil, true
	}
	var comment string
	if !v.isString() || json.Unmarshal(v.raw, &comment) != nil {
		verr.add(commentField, "must be a string")
		return nil, false
	}
	// PostgreSQL text cannot store NUL
	if strings.ContainsRune(comment, 0) {
		verr.add(commentField, "must not contain NUL characters")
		return nil, false
	}
	if utf8.RuneCountInString(comment) > model.MaxCommentLength {
		verr.add(commentField, fmt.Sprintf("must be at most %d characters", model.MaxCommentLength))
		return nil, false
	}
	return &comment, true
}

// coerceNumber accepts a JSON number or a string holding one. The second
// result is empty on success, "empty" for a blank string and "invalid" otherwise.
func coerceNumber(v Value) (decimal.Decimal, string) {
	text := string(v.raw)
	if v.isString() {
		var s string
		if err := json.Unmarshal(v.raw, &s); err != nil {
			return decimal.Zero, "invalid"
		}
		text = strings.TrimSpace(s)
		if text == "" {
			return decimal.Zero, "empty"
		}
	} else if !looksNumeric(text) {
		return decimal.Zero, "invalid"
	}

	n, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, "invalid"
	}
	return trimExponent(n), ""
}

// trimExponent moves trailing zeros of the coefficient into the exponent, so
// "5.000" and "5e0" compare alike. It works on the digit string and never
// rescales, which keeps it linear in the length of the input.
func trimExponent(n decimal.Decimal) decimal.Decimal {
	coefficient := n.Coefficient()
	if coefficient.Sign() == 0 {
		return decimal.Zero
	}
	if n.Exponent() >= 0 {
		return n
	}

	digits := coefficient.String()
	zeros := len(digits) - len(strings.TrimRight(digits, "0"))
	shift := int64(zeros)
	if limit := -int64(n.Exponent()); shift > limit {
		shift = limit
	}
	if shift == 0 {
		return n
	}

	trimmed, ok := new(big.Int).SetString(digits[:len(digits)-int(shift)], 10)
	if !ok {
		return n
	}
	return decimal.NewFromBigInt(trimmed, n.Exponent()+int32(shift))
}

// looksNumeric rejects JSON literals, arrays and objects before decimal parsing.
func looksNumeric(text string) bool {
	if text == "" {
		return false
	}
	c := text[0]
	return c == '-' || (c >= '0' && c <= '9')
}
