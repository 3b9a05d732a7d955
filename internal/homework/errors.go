package homework

import (
	"errors"
	"fmt"
	"strings"

	"github.com/noahxzhu/homework-notify/internal/model"
)

// ErrEmptyResult means the response was well formed but carried no submissions.
var ErrEmptyResult = errors.New("homeworks list is empty")

type ShapeError struct {
	Reason string
}

func (e *ShapeError) Error() string {
	return "unexpected api response: " + e.Reason
}

type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("submission has no %q field", e.Field)
}

type UnknownStatusError struct {
	Status model.Status
}

func (e *UnknownStatusError) Error() string {
	known := make([]string, 0, len(verdicts))
	for _, s := range Statuses() {
		known = append(known, string(s))
	}
	return fmt.Sprintf("unknown review status %q (expected one of %s)", string(e.Status), strings.Join(known, ", "))
}
