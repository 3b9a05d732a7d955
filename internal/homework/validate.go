package homework

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/noahxzhu/homework-notify/internal/model"
)

const (
	keyHomeworks   = "homeworks"
	keyCurrentDate = "current_date"
)

// Extract checks the top-level shape of an API response and returns the most
// recent submission, which the API lists first.
func Extract(resp gjson.Result) (model.Submission, error) {
	if !resp.IsObject() {
		return model.Submission{}, &ShapeError{Reason: "response is not an object"}
	}
	homeworks := resp.Get(keyHomeworks)
	if !homeworks.Exists() {
		return model.Submission{}, &ShapeError{Reason: fmt.Sprintf("no %q key", keyHomeworks)}
	}
	if !resp.Get(keyCurrentDate).Exists() {
		return model.Submission{}, &ShapeError{Reason: fmt.Sprintf("no %q key", keyCurrentDate)}
	}
	if !homeworks.IsArray() {
		return model.Submission{}, &ShapeError{Reason: fmt.Sprintf("%q is not a list", keyHomeworks)}
	}

	items := homeworks.Array()
	if len(items) == 0 {
		return model.Submission{}, ErrEmptyResult
	}

	first := items[0]
	if !first.IsObject() {
		return model.Submission{}, &ShapeError{Reason: "submission is not an object"}
	}
	var sub model.Submission
	if err := json.Unmarshal([]byte(first.Raw), &sub); err != nil {
		return model.Submission{}, &ShapeError{Reason: fmt.Sprintf("malformed submission: %v", err)}
	}
	return sub, nil
}

// CurrentDate returns the server-side timestamp to poll from next time.
func CurrentDate(resp gjson.Result) (int64, bool) {
	v := resp.Get(keyCurrentDate)
	if v.Type != gjson.Number {
		return 0, false
	}
	return v.Int(), true
}
