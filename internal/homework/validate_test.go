package homework

import (
	"errors"
	"testing"

	"github.com/tidwall/gjson"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantShape bool
		wantEmpty bool
		wantName  string
	}{
		{
			name:     "most recent submission first",
			body:     `{"homeworks":[{"homework_name":"proj2","status":"reviewing"},{"homework_name":"proj1","status":"approved"}],"current_date":1000}`,
			wantName: "proj2",
		},
		{
			name:      "not an object",
			body:      `[{"homework_name":"proj1","status":"approved"}]`,
			wantShape: true,
		},
		{
			name:      "missing homeworks",
			body:      `{"current_date":1000}`,
			wantShape: true,
		},
		{
			name:      "missing current_date",
			body:      `{"homeworks":[{"homework_name":"proj1","status":"approved"}]}`,
			wantShape: true,
		},
		{
			name:      "homeworks is not a list",
			body:      `{"homeworks":{"homework_name":"proj1"},"current_date":1000}`,
			wantShape: true,
		},
		{
			name:      "homeworks is null",
			body:      `{"homeworks":null,"current_date":1000}`,
			wantShape: true,
		},
		{
			name:      "empty homeworks",
			body:      `{"homeworks":[],"current_date":1000}`,
			wantEmpty: true,
		},
		{
			name:      "submission is not an object",
			body:      `{"homeworks":["proj1"],"current_date":1000}`,
			wantShape: true,
		},
		{
			name:      "submission with wrong field types",
			body:      `{"homeworks":[{"homework_name":42,"status":"approved"}],"current_date":1000}`,
			wantShape: true,
		},
		{
			name: "submission without required fields passes through",
			body: `{"homeworks":[{"id":7}],"current_date":1000}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, err := Extract(gjson.Parse(tt.body))

			var shapeErr *ShapeError
			if got := errors.As(err, &shapeErr); got != tt.wantShape {
				t.Fatalf("ShapeError = %v, want %v (err: %v)", got, tt.wantShape, err)
			}
			if got := errors.Is(err, ErrEmptyResult); got != tt.wantEmpty {
				t.Fatalf("ErrEmptyResult = %v, want %v (err: %v)", got, tt.wantEmpty, err)
			}
			if tt.wantShape || tt.wantEmpty {
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantName == "" {
				if sub.HomeworkName != nil {
					t.Errorf("expected no homework_name but got %q", *sub.HomeworkName)
				}
				return
			}
			if sub.HomeworkName == nil || *sub.HomeworkName != tt.wantName {
				t.Errorf("expected homework_name %q but got %v", tt.wantName, sub.HomeworkName)
			}
		})
	}
}

func TestCurrentDate(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   int64
		wantOK bool
	}{
		{name: "present", body: `{"homeworks":[],"current_date":1000}`, want: 1000, wantOK: true},
		{name: "absent", body: `{"homeworks":[]}`},
		{name: "null", body: `{"homeworks":[],"current_date":null}`},
		{name: "not a number", body: `{"homeworks":[],"current_date":"soon"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CurrentDate(gjson.Parse(tt.body))
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("CurrentDate() = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
