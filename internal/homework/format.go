package homework

import (
	"fmt"

	"github.com/noahxzhu/homework-notify/internal/model"
)

// Render turns a submission into the chat message announcing its status.
func Render(sub model.Submission) (string, error) {
	if sub.HomeworkName == nil {
		return "", &MissingFieldError{Field: "homework_name"}
	}
	if sub.Status == nil {
		return "", &MissingFieldError{Field: "status"}
	}

	verdict, ok := Verdict(*sub.Status)
	if !ok {
		return "", &UnknownStatusError{Status: *sub.Status}
	}
	return fmt.Sprintf("Изменился статус проверки работы \"%s\". %s", *sub.HomeworkName, verdict), nil
}
