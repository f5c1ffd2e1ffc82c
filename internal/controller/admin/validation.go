package admin

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/lshigami/acebrainiac/internal/core"
	"github.com/lshigami/acebrainiac/internal/model"
)

const oneCorrectTag = "one_correct"

var optionIndex = regexp.MustCompile(`options\[(\d+)\]`)

func init() {
	core.Validate.RegisterStructValidation(questionStructLevel, model.Question{})
	core.RegisterCustomTranslation(oneCorrectTag, "{0} must include at least one correct answer")
}

// questionStructLevel runs after the field checks, so the correct-answer rule
// is reported only for otherwise well-formed questions.
func questionStructLevel(sl validator.StructLevel) {
	q := sl.Current().Interface().(model.Question)
	if q.CorrectCount() == 0 {
		sl.ReportError(q.Options, "options", "Options", oneCorrectTag, "")
	}
}

// validateQuestion checks text, option count, option texts and the correct
// answer, in that order, and reports the first failure.
func validateQuestion(i int, q model.Question) error {
	err := core.Validate.Struct(q)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	prefix := fmt.Sprintf("Question %d", i+1)
	field := fmt.Sprintf("questions[%d].%s", i, fe.Field())
	if m := optionIndex.FindStringSubmatch(fe.Namespace()); m != nil {
		oi, _ := strconv.Atoi(m[1])
		prefix = fmt.Sprintf("Question %d, option %d", i+1, oi+1)
		field = fmt.Sprintf("questions[%d].options[%d].%s", i, oi, fe.Field())
	}
	msg := prefix + ": " + fe.Translate(core.Translator)
	return core.NewValidationError(errors.New(msg), core.FieldError{Field: field, Error: msg})
}

// trimmed returns q with surrounding whitespace removed from its texts.
func trimmed(q model.Question) model.Question {
	q.Text = strings.TrimSpace(q.Text)
	opts := make([]model.Option, len(q.Options))
	for i, o := range q.Options {
		opts[i] = model.Option{Text: strings.TrimSpace(o.Text), IsCorrect: o.IsCorrect}
	}
	q.Options = opts
	return q
}
