package report

import (
	"errors"

	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/creditreport"
	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/fields"
)

// GenericFailure is shown for errors that carry nothing safe to display
const GenericFailure = "something went wrong while analyzing the report, please try again"

// UserMessage turns an error into text for the person who submitted the report.
// expected is false for errors that should also be logged as failures.
func UserMessage(err error) (msg string, expected bool) {
	var (
		extErr     *creditreport.ExtractionError
		missingErr *fields.MissingFieldError
		invalidErr *fields.InvalidFieldError
	)
	switch {
	case err == nil:
		return "", true
	case errors.As(err, &extErr):
		return extErr.Error(), true
	case errors.As(err, &missingErr):
		return "unable to evaluate: " + missingErr.Field, true
	case errors.As(err, &invalidErr):
		return "unable to evaluate: " + invalidErr.Field, true
	default:
		return GenericFailure, false
	}
}
