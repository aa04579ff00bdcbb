// Package validation is the gate every device registration passes before it
// reaches the service core.
package validation

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"go.uber.org/multierr"

	"github.com/oxygenesis/signchain/internal/domain"
)

// Alphanumeric runs separated by single dashes, starting with a letter and
// ending with a letter or digit.
var idPattern = regexp.MustCompile(`^[A-Za-z](-?[A-Za-z0-9])*$`)

type Rules struct {
	IDMinLength    int
	IDMaxLength    int
	LabelMaxLength int
}

func DefaultRules() Rules {
	return Rules{IDMinLength: 4, IDMaxLength: 64, LabelMaxLength: 256}
}

// Device checks a registration request and returns the parsed algorithm.
// Every violation is reported, not only the first one.
func (r Rules) Device(id, algorithm, label string) (domain.Algorithm, error) {
	err := r.ID(id)

	alg, algErr := r.algorithm(algorithm)
	err = multierr.Append(err, algErr)
	err = multierr.Append(err, r.Label(label))

	if err != nil {
		return "", err
	}
	return alg, nil
}

func (r Rules) ID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: id is required", domain.ErrInvalidInput)
	}
	if n := len(id); n < r.IDMinLength || n > r.IDMaxLength {
		return fmt.Errorf("%w: the id must be min %d characters and max %d",
			domain.ErrInvalidInput, r.IDMinLength, r.IDMaxLength)
	}
	if !idPattern.MatchString(id) {
		return fmt.Errorf("%w: the id can only contain alphanumeric characters separated by single dashes, "+
			"it must start with an alphabetic character and end with an alphanumeric character", domain.ErrInvalidInput)
	}
	return nil
}

func (r Rules) Label(label string) error {
	if utf8.RuneCountInString(label) > r.LabelMaxLength {
		return fmt.Errorf("%w: the label must be max %d characters", domain.ErrInvalidInput, r.LabelMaxLength)
	}
	return nil
}

func (r Rules) algorithm(s string) (domain.Algorithm, error) {
	if s == "" {
		return "", fmt.Errorf("%w: algorithm is required", domain.ErrInvalidInput)
	}
	alg, err := domain.ParseAlgorithm(s)
	if err != nil {
		return "", fmt.Errorf("%w: algorithm is not %s or %s", err, domain.AlgEC, domain.AlgRSA)
	}
	return alg, nil
}
