package parser

import (
	"fmt"
	"regexp"
)

var (
	instrumentIDPattern  = regexp.MustCompile(`\d{11}`)
	tempConditionPattern = regexp.MustCompile(`\d{2,3}C`)
)

// ExtractInstrumentID returns the first run of eleven digits in the file name.
func ExtractInstrumentID(fileName string) (string, error) {
	match := instrumentIDPattern.FindString(fileName)
	if match == "" {
		return "", fmt.Errorf("%w: %s", ErrIdentifierNotFound, fileName)
	}
	return match, nil
}

// ExtractTempCondition returns the set temperature label, e.g. "95C" or "110C".
func ExtractTempCondition(fileName string) (string, error) {
	match := tempConditionPattern.FindString(fileName)
	if match == "" {
		return "", fmt.Errorf("%w: %s", ErrConditionNotFound, fileName)
	}
	return match, nil
}
