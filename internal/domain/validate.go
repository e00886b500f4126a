package domain

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Limits enforced on medication input.
const (
	MinNameLen       = 2
	MaxNameLen       = 50
	MaxDosageLen     = 30
	MaxScheduleTimes = 6
)

var (
	ErrEmptyName     = errors.New("empty name")
	ErrNameTooShort  = errors.New("name too short")
	ErrNameTooLong   = errors.New("name too long")
	ErrNameCharset   = errors.New("name has invalid characters")
	ErrEmptyDosage   = errors.New("empty dosage")
	ErrDosageTooLong = errors.New("dosage too long")
	ErrDosageCharset = errors.New("dosage has invalid characters")
	ErrEmptySchedule = errors.New("empty schedule")
	ErrTooManyTimes  = errors.New("too many times")
	ErrDuplicateTime = errors.New("duplicate time")
)

// BadTimeError reports the first schedule token that is not a valid HH:MM time.
type BadTimeError struct {
	Token string
}

func (e *BadTimeError) Error() string {
	return fmt.Sprintf("invalid time %q", e.Token)
}

var (
	nameRe = regexp.MustCompile(`^[a-zA-Zа-яА-ЯёЁ0-9\s\-.,()]+$`)
	// Dosage additionally allows "/" and free unit text like "500 мг" or "1 таблетка".
	dosageRe = regexp.MustCompile(`(?i)^[a-zа-яё0-9\s\-.,()/]+$`)
	timeRe   = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])$`)
)

// ValidateName checks and normalizes a medication name.
func ValidateName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", ErrEmptyName
	}
	if len([]rune(name)) > MaxNameLen {
		return "", ErrNameTooLong
	}
	if len([]rune(name)) < MinNameLen {
		return "", ErrNameTooShort
	}
	if !nameRe.MatchString(name) {
		return "", ErrNameCharset
	}
	return name, nil
}

// ValidateDosage checks and normalizes a dosage description.
func ValidateDosage(raw string) (string, error) {
	dosage := strings.TrimSpace(raw)
	if dosage == "" {
		return "", ErrEmptyDosage
	}
	if len([]rune(dosage)) > MaxDosageLen {
		return "", ErrDosageTooLong
	}
	if !dosageRe.MatchString(dosage) {
		return "", ErrDosageCharset
	}
	return dosage, nil
}

// ValidateSchedule checks a comma-separated list of HH:MM times and returns
// the canonical stored form (sorted, joined with ", ") plus the sorted times.
// Validation is fail-fast: the first malformed token aborts with a
// BadTimeError naming it. Duplicate detection is exact-string, so "8:00" and
// "08:00" are different tokens (and only the two-digit form round-trips).
func ValidateSchedule(raw string) (string, []string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", nil, ErrEmptySchedule
	}

	tokens := strings.Split(s, ",")
	times := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if !timeRe.MatchString(tok) {
			return "", nil, &BadTimeError{Token: tok}
		}
		times = append(times, tok)
	}

	if len(times) == 0 {
		return "", nil, ErrEmptySchedule
	}
	if len(times) > MaxScheduleTimes {
		return "", nil, ErrTooManyTimes
	}
	seen := make(map[string]struct{}, len(times))
	for _, t := range times {
		if _, dup := seen[t]; dup {
			return "", nil, fmt.Errorf("%w: %s", ErrDuplicateTime, t)
		}
		seen[t] = struct{}{}
	}

	// Lexicographic sort equals chronological order for fixed-width HH:MM.
	sort.Strings(times)
	return strings.Join(times, ", "), times, nil
}

// ParseTimeOfDay splits a canonical "HH:MM" token into hour and minute.
// Used by the scheduler when rebuilding triggers from stored rows, where a
// malformed token must be skipped rather than abort the rebuild.
func ParseTimeOfDay(tok string) (hour, minute int, err error) {
	m := timeRe.FindStringSubmatch(strings.TrimSpace(tok))
	if m == nil {
		return 0, 0, &BadTimeError{Token: tok}
	}
	// Regexp guarantees numeric groups in range.
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	return hour, minute, nil
}
