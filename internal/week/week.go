package week

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDay is returned by Parse for input that names no weekday.
var ErrUnknownDay = errors.New("unknown weekday")

// Day identifies one slot of the weekly meal plan.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// Count is the number of weekdays in a plan.
const Count = 7

// Days lists every weekday in plan order.
var Days = [Count]Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var names = [Count]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// String returns the canonical title-case name of the day.
func (d Day) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return names[d]
}

// Short returns the three-letter abbreviation.
func (d Day) Short() string {
	return d.String()[:3]
}

// Valid reports whether d is one of the seven weekdays.
func (d Day) Valid() bool {
	return d >= Monday && d <= Sunday
}

// Parse maps a user-supplied weekday name to a Day. Matching ignores case and
// surrounding whitespace and accepts three-letter abbreviations.
func Parse(s string) (Day, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return 0, fmt.Errorf("%w: empty", ErrUnknownDay)
	}
	for _, d := range Days {
		full := strings.ToLower(names[d])
		if key == full || key == full[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDay, s)
}

// MustParse is like Parse but panics on unknown input. Intended for constants
// in tests and static tables.
func MustParse(s string) Day {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}
