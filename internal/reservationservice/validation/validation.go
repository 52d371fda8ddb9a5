package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"restaurant-site/pkg/models"
	"restaurant-site/pkg/validation"

	"github.com/shopspring/decimal"
)

var errTooManyGuests = errors.New("too many guests")

var (
	timePattern        = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)
	timeSecondsPattern = regexp.MustCompile(`^(\d{1,2}:\d{2}):\d{2}$`)
)

// ServiceHours is the [Opening, Closing) window, in whole hours, in which
// reservations may start. The zero value accepts any time.
type ServiceHours struct {
	Opening int
	Closing int
}

func (h ServiceHours) enabled() bool {
	return h.Opening != 0 || h.Closing != 0
}

// Contains reports whether a reservation starting at hour:minute is accepted.
func (h ServiceHours) Contains(hour int) bool {
	if !h.enabled() {
		return true
	}
	return hour >= h.Opening && hour < h.Closing
}

type ReservationValidator struct {
	hours ServiceHours
}

func NewReservationValidator(hours ServiceHours) *ReservationValidator {
	return &ReservationValidator{hours: hours}
}

// Validate sanitises the optional contact fields and checks date, time and
// guests. All field problems are returned together as validation.Errors.
func (v *ReservationValidator) Validate(req *models.CreateReservationRequest) (models.NewReservation, error) {
	var errs validation.Errors
	res := models.NewReservation{
		Name:  sanitized(req.Name),
		Phone: sanitized(req.Phone),
	}

	for _, f := range []struct {
		path  string
		value *string
		max   int
	}{
		{"name", res.Name, validation.MaxNameLength},
		{"phone", res.Phone, validation.MaxPhoneLength},
	} {
		if fe, tooLong := validation.Length(f.path, f.value, f.max); tooLong {
			errs = append(errs, fe)
		}
	}

	if req.Email != nil && strings.TrimSpace(*req.Email) != "" {
		email := strings.TrimSpace(*req.Email)
		if validation.IsEmail(email) {
			normalized := validation.NormalizeEmail(email)
			res.Email = &normalized
			if fe, tooLong := validation.Length("email", res.Email, validation.MaxEmailLength); tooLong {
				errs = append(errs, fe)
			}
		} else {
			errs = append(errs, validation.Field("email", *req.Email, "must be a valid email"))
		}
	}

	date, err := parseDate(req.Date)
	if err != nil {
		errs = append(errs, validation.Field("date", req.Date, "must be a valid ISO 8601 date"))
	}
	res.Date = date

	hhmm, hour, err := parseTime(req.Time)
	switch {
	case err != nil:
		errs = append(errs, validation.Field("time", req.Time, "must be a time in HH:MM format"))
	case !v.hours.Contains(hour):
		errs = append(errs, validation.Field("time", req.Time,
			fmt.Sprintf("reservations are possible between %02d:00 and %02d:00", v.hours.Opening, v.hours.Closing)))
	}
	res.Time = hhmm

	guests, err := parseGuests(req.Guests)
	switch {
	case errors.Is(err, errTooManyGuests):
		errs = append(errs, validation.Field("guests", rawValue(req.Guests), fmt.Sprintf("must be at most %d", math.MaxInt32)))
	case err != nil:
		errs = append(errs, validation.Field("guests", rawValue(req.Guests), "must be an integer greater than 0"))
	}
	res.Guests = guests

	if len(errs) > 0 {
		return models.NewReservation{}, errs
	}
	return res, nil
}

func sanitized(s *string) *string {
	if s == nil {
		return nil
	}
	clean := validation.Sanitize(*s)
	if clean == "" {
		return nil
	}
	return &clean
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(time.DateOnly, s); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), nil
}

// parseTime accepts H:MM, HH:MM and HH:MM:SS and returns the zero-padded
// HH:MM form with its hour.
func parseTime(s string) (string, int, error) {
	s = strings.TrimSpace(s)
	if m := timeSecondsPattern.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	if !timePattern.MatchString(s) {
		return "", 0, fmt.Errorf("invalid time %q", s)
	}

	hour, minute, _ := strings.Cut(s, ":")
	h, err := strconv.Atoi(hour)
	if err != nil {
		return "", 0, err
	}
	return fmt.Sprintf("%02d:%s", h, minute), h, nil
}

// parseGuests accepts any integral JSON number (4, 4.0, 4e0) or a string of
// decimal digits.
func parseGuests(raw json.RawMessage) (int, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0, errors.New("missing guests")
	}

	var n int64
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return 0, err
		}
		v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(strings.TrimSpace(s), "-") {
			return 0, errTooManyGuests
		}
		if err != nil {
			return 0, err
		}
		n = v
	} else {
		d, err := decimal.NewFromString(string(trimmed))
		if err != nil {
			return 0, err
		}
		if !d.IsInteger() || d.Sign() <= 0 {
			return 0, fmt.Errorf("guests must be an integer greater than 0: %s", d)
		}
		if d.GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
			return 0, errTooManyGuests
		}
		n = d.IntPart()
	}

	if n <= 0 {
		return 0, fmt.Errorf("guests must be greater than 0: %d", n)
	}
	if n > math.MaxInt32 {
		return 0, errTooManyGuests
	}
	return int(n), nil
}

func rawValue(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}
