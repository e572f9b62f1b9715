// Package discount decides which product discount is active at a given time
// and applies it to a price.
package discount

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"

	"price-manager/pkg/pricing"
)

// DefaultSchedule matches every minute.
const DefaultSchedule = "* * * * *"

// PeriodLayout is the wire format of period bounds, e.g. 31-12-2025T23:59:59Z.
const PeriodLayout = "02-01-2006T15:04:05Z"

// Discount is a percentage adjustment: positive percent is a markup capped
// from above, negative percent is a discount floored from below.
type Discount struct {
	Percent  decimal.NullDecimal `json:"percent"`
	Cap      Amount              `json:"cap"`
	Schedule string              `json:"shedule,omitempty"`
	Period   *Period             `json:"period,omitempty"`
}

// Amount is decimal text that unmarshals from a JSON string or number. Any
// other JSON value is kept verbatim so Validate can report it.
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*a = Amount(n.String())
		return nil
	}
	*a = Amount(data)
	return nil
}

// Period bounds when a discount may apply. Both bounds are UTC.
type Period struct {
	Start string `json:"datetime_start"`
	End   string `json:"datetime_end"`
}

func (d Discount) schedule() string {
	if d.Schedule == "" {
		return DefaultSchedule
	}
	return d.Schedule
}

// Active returns the first discount that is inside its period and whose
// schedule fires in the minute containing now, or nil.
func Active(discounts []Discount, now time.Time) *Discount {
	for i := range discounts {
		if IsActive(discounts[i], now) {
			return &discounts[i]
		}
	}
	return nil
}

// IsActive reports whether d applies at now.
func IsActive(d Discount, now time.Time) bool {
	now = now.UTC()
	return withinPeriod(d.Period, now) && scheduleMatches(d.schedule(), now)
}

func withinPeriod(p *Period, now time.Time) bool {
	if p == nil || p.Start == "" || p.End == "" {
		return true
	}
	start, err := time.Parse(PeriodLayout, p.Start)
	if err != nil {
		return false
	}
	end, err := time.Parse(PeriodLayout, p.End)
	if err != nil {
		return false
	}
	return !now.Before(start) && !now.After(end)
}

// scheduleMatches treats an unparseable schedule as always firing.
func scheduleMatches(expr string, now time.Time) bool {
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return true
	}
	minute := now.Truncate(time.Minute)
	return sched.Next(minute.Add(-time.Second)).Equal(minute)
}

// Apply adjusts base by d and rounds the result. base should be unrounded so
// the price is rounded once. A nil discount returns base unchanged.
func Apply(base decimal.Decimal, d *Discount) decimal.Decimal {
	if d == nil {
		return base
	}
	percent := d.Percent.Decimal
	price := pricing.Calculate(base, percent)

	if limit, err := pricing.ParseDecimal("cap", string(d.Cap)); err == nil && limit.IsPositive() {
		switch {
		case percent.IsPositive():
			price = decimal.Min(price, limit)
		case percent.IsNegative():
			price = decimal.Max(price, limit)
		}
	}
	return pricing.Round(price)
}

// Validate returns every problem found in d; an empty result means d is valid.
func Validate(d Discount) []string {
	var errs []string
	if !d.Percent.Valid {
		errs = append(errs, "missing 'percent' field")
	} else if !pricing.InBounds(d.Percent.Decimal) {
		errs = append(errs, "'percent' is out of range")
	}
	if d.Cap == "" {
		errs = append(errs, "missing 'cap' field")
	} else if _, err := pricing.ParseDecimal("cap", string(d.Cap)); err != nil {
		errs = append(errs, "'cap' must be a number")
	}
	if _, err := cron.ParseStandard(d.schedule()); err != nil {
		errs = append(errs, fmt.Sprintf("invalid cron schedule: %s", d.schedule()))
	}
	if d.Period != nil {
		if d.Period.Start != "" {
			if _, err := time.Parse(PeriodLayout, d.Period.Start); err != nil {
				errs = append(errs, fmt.Sprintf("invalid datetime_start format: %s", d.Period.Start))
			}
		}
		if d.Period.End != "" {
			if _, err := time.Parse(PeriodLayout, d.Period.End); err != nil {
				errs = append(errs, fmt.Sprintf("invalid datetime_end format: %s", d.Period.End))
			}
		}
	}
	return errs
}

// Decode parses a stored JSON list of discounts. Empty or invalid input
// yields an empty list; malformed entries are skipped.
func Decode(raw string) []Discount {
	if raw == "" {
		return []Discount{}
	}
	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return []Discount{}
	}
	discounts := make([]Discount, 0, len(entries))
	for _, entry := range entries {
		var d Discount
		if err := json.Unmarshal(entry, &d); err != nil {
			continue
		}
		discounts = append(discounts, d)
	}
	return discounts
}

// Encode renders discounts as a JSON list.
func Encode(discounts []Discount) (string, error) {
	if discounts == nil {
		discounts = []Discount{}
	}
	b, err := json.Marshal(discounts)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
