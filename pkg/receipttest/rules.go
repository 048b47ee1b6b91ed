package receipttest

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

var (
	rxPrice = regexp.MustCompile(`^(\d+)\.(\d{2})$`)
)

type receipt struct {
	Retailer     string `json:"retailer"`
	PurchaseDate string `json:"purchaseDate"`
	PurchaseTime string `json:"purchaseTime"`
	Items        []item `json:"items"`
	Total        string `json:"total"`
}

type item struct {
	ShortDescription string `json:"shortDescription"`
	Price            string `json:"price"`
}

func cents(price string) (int, error) {
	m := rxPrice.FindStringSubmatch(price)
	if m == nil {
		return 0, fmt.Errorf("invalid price (%s)", price)
	}
	dollars, _ := strconv.Atoi(m[1])
	c, _ := strconv.Atoi(m[2])
	return dollars*100 + c, nil
}

func (r receipt) validate() error {
	var errs []error

	if strings.TrimSpace(r.Retailer) == "" {
		errs = append(errs, errors.New("retailer cannot be empty"))
	}
	if _, err := time.Parse(time.DateOnly, r.PurchaseDate); err != nil {
		errs = append(errs, fmt.Errorf("purchaseDate cannot be parsed (%s)", r.PurchaseDate))
	}
	if _, err := time.Parse("15:04", r.PurchaseTime); err != nil {
		errs = append(errs, fmt.Errorf("purchaseTime cannot be parsed (%s)", r.PurchaseTime))
	}
	if len(r.Items) == 0 {
		errs = append(errs, errors.New("items cannot be empty"))
	}

	sum := 0
	for i, it := range r.Items {
		if strings.TrimSpace(it.ShortDescription) == "" {
			errs = append(errs, fmt.Errorf("item %d shortDescription cannot be empty", i))
		}
		c, err := cents(it.Price)
		if err != nil {
			errs = append(errs, fmt.Errorf("item %d: %w", i, err))
			continue
		}
		sum += c
	}

	total, err := cents(r.Total)
	if err != nil {
		errs = append(errs, fmt.Errorf("total: %w", err))
	} else if total != sum {
		errs = append(errs, fmt.Errorf("sum of item prices (%d.%02d) != total (%s)", sum/100, sum%100, r.Total))
	}

	return errors.Join(errs...)
}

// score must only be called on a receipt that passed validate.
func (r receipt) score() (int, []string) {
	var (
		total     int
		breakdown []string
	)
	add := func(points int, format string, args ...any) {
		total += points
		breakdown = append(breakdown, fmt.Sprintf("%d points for "+format, append([]any{points}, args...)...))
	}

	alnum := 0
	for _, ch := range r.Retailer {
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) {
			alnum++
		}
	}
	add(alnum, "retailer name (%s)", r.Retailer)

	totalCents, _ := cents(r.Total)
	add(pick(totalCents%100 == 0, 50), "round dollar amount (%s)", r.Total)
	add(pick(totalCents%25 == 0, 25), "total being a multiple of 0.25 (%s)", r.Total)
	add(len(r.Items)/2*5, "number of items (%d)", len(r.Items))

	for _, it := range r.Items {
		points := 0
		if len(strings.TrimSpace(it.ShortDescription))%3 == 0 {
			c, _ := cents(it.Price)
			// ceil(price * 0.2)
			points = (c + 499) / 500
		}
		add(points, "item (%s | %s)", it.ShortDescription, it.Price)
	}

	day, _ := time.Parse(time.DateOnly, r.PurchaseDate)
	add(pick(day.Day()%2 == 1, 6), "purchase day being odd (%s)", r.PurchaseDate)

	at, _ := time.Parse("15:04", r.PurchaseTime)
	minutes := at.Hour()*60 + at.Minute()
	add(pick(minutes > 14*60 && minutes < 16*60, 10), "time of purchase between 2pm and 4pm (%s)", r.PurchaseTime)

	return total, breakdown
}

func pick(ok bool, points int) int {
	if ok {
		return points
	}
	return 0
}
