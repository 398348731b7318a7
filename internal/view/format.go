package view

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency is the taka sign printed before amounts.
const Currency = "৳"

var bengaliDigits = strings.NewReplacer(
	"0", "০", "1", "১", "2", "২", "3", "৩", "4", "৪",
	"5", "৫", "6", "৬", "7", "৭", "8", "৮", "9", "৯",
)

var grouping = message.NewPrinter(language.English)

// Digits replaces ASCII digits with Bengali digits.
func Digits(s string) string {
	return bengaliDigits.Replace(s)
}

// Number formats d with thousands grouping and up to two decimals, in
// Bengali digits.
func Number(d decimal.Decimal) string {
	return Digits(grouping.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.MaxFractionDigits(2))))
}

// Amount formats d as a taka amount.
func Amount(d decimal.Decimal) string {
	return Currency + " " + Number(d)
}

// Int formats a count in Bengali digits.
func Int(n int) string {
	return Number(decimal.NewFromInt(int64(n)))
}

var monthNames = [...]string{
	"জানুয়ারী", "ফেব্রুয়ারী", "মার্চ", "এপ্রিল", "মে", "জুন",
	"জুলাই", "আগস্ট", "সেপ্টেম্বর", "অক্টোবর", "নভেম্বর", "ডিসেম্বর",
}

var weekdayNames = [...]string{
	"রবিবার", "সোমবার", "মঙ্গলবার", "বুধবার", "বৃহস্পতিবার", "শুক্রবার", "শনিবার",
}

// Date formats t as "18 অক্টোবর, 2026" in Bengali digits.
func Date(t time.Time) string {
	return Digits(t.Format("2")) + " " + monthNames[t.Month()-1] + ", " + Digits(t.Format("2006"))
}

// LongDate prefixes Date with the weekday.
func LongDate(t time.Time) string {
	return weekdayNames[t.Weekday()] + ", " + Date(t)
}

// Month formats a YYYY-MM key as "অক্টোবর 2026".
func Month(key string) string {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return key
	}
	return monthNames[t.Month()-1] + " " + Digits(t.Format("2006"))
}

// Clock formats the time of day on a 12-hour clock.
func Clock(t time.Time) string {
	suffix := "AM"
	if t.Hour() >= 12 {
		suffix = "PM"
	}
	return Digits(t.Format("03:04")) + " " + suffix
}

// Greeting is the dashboard salutation; Fridays get their own.
func Greeting(t time.Time) string {
	if t.Weekday() == time.Friday {
		return "জুম্মা মোবারক"
	}
	return "আসসালামু আলাইকুম"
}

// Period names the part of the day.
func Period(t time.Time) string {
	switch h := t.Hour(); {
	case h >= 5 && h < 11:
		return "এখন সকাল"
	case h >= 11 && h < 16:
		return "এখন দুপুর"
	case h >= 16 && h < 18:
		return "এখন বিকেল"
	}
	return "এখন রাত"
}
