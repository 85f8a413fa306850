package domain

// HijriDate is a converted calendar value. It is never persisted on its
// own; payments keep a copy of its fields.
type HijriDate struct {
	Year            int    `json:"year"`
	Month           int    `json:"month"`
	Day             int    `json:"day"`
	MonthName       string `json:"month_name"`
	FormattedString string `json:"formatted_string"`
}

// HijriMonth describes one month of the Hijri year.
type HijriMonth struct {
	Index  int    `json:"index"`
	NameAr string `json:"name_ar"`
	NameEn string `json:"name_en"`
}

// MonthProperties is the display data for a month number.
type MonthProperties struct {
	NameAr string `json:"name_ar"`
	NameEn string `json:"name_en"`
}

// HijriMonthGroup collects the payments of one Hijri month.
type HijriMonthGroup struct {
	Key       string     `json:"key"`
	MonthName string     `json:"month_name"`
	Year      int        `json:"year"`
	Month     int        `json:"month"`
	Payments  []*Payment `json:"payments"`
	Subtotal  Amount     `json:"subtotal"`
}
