package receipt

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/segyhp/family-ledger/internal/domain"
)

// SpellAmount transcribes an amount in riyals and halalas in both languages.
// Amounts above domain.MaxAmount are written as digits.
func SpellAmount(amount decimal.Decimal) domain.AmountInWords {
	amount = amount.Abs().Round(2)
	if amount.GreaterThan(domain.MaxAmount) {
		digits := amount.StringFixed(2)
		return domain.AmountInWords{Ar: digits, En: digits}
	}
	riyals := amount.Truncate(0)
	halalas := amount.Sub(riyals).Shift(2).IntPart()

	return domain.AmountInWords{
		Ar: arabicAmount(riyals.IntPart(), halalas),
		En: englishAmount(riyals.IntPart(), halalas),
	}
}

var enOnes = []string{
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
	"seventeen", "eighteen", "nineteen",
}

var enTens = []string{"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety"}

var enScales = []string{"", "thousand", "million", "billion", "trillion"}

func englishAmount(riyals, halalas int64) string {
	words := englishNumber(riyals) + " " + plural(riyals, "riyal", "riyals")
	if halalas > 0 {
		words += " and " + englishNumber(halalas) + " " + plural(halalas, "halala", "halalas")
	}
	return words + " only"
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func englishNumber(n int64) string {
	if n == 0 {
		return enOnes[0]
	}

	var parts []string
	for scale := 0; n > 0 && scale < len(enScales); scale++ {
		group := int(n % 1000)
		n /= 1000
		if group == 0 {
			continue
		}
		words := englishBelowThousand(group)
		if enScales[scale] != "" {
			words += " " + enScales[scale]
		}
		parts = append([]string{words}, parts...)
	}
	return strings.Join(parts, " ")
}

func englishBelowThousand(n int) string {
	var parts []string
	if h := n / 100; h > 0 {
		parts = append(parts, enOnes[h]+" hundred")
	}
	switch r := n % 100; {
	case r == 0:
	case r < 20:
		parts = append(parts, enOnes[r])
	case r%10 == 0:
		parts = append(parts, enTens[r/10])
	default:
		parts = append(parts, enTens[r/10]+"-"+enOnes[r%10])
	}
	return strings.Join(parts, " ")
}

var arOnes = []string{
	"صفر", "واحد", "اثنان", "ثلاثة", "أربعة", "خمسة", "ستة", "سبعة", "ثمانية", "تسعة",
	"عشرة", "أحد عشر", "اثنا عشر", "ثلاثة عشر", "أربعة عشر", "خمسة عشر", "ستة عشر",
	"سبعة عشر", "ثمانية عشر", "تسعة عشر",
}

var arTens = []string{"", "", "عشرون", "ثلاثون", "أربعون", "خمسون", "ستون", "سبعون", "ثمانون", "تسعون"}

var arHundreds = []string{
	"", "مائة", "مائتان", "ثلاثمائة", "أربعمائة", "خمسمائة", "ستمائة", "سبعمائة", "ثمانمائة", "تسعمائة",
}

// arScale holds the singular, dual and plural (3-10) forms of a power of
// a thousand.
type arScale struct {
	one    string
	two    string
	plural string
}

var arScales = []arScale{
	{},
	{"ألف", "ألفان", "آلاف"},
	{"مليون", "مليونان", "ملايين"},
	{"مليار", "ملياران", "مليارات"},
	{"تريليون", "تريليونان", "تريليونات"},
}

// arNoun holds the forms a counted noun takes after a number.
type arNoun struct {
	one        string
	oneNumeral string
	two        string
	plural     string
	accusative string
}

var (
	arRiyal  = arNoun{"ريال", "واحد", "ريالان", "ريالات", "ريالاً"}
	arHalala = arNoun{"هللة", "واحدة", "هللتان", "هللات", "هللةً"}
)

func arabicAmount(riyals, halalas int64) string {
	words := "فقط " + arabicCounted(riyals, arRiyal)
	if halalas > 0 {
		words += " و" + arabicCounted(halalas, arHalala)
	}
	return words + " لا غير"
}

// arabicCounted places the noun after the number: dual for two, plural
// for three to ten and accusative singular for eleven to ninety-nine.
func arabicCounted(n int64, noun arNoun) string {
	switch n {
	case 1:
		return noun.one + " " + noun.oneNumeral
	case 2:
		return noun.two
	}

	form := noun.one
	switch r := n % 100; {
	case r >= 3 && r <= 10:
		form = noun.plural
	case r >= 11:
		form = noun.accusative
	}
	return arabicNumber(n) + " " + form
}

func arabicNumber(n int64) string {
	if n == 0 {
		return arOnes[0]
	}

	var parts []string
	for scale := 0; n > 0 && scale < len(arScales); scale++ {
		group := int(n % 1000)
		n /= 1000
		if group == 0 {
			continue
		}
		parts = append([]string{arabicGroup(group, arScales[scale])}, parts...)
	}
	return strings.Join(parts, " و")
}

func arabicGroup(n int, scale arScale) string {
	if scale.one == "" {
		return arabicBelowThousand(n)
	}
	switch {
	case n == 1:
		return scale.one
	case n == 2:
		return scale.two
	case n <= 10:
		return arabicBelowThousand(n) + " " + scale.plural
	default:
		return arabicBelowThousand(n) + " " + scale.one
	}
}

func arabicBelowThousand(n int) string {
	var parts []string
	if h := n / 100; h > 0 {
		parts = append(parts, arHundreds[h])
	}
	switch r := n % 100; {
	case r == 0:
	case r < 20:
		parts = append(parts, arOnes[r])
	case r%10 == 0:
		parts = append(parts, arTens[r/10])
	default:
		parts = append(parts, arOnes[r%10]+" و"+arTens[r/10])
	}
	return strings.Join(parts, " و")
}
