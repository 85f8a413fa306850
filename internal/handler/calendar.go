package handler

import (
	"net/http"

	"github.com/segyhp/family-ledger/internal/domain"
	"github.com/segyhp/family-ledger/internal/hijri"
	customError "github.com/segyhp/family-ledger/pkg/errors"
	"github.com/segyhp/family-ledger/pkg/response"
	"github.com/segyhp/family-ledger/pkg/utils"
)

const (
	defaultYearSpan = 5
	maxYearSpan     = 50
)

type CalendarHandler struct {
	calendar *hijri.Manager
	debug    bool
}

func NewCalendarHandler(calendar *hijri.Manager, debug bool) *CalendarHandler {
	return &CalendarHandler{calendar: calendar, debug: debug}
}

type CurrentDate struct {
	Hijri            domain.HijriDate `json:"hijri"`
	HijriDisplay     string           `json:"hijri_display"`
	Gregorian        string           `json:"gregorian"`
	GregorianDisplay string           `json:"gregorian_display"`
}

// Current handles GET /api/v1/hijri/current
func (h *CalendarHandler) Current(w http.ResponseWriter, r *http.Request) {
	now := h.calendar.Now()
	today := h.calendar.ConvertToHijri(now)

	response.Success(w, CurrentDate{
		Hijri:            today,
		HijriDisplay:     hijri.FormatHijriDisplay(today.FormattedString),
		Gregorian:        now.In(h.calendar.Location()).Format("2006-01-02"),
		GregorianDisplay: h.calendar.FormatGregorian(now),
	})
}

// Months handles GET /api/v1/hijri/months
func (h *CalendarHandler) Months(w http.ResponseWriter, r *http.Request) {
	response.Success(w, hijri.Months())
}

// Years handles GET /api/v1/hijri/years?span=n
func (h *CalendarHandler) Years(w http.ResponseWriter, r *http.Request) {
	span, err := utils.ParseInt(r.URL.Query().Get("span"), defaultYearSpan)
	if err != nil || span < 0 || span > maxYearSpan {
		response.FromError(w, customError.WrapInvalidField("span", "must be between 0 and 50"), h.debug)
		return
	}

	response.Success(w, h.calendar.YearRange(span))
}
