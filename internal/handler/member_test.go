package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/segyhp/family-ledger/internal/domain"
	customError "github.com/segyhp/family-ledger/pkg/errors"
)

func TestMemberHandler_Search(t *testing.T) {
	f := newFixture()
	found := []*domain.Member{{ID: uuid.New(), FullName: "أحمد"}}
	f.payments.On("SearchMembers", mock.Anything, "أحمد", defaultSearchLimit).Return(found, nil).Once()
	f.payments.On("SearchMembers", mock.Anything, "05", maxSearchLimit).Return([]*domain.Member{}, nil).Once()
	f.payments.On("SearchMembers", mock.Anything, "a", defaultSearchLimit).
		Return(nil, customError.WrapInvalidField("q", "must be at least 2 characters")).Once()

	w, env := f.do(t, http.MethodGet, "/api/v1/members/search?q=%D8%A3%D8%AD%D9%85%D8%AF", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), found[0].ID.String())

	w, _ = f.do(t, http.MethodGet, "/api/v1/members/search?q=05&limit=1000", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = f.do(t, http.MethodGet, "/api/v1/members/search?q=a", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Fields, "q")

	f.payments.AssertExpectations(t)
}

func TestMemberHandler_Eligibility(t *testing.T) {
	f := newFixture()
	id := uuid.New()
	f.payments.On("MemberEligibility", mock.Anything, id.String()).Return(&domain.EligibilityResponse{
		MemberID:          id,
		Balance:           domain.AmountFromInt(50),
		MinimumBalance:    domain.AmountFromInt(100),
		HasMinimumBalance: false,
		Active:            true,
	}, nil).Once()
	f.payments.On("MemberEligibility", mock.Anything, "nobody").Return(nil, customError.WrapMemberNotFound("nobody")).Once()

	w, env := f.do(t, http.MethodGet, "/api/v1/members/"+id.String()+"/eligibility", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"has_minimum_balance":false`)

	w, _ = f.do(t, http.MethodGet, "/api/v1/members/nobody/eligibility", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	f.payments.AssertExpectations(t)
}
