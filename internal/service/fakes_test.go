package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/segyhp/family-ledger/internal/domain"
	"github.com/segyhp/family-ledger/internal/hijri"
	"github.com/segyhp/family-ledger/internal/repository"
)

// 1 Ramadan 1445
var fixedNow = time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)

func testCalendar() *hijri.Manager {
	return hijri.NewManager(time.UTC).WithClock(func() time.Time { return fixedNow })
}

func member(balance int64, status string) *domain.Member {
	return &domain.Member{
		ID:               uuid.New(),
		FullName:         "Member " + decimal.NewFromInt(balance).String(),
		Balance:          domain.AmountFromInt(balance),
		MembershipStatus: status,
	}
}

// memoryPayments is an in-process ledger used by scenario tests.
type memoryPayments struct {
	mu   sync.Mutex
	rows map[uuid.UUID]domain.Payment
}

func newMemoryPayments() *memoryPayments {
	return &memoryPayments{rows: make(map[uuid.UUID]domain.Payment)}
}

func (m *memoryPayments) Create(_ context.Context, p *domain.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.ReferenceNumber == p.ReferenceNumber {
			return repository.ErrDuplicate
		}
	}
	m.rows[p.ID] = *p
	return nil
}

func (m *memoryPayments) GetByID(_ context.Context, id uuid.UUID) (*domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &row, nil
}

func (m *memoryPayments) List(_ context.Context, filter domain.PaymentFilter) ([]*domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Payment
	for _, row := range m.rows {
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, row.Status) {
			continue
		}
		if filter.CreatedFrom != nil && row.CreatedAt.Before(*filter.CreatedFrom) {
			continue
		}
		if filter.CreatedBefore != nil && !row.CreatedAt.Before(*filter.CreatedBefore) {
			continue
		}
		row := row
		out = append(out, &row)
	}
	return out, nil
}

func (m *memoryPayments) UpdateStatus(_ context.Context, p *domain.Payment, expectedVersion int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[p.ID]
	if !ok || row.Version != expectedVersion {
		return repository.ErrVersionConflict
	}
	p.Version = expectedVersion + 1
	p.UpdatedAt = fixedNow
	m.rows[p.ID] = *p
	return nil
}

func containsStatus(list []domain.Status, s domain.Status) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

type memoryMembers struct {
	rows map[uuid.UUID]*domain.Member
}

func newMemoryMembers(members ...*domain.Member) *memoryMembers {
	m := &memoryMembers{rows: make(map[uuid.UUID]*domain.Member)}
	for _, mem := range members {
		m.rows[mem.ID] = mem
	}
	return m
}

func (m *memoryMembers) GetByID(_ context.Context, id uuid.UUID) (*domain.Member, error) {
	mem, ok := m.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return mem, nil
}

func (m *memoryMembers) Search(_ context.Context, _ string, _ int) ([]*domain.Member, error) {
	out := make([]*domain.Member, 0, len(m.rows))
	for _, mem := range m.rows {
		out = append(out, mem)
	}
	return out, nil
}

func errNoRows() error {
	return sql.ErrNoRows
}
