package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"go.uber.org/zap"

	customError "github.com/segyhp/family-ledger/pkg/errors"
)

const (
	referenceAlphabet   = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	referenceRandomLen  = 4
	referenceMaxAttempt = 5
)

// ReferenceReserver claims a reference number before it is written.
type ReferenceReserver interface {
	Reserve(ctx context.Context, reference string) (bool, error)
}

// ReferenceGenerator issues "<PREFIX>-<timestamp suffix>-<random>" numbers.
type ReferenceGenerator struct {
	prefix   string
	reserver ReferenceReserver
	now      func() time.Time
	logger   *zap.Logger
}

func NewReferenceGenerator(prefix string, reserver ReferenceReserver, now func() time.Time, logger *zap.Logger) *ReferenceGenerator {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReferenceGenerator{prefix: prefix, reserver: reserver, now: now, logger: logger}
}

// Next returns a fresh reference. When a reserver is configured the number
// is claimed first; a reserver outage is logged and the unique index on the
// payments table remains the last line of defence.
func (g *ReferenceGenerator) Next(ctx context.Context) (string, error) {
	for attempt := 0; attempt < referenceMaxAttempt; attempt++ {
		ref, err := g.candidate()
		if err != nil {
			return "", customError.WrapStoreError(err)
		}
		if g.reserver == nil {
			return ref, nil
		}

		ok, err := g.reserver.Reserve(ctx, ref)
		if err != nil {
			g.logger.Warn("reference reservation unavailable", zap.String("reference", ref), zap.Error(err))
			return ref, nil
		}
		if ok {
			return ref, nil
		}
		g.logger.Debug("reference already reserved", zap.String("reference", ref), zap.Int("attempt", attempt+1))
	}
	return "", customError.WrapConflict("could not allocate a unique reference number")
}

func (g *ReferenceGenerator) candidate() (string, error) {
	buf := make([]byte, referenceRandomLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = referenceAlphabet[int(b)%len(referenceAlphabet)]
	}
	suffix := g.now().UnixMilli() % 100000000
	return fmt.Sprintf("%s-%08d-%s", g.prefix, suffix, buf), nil
}
