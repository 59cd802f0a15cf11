package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/cancellation"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/order"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func fastConfig() Config {
	cfg := DefaultConfig
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond
	return cfg
}

func TestIsRetryableError(t *testing.T) {
	cfg := DefaultConfig

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"order version conflict", order.NewConcurrentModificationError("o1"), true},
		{"ledger version conflict", fmt.Errorf("save: %w", cancellation.NewConcurrentModificationError("r1")), true},
		{"mysql deadlock", &mysqlDriver.MySQLError{Number: 1213}, true},
		{"mysql lock timeout", &mysqlDriver.MySQLError{Number: 1205}, true},
		{"mysql duplicate", &mysqlDriver.MySQLError{Number: 1062}, false},
		{"pg serialization", &pgconn.PgError{Code: "40001"}, true},
		{"pg deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"pg unique", &pgconn.PgError{Code: "23505"}, false},
		{"gorm duplicate", gorm.ErrDuplicatedKey, false},
		{"already pending", cancellation.NewAlreadyPendingError("o1"), false},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryableError(tt.err, cfg))
		})
	}

	cfg.RetryOnDeadlock = false
	assert.False(t, IsRetryableError(&mysqlDriver.MySQLError{Number: 1213}, cfg))
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, IsDuplicateKey(&mysqlDriver.MySQLError{Number: 1062}))
	assert.True(t, IsDuplicateKey(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsDuplicateKey(&pgconn.PgError{Code: "40001"}))
}

func TestExecuteWithRetry(t *testing.T) {
	t.Run("retries conflicts then succeeds", func(t *testing.T) {
		calls := 0
		err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return order.NewConcurrentModificationError("o1")
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("terminal errors are not retried", func(t *testing.T) {
		calls := 0
		err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
			calls++
			return cancellation.NewAlreadyPendingError("o1")
		})
		assert.ErrorIs(t, err, cancellation.ErrAlreadyPending)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
			calls++
			return order.NewConcurrentModificationError("o1")
		})
		assert.ErrorIs(t, err, order.ErrConcurrentModification)
		assert.Equal(t, DefaultConfig.MaxAttempts, calls)
	})

	t.Run("custom predicate", func(t *testing.T) {
		transient := errors.New("transient")
		cfg := fastConfig()
		cfg.RetryPredicate = func(err error) bool { return errors.Is(err, transient) }
		calls := 0
		_ = ExecuteWithRetry(context.Background(), cfg, func(ctx context.Context) error {
			calls++
			return transient
		})
		assert.Equal(t, cfg.MaxAttempts, calls)
	})
}

func TestExponentialBackoffWithJitter(t *testing.T) {
	cfg := DefaultConfig
	cfg.JitterEnabled = false
	assert.Equal(t, time.Duration(0), ExponentialBackoffWithJitter(0, cfg))
	assert.Equal(t, 100*time.Millisecond, ExponentialBackoffWithJitter(1, cfg))
	assert.Equal(t, 200*time.Millisecond, ExponentialBackoffWithJitter(2, cfg))
	assert.Equal(t, 2*time.Second, ExponentialBackoffWithJitter(10, cfg))
}
