package logger

import (
	"testing"

	"github.com/earthbucks/ebxnode/stores/utxo/memory"
	"github.com/earthbucks/ebxnode/stores/utxo/tests"
	"github.com/earthbucks/ebxnode/ulogger"
)

func TestLoggerStore(t *testing.T) {
	t.Run("logged memory store", func(t *testing.T) {
		tests.Store(t, New(ulogger.NewVerboseTestLogger(t), memory.New(ulogger.TestLogger{})))
	})

	t.Run("logged memory batch", func(t *testing.T) {
		tests.Batch(t, New(ulogger.NewVerboseTestLogger(t), memory.New(ulogger.TestLogger{})))
	})
}
